package proposal

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/proposal-api/internal/catalog"
	"github.com/noah-isme/proposal-api/internal/common"
	"github.com/noah-isme/proposal-api/internal/pricing"
	"github.com/noah-isme/proposal-api/internal/promo"
)

var (
	// ErrEmptySelection means no requested line survived resolution, either
	// because nothing was selected or every id was unknown.
	ErrEmptySelection = common.NewAppError("EMPTY_SELECTION", "no valid products selected", http.StatusBadRequest, nil)

	// ErrUnknownPromotion means the deal id matched no registered promotion.
	ErrUnknownPromotion = common.NewAppError("NOT_FOUND", "promotion not found", http.StatusNotFound, nil)

	// ErrImplantTypeRequired means the chosen promotion needs an implant type
	// and the request did not carry one.
	ErrImplantTypeRequired = common.NewAppError("VALIDATION", "this promotion requires an implant type", http.StatusBadRequest, nil)

	// ErrUnknownKit means a requested BOM matched no registered kit.
	ErrUnknownKit = common.NewAppError("NOT_FOUND", "kit not found", http.StatusNotFound, nil)
)

// Document is a fully assembled proposal, ready for preview or rendering.
// The pricing totals are embedded so preview payloads expose items, listTotal,
// finalTotal and discountAmount at the top level.
type Document struct {
	ProposalID  string    `json:"proposalId"`
	Title       string    `json:"title"`
	AccountName string    `json:"accountName"`
	RepName     string    `json:"repName,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	DealID      string    `json:"dealId,omitempty"`
	Date        time.Time `json:"date"`
	pricing.Proposal
	SkippedIDs []string `json:"skippedIds,omitempty"`
}

// Service assembles proposal documents from the catalog, the discount group
// mapping and the promotion/kit registries. All fields are required except
// Now, which defaults to time.Now and exists for deterministic tests.
type Service struct {
	Store  *catalog.Store
	Groups pricing.DiscountGroups
	Promos *promo.Registry
	Kits   *promo.KitRegistry
	Logger zerolog.Logger
	Now    func() time.Time
}

// BuildCustom prices an ad-hoc selection. Unknown product ids are skipped and
// reported in the document rather than failing the whole request; zero
// quantities mean "not selected". Group discounts outside the resolved
// mapping fall back to the catch-all group, and a group without a requested
// discount prices at list.
func (s *Service) BuildCustom(req CustomRequest) (Document, error) {
	spec := req.discountSpec()

	var lines []pricing.LineItem
	var skipped []string
	for _, item := range req.Items {
		if item.Qty <= 0 {
			continue
		}
		snap, ok := s.Store.Find(item.ProductID)
		if !ok {
			skipped = append(skipped, item.ProductID)
			continue
		}
		group := s.Groups.Resolve(snap.Category)
		lines = append(lines, pricing.PriceLine(snap, item.Qty, spec.EffectivePercent(group)))
	}
	if len(lines) == 0 {
		return Document{}, ErrEmptySelection
	}
	if len(skipped) > 0 {
		s.Logger.Warn().
			Strs("product_ids", skipped).
			Int("count", len(skipped)).
			Msg("skipped unknown products in custom proposal")
	}

	doc := s.newDocument("Custom Sales Offer", req.AccountName, req.RepName, req.Notes, lines)
	doc.SkippedIDs = skipped
	return doc, nil
}

// BuildPromotion expands a registered deal into a priced document. The chosen
// discount is clamped to the promotion cap before pricing; custom proposals
// are intentionally not subject to that cap.
func (s *Service) BuildPromotion(req PromotionRequest) (Document, error) {
	rule, ok := s.Promos.Find(req.DealID)
	if !ok {
		return Document{}, ErrUnknownPromotion
	}
	if rule.NeedsImplantType && req.ImplantType == "" {
		return Document{}, ErrImplantTypeRequired
	}

	in := promo.ApplyInput{
		ImplantType:      req.ImplantType,
		ImplantUnitPrice: decimal.NewFromFloat(req.ImplantUnitPrice),
	}
	if rule.NeedsDiscount {
		in.DiscountPercent = promo.ClampDiscount(decimal.NewFromFloat(req.DiscountPercent))
	}

	lines := promo.Apply(rule, in)
	if len(lines) == 0 {
		return Document{}, ErrEmptySelection
	}

	doc := s.newDocument(rule.Name, req.AccountName, req.RepName, req.Notes, lines)
	doc.DealID = rule.ID
	return doc, nil
}

// BuildKit quotes one or more surgical kits at BOM prices. Every requested
// BOM must exist; a typo in a kit quote is an error, not a skip, because kits
// are picked from a fixed list rather than free-typed like catalog ids.
func (s *Service) BuildKit(req KitRequest) (Document, error) {
	var lines []pricing.LineItem
	for _, bom := range req.BOMs {
		kit, ok := s.Kits.Find(bom)
		if !ok {
			return Document{}, ErrUnknownKit
		}
		lines = append(lines, kit.Expand(req.IncludeAddons)...)
	}
	if len(lines) == 0 {
		return Document{}, ErrEmptySelection
	}
	return s.newDocument("PureSet Kit Quote", req.AccountName, req.RepName, req.Notes, lines), nil
}

func (s *Service) newDocument(title, account, rep, notes string, lines []pricing.LineItem) Document {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	return Document{
		ProposalID:  uuid.NewString(),
		Title:       title,
		AccountName: account,
		RepName:     rep,
		Notes:       notes,
		Date:        now(),
		Proposal:    pricing.Aggregate(lines),
	}
}
