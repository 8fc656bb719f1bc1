package proposal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/proposal-api/internal/common"
	"github.com/noah-isme/proposal-api/internal/obs"
)

// Renderer turns an assembled document into downloadable bytes. Implementations
// live in internal/render; the service layer stays format-agnostic.
type Renderer interface {
	Render(doc Document) ([]byte, error)
	ContentType() string
	Ext() string
}

// Handler exposes the proposal endpoints. Each proposal kind has a preview
// variant (JSON totals for the review screen) and a generate variant that
// streams a rendered file.
type Handler struct {
	Svc           *Service
	Validate      *validator.Validate
	Renderers     map[string]Renderer
	DefaultFormat string
}

// CustomPreview handles POST /api/v1/proposals/custom/preview.
func (h *Handler) CustomPreview(w http.ResponseWriter, r *http.Request) {
	var req CustomRequest
	if !h.decode(w, r, &req) {
		return
	}
	doc, err := h.Svc.BuildCustom(req)
	h.finishPreview(w, "custom", doc, err)
}

// CustomGenerate handles POST /api/v1/proposals/custom.
func (h *Handler) CustomGenerate(w http.ResponseWriter, r *http.Request) {
	var req CustomRequest
	if !h.decode(w, r, &req) {
		return
	}
	format, rend, ok := h.renderer(w, r)
	if !ok {
		return
	}
	started := time.Now()
	doc, err := h.Svc.BuildCustom(req)
	h.finishDocument(w, "custom", format, rend, doc, err, started)
}

// PromotionPreview handles POST /api/v1/proposals/promotion/preview.
func (h *Handler) PromotionPreview(w http.ResponseWriter, r *http.Request) {
	var req PromotionRequest
	if !h.decode(w, r, &req) {
		return
	}
	doc, err := h.Svc.BuildPromotion(req)
	h.finishPreview(w, "promotion", doc, err)
}

// PromotionGenerate handles POST /api/v1/proposals/promotion.
func (h *Handler) PromotionGenerate(w http.ResponseWriter, r *http.Request) {
	var req PromotionRequest
	if !h.decode(w, r, &req) {
		return
	}
	format, rend, ok := h.renderer(w, r)
	if !ok {
		return
	}
	started := time.Now()
	doc, err := h.Svc.BuildPromotion(req)
	h.finishDocument(w, "promotion", format, rend, doc, err, started)
}

// KitPreview handles POST /api/v1/proposals/kit/preview.
func (h *Handler) KitPreview(w http.ResponseWriter, r *http.Request) {
	var req KitRequest
	if !h.decode(w, r, &req) {
		return
	}
	doc, err := h.Svc.BuildKit(req)
	h.finishPreview(w, "kit", doc, err)
}

// KitGenerate handles POST /api/v1/proposals/kit.
func (h *Handler) KitGenerate(w http.ResponseWriter, r *http.Request) {
	var req KitRequest
	if !h.decode(w, r, &req) {
		return
	}
	format, rend, ok := h.renderer(w, r)
	if !ok {
		return
	}
	started := time.Now()
	doc, err := h.Svc.BuildKit(req)
	h.finishDocument(w, "kit", format, rend, doc, err, started)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, req any) bool {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "proposal service not configured", nil)
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request payload", nil)
		return false
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(req); err != nil {
			common.JSONError(w, http.StatusBadRequest, "VALIDATION", "invalid request", validationDetails(err))
			return false
		}
	}
	return true
}

// renderer resolves the requested output format from the format query
// parameter, falling back to the handler default.
func (h *Handler) renderer(w http.ResponseWriter, r *http.Request) (string, Renderer, bool) {
	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	if format == "" {
		format = h.DefaultFormat
	}
	rend, ok := h.Renderers[format]
	if !ok {
		common.JSONError(w, http.StatusBadRequest, "VALIDATION", fmt.Sprintf("unsupported output format %q", format), nil)
		return "", nil, false
	}
	return format, rend, true
}

func (h *Handler) finishPreview(w http.ResponseWriter, kind string, doc Document, err error) {
	if err != nil {
		countGenerated(kind, "preview", "error")
		h.writeError(w, err)
		return
	}
	countSkipped(doc)
	countGenerated(kind, "preview", "ok")
	common.JSON(w, http.StatusOK, map[string]any{"data": doc})
}

func (h *Handler) finishDocument(w http.ResponseWriter, kind, format string, rend Renderer, doc Document, err error, started time.Time) {
	if err != nil {
		countGenerated(kind, format, "error")
		h.writeError(w, err)
		return
	}
	body, err := rend.Render(doc)
	if err != nil {
		countGenerated(kind, format, "error")
		h.writeError(w, err)
		return
	}
	countSkipped(doc)
	countGenerated(kind, format, "ok")
	if obs.ProposalBuildDuration != nil {
		obs.ProposalBuildDuration.WithLabelValues(kind, format).Observe(float64(time.Since(started).Milliseconds()))
	}

	w.Header().Set("Content-Type", rend.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", downloadName(doc, rend.Ext())))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		common.JSONError(w, appErr.HTTPStatus, appErr.Code, appErr.Message, appErr.Details)
		return
	}
	common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unexpected error", nil)
}

func countGenerated(kind, format, result string) {
	if obs.ProposalGeneratedTotal != nil {
		obs.ProposalGeneratedTotal.WithLabelValues(kind, format, result).Inc()
	}
}

func countSkipped(doc Document) {
	if len(doc.SkippedIDs) > 0 && obs.ProposalLinesSkippedTotal != nil {
		obs.ProposalLinesSkippedTotal.Add(float64(len(doc.SkippedIDs)))
	}
}

func validationDetails(err error) any {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	details := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		details[fe.Field()] = fe.Tag()
	}
	return details
}

// downloadName builds the attachment filename, e.g.
// Proposal_Acme_Dental_20260828.pdf.
func downloadName(doc Document, ext string) string {
	account := sanitizeFilePart(doc.AccountName)
	if account == "" {
		account = "Proposal"
	}
	return fmt.Sprintf("Proposal_%s_%s.%s", account, doc.Date.Format("20060102"), ext)
}

func sanitizeFilePart(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteRune('_')
		}
	}
	return strings.Trim(b.String(), "_")
}
