package health

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
)

var ready atomic.Bool

// SetReady flips the global readiness flag. The server marks itself ready
// after the catalog and registries load, and not-ready when shutdown begins so
// the load balancer drains before connections close.
func SetReady(v bool) {
	ready.Store(v)
}

// Checker reports the state of startup-loaded data.
type Checker interface {
	CatalogSize() int
	PromotionCount() int
}

// Handler exposes HTTP handlers for health endpoints.
type Handler struct {
	Checker Checker
}

// Live reports liveness status.
func (h Handler) Live(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Ready reports readiness. The service has no runtime dependencies; readiness
// means the in-memory data loaded at startup and shutdown has not begun.
func (h Handler) Ready(w http.ResponseWriter, _ *http.Request) {
	status := map[string]any{"ready": ready.Load()}
	if h.Checker != nil {
		status["catalog_products"] = h.Checker.CatalogSize()
		status["promotions"] = h.Checker.PromotionCount()
		if h.Checker.CatalogSize() == 0 {
			status["ready"] = false
		}
	}
	w.Header().Set("Content-Type", "application/json")
	if status["ready"] != true {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	_ = json.NewEncoder(w).Encode(status)
}
