package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/behaviorchart/internal/behavior"
	"github.com/dukerupert/behaviorchart/internal/websocket"
)

type DashboardHandler struct {
	ledger   *behavior.Ledger
	hub      Broadcaster
	renderer *Renderer
	logger   *slog.Logger
}

func NewDashboardHandler(ledger *behavior.Ledger, hub Broadcaster, renderer *Renderer, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		ledger:   ledger,
		hub:      hub,
		renderer: renderer,
		logger:   logger,
	}
}

func (h *DashboardHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

func (h *DashboardHandler) Show(w http.ResponseWriter, r *http.Request) {
	ov, err := h.ledger.Overview(r.Context())
	if err != nil {
		serverError(w, h.logger, "load dashboard", err)
		return
	}
	h.renderer.Render(w, "index.html", ov)
}

// Act applies the posted action and redirects back to the dashboard.
// Unrecognized actions change nothing.
func (h *DashboardHandler) Act(w http.ResponseWriter, r *http.Request) {
	raw := r.FormValue("action")
	action, ok := behavior.ParseAction(raw, h.ledger.Catalog())
	if !ok {
		h.logger.Debug("ignoring unknown action", "action", raw)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	res, err := h.ledger.Apply(r.Context(), action)
	if err != nil {
		serverError(w, h.logger, "apply action", err)
		return
	}
	if res.Changed() {
		h.broadcast(websocket.PointsUpdated(res.Points, string(res.Effect)))
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
