package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/behaviorchart/internal/behavior"
	"github.com/dukerupert/behaviorchart/internal/model"
	"github.com/dukerupert/behaviorchart/internal/store"
	"github.com/dukerupert/behaviorchart/internal/websocket"
)

// RewardHandler serves the admin page: the reward catalog and the points
// override. Every mutation redirects back to /rewards.
type RewardHandler struct {
	store    store.Store
	ledger   *behavior.Ledger
	hub      Broadcaster
	renderer *Renderer
	logger   *slog.Logger
}

func NewRewardHandler(s store.Store, ledger *behavior.Ledger, hub Broadcaster, renderer *Renderer, logger *slog.Logger) *RewardHandler {
	return &RewardHandler{
		store:    s,
		ledger:   ledger,
		hub:      hub,
		renderer: renderer,
		logger:   logger,
	}
}

func (h *RewardHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

type rewardsPage struct {
	Rewards []model.Reward
	Points  int
}

func (h *RewardHandler) Page(w http.ResponseWriter, r *http.Request) {
	rewards, err := h.store.ListRewards(r.Context())
	if err != nil {
		serverError(w, h.logger, "list rewards", err)
		return
	}
	points, err := h.store.Points(r.Context())
	if err != nil {
		serverError(w, h.logger, "get points", err)
		return
	}
	h.renderer.Render(w, "rewards.html", rewardsPage{Rewards: rewards, Points: points})
}

func (h *RewardHandler) UpdatePoints(w http.ResponseWriter, r *http.Request) {
	total, err := h.ledger.SetTotal(r.Context(), r.FormValue("points"))
	if err != nil {
		serverError(w, h.logger, "update points", err)
		return
	}
	h.logger.Info("points overridden", "total", total)
	h.broadcast(websocket.PointsUpdated(total, "override"))
	backToRewards(w, r)
}

func (h *RewardHandler) Create(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		backToRewards(w, r)
		return
	}

	reward, err := h.store.CreateReward(r.Context(), name, behavior.ParseCount(r.FormValue("cost")))
	if err != nil {
		serverError(w, h.logger, "create reward", err)
		return
	}
	h.broadcast(websocket.NewMessage(websocket.EntityReward, "created", reward.ID, nil))
	backToRewards(w, r)
}

func (h *RewardHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		backToRewards(w, r)
		return
	}

	reward, err := h.store.UpdateReward(r.Context(), id, name, behavior.ParseCount(r.FormValue("cost")))
	if err != nil {
		serverError(w, h.logger, "update reward", err)
		return
	}
	if reward != nil {
		h.broadcast(websocket.NewMessage(websocket.EntityReward, "updated", id, nil))
	}
	backToRewards(w, r)
}

func (h *RewardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.store.DeleteReward(r.Context(), id); err != nil {
		serverError(w, h.logger, "delete reward", err)
		return
	}
	h.broadcast(websocket.NewMessage(websocket.EntityReward, "deleted", id, nil))
	backToRewards(w, r)
}

func backToRewards(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/rewards", http.StatusSeeOther)
}
