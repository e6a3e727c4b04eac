package notifications

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"crewledger/internal/domain/notifications"
	"crewledger/internal/transport/http/api"
	"crewledger/internal/transport/http/middleware"
)

type Handler struct {
	Feed *notifications.Feed
}

func NewHandler(feed *notifications.Feed) *Handler {
	return &Handler{Feed: feed}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/notifications", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Get("/unread-count", h.handleUnreadCount)
		r.Post("/{notificationID}/read", h.handleMarkRead)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	unreadOnly := r.URL.Query().Get("unread") == "true"
	api.Success(w, h.Feed.List(unreadOnly), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUnreadCount(w http.ResponseWriter, r *http.Request) {
	api.Success(w, map[string]int{"unread": h.Feed.Unread()}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	if !h.Feed.MarkRead(chi.URLParam(r, "notificationID")) {
		api.Fail(w, http.StatusNotFound, "not_found", "notification not found", reqID)
		return
	}
	api.Success(w, map[string]string{"status": "read"}, reqID)
}
