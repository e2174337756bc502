package http

import (
	"net/http"
	"strconv"

	"keyportal-backend/internal/domain"
	"keyportal-backend/internal/service"
)

type NotificationHandler struct {
	notificationSvc service.NotificationService
}

func NewNotificationHandler(notificationSvc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationSvc: notificationSvc}
}

func (h *NotificationHandler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	claims := OperatorFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing operator context"})
		return
	}

	page := queryInt32(r, "page", 1)
	pageSize := queryInt32(r, "pageSize", 20)

	notifications, total, err := h.notificationSvc.GetNotifications(r.Context(), claims.OperatorID, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"notifications": notifications,
		"total":         total,
		"page":          page,
		"page_size":     pageSize,
	})
}

func (h *NotificationHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	claims := OperatorFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing operator context"})
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, domain.Validationf("invalid notification id"))
		return
	}
	if err := h.notificationSvc.MarkAsRead(r.Context(), claims.OperatorID, id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"notification_id": id})
}

func queryInt32(r *http.Request, name string, def int32) int32 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || v < 1 {
		return def
	}
	return int32(v)
}
