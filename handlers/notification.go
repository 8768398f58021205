package handlers

import (
	"net/http"

	notificationRepo "servebook/database/repository/notification"
	"servebook/middleware"
	"servebook/utils"

	"github.com/gin-gonic/gin"
)

// NotificationHandler serves the in-app notification inbox.
type NotificationHandler struct {
	Repo notificationRepo.NotificationRepository
}

func NewNotificationHandler(repo notificationRepo.NotificationRepository) *NotificationHandler {
	return &NotificationHandler{Repo: repo}
}

// ListNotificationsHandler returns the caller's notifications, newest first.
// GET /api/notifications
func (h *NotificationHandler) ListNotificationsHandler(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "missing actor", "")
		return
	}

	notifications, err := h.Repo.GetByUserID(c.Request.Context(), actor.ID)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to fetch notifications", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

// MarkReadHandler flags one notification as read.
// POST /api/notifications/:id/read
func (h *NotificationHandler) MarkReadHandler(c *gin.Context) {
	if err := h.Repo.MarkRead(c.Request.Context(), c.Param("id")); err != nil {
		utils.JSONError(c, http.StatusNotFound, "failed to mark notification read", err.Error())
		return
	}
	c.Status(http.StatusNoContent)
}

// MarkAllReadHandler flags all of the caller's notifications as read.
// POST /api/notifications/read-all
func (h *NotificationHandler) MarkAllReadHandler(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "missing actor", "")
		return
	}

	if err := h.Repo.MarkAllRead(c.Request.Context(), actor.ID); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to mark notifications read", err.Error())
		return
	}
	c.Status(http.StatusNoContent)
}
