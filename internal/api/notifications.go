package api

import (
	"application_review_system/internal/services"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Notifications struct {
	service services.NotificationService
	logger  *zap.SugaredLogger
}

func NewNotifications(service services.NotificationService, logger *zap.SugaredLogger) Notifications {
	return Notifications{service: service, logger: logger}
}

func (h Notifications) List(c *gin.Context) {
	notifications, err := h.service.GetNotifications(c.Request.Context(), caller(c), c.Query("unread") == "true")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, notifications)
}

func (h Notifications) UnreadCount(c *gin.Context) {
	count, err := h.service.CountUnread(c.Request.Context(), caller(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread": count})
}

func (h Notifications) MarkRead(c *gin.Context) {
	notificationID, ok := pathID(c, "notificationID")
	if !ok {
		return
	}

	if err := h.service.MarkRead(c.Request.Context(), notificationID, caller(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h Notifications) MarkAllRead(c *gin.Context) {
	count, err := h.service.MarkAllRead(c.Request.Context(), caller(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"marked": count})
}
