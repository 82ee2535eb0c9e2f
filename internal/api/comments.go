package api

import (
	"application_review_system/internal/db/repositories"
	"application_review_system/internal/services"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Comments struct {
	service services.CommentService
	logger  *zap.SugaredLogger
}

func NewComments(service services.CommentService, logger *zap.SugaredLogger) Comments {
	return Comments{service: service, logger: logger}
}

func (h Comments) Create(c *gin.Context) {
	applicationID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req services.AddCommentRequest
	if !bindJSON(c, &req) {
		return
	}
	req.ApplicationID = applicationID
	req.AuthorID = caller(c)

	comment, err := h.service.AddComment(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

func (h Comments) List(c *gin.Context) {
	applicationID, ok := pathID(c, "id")
	if !ok {
		return
	}

	filter := repositories.CommentFilter{
		IncludePrivate: c.Query("include_private") == "true",
		IncludeReplies: c.DefaultQuery("include_replies", "true") == "true",
	}

	comments, err := h.service.GetComments(c.Request.Context(), applicationID, filter)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, comments)
}

func (h Comments) Edit(c *gin.Context) {
	commentID, ok := pathID(c, "commentID")
	if !ok {
		return
	}

	var req struct {
		Content string `json:"content"`
	}
	if !bindJSON(c, &req) {
		return
	}

	comment, err := h.service.EditComment(c.Request.Context(), commentID, caller(c), req.Content)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, comment)
}

func (h Comments) Delete(c *gin.Context) {
	commentID, ok := pathID(c, "commentID")
	if !ok {
		return
	}

	if err := h.service.DeleteComment(c.Request.Context(), commentID, caller(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}
