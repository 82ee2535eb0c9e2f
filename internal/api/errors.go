package api

import (
	"application_review_system/internal/services"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const validationKind = services.KindValidation

var statusByKind = map[services.ErrorKind]int{
	services.KindValidation:        http.StatusBadRequest,
	services.KindUnauthorized:      http.StatusForbidden,
	services.KindNotFound:          http.StatusNotFound,
	services.KindInvalidState:      http.StatusConflict,
	services.KindNotOpenForVoting:  http.StatusConflict,
	services.KindInsufficientVotes: http.StatusConflict,
}

func respondError(c *gin.Context, logger *zap.SugaredLogger, err error) {
	if workflowErr, ok := services.AsWorkflowError(err); ok {
		status, known := statusByKind[workflowErr.Kind]
		if !known {
			status = http.StatusInternalServerError
		}
		reasons := workflowErr.Reasons
		if reasons == nil {
			reasons = []string{}
		}
		c.JSON(status, gin.H{"err": string(workflowErr.Kind), "reasons": reasons})
		return
	}

	logger.Errorw("request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"err": "internal error"})
}

func bindJSON(c *gin.Context, request any) bool {
	if err := c.ShouldBindJSON(request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": string(validationKind), "reasons": []string{err.Error()}})
		return false
	}
	return true
}
