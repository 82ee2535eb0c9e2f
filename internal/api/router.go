package api

import (
	"application_review_system/configs"
	"application_review_system/internal/services"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func New(
	config configs.HTTP,
	applicationService services.ApplicationService,
	commentService services.CommentService,
	notificationService services.NotificationService,
	logger *zap.SugaredLogger,
) *gin.Engine {
	g := gin.New()
	g.Use(gin.Logger(), gin.Recovery())
	g.Use(cors.New(cors.Config{
		AllowOrigins:     config.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", callerHeader},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	attachRoutes(g, applicationService, commentService, notificationService, logger)
	return g
}

func attachRoutes(
	r *gin.Engine,
	applicationService services.ApplicationService,
	commentService services.CommentService,
	notificationService services.NotificationService,
	logger *zap.SugaredLogger,
) {
	r.GET("/healthcheck", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	applicationsH := NewApplications(applicationService, logger)
	commentsH := NewComments(commentService, logger)
	notificationsH := NewNotifications(notificationService, logger)

	v1 := r.Group("/v1")
	v1.Use(CallerMiddleware())
	{
		v1.POST("/applications", applicationsH.Create)
		v1.GET("/applications", applicationsH.List)
		v1.GET("/applications/:id", applicationsH.Get)
		v1.PUT("/applications/:id", applicationsH.UpdateDraft)
		v1.DELETE("/applications/:id", applicationsH.Delete)
		v1.POST("/applications/:id/submit", applicationsH.Submit)
		v1.POST("/applications/:id/review", applicationsH.StartReview)
		v1.POST("/applications/:id/information-requests", applicationsH.RequestInformation)
		v1.POST("/applications/:id/information-responses", applicationsH.RespondToInformationRequest)
		v1.POST("/applications/:id/decision", applicationsH.ProcessDecision)
		v1.POST("/applications/:id/approve", applicationsH.Approve)
		v1.POST("/applications/:id/reject", applicationsH.Reject)
		v1.POST("/applications/:id/program/start", applicationsH.StartProgram)
		v1.POST("/applications/:id/program/complete", applicationsH.CompleteProgram)
		v1.POST("/applications/:id/withdraw", applicationsH.Withdraw)

		v1.POST("/applications/:id/votes", applicationsH.CastVote)
		v1.GET("/applications/:id/votes", applicationsH.Votes)
		v1.GET("/applications/:id/votes/me", applicationsH.MyVote)
		v1.GET("/applications/:id/summary", applicationsH.Summary)

		v1.POST("/applications/:id/comments", commentsH.Create)
		v1.GET("/applications/:id/comments", commentsH.List)
		v1.PUT("/comments/:commentID", commentsH.Edit)
		v1.DELETE("/comments/:commentID", commentsH.Delete)

		v1.GET("/reviewers/me/pending", applicationsH.Pending)
		v1.GET("/statistics", applicationsH.Statistics)

		v1.GET("/notifications", notificationsH.List)
		v1.GET("/notifications/unread-count", notificationsH.UnreadCount)
		v1.POST("/notifications/read-all", notificationsH.MarkAllRead)
		v1.POST("/notifications/:notificationID/read", notificationsH.MarkRead)
	}
}
