package api

import (
	"application_review_system/internal/db/models"
	"application_review_system/internal/services"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Applications struct {
	service services.ApplicationService
	logger  *zap.SugaredLogger
}

func NewApplications(service services.ApplicationService, logger *zap.SugaredLogger) Applications {
	return Applications{service: service, logger: logger}
}

func (h Applications) Create(c *gin.Context) {
	var profile models.ApplicationProfile
	if !bindJSON(c, &profile) {
		return
	}

	application, err := h.service.CreateApplication(c.Request.Context(), caller(c), profile)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, application)
}

func (h Applications) List(c *gin.Context) {
	var statuses []models.ApplicationStatus
	if raw := c.Query("status"); raw != "" {
		for _, status := range strings.Split(raw, ",") {
			statuses = append(statuses, models.ApplicationStatus(strings.TrimSpace(status)))
		}
	}

	applications, err := h.service.ListApplications(c.Request.Context(), statuses...)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, applications)
}

func (h Applications) Get(c *gin.Context) {
	h.respond(c, http.StatusOK, func(id int64) (any, error) {
		return h.service.GetApplication(c.Request.Context(), id)
	})
}

func (h Applications) UpdateDraft(c *gin.Context) {
	var profile models.ApplicationProfile
	h.respondWithBody(c, &profile, func(id int64) (any, error) {
		return h.service.UpdateDraft(c.Request.Context(), id, caller(c), profile)
	})
}

func (h Applications) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteApplication(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h Applications) Submit(c *gin.Context) {
	h.respond(c, http.StatusOK, func(id int64) (any, error) {
		return h.service.SubmitApplication(c.Request.Context(), id, caller(c))
	})
}

func (h Applications) StartReview(c *gin.Context) {
	h.respond(c, http.StatusOK, func(id int64) (any, error) {
		return h.service.StartReviewProcess(c.Request.Context(), id)
	})
}

func (h Applications) RequestInformation(c *gin.Context) {
	var req struct {
		Details string `json:"details"`
	}
	h.respondWithBody(c, &req, func(id int64) (any, error) {
		return h.service.RequestAdditionalInformation(c.Request.Context(), id, caller(c), req.Details)
	})
}

func (h Applications) RespondToInformationRequest(c *gin.Context) {
	var req struct {
		Response string `json:"response"`
	}
	h.respondWithBody(c, &req, func(id int64) (any, error) {
		return h.service.RespondToInformationRequest(c.Request.Context(), id, caller(c), req.Response)
	})
}

func (h Applications) ProcessDecision(c *gin.Context) {
	h.respond(c, http.StatusOK, func(id int64) (any, error) {
		return h.service.ProcessApplicationDecision(c.Request.Context(), id, caller(c))
	})
}

func (h Applications) Approve(c *gin.Context) {
	var req services.ApproveRequest
	h.respondWithBody(c, &req, func(id int64) (any, error) {
		req.ApplicationID = id
		req.ApproverID = caller(c)
		return h.service.ApproveApplication(c.Request.Context(), req)
	})
}

func (h Applications) Reject(c *gin.Context) {
	var req struct {
		Reason string `json:"reason"`
	}
	h.respondWithBody(c, &req, func(id int64) (any, error) {
		return h.service.RejectApplication(c.Request.Context(), id, caller(c), req.Reason)
	})
}

func (h Applications) StartProgram(c *gin.Context) {
	var req struct {
		StartDate      *time.Time `json:"start_date"`
		DurationMonths int        `json:"duration_months"`
	}
	h.respondWithBody(c, &req, func(id int64) (any, error) {
		var startDate time.Time
		if req.StartDate != nil {
			startDate = *req.StartDate
		}
		return h.service.StartProgram(c.Request.Context(), id, startDate, req.DurationMonths)
	})
}

func (h Applications) CompleteProgram(c *gin.Context) {
	h.respond(c, http.StatusOK, func(id int64) (any, error) {
		return h.service.CompleteProgram(c.Request.Context(), id)
	})
}

func (h Applications) Withdraw(c *gin.Context) {
	var req struct {
		Reason string `json:"reason"`
	}
	h.respondWithBody(c, &req, func(id int64) (any, error) {
		return h.service.Withdraw(c.Request.Context(), id, caller(c), req.Reason)
	})
}

func (h Applications) CastVote(c *gin.Context) {
	var req services.CastVoteRequest
	h.respondWithBody(c, &req, func(id int64) (any, error) {
		req.ApplicationID = id
		req.VoterID = caller(c)
		return h.service.CastVote(c.Request.Context(), req)
	})
}

func (h Applications) Votes(c *gin.Context) {
	h.respond(c, http.StatusOK, func(id int64) (any, error) {
		return h.service.GetVotes(c.Request.Context(), id)
	})
}

func (h Applications) MyVote(c *gin.Context) {
	h.respond(c, http.StatusOK, func(id int64) (any, error) {
		return h.service.GetVote(c.Request.Context(), id, caller(c))
	})
}

func (h Applications) Summary(c *gin.Context) {
	h.respond(c, http.StatusOK, func(id int64) (any, error) {
		return h.service.GetVotingSummary(c.Request.Context(), id)
	})
}

func (h Applications) Pending(c *gin.Context) {
	applications, err := h.service.GetPendingApplicationsForReviewer(c.Request.Context(), caller(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, applications)
}

func (h Applications) Statistics(c *gin.Context) {
	statistics, err := h.service.GetStatistics(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, statistics)
}

func (h Applications) respond(c *gin.Context, status int, call func(id int64) (any, error)) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	result, err := call(id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(status, result)
}

func (h Applications) respondWithBody(c *gin.Context, request any, call func(id int64) (any, error)) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if !bindJSON(c, request) {
		return
	}

	result, err := call(id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
