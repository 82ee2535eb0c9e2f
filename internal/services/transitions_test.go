package services

import (
	"application_review_system/internal/db/models"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition_OnlyListedEdges(t *testing.T) {
	allowed := map[models.ApplicationStatus][]models.ApplicationStatus{
		models.ApplicationStatusDraft:            {models.ApplicationStatusSubmitted, models.ApplicationStatusWithdrawn},
		models.ApplicationStatusSubmitted:        {models.ApplicationStatusUnderReview, models.ApplicationStatusWithdrawn},
		models.ApplicationStatusUnderReview:      {models.ApplicationStatusInDiscussion, models.ApplicationStatusNeedsInformation, models.ApplicationStatusApproved, models.ApplicationStatusRejected, models.ApplicationStatusWithdrawn},
		models.ApplicationStatusInDiscussion:     {models.ApplicationStatusNeedsInformation, models.ApplicationStatusApproved, models.ApplicationStatusRejected, models.ApplicationStatusWithdrawn},
		models.ApplicationStatusNeedsInformation: {models.ApplicationStatusUnderReview, models.ApplicationStatusWithdrawn},
		models.ApplicationStatusApproved:         {models.ApplicationStatusActive},
	}

	for _, from := range models.ApplicationStatuses {
		for _, to := range models.ApplicationStatuses {
			expected := to == models.ApplicationStatusCompleted
			for _, edge := range allowed[from] {
				if edge == to {
					expected = true
				}
			}

			assert.Equal(t, expected, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestCanTransition_UnknownStatus(t *testing.T) {
	assert.False(t, CanTransition("archived", models.ApplicationStatusCompleted))
}

func TestValidateTransition_ReturnsInvalidState(t *testing.T) {
	application := &models.Application{ID: 7, Status: models.ApplicationStatusRejected}

	err := validateTransition(application, models.ApplicationStatusApproved)

	assert.ErrorIs(t, err, ErrInvalidState)
	assert.ErrorContains(t, err, "Rejected")
}
