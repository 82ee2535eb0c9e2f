package services

import "application_review_system/internal/db/models"

// transitions lists every permitted status edge. Completed is added from every
// status as administrative closure.
var transitions = map[models.ApplicationStatus][]models.ApplicationStatus{
	models.ApplicationStatusDraft: {
		models.ApplicationStatusSubmitted,
		models.ApplicationStatusWithdrawn,
	},
	models.ApplicationStatusSubmitted: {
		models.ApplicationStatusUnderReview,
		models.ApplicationStatusWithdrawn,
	},
	models.ApplicationStatusUnderReview: {
		models.ApplicationStatusInDiscussion,
		models.ApplicationStatusNeedsInformation,
		models.ApplicationStatusApproved,
		models.ApplicationStatusRejected,
		models.ApplicationStatusWithdrawn,
	},
	models.ApplicationStatusInDiscussion: {
		models.ApplicationStatusNeedsInformation,
		models.ApplicationStatusApproved,
		models.ApplicationStatusRejected,
		models.ApplicationStatusWithdrawn,
	},
	models.ApplicationStatusNeedsInformation: {
		models.ApplicationStatusUnderReview,
		models.ApplicationStatusWithdrawn,
	},
	models.ApplicationStatusApproved: {
		models.ApplicationStatusActive,
	},
	models.ApplicationStatusActive: {},
	models.ApplicationStatusRejected:  {},
	models.ApplicationStatusWithdrawn: {},
	models.ApplicationStatusCompleted: {},
}

func CanTransition(from, to models.ApplicationStatus) bool {
	edges, ok := transitions[from]
	if !ok {
		return false
	}
	if to == models.ApplicationStatusCompleted {
		return true
	}
	for _, edge := range edges {
		if edge == to {
			return true
		}
	}
	return false
}

func validateTransition(application *models.Application, to models.ApplicationStatus) error {
	if !CanTransition(application.Status, to) {
		return invalidState("application %d cannot move from %s to %s",
			application.ID, application.Status.DisplayName(), to.DisplayName())
	}
	return nil
}
