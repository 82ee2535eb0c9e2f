package services

import (
	"application_review_system/internal/db/models"

	"github.com/shopspring/decimal"
)

type Statistics struct {
	TotalApplications          int                              `json:"total_applications"`
	ByStatus                   map[models.ApplicationStatus]int `json:"by_status"`
	ApprovedCount              int                              `json:"approved_count"`
	RejectedCount              int                              `json:"rejected_count"`
	ApprovalRate               float64                          `json:"approval_rate"`
	AverageDaysToDecision      float64                          `json:"average_days_to_decision"`
	TotalApprovedMonthlyAmount decimal.Decimal                  `json:"total_approved_monthly_amount"`
}

// CalculateStatistics reports on committed decisions only. An approval stays
// counted after the program starts or completes.
func CalculateStatistics(applications []*models.Application) Statistics {
	statistics := Statistics{
		TotalApplications:          len(applications),
		ByStatus:                   make(map[models.ApplicationStatus]int, len(models.ApplicationStatuses)),
		TotalApprovedMonthlyAmount: decimal.Zero,
	}
	for _, status := range models.ApplicationStatuses {
		statistics.ByStatus[status] = 0
	}

	var decidedWithDates int
	var totalDays float64

	for _, application := range applications {
		statistics.ByStatus[application.Status]++

		approved := isApproved(application)
		rejected := application.Status == models.ApplicationStatusRejected
		if !approved && !rejected {
			continue
		}

		if approved {
			statistics.ApprovedCount++
			if application.ApprovedMonthlyAmount.Valid {
				statistics.TotalApprovedMonthlyAmount = statistics.TotalApprovedMonthlyAmount.Add(application.ApprovedMonthlyAmount.Decimal)
			}
		} else {
			statistics.RejectedCount++
		}

		if application.SubmittedDate != nil && application.DecisionDate != nil {
			decidedWithDates++
			totalDays += application.DecisionDate.Sub(*application.SubmittedDate).Hours() / 24
		}
	}

	if decided := statistics.ApprovedCount + statistics.RejectedCount; decided > 0 {
		statistics.ApprovalRate = float64(statistics.ApprovedCount) / float64(decided)
	}
	if decidedWithDates > 0 {
		statistics.AverageDaysToDecision = totalDays / float64(decidedWithDates)
	}

	return statistics
}

func isApproved(application *models.Application) bool {
	switch application.Status {
	case models.ApplicationStatusApproved, models.ApplicationStatusActive:
		return true
	case models.ApplicationStatusCompleted:
		return application.FinalDecision == models.FinalDecisionApproved
	}
	return false
}
