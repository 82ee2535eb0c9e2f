package services

import "application_review_system/internal/db/models"

type VotingSummary struct {
	ApplicationID      int64    `json:"application_id"`
	TotalVotesCast     int      `json:"total_votes_cast"`
	ApproveCount       int      `json:"approve_count"`
	RejectCount        int      `json:"reject_count"`
	NeedsInfoCount     int      `json:"needs_info_count"`
	AbstainCount       int      `json:"abstain_count"`
	VotesRequired      int      `json:"votes_required"`
	HasSufficientVotes bool     `json:"has_sufficient_votes"`
	IsApproved         bool     `json:"is_approved"`
	HasAnyRejection    bool     `json:"has_any_rejection"`
	PendingVoters      []string `json:"pending_voters"`
}

// CalculateVotingSummary tallies votes against the quorum snapshot. Abstain
// ballots count toward quorum but never toward approval. Pending voters are
// the active reviewers without any ballot, in roster order.
func CalculateVotingSummary(applicationID int64, votesRequired int, votes []*models.Vote, roster []*models.User) VotingSummary {
	summary := VotingSummary{
		ApplicationID: applicationID,
		VotesRequired: votesRequired,
		PendingVoters: make([]string, 0),
	}

	voted := make(map[int64]struct{}, len(votes))
	for _, vote := range votes {
		voted[vote.VoterID] = struct{}{}

		switch vote.Decision {
		case models.VoteDecisionApprove:
			summary.ApproveCount++
		case models.VoteDecisionReject:
			summary.RejectCount++
		case models.VoteDecisionNeedsMoreInfo:
			summary.NeedsInfoCount++
		case models.VoteDecisionAbstain:
			summary.AbstainCount++
		}
	}

	summary.TotalVotesCast = summary.ApproveCount + summary.RejectCount + summary.NeedsInfoCount
	summary.HasSufficientVotes = len(votes) >= votesRequired
	summary.IsApproved = summary.ApproveCount >= votesRequired
	summary.HasAnyRejection = summary.RejectCount > 0

	for _, reviewer := range roster {
		if _, ok := voted[reviewer.ID]; !ok {
			summary.PendingVoters = append(summary.PendingVoters, reviewer.DisplayName())
		}
	}

	return summary
}

// ResolveDecision applies the decision policy: any rejection wins, then an
// approval quorum, then any request for more information. Anything else is
// deferred.
func ResolveDecision(summary VotingSummary) models.FinalDecision {
	switch {
	case summary.HasAnyRejection:
		return models.FinalDecisionRejected
	case summary.IsApproved:
		return models.FinalDecisionApproved
	case summary.NeedsInfoCount > 0:
		return models.FinalDecisionNeedsMoreInformation
	default:
		return models.FinalDecisionDeferred
	}
}
