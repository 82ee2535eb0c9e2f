package models

import "time"

type VoteDecision string

func (d VoteDecision) String() string {
	return string(d)
}

func (d VoteDecision) DisplayName() string {
	return displayName(string(d))
}

func (d VoteDecision) IsValid() bool {
	switch d {
	case VoteDecisionApprove, VoteDecisionReject, VoteDecisionNeedsMoreInfo, VoteDecisionAbstain:
		return true
	}
	return false
}

const (
	VoteDecisionApprove       VoteDecision = "approve"
	VoteDecisionReject        VoteDecision = "reject"
	VoteDecisionNeedsMoreInfo VoteDecision = "needs_more_info"
	VoteDecisionAbstain       VoteDecision = "abstain"

	MinConfidenceLevel = 1
	MaxConfidenceLevel = 5
)

type Vote struct {
	tableName struct{} `pg:"votes"`

	ID              int64        `json:"id" pg:",pk"`
	ApplicationID   int64        `json:"application_id" pg:",notnull"`
	VoterID         int64        `json:"voter_id" pg:",notnull"`
	Decision        VoteDecision `json:"decision" pg:",notnull"`
	Reasoning       string       `json:"reasoning" pg:",notnull,use_zero"`
	ConfidenceLevel int          `json:"confidence_level" pg:",notnull"`
	IsLocked        bool         `json:"is_locked" pg:",notnull,use_zero"`
	CreatedAt       time.Time    `json:"created_at" pg:"default:now()"`
	UpdatedAt       time.Time    `json:"updated_at" pg:"default:now()"`
}
