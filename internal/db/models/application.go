package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type (
	ApplicationStatus string
	FinalDecision     string
)

func (s ApplicationStatus) String() string {
	return string(s)
}

func (s ApplicationStatus) DisplayName() string {
	return displayName(string(s))
}

func (d FinalDecision) String() string {
	return string(d)
}

func (d FinalDecision) DisplayName() string {
	return displayName(string(d))
}

const (
	ApplicationStatusDraft            ApplicationStatus = "draft"
	ApplicationStatusSubmitted        ApplicationStatus = "submitted"
	ApplicationStatusUnderReview      ApplicationStatus = "under_review"
	ApplicationStatusInDiscussion     ApplicationStatus = "in_discussion"
	ApplicationStatusApproved         ApplicationStatus = "approved"
	ApplicationStatusRejected         ApplicationStatus = "rejected"
	ApplicationStatusNeedsInformation ApplicationStatus = "needs_information"
	ApplicationStatusActive           ApplicationStatus = "active"
	ApplicationStatusCompleted        ApplicationStatus = "completed"
	ApplicationStatusWithdrawn        ApplicationStatus = "withdrawn"

	FinalDecisionNone                 FinalDecision = ""
	FinalDecisionApproved             FinalDecision = "approved"
	FinalDecisionRejected             FinalDecision = "rejected"
	FinalDecisionNeedsMoreInformation FinalDecision = "needs_more_information"
	FinalDecisionDeferred             FinalDecision = "deferred"
)

var ApplicationStatuses = []ApplicationStatus{
	ApplicationStatusDraft,
	ApplicationStatusSubmitted,
	ApplicationStatusUnderReview,
	ApplicationStatusInDiscussion,
	ApplicationStatusNeedsInformation,
	ApplicationStatusApproved,
	ApplicationStatusRejected,
	ApplicationStatusActive,
	ApplicationStatusCompleted,
	ApplicationStatusWithdrawn,
}

// ApplicationProfile is opaque to the workflow apart from validation and
// display. It is stored as jsonb.
type ApplicationProfile struct {
	FullName               string            `json:"full_name"`
	Email                  string            `json:"email"`
	Phone                  string            `json:"phone,omitempty"`
	RequestedMonthlyAmount decimal.Decimal   `json:"requested_monthly_amount"`
	Purpose                string            `json:"purpose,omitempty"`
	Details                map[string]string `json:"details,omitempty"`
}

type Application struct {
	tableName struct{} `pg:"applications"`

	ID                       int64               `json:"id" pg:",pk"`
	ApplicantID              int64               `json:"applicant_id" pg:",notnull"`
	Profile                  ApplicationProfile  `json:"profile" pg:",notnull"`
	Status                   ApplicationStatus   `json:"status" pg:",notnull,default:'draft'"`
	FinalDecision            FinalDecision       `json:"final_decision,omitempty"`
	VotesRequiredForApproval int                 `json:"votes_required_for_approval" pg:",use_zero,notnull"`
	SubmittedDate            *time.Time          `json:"submitted_date,omitempty"`
	SignatureDate            *time.Time          `json:"signature_date,omitempty"`
	ReviewStartedDate        *time.Time          `json:"review_started_date,omitempty"`
	DecisionDate             *time.Time          `json:"decision_date,omitempty"`
	DecisionMadeBy           *int64              `json:"decision_made_by,omitempty"`
	DecisionMessage          string              `json:"decision_message,omitempty"`
	ApprovedMonthlyAmount    decimal.NullDecimal `json:"approved_monthly_amount"`
	AssignedSponsorID        *int64              `json:"assigned_sponsor_id,omitempty"`
	ProgramStartDate         *time.Time          `json:"program_start_date,omitempty"`
	ProgramEndDate           *time.Time          `json:"program_end_date,omitempty"`
	CreatedAt                time.Time           `json:"created_at" pg:"default:now()"`
	UpdatedAt                time.Time           `json:"updated_at" pg:"default:now()"`
}

func (a *Application) IsOpenForVoting() bool {
	return a.Status == ApplicationStatusUnderReview || a.Status == ApplicationStatusInDiscussion
}

func displayName(value string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(value, "_", " "))
}
