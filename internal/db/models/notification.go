package models

import "time"

type NotificationType string

func (t NotificationType) String() string {
	return string(t)
}

const (
	NotificationTypeApplicationSubmitted NotificationType = "application_submitted"
	NotificationTypeReviewStarted        NotificationType = "review_started"
	NotificationTypeReviewRequested      NotificationType = "review_requested"
	NotificationTypeQuorumReached        NotificationType = "quorum_reached"
	NotificationTypeInformationRequested NotificationType = "information_requested"
	NotificationTypeInformationProvided  NotificationType = "information_provided"
	NotificationTypeApplicationApproved  NotificationType = "application_approved"
	NotificationTypeApplicationRejected  NotificationType = "application_rejected"
	NotificationTypeSponsorAssigned      NotificationType = "sponsor_assigned"
	NotificationTypeProgramStarted       NotificationType = "program_started"
	NotificationTypeApplicationWithdrawn NotificationType = "application_withdrawn"
)

type Notification struct {
	tableName struct{} `pg:"notifications"`

	ID               int64            `json:"id" pg:",pk"`
	RecipientID      int64            `json:"recipient_id" pg:",notnull"`
	ApplicationID    *int64           `json:"application_id,omitempty"`
	Type             NotificationType `json:"type" pg:",notnull"`
	Title            string           `json:"title" pg:",notnull"`
	Message          string           `json:"message" pg:",notnull"`
	ActionURL        string           `json:"action_url,omitempty"`
	IsRead           bool             `json:"is_read" pg:",notnull,use_zero"`
	IsSent           bool             `json:"is_sent" pg:",notnull,use_zero"`
	EmailSent        bool             `json:"email_sent" pg:",notnull,use_zero"`
	IsExpired        bool             `json:"is_expired" pg:",notnull,use_zero"`
	DeliveryAttempts int              `json:"-" pg:",notnull,use_zero"`
	LastError        string           `json:"-"`
	ExpiresAt        *time.Time       `json:"expires_at,omitempty"`
	ReadAt           *time.Time       `json:"read_at,omitempty"`
	SentAt           *time.Time       `json:"sent_at,omitempty"`
	CreatedAt        time.Time        `json:"created_at" pg:"default:now()"`
}
