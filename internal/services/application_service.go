package services

import (
	"application_review_system/configs"
	"application_review_system/internal"
	"application_review_system/internal/db/models"
	"application_review_system/internal/db/repositories"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type CastVoteRequest struct {
	ApplicationID   int64               `json:"-"`
	VoterID         int64               `json:"-"`
	Decision        models.VoteDecision `json:"decision"`
	Reasoning       string              `json:"reasoning"`
	ConfidenceLevel int                 `json:"confidence_level"`
}

type ApproveRequest struct {
	ApplicationID  int64               `json:"-"`
	ApproverID     int64               `json:"-"`
	ApprovedAmount decimal.NullDecimal `json:"approved_monthly_amount"`
	SponsorID      *int64              `json:"sponsor_id"`
	Message        string              `json:"message"`
}

// DecisionOutcome is the computed result of the decision policy. Committed is
// false for a deferred outcome, which leaves the application untouched.
type DecisionOutcome struct {
	ApplicationID int64                `json:"application_id"`
	Decision      models.FinalDecision `json:"decision"`
	Committed     bool                 `json:"committed"`
	Summary       VotingSummary        `json:"summary"`
}

type ApplicationService interface {
	CreateApplication(ctx context.Context, applicantID int64, profile models.ApplicationProfile) (*models.Application, error)
	UpdateDraft(ctx context.Context, applicationID, applicantID int64, profile models.ApplicationProfile) (*models.Application, error)
	SubmitApplication(ctx context.Context, applicationID, applicantID int64) (*models.Application, error)
	StartReviewProcess(ctx context.Context, applicationID int64) (*models.Application, error)
	CastVote(ctx context.Context, request CastVoteRequest) (*models.Vote, error)
	RequestAdditionalInformation(ctx context.Context, applicationID, requesterID int64, details string) (*models.Application, error)
	RespondToInformationRequest(ctx context.Context, applicationID, applicantID int64, response string) (*models.Application, error)
	// ProcessApplicationDecision also fails with KindInvalidState unless the
	// application is UnderReview or InDiscussion.
	ProcessApplicationDecision(ctx context.Context, applicationID, deciderID int64) (DecisionOutcome, error)
	ApproveApplication(ctx context.Context, request ApproveRequest) (*models.Application, error)
	RejectApplication(ctx context.Context, applicationID, rejectorID int64, reason string) (*models.Application, error)
	StartProgram(ctx context.Context, applicationID int64, startDate time.Time, durationMonths int) (*models.Application, error)
	CompleteProgram(ctx context.Context, applicationID int64) (*models.Application, error)
	Withdraw(ctx context.Context, applicationID, applicantID int64, reason string) (*models.Application, error)
	DeleteApplication(ctx context.Context, applicationID int64) error

	GetApplication(ctx context.Context, applicationID int64) (*models.Application, error)
	ListApplications(ctx context.Context, status ...models.ApplicationStatus) ([]*models.Application, error)
	GetVotingSummary(ctx context.Context, applicationID int64) (VotingSummary, error)
	GetVotes(ctx context.Context, applicationID int64) ([]*models.Vote, error)
	GetVote(ctx context.Context, applicationID, voterID int64) (*models.Vote, error)
	GetPendingApplicationsForReviewer(ctx context.Context, reviewerID int64) ([]*models.Application, error)
	GetStatistics(ctx context.Context) (Statistics, error)
}

var errDeferred = errors.New("decision deferred")

type applicationService struct {
	applicationRepository repositories.ApplicationRepository
	voteRepository        repositories.VoteRepository
	userRepository        repositories.UserRepository
	commentService        CommentService
	notificationService   NotificationService
	roster                ReviewerRoster
	config                configs.Review
	sanitizer             *bluemonday.Policy
	logger                *zap.SugaredLogger
	now                   func() time.Time
}

func NewApplicationService(
	applicationRepository repositories.ApplicationRepository,
	voteRepository repositories.VoteRepository,
	userRepository repositories.UserRepository,
	commentService CommentService,
	notificationService NotificationService,
	roster ReviewerRoster,
	config configs.Review,
	logger *zap.SugaredLogger,
) ApplicationService {
	return &applicationService{
		applicationRepository: applicationRepository,
		voteRepository:        voteRepository,
		userRepository:        userRepository,
		commentService:        commentService,
		notificationService:   notificationService,
		roster:                roster,
		config:                config,
		sanitizer:             bluemonday.StrictPolicy(),
		logger:                logger,
		now:                   time.Now,
	}
}

func (s *applicationService) CreateApplication(ctx context.Context, applicantID int64, profile models.ApplicationProfile) (*models.Application, error) {
	if err := validateProfile(profile); err != nil {
		return nil, err
	}

	application, err := s.applicationRepository.Create(ctx, &models.Application{
		ApplicantID: applicantID,
		Profile:     profile,
		Status:      models.ApplicationStatusDraft,
	})
	if err != nil {
		return nil, s.failure(err, "create application", 0)
	}

	s.logger.Infow("application created", "application_id", application.ID, "applicant_id", applicantID)
	return application, nil
}

func (s *applicationService) UpdateDraft(ctx context.Context, applicationID, applicantID int64, profile models.ApplicationProfile) (*models.Application, error) {
	if err := validateProfile(profile); err != nil {
		return nil, err
	}

	application, err := s.applicationRepository.Transition(ctx, applicationID, false, func(_ repositories.Tx, application *models.Application) error {
		if application.ApplicantID != applicantID {
			return unauthorized("only the applicant can edit application %d", applicationID)
		}
		if application.Status != models.ApplicationStatusDraft {
			return invalidState("only draft applications can be edited")
		}

		application.Profile = profile
		return nil
	})
	if err != nil {
		return nil, s.failure(err, "update draft", applicationID)
	}

	return application, nil
}

func (s *applicationService) SubmitApplication(ctx context.Context, applicationID, applicantID int64) (*models.Application, error) {
	application, err := s.applicationRepository.Transition(ctx, applicationID, false, func(_ repositories.Tx, application *models.Application) error {
		if application.ApplicantID != applicantID {
			return unauthorized("only the applicant can submit application %d", applicationID)
		}
		if err := validateTransition(application, models.ApplicationStatusSubmitted); err != nil {
			return err
		}

		reviewers, err := s.roster.ActiveReviewers(ctx)
		if err != nil {
			return err
		}

		now := s.now()
		application.Status = models.ApplicationStatusSubmitted
		application.SubmittedDate = &now
		application.SignatureDate = &now
		application.VotesRequiredForApproval = len(reviewers)
		return nil
	})
	if err != nil {
		return nil, s.failure(err, "submit application", applicationID)
	}

	s.logger.Infow("application submitted",
		"application_id", applicationID,
		"votes_required", application.VotesRequiredForApproval,
	)

	s.notifyApplicant(ctx, application, Notice{
		Type:    models.NotificationTypeApplicationSubmitted,
		Title:   "Application submitted",
		Message: fmt.Sprintf("Your application #%d has been submitted and is waiting for review.", application.ID),
	})
	return application, nil
}

func (s *applicationService) StartReviewProcess(ctx context.Context, applicationID int64) (*models.Application, error) {
	application, err := s.applicationRepository.Transition(ctx, applicationID, false, func(_ repositories.Tx, application *models.Application) error {
		if application.Status != models.ApplicationStatusSubmitted {
			return invalidState("only submitted applications can be taken into review")
		}

		now := s.now()
		application.Status = models.ApplicationStatusUnderReview
		application.ReviewStartedDate = &now
		return nil
	})
	if err != nil {
		return nil, s.failure(err, "start review", applicationID)
	}

	s.logger.Infow("review started", "application_id", applicationID)

	s.notifyApplicant(ctx, application, Notice{
		Type:    models.NotificationTypeReviewStarted,
		Title:   "Review started",
		Message: fmt.Sprintf("The board has started reviewing your application #%d.", application.ID),
	})
	s.notifyReviewers(ctx, application, Notice{
		Type:       models.NotificationTypeReviewRequested,
		Title:      "Review requested",
		Message:    fmt.Sprintf("Application #%d from %s is waiting for your vote.", application.ID, application.Profile.FullName),
		ActionPath: applicationPath(application.ID),
	})
	return application, nil
}

func (s *applicationService) CastVote(ctx context.Context, request CastVoteRequest) (*models.Vote, error) {
	reasoning := sanitize(s.sanitizer, request.Reasoning)

	var problems validationErrors
	problems.check(request.Decision.IsValid(), fmt.Sprintf("unknown vote decision %q", request.Decision))
	problems.check(
		request.ConfidenceLevel >= models.MinConfidenceLevel && request.ConfidenceLevel <= models.MaxConfidenceLevel,
		fmt.Sprintf("confidence level must be between %d and %d", models.MinConfidenceLevel, models.MaxConfidenceLevel),
	)
	problems.check(
		utf8.RuneCountInString(reasoning) >= s.config.MinReasoningLength,
		fmt.Sprintf("reasoning must be at least %d characters", s.config.MinReasoningLength),
	)
	if err := problems.err(); err != nil {
		return nil, err
	}

	voter, err := s.userRepository.GetOneByID(ctx, request.VoterID)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, s.failure(err, "get voter", request.ApplicationID)
	}
	if err != nil || !voter.IsActiveReviewer() {
		return nil, unauthorized("user %d is not an active reviewer", request.VoterID)
	}

	var vote *models.Vote
	application, err := s.applicationRepository.Transition(ctx, request.ApplicationID, false, func(tx repositories.Tx, application *models.Application) error {
		if !application.IsOpenForVoting() {
			return newWorkflowError(KindNotOpenForVoting,
				fmt.Sprintf("application %d is %s", application.ID, application.Status.DisplayName()))
		}

		upserted, err := tx.Votes().Upsert(ctx, &models.Vote{
			ApplicationID:   application.ID,
			VoterID:         request.VoterID,
			Decision:        request.Decision,
			Reasoning:       reasoning,
			ConfidenceLevel: request.ConfidenceLevel,
		})
		if errors.Is(err, repositories.ErrVoteLocked) {
			return newWorkflowError(KindNotOpenForVoting, "votes on this application are locked")
		}
		if err != nil {
			return err
		}
		vote = upserted

		if application.Status == models.ApplicationStatusUnderReview {
			application.Status = models.ApplicationStatusInDiscussion
		}
		return nil
	})
	if err != nil {
		return nil, s.failure(err, "cast vote", request.ApplicationID)
	}

	s.logger.Infow("vote cast",
		"application_id", application.ID,
		"voter_id", request.VoterID,
		"decision", request.Decision,
	)

	summary, err := s.summarize(ctx, application)
	if err != nil {
		s.logger.Warnw("failed to compute voting summary", "application_id", application.ID, "error", err)
		return vote, nil
	}
	if summary.HasSufficientVotes {
		s.notifyReviewers(ctx, application, Notice{
			Type:       models.NotificationTypeQuorumReached,
			Title:      "Quorum reached",
			Message:    fmt.Sprintf("Application #%d has %d of %d required votes and is ready for a decision.", application.ID, summary.TotalVotesCast+summary.AbstainCount, summary.VotesRequired),
			ActionPath: applicationPath(application.ID),
		})
	}

	return vote, nil
}

func (s *applicationService) RequestAdditionalInformation(ctx context.Context, applicationID, requesterID int64, details string) (*models.Application, error) {
	if sanitize(s.sanitizer, details) == "" {
		return nil, newWorkflowError(KindValidation, "information request details are required")
	}

	application, err := s.applicationRepository.Transition(ctx, applicationID, false, func(tx repositories.Tx, application *models.Application) error {
		comments := s.commentService.WithTx(tx)
		if !application.IsOpenForVoting() {
			return invalidState("information can only be requested during review")
		}
		if err := validateTransition(application, models.ApplicationStatusNeedsInformation); err != nil {
			return err
		}

		_, err := comments.AddComment(ctx, AddCommentRequest{
			ApplicationID:        applicationID,
			AuthorID:             requesterID,
			Content:              details,
			IsInformationRequest: true,
		})
		if err != nil {
			return err
		}

		application.Status = models.ApplicationStatusNeedsInformation
		return nil
	})
	if err != nil {
		return nil, s.failure(err, "request information", applicationID)
	}

	s.logger.Infow("information requested", "application_id", applicationID, "requester_id", requesterID)

	s.notifyApplicant(ctx, application, Notice{
		Type:       models.NotificationTypeInformationRequested,
		Title:      "More information needed",
		Message:    fmt.Sprintf("The board needs more information about application #%d.", application.ID),
		ActionPath: applicationPath(application.ID),
	})
	return application, nil
}

func (s *applicationService) RespondToInformationRequest(ctx context.Context, applicationID, applicantID int64, response string) (*models.Application, error) {
	if sanitize(s.sanitizer, response) == "" {
		return nil, newWorkflowError(KindValidation, "response is required")
	}

	application, err := s.applicationRepository.Transition(ctx, applicationID, false, func(tx repositories.Tx, application *models.Application) error {
		comments := s.commentService.WithTx(tx)
		if application.ApplicantID != applicantID {
			return unauthorized("only the applicant can respond to information requests")
		}
		if err := validateTransition(application, models.ApplicationStatusUnderReview); err != nil {
			return err
		}

		request, err := comments.LatestOpenInformationRequest(ctx, applicationID)
		if err != nil {
			return err
		}

		reply := AddCommentRequest{
			ApplicationID: applicationID,
			AuthorID:      applicantID,
			Content:       response,
		}
		if request != nil {
			reply.ParentCommentID = &request.ID
		}
		if _, err := comments.AddComment(ctx, reply); err != nil {
			return err
		}
		if request != nil {
			if _, err := comments.MarkInformationRequestResponded(ctx, request.ID); err != nil {
				return err
			}
		}

		application.Status = models.ApplicationStatusUnderReview
		return nil
	})
	if err != nil {
		return nil, s.failure(err, "respond to information request", applicationID)
	}

	s.logger.Infow("information provided", "application_id", applicationID)

	s.notifyReviewers(ctx, application, Notice{
		Type:       models.NotificationTypeInformationProvided,
		Title:      "Information provided",
		Message:    fmt.Sprintf("The applicant answered the information request on application #%d.", application.ID),
		ActionPath: applicationPath(application.ID),
	})
	return application, nil
}

func (s *applicationService) ProcessApplicationDecision(ctx context.Context, applicationID, deciderID int64) (DecisionOutcome, error) {
	outcome := DecisionOutcome{ApplicationID: applicationID}

	_, err := s.applicationRepository.Transition(ctx, applicationID, false, func(_ repositories.Tx, application *models.Application) error {
		if !application.IsOpenForVoting() {
			return invalidState("decisions can only be processed during review")
		}

		summary, err := s.summarize(ctx, application)
		if err != nil {
			return err
		}
		if !summary.HasSufficientVotes {
			return newWorkflowError(KindInsufficientVotes,
				fmt.Sprintf("%d of %d required votes cast", summary.TotalVotesCast+summary.AbstainCount, summary.VotesRequired))
		}

		outcome.Summary = summary
		outcome.Decision = ResolveDecision(summary)
		if outcome.Decision == models.FinalDecisionDeferred {
			return errDeferred
		}

		now := s.now()
		application.FinalDecision = outcome.Decision
		application.DecisionDate = &now
		application.DecisionMadeBy = &deciderID
		return nil
	})
	if errors.Is(err, errDeferred) {
		s.logger.Infow("decision deferred", "application_id", applicationID)
		return outcome, nil
	}
	if err != nil {
		return DecisionOutcome{}, s.failure(err, "process decision", applicationID)
	}

	outcome.Committed = true
	s.logger.Infow("decision processed",
		"application_id", applicationID,
		"decision", outcome.Decision,
		"decider_id", deciderID,
	)
	return outcome, nil
}

func (s *applicationService) ApproveApplication(ctx context.Context, request ApproveRequest) (*models.Application, error) {
	var problems validationErrors
	if request.ApprovedAmount.Valid {
		problems.check(request.ApprovedAmount.Decimal.IsPositive(), "approved monthly amount must be positive")
	}
	if err := problems.err(); err != nil {
		return nil, err
	}

	if request.SponsorID != nil {
		if _, err := s.userRepository.GetOneByID(ctx, *request.SponsorID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, newWorkflowError(KindValidation, fmt.Sprintf("sponsor %d does not exist", *request.SponsorID))
			}
			return nil, s.failure(err, "get sponsor", request.ApplicationID)
		}
	}

	application, err := s.applicationRepository.Transition(ctx, request.ApplicationID, true, func(_ repositories.Tx, application *models.Application) error {
		if err := validateTransition(application, models.ApplicationStatusApproved); err != nil {
			return err
		}

		now := s.now()
		application.Status = models.ApplicationStatusApproved
		application.FinalDecision = models.FinalDecisionApproved
		application.DecisionDate = &now
		application.DecisionMadeBy = &request.ApproverID
		application.DecisionMessage = sanitize(s.sanitizer, request.Message)
		application.ApprovedMonthlyAmount = request.ApprovedAmount
		application.AssignedSponsorID = request.SponsorID
		return nil
	})
	if err != nil {
		return nil, s.failure(err, "approve application", request.ApplicationID)
	}

	s.logger.Infow("application approved", "application_id", application.ID, "approver_id", request.ApproverID)

	message := fmt.Sprintf("Your application #%d has been approved.", application.ID)
	if application.ApprovedMonthlyAmount.Valid {
		message += fmt.Sprintf(" Approved monthly amount: %s.", internal.FormatAmount(application.ApprovedMonthlyAmount.Decimal))
	}
	if application.DecisionMessage != "" {
		message += "\n\n" + application.DecisionMessage
	}
	s.notifyApplicant(ctx, application, Notice{
		Type:       models.NotificationTypeApplicationApproved,
		Title:      "Application approved",
		Message:    message,
		ActionPath: applicationPath(application.ID),
	})

	if application.AssignedSponsorID != nil {
		s.notify(ctx, *application.AssignedSponsorID, application, Notice{
			Type:       models.NotificationTypeSponsorAssigned,
			Title:      "New sponsorship",
			Message:    fmt.Sprintf("You have been assigned as sponsor of %s (application #%d).", application.Profile.FullName, application.ID),
			ActionPath: applicationPath(application.ID),
		})
	}
	return application, nil
}

func (s *applicationService) RejectApplication(ctx context.Context, applicationID, rejectorID int64, reason string) (*models.Application, error) {
	reason = sanitize(s.sanitizer, reason)
	if reason == "" {
		return nil, newWorkflowError(KindValidation, "rejection reason is required")
	}

	application, err := s.applicationRepository.Transition(ctx, applicationID, true, func(_ repositories.Tx, application *models.Application) error {
		if err := validateTransition(application, models.ApplicationStatusRejected); err != nil {
			return err
		}

		now := s.now()
		application.Status = models.ApplicationStatusRejected
		application.FinalDecision = models.FinalDecisionRejected
		application.DecisionDate = &now
		application.DecisionMadeBy = &rejectorID
		application.DecisionMessage = reason
		return nil
	})
	if err != nil {
		return nil, s.failure(err, "reject application", applicationID)
	}

	s.logger.Infow("application rejected", "application_id", application.ID, "rejector_id", rejectorID)

	s.notifyApplicant(ctx, application, Notice{
		Type:       models.NotificationTypeApplicationRejected,
		Title:      "Application rejected",
		Message:    fmt.Sprintf("Your application #%d has been rejected.\n\n%s", application.ID, reason),
		ActionPath: applicationPath(application.ID),
	})
	return application, nil
}

func (s *applicationService) StartProgram(ctx context.Context, applicationID int64, startDate time.Time, durationMonths int) (*models.Application, error) {
	if durationMonths < 0 {
		return nil, newWorkflowError(KindValidation, "program duration must be positive")
	}
	if durationMonths == 0 {
		durationMonths = s.config.DefaultProgramDurationMonths
	}
	if startDate.IsZero() {
		startDate = s.now()
	}

	application, err := s.applicationRepository.Transition(ctx, applicationID, false, func(_ repositories.Tx, application *models.Application) error {
		if application.Status != models.ApplicationStatusApproved {
			return invalidState("only approved applications can start a program")
		}

		endDate := startDate.AddDate(0, durationMonths, 0)
		application.Status = models.ApplicationStatusActive
		application.ProgramStartDate = &startDate
		application.ProgramEndDate = &endDate
		return nil
	})
	if err != nil {
		return nil, s.failure(err, "start program", applicationID)
	}

	s.logger.Infow("program started", "application_id", applicationID, "duration_months", durationMonths)

	s.notifyApplicant(ctx, application, Notice{
		Type:    models.NotificationTypeProgramStarted,
		Title:   "Program started",
		Message: fmt.Sprintf("Your program starts on %s and ends on %s.", internal.Format(*application.ProgramStartDate), internal.Format(*application.ProgramEndDate)),
	})
	return application, nil
}

func (s *applicationService) CompleteProgram(ctx context.Context, applicationID int64) (*models.Application, error) {
	application, err := s.applicationRepository.Transition(ctx, applicationID, false, func(_ repositories.Tx, application *models.Application) error {
		if err := validateTransition(application, models.ApplicationStatusCompleted); err != nil {
			return err
		}

		application.Status = models.ApplicationStatusCompleted
		return nil
	})
	if err != nil {
		return nil, s.failure(err, "complete program", applicationID)
	}

	s.logger.Infow("application completed", "application_id", applicationID)
	return application, nil
}

func (s *applicationService) Withdraw(ctx context.Context, applicationID, applicantID int64, reason string) (*models.Application, error) {
	var reviewStarted bool

	application, err := s.applicationRepository.Transition(ctx, applicationID, false, func(_ repositories.Tx, application *models.Application) error {
		if application.ApplicantID != applicantID {
			return unauthorized("only the applicant can withdraw application %d", applicationID)
		}
		if err := validateTransition(application, models.ApplicationStatusWithdrawn); err != nil {
			return err
		}

		reviewStarted = application.ReviewStartedDate != nil
		application.Status = models.ApplicationStatusWithdrawn
		application.DecisionMessage = sanitize(s.sanitizer, reason)
		return nil
	})
	if err != nil {
		return nil, s.failure(err, "withdraw application", applicationID)
	}

	s.logger.Infow("application withdrawn", "application_id", applicationID)

	if reviewStarted {
		s.notifyReviewers(ctx, application, Notice{
			Type:    models.NotificationTypeApplicationWithdrawn,
			Title:   "Application withdrawn",
			Message: fmt.Sprintf("Application #%d from %s has been withdrawn by the applicant.", application.ID, application.Profile.FullName),
		})
	}
	return application, nil
}

func (s *applicationService) DeleteApplication(ctx context.Context, applicationID int64) error {
	application, err := s.applicationRepository.GetOne(ctx, applicationID)
	if err != nil {
		return s.failure(err, "get application", applicationID)
	}

	if application.Status != models.ApplicationStatusDraft {
		return invalidState("only draft applications can be deleted")
	}

	if err := s.applicationRepository.Delete(ctx, application); err != nil {
		return s.failure(err, "delete application", applicationID)
	}

	s.logger.Infow("application deleted", "application_id", applicationID)
	return nil
}

func (s *applicationService) GetApplication(ctx context.Context, applicationID int64) (*models.Application, error) {
	application, err := s.applicationRepository.GetOne(ctx, applicationID)
	if err != nil {
		return nil, s.failure(err, "get application", applicationID)
	}
	return application, nil
}

func (s *applicationService) ListApplications(ctx context.Context, status ...models.ApplicationStatus) ([]*models.Application, error) {
	applications, err := s.applicationRepository.GetMany(ctx, status...)
	if err != nil {
		return nil, s.failure(err, "list applications", 0)
	}
	return applications, nil
}

func (s *applicationService) GetVotingSummary(ctx context.Context, applicationID int64) (VotingSummary, error) {
	application, err := s.applicationRepository.GetOne(ctx, applicationID)
	if err != nil {
		return VotingSummary{}, s.failure(err, "get application", applicationID)
	}

	summary, err := s.summarize(ctx, application)
	if err != nil {
		return VotingSummary{}, s.failure(err, "compute voting summary", applicationID)
	}
	return summary, nil
}

func (s *applicationService) GetVotes(ctx context.Context, applicationID int64) ([]*models.Vote, error) {
	if _, err := s.applicationRepository.GetOne(ctx, applicationID); err != nil {
		return nil, s.failure(err, "get application", applicationID)
	}

	votes, err := s.voteRepository.GetManyByApplication(ctx, applicationID)
	if err != nil {
		return nil, s.failure(err, "get votes", applicationID)
	}
	return votes, nil
}

func (s *applicationService) GetVote(ctx context.Context, applicationID, voterID int64) (*models.Vote, error) {
	vote, err := s.voteRepository.GetOne(ctx, applicationID, voterID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, newWorkflowError(KindNotFound, fmt.Sprintf("user %d has not voted on application %d", voterID, applicationID))
	}
	if err != nil {
		return nil, s.failure(err, "get vote", applicationID)
	}
	return vote, nil
}

func (s *applicationService) GetPendingApplicationsForReviewer(ctx context.Context, reviewerID int64) ([]*models.Application, error) {
	applications, err := s.applicationRepository.GetMany(ctx,
		models.ApplicationStatusUnderReview,
		models.ApplicationStatusInDiscussion,
	)
	if err != nil {
		return nil, s.failure(err, "list applications", 0)
	}

	votes, err := s.voteRepository.GetManyByVoter(ctx, reviewerID)
	if err != nil {
		return nil, s.failure(err, "get reviewer votes", 0)
	}

	voted := make(map[int64]struct{}, len(votes))
	for _, vote := range votes {
		voted[vote.ApplicationID] = struct{}{}
	}

	pending := make([]*models.Application, 0, len(applications))
	for _, application := range applications {
		if _, ok := voted[application.ID]; !ok {
			pending = append(pending, application)
		}
	}
	return pending, nil
}

func (s *applicationService) GetStatistics(ctx context.Context) (Statistics, error) {
	applications, err := s.applicationRepository.GetMany(ctx)
	if err != nil {
		return Statistics{}, s.failure(err, "list applications", 0)
	}
	return CalculateStatistics(applications), nil
}

func (s *applicationService) summarize(ctx context.Context, application *models.Application) (VotingSummary, error) {
	votes, err := s.voteRepository.GetManyByApplication(ctx, application.ID)
	if err != nil {
		return VotingSummary{}, err
	}

	reviewers, err := s.roster.ActiveReviewers(ctx)
	if err != nil {
		return VotingSummary{}, err
	}

	return CalculateVotingSummary(application.ID, application.VotesRequiredForApproval, votes, reviewers), nil
}

func (s *applicationService) notifyApplicant(ctx context.Context, application *models.Application, notice Notice) {
	s.notify(ctx, application.ApplicantID, application, notice)
}

func (s *applicationService) notify(ctx context.Context, recipientID int64, application *models.Application, notice Notice) {
	notice.ApplicationID = &application.ID
	if _, err := s.notificationService.Notify(ctx, recipientID, notice); err != nil {
		s.logger.Warnw("failed to notify",
			"application_id", application.ID,
			"recipient_id", recipientID,
			"type", notice.Type,
			"error", err,
		)
	}
}

func (s *applicationService) notifyReviewers(ctx context.Context, application *models.Application, notice Notice) {
	reviewers, err := s.roster.ActiveReviewers(ctx)
	if err != nil {
		s.logger.Warnw("failed to get reviewers", "application_id", application.ID, "type", notice.Type, "error", err)
		return
	}

	notice.ApplicationID = &application.ID
	if err := s.notificationService.NotifyMany(ctx, userIDs(reviewers), notice); err != nil {
		s.logger.Warnw("failed to notify some reviewers", "application_id", application.ID, "type", notice.Type, "error", err)
	}
}

func (s *applicationService) failure(err error, operation string, applicationID int64) error {
	if _, ok := AsWorkflowError(err); ok {
		return err
	}
	if errors.Is(err, repositories.ErrNotFound) {
		return notFound("application", applicationID)
	}

	s.logger.Errorw("failed to "+operation, "application_id", applicationID, "error", err)
	return fmt.Errorf("failed to %s: %w", operation, err)
}

func validateProfile(profile models.ApplicationProfile) error {
	var problems validationErrors
	problems.check(strings.TrimSpace(profile.FullName) != "", "full name is required")
	problems.check(strings.Contains(profile.Email, "@"), "a valid email address is required")
	problems.check(profile.RequestedMonthlyAmount.IsPositive(), "requested monthly amount must be positive")
	return problems.err()
}

func applicationPath(applicationID int64) string {
	return fmt.Sprintf("/applications/%d", applicationID)
}
