package repositories

import (
	"application_review_system/configs"
	"application_review_system/internal/db"
	"application_review_system/internal/db/models"
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/go-pg/pg/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// These tests run against a real Postgres and are skipped unless
// DATABASE_URL points at a disposable database.
func newTestDB(t *testing.T) *pg.DB {
	t.Helper()

	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL is not set")
	}

	database, err := db.StartDB(configs.DB{URL: url, MigrationsPath: "../../../migrations"}, zap.NewNop().Sugar())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	_, err = database.Exec("TRUNCATE users, applications, votes, comments, notifications RESTART IDENTITY CASCADE")
	require.NoError(t, err)

	return database
}

type seeded struct {
	applications ApplicationRepository
	votes        VoteRepository
	comments     CommentRepository
	applicant    *models.User
	reviewers    []*models.User
	application  *models.Application
}

func seed(t *testing.T, database *pg.DB, status models.ApplicationStatus) *seeded {
	t.Helper()
	ctx := context.Background()
	users := NewUserRepository(database)

	applicant, err := users.Create(ctx, &models.User{Name: "Jane Doe", Role: models.UserRoleApplicant, IsActive: true})
	require.NoError(t, err)

	reviewers := make([]*models.User, 0, 2)
	for i := 0; i < 2; i++ {
		reviewer, err := users.Create(ctx, &models.User{Name: "Reviewer", Role: models.UserRoleReviewer, IsActive: true})
		require.NoError(t, err)
		reviewers = append(reviewers, reviewer)
	}

	applications := NewApplicationRepository(database)
	application, err := applications.Create(ctx, &models.Application{
		ApplicantID: applicant.ID,
		Status:      status,
		Profile: models.ApplicationProfile{
			FullName:               "Jane Doe",
			Email:                  "jane@example.org",
			RequestedMonthlyAmount: decimal.NewFromInt(1500),
		},
	})
	require.NoError(t, err)

	return &seeded{
		applications: applications,
		votes:        NewVoteRepository(database),
		comments:     NewCommentRepository(database),
		applicant:    applicant,
		reviewers:    reviewers,
		application:  application,
	}
}

func (s *seeded) ballot(voterID int64, decision models.VoteDecision, confidence int) *models.Vote {
	return &models.Vote{
		ApplicationID:   s.application.ID,
		VoterID:         voterID,
		Decision:        decision,
		Reasoning:       "Clear budget and realistic goals",
		ConfidenceLevel: confidence,
	}
}

func TestVoteRepository_UpsertOverwritesSameVoter(t *testing.T) {
	s := seed(t, newTestDB(t), models.ApplicationStatusInDiscussion)
	ctx := context.Background()
	voter := s.reviewers[0].ID

	_, err := s.votes.Upsert(ctx, s.ballot(voter, models.VoteDecisionApprove, 2))
	require.NoError(t, err)
	_, err = s.votes.Upsert(ctx, s.ballot(voter, models.VoteDecisionReject, 5))
	require.NoError(t, err)

	votes, err := s.votes.GetManyByApplication(ctx, s.application.ID)
	require.NoError(t, err)
	require.Len(t, votes, 1)
	assert.Equal(t, models.VoteDecisionReject, votes[0].Decision)
	assert.Equal(t, 5, votes[0].ConfidenceLevel)
}

func TestVoteRepository_LockedVoteRejectsUpsert(t *testing.T) {
	s := seed(t, newTestDB(t), models.ApplicationStatusInDiscussion)
	ctx := context.Background()
	voter := s.reviewers[0].ID

	_, err := s.votes.Upsert(ctx, s.ballot(voter, models.VoteDecisionApprove, 3))
	require.NoError(t, err)

	locked, err := s.votes.LockAll(ctx, s.application.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, locked)

	_, err = s.votes.Upsert(ctx, s.ballot(voter, models.VoteDecisionReject, 1))
	assert.ErrorIs(t, err, ErrVoteLocked)

	vote, err := s.votes.GetOne(ctx, s.application.ID, voter)
	require.NoError(t, err)
	assert.True(t, vote.IsLocked)
	assert.Equal(t, models.VoteDecisionApprove, vote.Decision)
}

func TestApplicationRepository_TransitionLocksVotesWithStatus(t *testing.T) {
	s := seed(t, newTestDB(t), models.ApplicationStatusInDiscussion)
	ctx := context.Background()

	for _, reviewer := range s.reviewers {
		_, err := s.votes.Upsert(ctx, s.ballot(reviewer.ID, models.VoteDecisionApprove, 4))
		require.NoError(t, err)
	}

	approved, err := s.applications.Transition(ctx, s.application.ID, true, func(_ Tx, application *models.Application) error {
		application.Status = models.ApplicationStatusApproved
		application.FinalDecision = models.FinalDecisionApproved
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusApproved, approved.Status)

	loaded, err := s.applications.GetOne(ctx, s.application.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusApproved, loaded.Status)

	votes, err := s.votes.GetManyByApplication(ctx, s.application.ID)
	require.NoError(t, err)
	require.Len(t, votes, 2)
	for _, vote := range votes {
		assert.True(t, vote.IsLocked)
	}
}

func TestApplicationRepository_TransitionWritesThroughTx(t *testing.T) {
	s := seed(t, newTestDB(t), models.ApplicationStatusUnderReview)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := s.applications.Transition(ctx, s.application.ID, false, func(tx Tx, application *models.Application) error {
		if _, err := tx.Votes().Upsert(ctx, s.ballot(s.reviewers[0].ID, models.VoteDecisionApprove, 4)); err != nil {
			return err
		}
		if _, err := tx.Comments().Create(ctx, &models.Comment{ApplicationID: application.ID, AuthorID: s.reviewers[0].ID, Content: "Looks solid"}); err != nil {
			return err
		}
		application.Status = models.ApplicationStatusInDiscussion
		return nil
	})
	require.NoError(t, err)

	exists, err := s.votes.Exists(ctx, s.application.ID, s.reviewers[0].ID)
	require.NoError(t, err)
	assert.True(t, exists)

	comments, err := s.comments.GetMany(ctx, s.application.ID, CommentFilter{})
	require.NoError(t, err)
	assert.Len(t, comments, 1)
}

func TestApplicationRepository_TransitionRollsBackSideWrites(t *testing.T) {
	s := seed(t, newTestDB(t), models.ApplicationStatusUnderReview)
	ctx := context.Background()
	failure := errors.New("boom")

	_, err := s.applications.Transition(ctx, s.application.ID, false, func(tx Tx, application *models.Application) error {
		if _, err := tx.Votes().Upsert(ctx, s.ballot(s.reviewers[0].ID, models.VoteDecisionApprove, 4)); err != nil {
			return err
		}
		if _, err := tx.Comments().Create(ctx, &models.Comment{ApplicationID: application.ID, AuthorID: s.reviewers[0].ID, Content: "Looks solid"}); err != nil {
			return err
		}
		application.Status = models.ApplicationStatusInDiscussion
		return failure
	})
	require.ErrorIs(t, err, failure)

	exists, err := s.votes.Exists(ctx, s.application.ID, s.reviewers[0].ID)
	require.NoError(t, err)
	assert.False(t, exists)

	comments, err := s.comments.GetMany(ctx, s.application.ID, CommentFilter{IncludePrivate: true, IncludeReplies: true})
	require.NoError(t, err)
	assert.Empty(t, comments)

	loaded, err := s.applications.GetOne(ctx, s.application.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusUnderReview, loaded.Status)
}

func TestApplicationRepository_TransitionMissing(t *testing.T) {
	database := newTestDB(t)

	_, err := NewApplicationRepository(database).Transition(context.Background(), 404, false, func(Tx, *models.Application) error {
		return nil
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCommentRepository_GetManyFilters(t *testing.T) {
	s := seed(t, newTestDB(t), models.ApplicationStatusUnderReview)
	ctx := context.Background()
	author := s.reviewers[0].ID

	root, err := s.comments.Create(ctx, &models.Comment{ApplicationID: s.application.ID, AuthorID: author, Content: "root"})
	require.NoError(t, err)
	_, err = s.comments.Create(ctx, &models.Comment{ApplicationID: s.application.ID, AuthorID: author, Content: "private", IsPrivate: true})
	require.NoError(t, err)
	_, err = s.comments.Create(ctx, &models.Comment{ApplicationID: s.application.ID, AuthorID: author, Content: "reply", ParentCommentID: &root.ID})
	require.NoError(t, err)
	_, err = s.comments.Create(ctx, &models.Comment{ApplicationID: s.application.ID, AuthorID: author, Content: "gone", IsDeleted: true})
	require.NoError(t, err)

	contents := func(filter CommentFilter) []string {
		comments, err := s.comments.GetMany(ctx, s.application.ID, filter)
		require.NoError(t, err)
		result := make([]string, 0, len(comments))
		for _, comment := range comments {
			result = append(result, comment.Content)
		}
		return result
	}

	assert.Equal(t, []string{"root"}, contents(CommentFilter{}))
	assert.Equal(t, []string{"root", "private"}, contents(CommentFilter{IncludePrivate: true}))
	assert.Equal(t, []string{"root", "reply"}, contents(CommentFilter{IncludeReplies: true}))
	assert.Equal(t, []string{"root", "gone"}, contents(CommentFilter{IncludeDeleted: true}))
	assert.Equal(t, []string{"root", "private", "reply", "gone"}, contents(CommentFilter{IncludePrivate: true, IncludeDeleted: true, IncludeReplies: true}))

	_, err = s.comments.GetOne(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}
