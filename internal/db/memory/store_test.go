package memory

import (
	"application_review_system/internal/db/models"
	"application_review_system/internal/db/repositories"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createApplication(t *testing.T, store *Store, status models.ApplicationStatus) *models.Application {
	t.Helper()

	application, err := store.Applications().Create(context.Background(), &models.Application{
		ApplicantID: 1,
		Status:      status,
		Profile:     models.ApplicationProfile{FullName: "Jane Doe", Details: map[string]string{"city": "Riga"}},
	})
	require.NoError(t, err)
	return application
}

func TestApplications_CreateDefaultsToDraft(t *testing.T) {
	store := NewStore()

	application := createApplication(t, store, "")

	assert.Equal(t, int64(1), application.ID)
	assert.Equal(t, models.ApplicationStatusDraft, application.Status)
}

func TestApplications_GetOneReturnsCopy(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	created := createApplication(t, store, models.ApplicationStatusDraft)

	loaded, err := store.Applications().GetOne(ctx, created.ID)
	require.NoError(t, err)
	loaded.Status = models.ApplicationStatusApproved
	loaded.Profile.Details["city"] = "Oslo"

	again, err := store.Applications().GetOne(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusDraft, again.Status)
	assert.Equal(t, "Riga", again.Profile.Details["city"])
}

func TestApplications_GetManyFiltersByStatus(t *testing.T) {
	store := NewStore()
	createApplication(t, store, models.ApplicationStatusDraft)
	createApplication(t, store, models.ApplicationStatusUnderReview)
	createApplication(t, store, models.ApplicationStatusInDiscussion)

	applications, err := store.Applications().GetMany(context.Background(),
		models.ApplicationStatusUnderReview, models.ApplicationStatusInDiscussion)
	require.NoError(t, err)
	require.Len(t, applications, 2)
	assert.Equal(t, int64(2), applications[0].ID)
	assert.Equal(t, int64(3), applications[1].ID)
}

func TestApplications_DeleteMissing(t *testing.T) {
	store := NewStore()

	err := store.Applications().Delete(context.Background(), &models.Application{ID: 42})

	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestApplications_TransitionMutateErrorLeavesEntityUnchanged(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	created := createApplication(t, store, models.ApplicationStatusDraft)
	failure := errors.New("boom")

	_, err := store.Applications().Transition(ctx, created.ID, false, func(_ repositories.Tx, application *models.Application) error {
		application.Status = models.ApplicationStatusSubmitted
		return failure
	})
	require.ErrorIs(t, err, failure)

	loaded, err := store.Applications().GetOne(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusDraft, loaded.Status)
}

func TestApplications_TransitionMutateErrorRollsBackSideWrites(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	created := createApplication(t, store, models.ApplicationStatusInDiscussion)
	failure := errors.New("boom")

	_, err := store.Votes().Upsert(ctx, &models.Vote{ApplicationID: created.ID, VoterID: 7, Decision: models.VoteDecisionApprove, ConfidenceLevel: 3})
	require.NoError(t, err)
	existing, err := store.Comments().Create(ctx, &models.Comment{ApplicationID: created.ID, AuthorID: 7, Content: "original"})
	require.NoError(t, err)

	_, err = store.Applications().Transition(ctx, created.ID, false, func(tx repositories.Tx, application *models.Application) error {
		_, err := tx.Votes().Upsert(ctx, &models.Vote{ApplicationID: created.ID, VoterID: 7, Decision: models.VoteDecisionReject, ConfidenceLevel: 5})
		require.NoError(t, err)
		_, err = tx.Votes().Upsert(ctx, &models.Vote{ApplicationID: created.ID, VoterID: 8, Decision: models.VoteDecisionReject, ConfidenceLevel: 1})
		require.NoError(t, err)
		_, err = tx.Comments().Create(ctx, &models.Comment{ApplicationID: created.ID, AuthorID: 8, Content: "added"})
		require.NoError(t, err)
		edited := *existing
		edited.Content = "edited"
		_, err = tx.Comments().Update(ctx, &edited)
		require.NoError(t, err)

		application.Status = models.ApplicationStatusApproved
		return failure
	})
	require.ErrorIs(t, err, failure)

	vote, err := store.Votes().GetOne(ctx, created.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, models.VoteDecisionApprove, vote.Decision)
	assert.Equal(t, 3, vote.ConfidenceLevel)

	_, err = store.Votes().GetOne(ctx, created.ID, 8)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	comments, err := store.Comments().GetMany(ctx, created.ID, repositories.CommentFilter{})
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "original", comments[0].Content)

	loaded, err := store.Applications().GetOne(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusInDiscussion, loaded.Status)
}

func TestApplications_TransitionCommitsSideWrites(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	created := createApplication(t, store, models.ApplicationStatusInDiscussion)

	_, err := store.Applications().Transition(ctx, created.ID, true, func(tx repositories.Tx, application *models.Application) error {
		if _, err := tx.Votes().Upsert(ctx, &models.Vote{ApplicationID: created.ID, VoterID: 7, Decision: models.VoteDecisionApprove, ConfidenceLevel: 3}); err != nil {
			return err
		}
		application.Status = models.ApplicationStatusApproved
		return nil
	})
	require.NoError(t, err)

	vote, err := store.Votes().GetOne(ctx, created.ID, 7)
	require.NoError(t, err)
	assert.True(t, vote.IsLocked)
}

func TestApplications_TransitionLocksVotes(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	created := createApplication(t, store, models.ApplicationStatusInDiscussion)

	_, err := store.Votes().Upsert(ctx, &models.Vote{ApplicationID: created.ID, VoterID: 7, Decision: models.VoteDecisionApprove, ConfidenceLevel: 3})
	require.NoError(t, err)

	_, err = store.Applications().Transition(ctx, created.ID, true, func(_ repositories.Tx, application *models.Application) error {
		application.Status = models.ApplicationStatusApproved
		return nil
	})
	require.NoError(t, err)

	vote, err := store.Votes().GetOne(ctx, created.ID, 7)
	require.NoError(t, err)
	assert.True(t, vote.IsLocked)

	_, err = store.Votes().Upsert(ctx, &models.Vote{ApplicationID: created.ID, VoterID: 7, Decision: models.VoteDecisionReject, ConfidenceLevel: 3})
	assert.ErrorIs(t, err, repositories.ErrVoteLocked)
}

func TestApplications_TransitionMissing(t *testing.T) {
	store := NewStore()

	_, err := store.Applications().Transition(context.Background(), 99, false, func(repositories.Tx, *models.Application) error {
		return nil
	})

	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestVotes_UpsertOverwritesSameVoter(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	first, err := store.Votes().Upsert(ctx, &models.Vote{ApplicationID: 1, VoterID: 2, Decision: models.VoteDecisionApprove, ConfidenceLevel: 2})
	require.NoError(t, err)
	second, err := store.Votes().Upsert(ctx, &models.Vote{ApplicationID: 1, VoterID: 2, Decision: models.VoteDecisionReject, ConfidenceLevel: 5})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)

	votes, err := store.Votes().GetManyByApplication(ctx, 1)
	require.NoError(t, err)
	require.Len(t, votes, 1)
	assert.Equal(t, models.VoteDecisionReject, votes[0].Decision)
	assert.Equal(t, 5, votes[0].ConfidenceLevel)
}

func TestVotes_ConcurrentDistinctVoters(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for voterID := int64(1); voterID <= 50; voterID++ {
		wg.Add(1)
		go func(voterID int64) {
			defer wg.Done()
			_, err := store.Votes().Upsert(ctx, &models.Vote{ApplicationID: 1, VoterID: voterID, Decision: models.VoteDecisionApprove, ConfidenceLevel: 3})
			assert.NoError(t, err)
		}(voterID)
	}
	wg.Wait()

	votes, err := store.Votes().GetManyByApplication(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, votes, 50)
}

func TestVotes_ExistsAndLockAll(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	exists, err := store.Votes().Exists(ctx, 1, 2)
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = store.Votes().Upsert(ctx, &models.Vote{ApplicationID: 1, VoterID: 2, Decision: models.VoteDecisionAbstain, ConfidenceLevel: 1})
	require.NoError(t, err)
	_, err = store.Votes().Upsert(ctx, &models.Vote{ApplicationID: 2, VoterID: 2, Decision: models.VoteDecisionAbstain, ConfidenceLevel: 1})
	require.NoError(t, err)

	exists, err = store.Votes().Exists(ctx, 1, 2)
	require.NoError(t, err)
	assert.True(t, exists)

	locked, err := store.Votes().LockAll(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, locked)

	other, err := store.Votes().GetOne(ctx, 2, 2)
	require.NoError(t, err)
	assert.False(t, other.IsLocked)
}

func TestComments_GetManyFilters(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	comments := store.Comments()

	root, err := comments.Create(ctx, &models.Comment{ApplicationID: 1, AuthorID: 1, Content: "root"})
	require.NoError(t, err)
	_, err = comments.Create(ctx, &models.Comment{ApplicationID: 1, AuthorID: 2, Content: "private", IsPrivate: true})
	require.NoError(t, err)
	_, err = comments.Create(ctx, &models.Comment{ApplicationID: 1, AuthorID: 2, Content: "reply", ParentCommentID: &root.ID})
	require.NoError(t, err)
	_, err = comments.Create(ctx, &models.Comment{ApplicationID: 1, AuthorID: 2, Content: "gone", IsDeleted: true})
	require.NoError(t, err)
	_, err = comments.Create(ctx, &models.Comment{ApplicationID: 2, AuthorID: 2, Content: "elsewhere"})
	require.NoError(t, err)

	visible, err := comments.GetMany(ctx, 1, repositories.CommentFilter{})
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, "root", visible[0].Content)

	all, err := comments.GetMany(ctx, 1, repositories.CommentFilter{IncludePrivate: true, IncludeDeleted: true, IncludeReplies: true})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "root", all[0].Content)
	assert.Equal(t, "gone", all[3].Content)
}

func TestNotifications_UndeliveredAndPurge(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	notifications := store.Notifications()
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	fresh, err := notifications.Create(ctx, &models.Notification{RecipientID: 1, Title: "fresh", ExpiresAt: &future})
	require.NoError(t, err)
	stale, err := notifications.Create(ctx, &models.Notification{RecipientID: 1, Title: "stale", ExpiresAt: &past})
	require.NoError(t, err)
	exhausted, err := notifications.Create(ctx, &models.Notification{RecipientID: 1, Title: "exhausted"})
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		require.NoError(t, notifications.RecordDeliveryFailure(ctx, exhausted.ID, "smtp down"))
	}

	undelivered, err := notifications.GetManyUndelivered(ctx, 10, 3, now)
	require.NoError(t, err)
	require.Len(t, undelivered, 1)
	assert.Equal(t, fresh.ID, undelivered[0].ID)

	require.NoError(t, notifications.MarkRead(ctx, stale.ID, 1, now))

	expired, deleted, err := notifications.Purge(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, expired)
	assert.Equal(t, 1, deleted)

	_, err = notifications.GetOne(ctx, stale.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestNotifications_MarkReadWrongRecipient(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	notification, err := store.Notifications().Create(ctx, &models.Notification{RecipientID: 1, Title: "hello"})
	require.NoError(t, err)

	err = store.Notifications().MarkRead(ctx, notification.ID, 2, time.Now())
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	count, err := store.Notifications().CountUnread(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	marked, err := store.Notifications().MarkAllRead(ctx, 1, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, marked)
}

func TestUsers_GetManyByRoleActiveOnly(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	_, err := store.Users().Create(ctx, &models.User{Name: "Ann", Role: models.UserRoleReviewer, IsActive: true})
	require.NoError(t, err)
	_, err = store.Users().Create(ctx, &models.User{Name: "Bob", Role: models.UserRoleReviewer})
	require.NoError(t, err)
	_, err = store.Users().Create(ctx, &models.User{Name: "Cid", TelegramNickname: "cid", TelegramID: 77})
	require.NoError(t, err)

	reviewers, err := store.Users().GetManyByRole(ctx, models.UserRoleReviewer, true)
	require.NoError(t, err)
	require.Len(t, reviewers, 1)
	assert.Equal(t, "Ann", reviewers[0].Name)

	user, err := store.Users().GetOneByTelegramID(ctx, 77)
	require.NoError(t, err)
	assert.Equal(t, models.UserRoleApplicant, user.Role)

	_, err = store.Users().GetOneByTelegramNickname(ctx, "nobody")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}
