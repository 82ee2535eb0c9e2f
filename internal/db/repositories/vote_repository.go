package repositories

import (
	"application_review_system/internal/db/models"
	"context"
	"errors"
	"time"

	"github.com/go-pg/pg/v10"
)

type voteRepository struct {
	repository
}

type VoteRepository interface {
	// Upsert inserts the ballot or overwrites the existing unlocked ballot of
	// the same (application, voter) pair. A locked ballot yields ErrVoteLocked.
	Upsert(ctx context.Context, request *models.Vote) (*models.Vote, error)
	LockAll(ctx context.Context, applicationID int64) (int, error)
	GetOne(ctx context.Context, applicationID, voterID int64) (*models.Vote, error)
	Exists(ctx context.Context, applicationID, voterID int64) (bool, error)
	GetManyByApplication(ctx context.Context, applicationID int64) ([]*models.Vote, error)
	GetManyByVoter(ctx context.Context, voterID int64) ([]*models.Vote, error)
}

func NewVoteRepository(db *pg.DB) VoteRepository {
	return &voteRepository{
		repository: repository{
			db: db,
		},
	}
}

func (r *voteRepository) Upsert(ctx context.Context, request *models.Vote) (*models.Vote, error) {
	now := time.Now()
	request.CreatedAt = now
	request.UpdatedAt = now
	request.IsLocked = false

	result, err := r.db.ModelContext(ctx, request).
		OnConflict("(application_id, voter_id) DO UPDATE").
		Set("decision = EXCLUDED.decision").
		Set("reasoning = EXCLUDED.reasoning").
		Set("confidence_level = EXCLUDED.confidence_level").
		Set("updated_at = EXCLUDED.updated_at").
		Where("vote.is_locked = FALSE").
		Returning("*").
		Insert()
	if errors.Is(err, pg.ErrNoRows) {
		return nil, ErrVoteLocked
	}
	if err != nil {
		return nil, err
	}

	if result.RowsAffected() == 0 {
		return nil, ErrVoteLocked
	}

	return request, nil
}

func (r *voteRepository) LockAll(ctx context.Context, applicationID int64) (int, error) {
	result, err := r.db.ModelContext(ctx, (*models.Vote)(nil)).
		Set("is_locked = TRUE").
		Set("updated_at = now()").
		Where("application_id = ?", applicationID).
		Where("is_locked = FALSE").
		Update()
	if err != nil {
		return 0, err
	}

	return result.RowsAffected(), nil
}

func (r *voteRepository) GetOne(ctx context.Context, applicationID, voterID int64) (*models.Vote, error) {
	vote := &models.Vote{}

	err := r.db.ModelContext(ctx, vote).
		Where("application_id = ?", applicationID).
		Where("voter_id = ?", voterID).
		Select()

	return vote, notFound(err)
}

func (r *voteRepository) Exists(ctx context.Context, applicationID, voterID int64) (bool, error) {
	return r.db.ModelContext(ctx, (*models.Vote)(nil)).
		Where("application_id = ?", applicationID).
		Where("voter_id = ?", voterID).
		Exists()
}

func (r *voteRepository) GetManyByApplication(ctx context.Context, applicationID int64) ([]*models.Vote, error) {
	votes := make([]*models.Vote, 0)

	err := r.db.ModelContext(ctx, &votes).
		Where("application_id = ?", applicationID).
		OrderExpr("created_at ASC").
		Select()

	return votes, err
}

func (r *voteRepository) GetManyByVoter(ctx context.Context, voterID int64) ([]*models.Vote, error) {
	votes := make([]*models.Vote, 0)

	err := r.db.ModelContext(ctx, &votes).
		Where("voter_id = ?", voterID).
		OrderExpr("created_at ASC").
		Select()

	return votes, err
}
