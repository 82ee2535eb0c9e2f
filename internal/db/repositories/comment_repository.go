package repositories

import (
	"application_review_system/internal/db/models"
	"context"
	"time"

	"github.com/go-pg/pg/v10"
)

type CommentFilter struct {
	IncludePrivate bool
	IncludeDeleted bool
	IncludeReplies bool
}

type commentRepository struct {
	repository
}

type CommentRepository interface {
	Create(ctx context.Context, request *models.Comment) (*models.Comment, error)
	Update(ctx context.Context, request *models.Comment) (*models.Comment, error)
	GetOne(ctx context.Context, commentID int64) (*models.Comment, error)
	GetMany(ctx context.Context, applicationID int64, filter CommentFilter) ([]*models.Comment, error)
}

func NewCommentRepository(db *pg.DB) CommentRepository {
	return &commentRepository{
		repository: repository{
			db: db,
		},
	}
}

func (r *commentRepository) Create(ctx context.Context, request *models.Comment) (*models.Comment, error) {
	_, err := r.db.ModelContext(ctx, request).Returning("*").Insert()
	if err != nil {
		return nil, err
	}

	return request, nil
}

func (r *commentRepository) Update(ctx context.Context, request *models.Comment) (*models.Comment, error) {
	request.UpdatedAt = time.Now()

	_, err := r.db.ModelContext(ctx, request).WherePK().Update()
	if err != nil {
		return nil, err
	}

	return r.GetOne(ctx, request.ID)
}

func (r *commentRepository) GetOne(ctx context.Context, commentID int64) (*models.Comment, error) {
	comment := &models.Comment{}

	err := r.db.ModelContext(ctx, comment).
		Where("id = ?", commentID).
		Select()

	return comment, notFound(err)
}

func (r *commentRepository) GetMany(ctx context.Context, applicationID int64, filter CommentFilter) ([]*models.Comment, error) {
	comments := make([]*models.Comment, 0)

	query := r.db.ModelContext(ctx, &comments).
		Where("application_id = ?", applicationID)

	if !filter.IncludePrivate {
		query = query.Where("is_private = FALSE")
	}
	if !filter.IncludeDeleted {
		query = query.Where("is_deleted = FALSE")
	}
	if !filter.IncludeReplies {
		query = query.Where("parent_comment_id IS NULL")
	}

	err := query.OrderExpr("created_at ASC, id ASC").Select()

	return comments, err
}
