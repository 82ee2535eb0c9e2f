package services

import (
	"application_review_system/internal/db/models"
	"application_review_system/internal/db/repositories"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

type AddCommentRequest struct {
	ApplicationID        int64  `json:"-"`
	AuthorID             int64  `json:"-"`
	Content              string `json:"content"`
	IsPrivate            bool   `json:"is_private"`
	IsInformationRequest bool   `json:"is_information_request"`
	ParentCommentID      *int64 `json:"parent_comment_id"`
}

type CommentService interface {
	AddComment(ctx context.Context, request AddCommentRequest) (*models.Comment, error)
	GetComments(ctx context.Context, applicationID int64, filter repositories.CommentFilter) ([]*models.Comment, error)
	EditComment(ctx context.Context, commentID, authorID int64, content string) (*models.Comment, error)
	DeleteComment(ctx context.Context, commentID, authorID int64) error
	MarkInformationRequestResponded(ctx context.Context, commentID int64) (*models.Comment, error)
	// LatestOpenInformationRequest returns nil when every request has been
	// answered.
	LatestOpenInformationRequest(ctx context.Context, applicationID int64) (*models.Comment, error)
	// WithTx returns a CommentService whose comment writes join tx.
	WithTx(tx repositories.Tx) CommentService
}

type commentService struct {
	applicationRepository repositories.ApplicationRepository
	commentRepository     repositories.CommentRepository
	sanitizer             *bluemonday.Policy
	logger                *zap.SugaredLogger
	now                   func() time.Time
}

func NewCommentService(
	applicationRepository repositories.ApplicationRepository,
	commentRepository repositories.CommentRepository,
	logger *zap.SugaredLogger,
) CommentService {
	return &commentService{
		applicationRepository: applicationRepository,
		commentRepository:     commentRepository,
		sanitizer:             bluemonday.StrictPolicy(),
		logger:                logger,
		now:                   time.Now,
	}
}

func (s *commentService) WithTx(tx repositories.Tx) CommentService {
	scoped := *s
	scoped.commentRepository = tx.Comments()
	return &scoped
}

func (s *commentService) AddComment(ctx context.Context, request AddCommentRequest) (*models.Comment, error) {
	content := sanitize(s.sanitizer, request.Content)

	var problems validationErrors
	problems.check(content != "", "comment content is required")
	if err := problems.err(); err != nil {
		return nil, err
	}

	if _, err := s.applicationRepository.GetOne(ctx, request.ApplicationID); err != nil {
		return nil, s.failure(err, "get application", "application", request.ApplicationID)
	}

	if request.ParentCommentID != nil {
		parent, err := s.commentRepository.GetOne(ctx, *request.ParentCommentID)
		if err != nil {
			return nil, s.failure(err, "get parent comment", "comment", *request.ParentCommentID)
		}
		problems.check(parent.ApplicationID == request.ApplicationID, "parent comment belongs to another application")
		problems.check(!parent.IsDeleted, "parent comment was deleted")
		if err := problems.err(); err != nil {
			return nil, err
		}
	}

	comment, err := s.commentRepository.Create(ctx, &models.Comment{
		ApplicationID:        request.ApplicationID,
		AuthorID:             request.AuthorID,
		Content:              content,
		IsPrivate:            request.IsPrivate,
		IsInformationRequest: request.IsInformationRequest,
		ParentCommentID:      request.ParentCommentID,
	})
	if err != nil {
		return nil, s.failure(err, "create comment", "application", request.ApplicationID)
	}

	s.logger.Infow("comment added",
		"application_id", comment.ApplicationID,
		"comment_id", comment.ID,
		"information_request", comment.IsInformationRequest,
	)
	return comment, nil
}

func (s *commentService) GetComments(ctx context.Context, applicationID int64, filter repositories.CommentFilter) ([]*models.Comment, error) {
	comments, err := s.commentRepository.GetMany(ctx, applicationID, filter)
	if err != nil {
		return nil, s.failure(err, "get comments", "application", applicationID)
	}
	return comments, nil
}

func (s *commentService) EditComment(ctx context.Context, commentID, authorID int64, content string) (*models.Comment, error) {
	content = sanitize(s.sanitizer, content)
	if content == "" {
		return nil, newWorkflowError(KindValidation, "comment content is required")
	}

	comment, err := s.getOwnComment(ctx, commentID, authorID)
	if err != nil {
		return nil, err
	}

	comment.Content = content
	comment.IsEdited = true

	comment, err = s.commentRepository.Update(ctx, comment)
	if err != nil {
		return nil, s.failure(err, "update comment", "comment", commentID)
	}
	return comment, nil
}

func (s *commentService) DeleteComment(ctx context.Context, commentID, authorID int64) error {
	comment, err := s.getOwnComment(ctx, commentID, authorID)
	if err != nil {
		return err
	}

	deletedAt := s.now()
	comment.IsDeleted = true
	comment.DeletedAt = &deletedAt

	if _, err := s.commentRepository.Update(ctx, comment); err != nil {
		return s.failure(err, "delete comment", "comment", commentID)
	}
	return nil
}

func (s *commentService) MarkInformationRequestResponded(ctx context.Context, commentID int64) (*models.Comment, error) {
	comment, err := s.commentRepository.GetOne(ctx, commentID)
	if err != nil {
		return nil, s.failure(err, "get comment", "comment", commentID)
	}

	if !comment.IsInformationRequest {
		return nil, invalidState("comment %d is not an information request", commentID)
	}
	if comment.HasResponse {
		return comment, nil
	}

	comment.HasResponse = true
	comment, err = s.commentRepository.Update(ctx, comment)
	if err != nil {
		return nil, s.failure(err, "update comment", "comment", commentID)
	}
	return comment, nil
}

func (s *commentService) LatestOpenInformationRequest(ctx context.Context, applicationID int64) (*models.Comment, error) {
	comments, err := s.commentRepository.GetMany(ctx, applicationID, repositories.CommentFilter{})
	if err != nil {
		return nil, s.failure(err, "get comments", "application", applicationID)
	}

	for i := len(comments) - 1; i >= 0; i-- {
		if comments[i].IsInformationRequest && !comments[i].HasResponse {
			return comments[i], nil
		}
	}
	return nil, nil
}

func (s *commentService) getOwnComment(ctx context.Context, commentID, authorID int64) (*models.Comment, error) {
	comment, err := s.commentRepository.GetOne(ctx, commentID)
	if err != nil {
		return nil, s.failure(err, "get comment", "comment", commentID)
	}
	if comment.IsDeleted {
		return nil, notFound("comment", commentID)
	}
	if comment.AuthorID != authorID {
		return nil, unauthorized("only the author can change comment %d", commentID)
	}
	return comment, nil
}

func (s *commentService) failure(err error, operation, entity string, id int64) error {
	if _, ok := AsWorkflowError(err); ok {
		return err
	}
	if errors.Is(err, repositories.ErrNotFound) {
		return notFound(entity, id)
	}

	s.logger.Errorw("failed to "+operation, entity+"_id", id, "error", err)
	return fmt.Errorf("failed to %s: %w", operation, err)
}

func sanitize(policy *bluemonday.Policy, text string) string {
	return strings.TrimSpace(policy.Sanitize(text))
}
