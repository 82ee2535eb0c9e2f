package memory

import (
	"application_review_system/internal/db/models"
	"application_review_system/internal/db/repositories"
	"context"
	"sort"
	"time"
)

type commentRepository struct {
	store *Store
}

func (r *commentRepository) Create(_ context.Context, request *models.Comment) (*models.Comment, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextCommentID++
	now := time.Now()
	request.ID = s.nextCommentID
	request.CreatedAt = now
	request.UpdatedAt = now
	s.comments[request.ID] = *request

	comment := *request
	return &comment, nil
}

func (r *commentRepository) Update(_ context.Context, request *models.Comment) (*models.Comment, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.comments[request.ID]; !ok {
		return nil, repositories.ErrNotFound
	}

	request.UpdatedAt = time.Now()
	s.comments[request.ID] = *request

	comment := *request
	return &comment, nil
}

func (r *commentRepository) GetOne(_ context.Context, commentID int64) (*models.Comment, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	comment, ok := s.comments[commentID]
	if !ok {
		return nil, repositories.ErrNotFound
	}

	return &comment, nil
}

func (r *commentRepository) GetMany(_ context.Context, applicationID int64, filter repositories.CommentFilter) ([]*models.Comment, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	comments := make([]*models.Comment, 0)
	for _, comment := range s.comments {
		if comment.ApplicationID != applicationID {
			continue
		}
		if comment.IsPrivate && !filter.IncludePrivate {
			continue
		}
		if comment.IsDeleted && !filter.IncludeDeleted {
			continue
		}
		if comment.IsReply() && !filter.IncludeReplies {
			continue
		}
		comment := comment
		comments = append(comments, &comment)
	}

	sort.Slice(comments, func(i, j int) bool {
		if !comments[i].CreatedAt.Equal(comments[j].CreatedAt) {
			return comments[i].CreatedAt.Before(comments[j].CreatedAt)
		}
		return comments[i].ID < comments[j].ID
	})
	return comments, nil
}
