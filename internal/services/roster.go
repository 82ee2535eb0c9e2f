package services

import (
	"application_review_system/internal/db/models"
	"application_review_system/internal/db/repositories"
	"context"
)

type ReviewerRoster interface {
	ActiveReviewers(ctx context.Context) ([]*models.User, error)
}

type reviewerRoster struct {
	userRepository repositories.UserRepository
}

func NewReviewerRoster(userRepository repositories.UserRepository) ReviewerRoster {
	return &reviewerRoster{userRepository: userRepository}
}

func (r *reviewerRoster) ActiveReviewers(ctx context.Context) ([]*models.User, error) {
	return r.userRepository.GetManyByRole(ctx, models.UserRoleReviewer, true)
}

func userIDs(users []*models.User) []int64 {
	ids := make([]int64, 0, len(users))
	for _, user := range users {
		ids = append(ids, user.ID)
	}
	return ids
}
