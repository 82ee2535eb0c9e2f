package memory

import (
	"application_review_system/internal/db/models"
	"application_review_system/internal/db/repositories"
	"context"
	"sort"
)

type userRepository struct {
	store *Store
}

func (r *userRepository) Create(_ context.Context, request *models.User) (*models.User, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextUserID++
	request.ID = s.nextUserID
	if request.Role == "" {
		request.Role = models.UserRoleApplicant
	}
	s.users[request.ID] = *request

	user := *request
	return &user, nil
}

func (r *userRepository) Update(_ context.Context, request *models.User) (*models.User, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[request.ID]; !ok {
		return nil, repositories.ErrNotFound
	}
	s.users[request.ID] = *request

	user := *request
	return &user, nil
}

func (r *userRepository) GetOneByID(_ context.Context, userID int64) (*models.User, error) {
	return r.findOne(func(user models.User) bool {
		return user.ID == userID
	})
}

func (r *userRepository) GetOneByTelegramID(_ context.Context, telegramID int64) (*models.User, error) {
	return r.findOne(func(user models.User) bool {
		return telegramID != 0 && user.TelegramID == telegramID
	})
}

func (r *userRepository) GetOneByTelegramNickname(_ context.Context, telegramNickname string) (*models.User, error) {
	return r.findOne(func(user models.User) bool {
		return telegramNickname != "" && user.TelegramNickname == telegramNickname
	})
}

func (r *userRepository) GetManyByRole(_ context.Context, role models.UserRole, activeOnly bool) ([]*models.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]*models.User, 0)
	for _, user := range s.users {
		if user.Role != role || (activeOnly && !user.IsActive) {
			continue
		}
		user := user
		users = append(users, &user)
	}

	sort.Slice(users, func(i, j int) bool {
		return users[i].ID < users[j].ID
	})
	return users, nil
}

func (r *userRepository) findOne(match func(user models.User) bool) (*models.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if match(user) {
			return &user, nil
		}
	}

	return nil, repositories.ErrNotFound
}
