package repositories

import (
	"application_review_system/internal/db/models"
	"context"

	"github.com/go-pg/pg/v10"
)

type userRepository struct {
	repository
}

type UserRepository interface {
	Create(ctx context.Context, request *models.User) (*models.User, error)
	Update(ctx context.Context, request *models.User) (*models.User, error)
	GetOneByID(ctx context.Context, userID int64) (*models.User, error)
	GetOneByTelegramID(ctx context.Context, telegramID int64) (*models.User, error)
	GetOneByTelegramNickname(ctx context.Context, telegramNickname string) (*models.User, error)
	GetManyByRole(ctx context.Context, role models.UserRole, activeOnly bool) ([]*models.User, error)
}

func NewUserRepository(db *pg.DB) UserRepository {
	return &userRepository{
		repository: repository{
			db: db,
		},
	}
}

func (r *userRepository) Create(ctx context.Context, request *models.User) (*models.User, error) {
	_, err := r.db.ModelContext(ctx, request).Returning("*").Insert()
	if err != nil {
		return nil, err
	}

	return request, nil
}

func (r *userRepository) Update(ctx context.Context, request *models.User) (*models.User, error) {
	_, err := r.db.ModelContext(ctx, request).WherePK().Update()
	if err != nil {
		return nil, err
	}

	return r.GetOneByID(ctx, request.ID)
}

func (r *userRepository) GetOneByID(ctx context.Context, userID int64) (*models.User, error) {
	user := &models.User{}

	err := r.db.ModelContext(ctx, user).
		Where("id = ?", userID).
		Select()

	return user, notFound(err)
}

func (r *userRepository) GetOneByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	user := &models.User{}

	err := r.db.ModelContext(ctx, user).
		Where("telegram_id = ?", telegramID).
		Select()

	return user, notFound(err)
}

func (r *userRepository) GetOneByTelegramNickname(ctx context.Context, telegramNickname string) (*models.User, error) {
	user := &models.User{}

	err := r.db.ModelContext(ctx, user).
		Where("telegram_nickname = ?", telegramNickname).
		Select()

	return user, notFound(err)
}

func (r *userRepository) GetManyByRole(ctx context.Context, role models.UserRole, activeOnly bool) ([]*models.User, error) {
	users := make([]*models.User, 0)

	query := r.db.ModelContext(ctx, &users).
		Where("role = ?", role)
	if activeOnly {
		query = query.Where("is_active = TRUE")
	}

	err := query.OrderExpr("id ASC").Select()

	return users, err
}
