package repositories

import (
	"application_review_system/internal/db/models"
	"context"
	"time"

	"github.com/go-pg/pg/v10"
)

type applicationRepository struct {
	repository
	pool *pg.DB
}

type ApplicationRepository interface {
	Create(ctx context.Context, request *models.Application) (*models.Application, error)
	Update(ctx context.Context, request *models.Application) (*models.Application, error)
	Delete(ctx context.Context, request *models.Application) error
	GetOne(ctx context.Context, applicationID int64) (*models.Application, error)
	GetMany(ctx context.Context, status ...models.ApplicationStatus) ([]*models.Application, error)
	// Transition loads the application under a row lock, applies mutate and
	// stores the result in one transaction. Votes and comments written through
	// tx are part of that transaction, and a mutate error rolls everything
	// back. With lockVotes set, every vote of the application is locked in the
	// same transaction.
	Transition(ctx context.Context, applicationID int64, lockVotes bool, mutate func(tx Tx, application *models.Application) error) (*models.Application, error)
}

func NewApplicationRepository(db *pg.DB) ApplicationRepository {
	return &applicationRepository{
		repository: repository{
			db: db,
		},
		pool: db,
	}
}

func (r *applicationRepository) Create(ctx context.Context, request *models.Application) (*models.Application, error) {
	_, err := r.db.ModelContext(ctx, request).Returning("*").Insert()
	if err != nil {
		return nil, err
	}

	return request, nil
}

func (r *applicationRepository) Update(ctx context.Context, request *models.Application) (*models.Application, error) {
	request.UpdatedAt = time.Now()

	_, err := r.db.ModelContext(ctx, request).WherePK().Update()
	if err != nil {
		return nil, err
	}

	return r.GetOne(ctx, request.ID)
}

func (r *applicationRepository) Delete(ctx context.Context, request *models.Application) error {
	result, err := r.db.ModelContext(ctx, request).WherePK().Delete()
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *applicationRepository) GetOne(ctx context.Context, applicationID int64) (*models.Application, error) {
	application := &models.Application{}

	err := r.db.ModelContext(ctx, application).
		Where("id = ?", applicationID).
		Select()

	return application, notFound(err)
}

func (r *applicationRepository) GetMany(ctx context.Context, status ...models.ApplicationStatus) ([]*models.Application, error) {
	applications := make([]*models.Application, 0)

	query := r.db.ModelContext(ctx, &applications)
	if len(status) > 0 {
		query = query.WhereIn("status IN (?)", status)
	}

	err := query.OrderExpr("created_at ASC").Select()

	return applications, err
}

func (r *applicationRepository) Transition(
	ctx context.Context,
	applicationID int64,
	lockVotes bool,
	mutate func(tx Tx, application *models.Application) error,
) (*models.Application, error) {
	application := &models.Application{}

	err := r.pool.RunInTransaction(ctx, func(tx *pg.Tx) error {
		// NO KEY UPDATE still lets vote and comment inserts take their
		// foreign key share lock on the row.
		err := tx.ModelContext(ctx, application).
			Where("id = ?", applicationID).
			For("NO KEY UPDATE").
			Select()
		if err != nil {
			return notFound(err)
		}

		scoped := transaction{tx: tx}
		if err := mutate(scoped, application); err != nil {
			return err
		}

		application.UpdatedAt = time.Now()
		if _, err := tx.ModelContext(ctx, application).WherePK().Update(); err != nil {
			return err
		}

		if lockVotes {
			if _, err := scoped.Votes().LockAll(ctx, applicationID); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return application, nil
}
