package di

import (
	"application_review_system/configs"
	"application_review_system/internal/db/models"
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewRepositories_DevWithoutDatabaseUsesMemory(t *testing.T) {
	repos, err := NewRepositories(configs.App{Environment: "dev"}, configs.DB{}, zap.NewNop().Sugar())
	require.NoError(t, err)
	defer repos.Close()

	user, err := repos.Users.Create(context.Background(), &models.User{Name: "Reviewer", Role: models.UserRoleReviewer, IsActive: true})
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
}

func TestNewRepositories_ProdRequiresDatabase(t *testing.T) {
	_, err := NewRepositories(configs.App{Environment: "prod"}, configs.DB{}, zap.NewNop().Sugar())
	assert.Error(t, err)
}

func TestNewServices_WiresSharedRepositories(t *testing.T) {
	repos, err := NewRepositories(configs.App{Environment: "dev"}, configs.DB{}, zap.NewNop().Sugar())
	require.NoError(t, err)

	svc := NewServices(repos, configs.App{Environment: "dev"}, configs.Review{MinReasoningLength: 10}, zap.NewNop().Sugar())

	application, err := svc.Applications.CreateApplication(context.Background(), 1, models.ApplicationProfile{
		FullName:               "Jane Doe",
		Email:                  "jane@example.org",
		RequestedMonthlyAmount: decimal.NewFromInt(150),
	})
	require.NoError(t, err)

	stored, err := repos.Applications.GetOne(context.Background(), application.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusDraft, stored.Status)
}
