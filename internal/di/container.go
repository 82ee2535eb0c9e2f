package di

import (
	"application_review_system/configs"
	"application_review_system/internal/db"
	"application_review_system/internal/db/memory"
	"application_review_system/internal/db/repositories"
	"application_review_system/internal/services"
	"context"
	"errors"
	"time"

	zaploki "github.com/paul-milne/zap-loki"
	"go.uber.org/zap"
)

func NewLogger(appName, environment, lokiURL string) *zap.SugaredLogger {
	if environment == "dev" {
		return zap.Must(zap.NewDevelopment()).Sugar().With("app", appName)
	}

	if lokiURL == "" {
		return zap.Must(zap.NewProduction()).Sugar().With("app", appName)
	}

	lokiConfig := zaploki.Config{
		Url:          lokiURL,
		BatchMaxSize: 1000,
		BatchMaxWait: 10 * time.Second,
		Labels:       map[string]string{"app": appName, "environment": environment},
	}
	return zap.Must(zaploki.New(context.Background(), lokiConfig).WithCreateLogger(zap.NewProductionConfig())).Sugar()
}

type Repositories struct {
	Applications  repositories.ApplicationRepository
	Votes         repositories.VoteRepository
	Comments      repositories.CommentRepository
	Notifications repositories.NotificationRepository
	Users         repositories.UserRepository

	close func() error
}

func (r Repositories) Close() error {
	if r.close == nil {
		return nil
	}
	return r.close()
}

// NewRepositories connects to postgres. An empty DATABASE_URL is accepted in
// the dev environment and selects the in-memory store.
func NewRepositories(appConfig configs.App, dbConfig configs.DB, logger *zap.SugaredLogger) (Repositories, error) {
	if dbConfig.URL == "" {
		if !appConfig.IsDevEnvironment() {
			return Repositories{}, errors.New("DATABASE_URL is required outside the dev environment")
		}

		logger.Warn("DATABASE_URL is empty, using in-memory store")
		return NewMemoryRepositories(memory.NewStore()), nil
	}

	database, err := db.StartDB(dbConfig, logger)
	if err != nil {
		return Repositories{}, err
	}

	return Repositories{
		Applications:  repositories.NewApplicationRepository(database),
		Votes:         repositories.NewVoteRepository(database),
		Comments:      repositories.NewCommentRepository(database),
		Notifications: repositories.NewNotificationRepository(database),
		Users:         repositories.NewUserRepository(database),
		close:         database.Close,
	}, nil
}

func NewMemoryRepositories(store *memory.Store) Repositories {
	return Repositories{
		Applications:  store.Applications(),
		Votes:         store.Votes(),
		Comments:      store.Comments(),
		Notifications: store.Notifications(),
		Users:         store.Users(),
	}
}

type Services struct {
	Applications  services.ApplicationService
	Comments      services.CommentService
	Notifications services.NotificationService
}

func NewServices(repos Repositories, appConfig configs.App, reviewConfig configs.Review, logger *zap.SugaredLogger) Services {
	comments := services.NewCommentService(repos.Applications, repos.Comments, logger)
	notifications := services.NewNotificationService(repos.Notifications, appConfig, reviewConfig, logger)

	return Services{
		Applications: services.NewApplicationService(
			repos.Applications,
			repos.Votes,
			repos.Users,
			comments,
			notifications,
			services.NewReviewerRoster(repos.Users),
			reviewConfig,
			logger,
		),
		Comments:      comments,
		Notifications: notifications,
	}
}
