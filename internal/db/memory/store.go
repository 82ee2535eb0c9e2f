// Package memory keeps every repository in process memory. It backs the dev
// environment when no database is configured and the service tests.
package memory

import (
	"application_review_system/internal/db/models"
	"application_review_system/internal/db/repositories"
	"context"
	"sort"
	"sync"
	"time"
)

type Store struct {
	mu sync.RWMutex

	applications  map[int64]models.Application
	votes         map[voteKey]models.Vote
	comments      map[int64]models.Comment
	notifications map[int64]models.Notification
	users         map[int64]models.User

	// applicationLocks serializes Transition per application, standing in
	// for the row lock taken by the postgres repository.
	locksMu          sync.Mutex
	applicationLocks map[int64]*sync.Mutex

	nextApplicationID  int64
	nextVoteID         int64
	nextCommentID      int64
	nextNotificationID int64
	nextUserID         int64
}

type voteKey struct {
	applicationID int64
	voterID       int64
}

func NewStore() *Store {
	return &Store{
		applications:     make(map[int64]models.Application),
		votes:            make(map[voteKey]models.Vote),
		comments:         make(map[int64]models.Comment),
		notifications:    make(map[int64]models.Notification),
		users:            make(map[int64]models.User),
		applicationLocks: make(map[int64]*sync.Mutex),
	}
}

func (s *Store) Applications() repositories.ApplicationRepository {
	return &applicationRepository{store: s}
}

func (s *Store) Votes() repositories.VoteRepository {
	return &voteRepository{store: s}
}

func (s *Store) Comments() repositories.CommentRepository {
	return &commentRepository{store: s}
}

func (s *Store) Notifications() repositories.NotificationRepository {
	return &notificationRepository{store: s}
}

func (s *Store) Users() repositories.UserRepository {
	return &userRepository{store: s}
}

func (s *Store) applicationLock(applicationID int64) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()

	lock, ok := s.applicationLocks[applicationID]
	if !ok {
		lock = &sync.Mutex{}
		s.applicationLocks[applicationID] = lock
	}
	return lock
}

type applicationRepository struct {
	store *Store
}

func (r *applicationRepository) Create(_ context.Context, request *models.Application) (*models.Application, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextApplicationID++
	now := time.Now()
	request.ID = s.nextApplicationID
	if request.Status == "" {
		request.Status = models.ApplicationStatusDraft
	}
	request.CreatedAt = now
	request.UpdatedAt = now
	s.applications[request.ID] = cloneApplication(*request)

	return request, nil
}

func (r *applicationRepository) Update(_ context.Context, request *models.Application) (*models.Application, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.applications[request.ID]; !ok {
		return nil, repositories.ErrNotFound
	}

	request.UpdatedAt = time.Now()
	s.applications[request.ID] = cloneApplication(*request)

	application := cloneApplication(*request)
	return &application, nil
}

func (r *applicationRepository) Delete(_ context.Context, request *models.Application) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.applications[request.ID]; !ok {
		return repositories.ErrNotFound
	}

	delete(s.applications, request.ID)
	return nil
}

func (r *applicationRepository) GetOne(_ context.Context, applicationID int64) (*models.Application, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	application, ok := s.applications[applicationID]
	if !ok {
		return nil, repositories.ErrNotFound
	}

	application = cloneApplication(application)
	return &application, nil
}

func (r *applicationRepository) GetMany(_ context.Context, status ...models.ApplicationStatus) ([]*models.Application, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	applications := make([]*models.Application, 0, len(s.applications))
	for _, application := range s.applications {
		if len(status) > 0 && !containsStatus(status, application.Status) {
			continue
		}
		application = cloneApplication(application)
		applications = append(applications, &application)
	}

	sort.Slice(applications, func(i, j int) bool {
		return applications[i].ID < applications[j].ID
	})
	return applications, nil
}

func (r *applicationRepository) Transition(
	_ context.Context,
	applicationID int64,
	lockVotes bool,
	mutate func(tx repositories.Tx, application *models.Application) error,
) (*models.Application, error) {
	s := r.store
	lock := s.applicationLock(applicationID)
	lock.Lock()
	defer lock.Unlock()

	s.mu.RLock()
	current, ok := s.applications[applicationID]
	s.mu.RUnlock()
	if !ok {
		return nil, repositories.ErrNotFound
	}

	tx := &transaction{store: s}
	application := cloneApplication(current)
	if err := mutate(tx, &application); err != nil {
		tx.rollback()
		return nil, err
	}
	application.UpdatedAt = time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.applications[applicationID] = cloneApplication(application)
	if lockVotes {
		s.lockVotes(applicationID, application.UpdatedAt)
	}

	return &application, nil
}

type voteRepository struct {
	store *Store
}

func (r *voteRepository) Upsert(_ context.Context, request *models.Vote) (*models.Vote, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	key := voteKey{applicationID: request.ApplicationID, voterID: request.VoterID}
	now := time.Now()

	if existing, ok := s.votes[key]; ok {
		if existing.IsLocked {
			return nil, repositories.ErrVoteLocked
		}
		existing.Decision = request.Decision
		existing.Reasoning = request.Reasoning
		existing.ConfidenceLevel = request.ConfidenceLevel
		existing.UpdatedAt = now
		s.votes[key] = existing

		vote := existing
		return &vote, nil
	}

	s.nextVoteID++
	vote := *request
	vote.ID = s.nextVoteID
	vote.IsLocked = false
	vote.CreatedAt = now
	vote.UpdatedAt = now
	s.votes[key] = vote

	return &vote, nil
}

func (r *voteRepository) LockAll(_ context.Context, applicationID int64) (int, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lockVotes(applicationID, time.Now()), nil
}

func (r *voteRepository) GetOne(_ context.Context, applicationID, voterID int64) (*models.Vote, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	vote, ok := s.votes[voteKey{applicationID: applicationID, voterID: voterID}]
	if !ok {
		return nil, repositories.ErrNotFound
	}

	return &vote, nil
}

func (r *voteRepository) Exists(_ context.Context, applicationID, voterID int64) (bool, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.votes[voteKey{applicationID: applicationID, voterID: voterID}]
	return ok, nil
}

func (r *voteRepository) GetManyByApplication(_ context.Context, applicationID int64) ([]*models.Vote, error) {
	return r.store.filterVotes(func(vote models.Vote) bool {
		return vote.ApplicationID == applicationID
	}), nil
}

func (r *voteRepository) GetManyByVoter(_ context.Context, voterID int64) ([]*models.Vote, error) {
	return r.store.filterVotes(func(vote models.Vote) bool {
		return vote.VoterID == voterID
	}), nil
}

func (s *Store) lockVotes(applicationID int64, at time.Time) int {
	locked := 0
	for key, vote := range s.votes {
		if key.applicationID != applicationID || vote.IsLocked {
			continue
		}
		vote.IsLocked = true
		vote.UpdatedAt = at
		s.votes[key] = vote
		locked++
	}
	return locked
}

func (s *Store) filterVotes(match func(vote models.Vote) bool) []*models.Vote {
	s.mu.RLock()
	defer s.mu.RUnlock()

	votes := make([]*models.Vote, 0)
	for _, vote := range s.votes {
		if !match(vote) {
			continue
		}
		vote := vote
		votes = append(votes, &vote)
	}

	sort.Slice(votes, func(i, j int) bool {
		return votes[i].ID < votes[j].ID
	})
	return votes
}

func cloneApplication(application models.Application) models.Application {
	if application.Profile.Details != nil {
		details := make(map[string]string, len(application.Profile.Details))
		for key, value := range application.Profile.Details {
			details[key] = value
		}
		application.Profile.Details = details
	}
	return application
}

func containsStatus(statuses []models.ApplicationStatus, status models.ApplicationStatus) bool {
	for _, candidate := range statuses {
		if candidate == status {
			return true
		}
	}
	return false
}
