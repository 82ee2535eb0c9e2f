package memory

import (
	"application_review_system/internal/db/models"
	"application_review_system/internal/db/repositories"
	"context"
)

// transaction records how to restore every vote and comment it touches, so a
// failed Transition leaves no side writes behind.
type transaction struct {
	store *Store
	undo  []func()
}

func (t *transaction) Votes() repositories.VoteRepository {
	return &txVoteRepository{voteRepository: voteRepository{store: t.store}, tx: t}
}

func (t *transaction) Comments() repositories.CommentRepository {
	return &txCommentRepository{commentRepository: commentRepository{store: t.store}, tx: t}
}

func (t *transaction) rollback() {
	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.undo = nil
}

func (t *transaction) rememberVotes(match func(key voteKey) bool) {
	s := t.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	previous := make(map[voteKey]models.Vote)
	for key, vote := range s.votes {
		if match(key) {
			previous[key] = vote
		}
	}

	t.undo = append(t.undo, func() {
		for key := range s.votes {
			if _, ok := previous[key]; !ok && match(key) {
				delete(s.votes, key)
			}
		}
		for key, vote := range previous {
			s.votes[key] = vote
		}
	})
}

func (t *transaction) rememberComment(commentID int64) {
	s := t.store
	s.mu.RLock()
	previous, existed := s.comments[commentID]
	s.mu.RUnlock()

	t.undo = append(t.undo, func() {
		if existed {
			s.comments[commentID] = previous
			return
		}
		delete(s.comments, commentID)
	})
}

type txVoteRepository struct {
	voteRepository
	tx *transaction
}

func (r *txVoteRepository) Upsert(ctx context.Context, request *models.Vote) (*models.Vote, error) {
	key := voteKey{applicationID: request.ApplicationID, voterID: request.VoterID}
	r.tx.rememberVotes(func(candidate voteKey) bool { return candidate == key })
	return r.voteRepository.Upsert(ctx, request)
}

func (r *txVoteRepository) LockAll(ctx context.Context, applicationID int64) (int, error) {
	r.tx.rememberVotes(func(candidate voteKey) bool { return candidate.applicationID == applicationID })
	return r.voteRepository.LockAll(ctx, applicationID)
}

type txCommentRepository struct {
	commentRepository
	tx *transaction
}

func (r *txCommentRepository) Create(ctx context.Context, request *models.Comment) (*models.Comment, error) {
	comment, err := r.commentRepository.Create(ctx, request)
	if err != nil {
		return nil, err
	}
	r.tx.rememberComment(comment.ID)
	return comment, nil
}

func (r *txCommentRepository) Update(ctx context.Context, request *models.Comment) (*models.Comment, error) {
	r.tx.rememberComment(request.ID)
	return r.commentRepository.Update(ctx, request)
}
