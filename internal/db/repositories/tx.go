package repositories

import "github.com/go-pg/pg/v10"

// Tx exposes the repositories whose writes belong to an application
// Transition. They share its transaction and roll back with it.
type Tx interface {
	Votes() VoteRepository
	Comments() CommentRepository
}

type transaction struct {
	tx *pg.Tx
}

func (t transaction) Votes() VoteRepository {
	return &voteRepository{repository: repository{db: t.tx}}
}

func (t transaction) Comments() CommentRepository {
	return &commentRepository{repository: repository{db: t.tx}}
}
