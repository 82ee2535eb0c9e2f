package repositories

import (
	"errors"

	"github.com/go-pg/pg/v10"
	"github.com/go-pg/pg/v10/orm"
)

var (
	ErrNotFound   = errors.New("record not found")
	ErrVoteLocked = errors.New("vote is locked")
)

// repository runs on either the pool or an open transaction.
type repository struct {
	db orm.DB
}

func notFound(err error) error {
	if errors.Is(err, pg.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
