package members

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/uptrace/bun"
)

// RepositoryManager exposes the persistence collaborator plus transaction
// support for callers that want the multi-step provisioning sequence to be
// atomic. The workflow itself does not open transactions.
type RepositoryManager interface {
	Validate() error
	MustValidate()
	RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error
	Records() Records
}

type mngr struct {
	db      *bun.DB
	records Records
}

// NewRepositoryManager wires the Bun backed Records behind a manager.
func NewRepositoryManager(db *bun.DB) RepositoryManager {
	return &mngr{
		db:      db,
		records: NewRecords(db),
	}
}

func (m mngr) Validate() error {
	if m.db == nil {
		return errors.New("repository manager requires a database")
	}

	if m.records == nil {
		return errors.New("repository records should be initialized")
	}

	return nil
}

func (m mngr) MustValidate() {
	if err := m.Validate(); err != nil {
		log.Panic(err)
	}
}

func (m mngr) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return m.db.RunInTx(ctx, opts, f)
	}
}

func (m mngr) Records() Records {
	return m.records
}
