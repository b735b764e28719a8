package pgsql

import (
	"context"

	portsrepo "github.com/SscSPs/finance_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxSnapshotProvider serves report reads from a single REPEATABLE READ transaction.
type PgxSnapshotProvider struct {
	BaseRepository
}

func newPgxSnapshotProvider(pool *pgxpool.Pool) *PgxSnapshotProvider {
	return &PgxSnapshotProvider{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.SnapshotProvider = (*PgxSnapshotProvider)(nil)

func (p *PgxSnapshotProvider) Snapshot(ctx context.Context) (portsrepo.Snapshot, error) {
	tx, err := p.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, err
	}
	return &pgxSnapshot{base: &p.BaseRepository, tx: tx, queries: queries{db: tx}}, nil
}

type pgxSnapshot struct {
	base *BaseRepository
	tx   pgx.Tx
	queries
}

var _ portsrepo.Snapshot = (*pgxSnapshot)(nil)

func (s *pgxSnapshot) Close(ctx context.Context) error {
	return s.base.Rollback(ctx, s.tx)
}
