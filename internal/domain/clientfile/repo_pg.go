package clientfile

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Yi-Jacob/mentalspace-ehr-sub007/internal/platform/db"
)

type queryable interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const fileColumns = `id, client_id, title, status, outcome_measure_id, completed_date, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, f *ClientFile) error {
	f.ID = uuid.New()
	if f.Status == "" {
		f.Status = StatusDraft
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO client_file (id, client_id, title, status, outcome_measure_id)
		VALUES ($1, $2, $3, $4, $5)`,
		f.ID, f.ClientID, f.Title, f.Status, f.OutcomeMeasureID,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*ClientFile, error) {
	return r.scanFile(r.conn(ctx).QueryRow(ctx,
		`SELECT `+fileColumns+` FROM client_file WHERE id = $1`, id))
}

func (r *repoPG) ListByClient(ctx context.Context, clientID uuid.UUID) ([]*ClientFile, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+fileColumns+` FROM client_file WHERE client_id = $1 ORDER BY created_at DESC`, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collectFiles(rows)
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*ClientFile, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM client_file`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+fileColumns+` FROM client_file ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	files, err := r.collectFiles(rows)
	if err != nil {
		return nil, 0, err
	}
	return files, total, nil
}

func (r *repoPG) SetMeasure(ctx context.Context, fileID uuid.UUID, measureID *uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE client_file SET outcome_measure_id = $2, status = $3, updated_at = NOW()
		WHERE id = $1`,
		fileID, measureID, StatusAssigned,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) SetCompletedByClient(ctx context.Context, fileID uuid.UUID, completedAt time.Time) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE client_file SET status = $2, completed_date = $3, updated_at = NOW()
		WHERE id = $1`,
		fileID, StatusCompletedByClient, completedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) collectFiles(rows pgx.Rows) ([]*ClientFile, error) {
	var files []*ClientFile
	for rows.Next() {
		var f ClientFile
		if err := rows.Scan(&f.ID, &f.ClientID, &f.Title, &f.Status, &f.OutcomeMeasureID, &f.CompletedDate, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, err
		}
		files = append(files, &f)
	}
	return files, rows.Err()
}

func (r *repoPG) scanFile(row pgx.Row) (*ClientFile, error) {
	var f ClientFile
	err := row.Scan(&f.ID, &f.ClientID, &f.Title, &f.Status, &f.OutcomeMeasureID, &f.CompletedDate, &f.CreatedAt, &f.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}
