package outcome

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Yi-Jacob/mentalspace-ehr-sub007/internal/platform/db"
)

// queryable abstracts pgxpool.Pool, pgxpool.Conn and pgx.Tx.
type queryable interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// -- Measure Repository --

type measureRepoPG struct {
	pool *pgxpool.Pool
}

func NewMeasureRepo(pool *pgxpool.Pool) MeasureRepository {
	return &measureRepoPG{pool: pool}
}

func (r *measureRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const measureColumns = `id, title, description, sharable, access_level, content, creator_id, created_at, updated_at`

func (r *measureRepoPG) Create(ctx context.Context, m *Measure) error {
	m.ID = uuid.New()
	content, err := json.Marshal(m.Content)
	if err != nil {
		return fmt.Errorf("marshal measure content: %w", err)
	}
	_, err = r.conn(ctx).Exec(ctx, `
		INSERT INTO outcome_measure (id, title, description, sharable, access_level, content, creator_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		m.ID, m.Title, m.Description, m.Sharable, m.AccessLevel, content, m.CreatorID,
	)
	return err
}

func (r *measureRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Measure, error) {
	return r.scanMeasure(r.conn(ctx).QueryRow(ctx,
		`SELECT `+measureColumns+` FROM outcome_measure WHERE id = $1`, id))
}

func (r *measureRepoPG) Update(ctx context.Context, m *Measure) error {
	content, err := json.Marshal(m.Content)
	if err != nil {
		return fmt.Errorf("marshal measure content: %w", err)
	}
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE outcome_measure SET
			title = $2, description = $3, sharable = $4, access_level = $5, content = $6, updated_at = NOW()
		WHERE id = $1`,
		m.ID, m.Title, m.Description, m.Sharable, m.AccessLevel, content,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *measureRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM outcome_measure WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *measureRepoPG) ListByAccessLevels(ctx context.Context, levels []string) ([]*Measure, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+measureColumns+` FROM outcome_measure WHERE access_level = ANY($1) ORDER BY created_at DESC`, levels)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collectMeasures(rows)
}

func (r *measureRepoPG) ListSharable(ctx context.Context) ([]*Measure, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+measureColumns+` FROM outcome_measure WHERE sharable = $1 ORDER BY created_at DESC`, SharableYes)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collectMeasures(rows)
}

func (r *measureRepoPG) collectMeasures(rows pgx.Rows) ([]*Measure, error) {
	var measures []*Measure
	for rows.Next() {
		m, err := r.scanMeasureRow(rows)
		if err != nil {
			return nil, err
		}
		measures = append(measures, m)
	}
	return measures, rows.Err()
}

func (r *measureRepoPG) scanMeasure(row pgx.Row) (*Measure, error) {
	var m Measure
	var content []byte
	err := row.Scan(&m.ID, &m.Title, &m.Description, &m.Sharable, &m.AccessLevel, &content, &m.CreatorID, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(content, &m.Content); err != nil {
		return nil, fmt.Errorf("unmarshal measure content: %w", err)
	}
	return &m, nil
}

func (r *measureRepoPG) scanMeasureRow(rows pgx.Rows) (*Measure, error) {
	var m Measure
	var content []byte
	err := rows.Scan(&m.ID, &m.Title, &m.Description, &m.Sharable, &m.AccessLevel, &content, &m.CreatorID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(content, &m.Content); err != nil {
		return nil, fmt.Errorf("unmarshal measure content: %w", err)
	}
	return &m, nil
}

// -- Response Repository --

type responseRepoPG struct {
	pool *pgxpool.Pool
}

func NewResponseRepo(pool *pgxpool.Pool) ResponseRepository {
	return &responseRepoPG{pool: pool}
}

func (r *responseRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const responseColumns = `id, client_file_id, answers, total_score, classification, created_at, updated_at`

func (r *responseRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*MeasureResponse, error) {
	return r.scanResponse(r.conn(ctx).QueryRow(ctx,
		`SELECT `+responseColumns+` FROM measure_response WHERE id = $1`, id))
}

func (r *responseRepoPG) GetByClientFileID(ctx context.Context, clientFileID uuid.UUID) (*MeasureResponse, error) {
	return r.scanResponse(r.conn(ctx).QueryRow(ctx,
		`SELECT `+responseColumns+` FROM measure_response WHERE client_file_id = $1`, clientFileID))
}

// UpsertByClientFile keeps one response row per client file: a resubmission
// replaces the previous answers and score in place.
func (r *responseRepoPG) UpsertByClientFile(ctx context.Context, resp *MeasureResponse) error {
	answers, err := json.Marshal(resp.Answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}
	row := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO measure_response (id, client_file_id, answers, total_score, classification)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (client_file_id) DO UPDATE SET
			answers = EXCLUDED.answers,
			total_score = EXCLUDED.total_score,
			classification = EXCLUDED.classification,
			updated_at = NOW()
		RETURNING id, created_at, updated_at`,
		uuid.New(), resp.ClientFileID, answers, resp.TotalScore, resp.Classification,
	)
	return row.Scan(&resp.ID, &resp.CreatedAt, &resp.UpdatedAt)
}

func (r *responseRepoPG) scanResponse(row pgx.Row) (*MeasureResponse, error) {
	var resp MeasureResponse
	var answers []byte
	err := row.Scan(&resp.ID, &resp.ClientFileID, &answers, &resp.TotalScore, &resp.Classification, &resp.CreatedAt, &resp.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(answers, &resp.Answers); err != nil {
		return nil, fmt.Errorf("unmarshal answers: %w", err)
	}
	return &resp, nil
}
