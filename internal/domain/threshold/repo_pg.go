package threshold

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medicare/clinic-api/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const thresholdCols = `id, disease_name, cases_per_week, description, is_active,
	created_by, updated_by, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, t *DiseaseThreshold) error {
	t.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO disease_threshold (id, disease_name, cases_per_week, description, is_active, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		t.ID, t.DiseaseName, t.CasesPerWeek, t.Description, t.IsActive, t.CreatedBy,
	)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *repoPG) CreateIfAbsent(ctx context.Context, t *DiseaseThreshold) (bool, error) {
	t.ID = uuid.New()
	tag, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO disease_threshold (id, disease_name, cases_per_week, description, is_active, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (lower(disease_name)) DO NOTHING`,
		t.ID, t.DiseaseName, t.CasesPerWeek, t.Description, t.IsActive, t.CreatedBy,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*DiseaseThreshold, error) {
	return r.scan(r.conn(ctx).QueryRow(ctx,
		`SELECT `+thresholdCols+` FROM disease_threshold WHERE id = $1`, id))
}

func (r *repoPG) GetByDisease(ctx context.Context, disease string) (*DiseaseThreshold, error) {
	return r.scan(r.conn(ctx).QueryRow(ctx,
		`SELECT `+thresholdCols+` FROM disease_threshold WHERE lower(disease_name) = lower($1)`, disease))
}

func (r *repoPG) Update(ctx context.Context, t *DiseaseThreshold) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE disease_threshold SET
			cases_per_week = $2, description = $3, is_active = $4,
			updated_by = $5, updated_at = NOW()
		WHERE id = $1`,
		t.ID, t.CasesPerWeek, t.Description, t.IsActive, t.UpdatedBy,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM disease_threshold WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) List(ctx context.Context) ([]*DiseaseThreshold, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+thresholdCols+` FROM disease_threshold ORDER BY disease_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanAll(rows)
}

func (r *repoPG) ListActive(ctx context.Context) ([]*DiseaseThreshold, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+thresholdCols+` FROM disease_threshold WHERE is_active ORDER BY disease_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanAll(rows)
}

func (r *repoPG) scan(row pgx.Row) (*DiseaseThreshold, error) {
	var t DiseaseThreshold
	err := row.Scan(
		&t.ID, &t.DiseaseName, &t.CasesPerWeek, &t.Description, &t.IsActive,
		&t.CreatedBy, &t.UpdatedBy, &t.CreatedAt, &t.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repoPG) scanAll(rows pgx.Rows) ([]*DiseaseThreshold, error) {
	var result []*DiseaseThreshold
	for rows.Next() {
		var t DiseaseThreshold
		if err := rows.Scan(
			&t.ID, &t.DiseaseName, &t.CasesPerWeek, &t.Description, &t.IsActive,
			&t.CreatedBy, &t.UpdatedBy, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, &t)
	}
	return result, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
