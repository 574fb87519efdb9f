package alert

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medicare/clinic-api/internal/platform/db"
	"github.com/medicare/clinic-api/pkg/pagination"
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

const alertCols = `id, alert_type, severity, title, message,
	related_disease, related_record_id, related_student_id,
	is_read, read_at, is_resolved, resolved_by, resolved_at, resolution_notes,
	created_at`

func (r *repoPG) Create(ctx context.Context, a *Alert) error {
	a.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO alert (id, alert_type, severity, title, message,
			related_disease, related_record_id, related_student_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		a.ID, a.AlertType, a.Severity, a.Title, a.Message,
		a.RelatedDisease, a.RelatedRecordID, a.RelatedStudentID,
	)
	return err
}

func (r *repoPG) CreateIfNoOpenDuplicate(ctx context.Context, a *Alert) (bool, error) {
	a.ID = uuid.New()
	// alert_open_disease_type_idx is partial (WHERE NOT is_resolved), so the
	// conflict target only fires against unresolved rows.
	tag, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO alert (id, alert_type, severity, title, message,
			related_disease, related_record_id, related_student_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (related_disease, alert_type) WHERE NOT is_resolved DO NOTHING`,
		a.ID, a.AlertType, a.Severity, a.Title, a.Message,
		a.RelatedDisease, a.RelatedRecordID, a.RelatedStudentID,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Alert, error) {
	return r.scan(r.conn(ctx).QueryRow(ctx,
		`SELECT `+alertCols+` FROM alert WHERE id = $1`, id))
}

func (r *repoPG) FindOpenByDiseaseAndType(ctx context.Context, disease, alertType string) (*Alert, error) {
	return r.scan(r.conn(ctx).QueryRow(ctx, `
		SELECT `+alertCols+` FROM alert
		WHERE related_disease = $1 AND alert_type = $2 AND NOT is_resolved`,
		disease, alertType))
}

func (r *repoPG) List(ctx context.Context, filter ListFilter, page pagination.Params) ([]*Alert, int, error) {
	where := "TRUE"
	args := []interface{}{}
	if filter.UnreadOnly {
		where += " AND NOT is_read"
	}
	if filter.UnresolvedOnly {
		where += " AND NOT is_resolved"
	}
	if filter.AlertType != "" {
		args = append(args, filter.AlertType)
		where += fmt.Sprintf(" AND alert_type = $%d", len(args))
	}

	var total int
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM alert WHERE `+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+alertCols+` FROM alert WHERE `+where+
			` ORDER BY created_at DESC `+page.SQL(), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	alerts, err := r.scanAll(rows)
	if err != nil {
		return nil, 0, err
	}
	return alerts, total, nil
}

func (r *repoPG) MarkRead(ctx context.Context, id uuid.UUID) (*Alert, error) {
	return r.scan(r.conn(ctx).QueryRow(ctx, `
		UPDATE alert SET
			is_read = TRUE,
			read_at = COALESCE(read_at, NOW())
		WHERE id = $1
		RETURNING `+alertCols, id))
}

func (r *repoPG) Resolve(ctx context.Context, id uuid.UUID, resolvedBy string, notes *string) (*Alert, error) {
	a, err := r.scan(r.conn(ctx).QueryRow(ctx, `
		UPDATE alert SET
			is_resolved = TRUE, resolved_by = $2, resolved_at = NOW(),
			resolution_notes = $3,
			is_read = TRUE, read_at = COALESCE(read_at, NOW())
		WHERE id = $1 AND NOT is_resolved
		RETURNING `+alertCols,
		id, resolvedBy, notes))
	if errors.Is(err, ErrNotFound) {
		// Distinguish a missing alert from one already closed.
		if _, getErr := r.GetByID(ctx, id); getErr == nil {
			return nil, ErrAlreadyResolved
		}
		return nil, ErrNotFound
	}
	return a, err
}

func (r *repoPG) scan(row pgx.Row) (*Alert, error) {
	var a Alert
	err := row.Scan(
		&a.ID, &a.AlertType, &a.Severity, &a.Title, &a.Message,
		&a.RelatedDisease, &a.RelatedRecordID, &a.RelatedStudentID,
		&a.IsRead, &a.ReadAt, &a.IsResolved, &a.ResolvedBy, &a.ResolvedAt, &a.ResolutionNotes,
		&a.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repoPG) scanAll(rows pgx.Rows) ([]*Alert, error) {
	var result []*Alert
	for rows.Next() {
		var a Alert
		if err := rows.Scan(
			&a.ID, &a.AlertType, &a.Severity, &a.Title, &a.Message,
			&a.RelatedDisease, &a.RelatedRecordID, &a.RelatedStudentID,
			&a.IsRead, &a.ReadAt, &a.IsResolved, &a.ResolvedBy, &a.ResolvedAt, &a.ResolutionNotes,
			&a.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, &a)
	}
	return result, rows.Err()
}
