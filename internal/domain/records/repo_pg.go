package records

import (
	"context"
	"errors"
	"fmt"
	"time"

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

const recordCols = `id, student_id, disease_category, severity, symptoms,
	treatment, notes, visit_date, recorded_by, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, rec *MedicalRecord) error {
	rec.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO medical_record (id, student_id, disease_category, severity,
			symptoms, treatment, notes, visit_date, recorded_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		rec.ID, rec.StudentID, rec.DiseaseCategory, rec.Severity,
		rec.Symptoms, rec.Treatment, rec.Notes, rec.VisitDate, rec.RecordedBy,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*MedicalRecord, error) {
	return r.scan(r.conn(ctx).QueryRow(ctx,
		`SELECT `+recordCols+` FROM medical_record WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, rec *MedicalRecord) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE medical_record SET
			severity = $2, symptoms = $3, treatment = $4, notes = $5,
			updated_at = NOW()
		WHERE id = $1`,
		rec.ID, rec.Severity, rec.Symptoms, rec.Treatment, rec.Notes,
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
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM medical_record WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, filter ListFilter, page pagination.Params) ([]*MedicalRecord, int, error) {
	where := "TRUE"
	args := []interface{}{}
	if filter.StudentID != nil {
		args = append(args, *filter.StudentID)
		where += fmt.Sprintf(" AND student_id = $%d", len(args))
	}
	if filter.Disease != "" {
		args = append(args, filter.Disease)
		where += fmt.Sprintf(" AND lower(disease_category) = lower($%d)", len(args))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		where += fmt.Sprintf(" AND visit_date >= $%d", len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		where += fmt.Sprintf(" AND visit_date < $%d", len(args))
	}

	var total int
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM medical_record WHERE `+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+recordCols+` FROM medical_record WHERE `+where+
			` ORDER BY visit_date DESC `+page.SQL(), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	result, err := r.scanAll(rows)
	if err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

func (r *repoPG) CountByDiseaseBetween(ctx context.Context, disease string, from, to time.Time) (int, error) {
	var count int
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT COUNT(*) FROM medical_record
		WHERE lower(disease_category) = lower($1)
		  AND visit_date >= $2 AND visit_date < $3`,
		disease, from, to).Scan(&count)
	return count, err
}

func (r *repoPG) StatsByDisease(ctx context.Context, disease, interval string, from, to time.Time) ([]DiseaseBucket, error) {
	// interval is validated by the service to "week" or "month" before it is
	// spliced into date_trunc.
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT date_trunc('`+interval+`', visit_date) AS period_start,
		       COUNT(*) AS cases
		FROM medical_record
		WHERE lower(disease_category) = lower($1)
		  AND visit_date >= $2 AND visit_date < $3
		GROUP BY period_start
		ORDER BY period_start`,
		disease, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var buckets []DiseaseBucket
	for rows.Next() {
		var b DiseaseBucket
		if err := rows.Scan(&b.PeriodStart, &b.Cases); err != nil {
			return nil, err
		}
		buckets = append(buckets, b)
	}
	return buckets, rows.Err()
}

func (r *repoPG) scan(row pgx.Row) (*MedicalRecord, error) {
	var rec MedicalRecord
	err := row.Scan(
		&rec.ID, &rec.StudentID, &rec.DiseaseCategory, &rec.Severity, &rec.Symptoms,
		&rec.Treatment, &rec.Notes, &rec.VisitDate, &rec.RecordedBy, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *repoPG) scanAll(rows pgx.Rows) ([]*MedicalRecord, error) {
	var result []*MedicalRecord
	for rows.Next() {
		var rec MedicalRecord
		if err := rows.Scan(
			&rec.ID, &rec.StudentID, &rec.DiseaseCategory, &rec.Severity, &rec.Symptoms,
			&rec.Treatment, &rec.Notes, &rec.VisitDate, &rec.RecordedBy, &rec.CreatedAt, &rec.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, &rec)
	}
	return result, rows.Err()
}
