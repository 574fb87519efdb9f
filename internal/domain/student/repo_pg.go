package student

import (
	"context"
	"errors"

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

const studentCols = `id, student_number, full_name, date_of_birth, grade, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, s *Student) error {
	s.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO student (id, student_number, full_name, date_of_birth, grade)
		VALUES ($1, $2, $3, $4, $5)`,
		s.ID, s.StudentNumber, s.FullName, s.DateOfBirth, s.Grade,
	)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Student, error) {
	return r.scan(r.conn(ctx).QueryRow(ctx,
		`SELECT `+studentCols+` FROM student WHERE id = $1`, id))
}

func (r *repoPG) GetByNumber(ctx context.Context, number string) (*Student, error) {
	return r.scan(r.conn(ctx).QueryRow(ctx,
		`SELECT `+studentCols+` FROM student WHERE student_number = $1`, number))
}

func (r *repoPG) Update(ctx context.Context, s *Student) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE student SET
			full_name = $2, date_of_birth = $3, grade = $4, updated_at = NOW()
		WHERE id = $1`,
		s.ID, s.FullName, s.DateOfBirth, s.Grade,
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
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM student WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, search string, page pagination.Params) ([]*Student, int, error) {
	where := "TRUE"
	args := []interface{}{}
	if search != "" {
		args = append(args, "%"+search+"%")
		where = "(full_name ILIKE $1 OR student_number ILIKE $1)"
	}

	var total int
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM student WHERE `+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+studentCols+` FROM student WHERE `+where+
			` ORDER BY full_name `+page.SQL(), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []*Student
	for rows.Next() {
		var s Student
		if err := rows.Scan(&s.ID, &s.StudentNumber, &s.FullName, &s.DateOfBirth, &s.Grade, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, 0, err
		}
		result = append(result, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

func (r *repoPG) scan(row pgx.Row) (*Student, error) {
	var s Student
	err := row.Scan(&s.ID, &s.StudentNumber, &s.FullName, &s.DateOfBirth, &s.Grade, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
