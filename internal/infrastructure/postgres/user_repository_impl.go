package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/user-account-service/internal/domain/entity"
	"github.com/oksasatya/user-account-service/internal/domain/projection"
	"github.com/oksasatya/user-account-service/internal/domain/repository"
)

const uniqueViolation = "23505"

const userColumns = `id::text, name, email, password_hash, birthday, is_blocked, created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (name, email, password_hash, birthday, is_blocked)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+userColumns,
		u.Name, u.Email, u.Password, u.Birthday, u.IsBlocked)

	out, err := scanUser(row)
	if err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string, p projection.Policy) (*entity.UserView, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	return r.getOne(ctx, p, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string, p projection.Policy) (*entity.UserView, error) {
	return r.getOne(ctx, p, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *UserRepository) Find(ctx context.Context, f repository.UserFilter, p projection.Policy, page repository.Pagination) ([]*entity.UserView, error) {
	where, args := filterClause(f)
	query := `SELECT ` + userColumns + ` FROM users` + where + ` ORDER BY created_at, id`
	if page.Limit > 0 {
		args = append(args, page.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if page.Skip > 0 {
		args = append(args, page.Skip)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*entity.UserView{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p.Apply(u))
	}
	return out, rows.Err()
}

func (r *UserRepository) Update(ctx context.Context, id string, patch repository.UserPatch, p projection.Policy) (*entity.UserView, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	set, args := setClause(patch)
	if set == "" {
		return r.GetByID(ctx, id, p)
	}
	args = append(args, id)
	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d RETURNING %s`, set, len(args), userColumns)

	u, err := scanUser(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapError(err)
	}
	return p.Apply(u), nil
}

func (r *UserRepository) Delete(ctx context.Context, id string, p projection.Policy) (*entity.UserView, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	return r.getOne(ctx, p, `DELETE FROM users WHERE id = $1 RETURNING `+userColumns, id)
}

func (r *UserRepository) getOne(ctx context.Context, p projection.Policy, query string, args ...any) (*entity.UserView, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p.Apply(u), nil
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Birthday,
		&u.IsBlocked, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return u, nil
}

func mapError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", repository.ErrDuplicateEmail, pgErr.ConstraintName)
	}
	return err
}

// filterClause renders f as a WHERE clause with positional args starting at $1.
func filterClause(f repository.UserFilter) (string, []any) {
	var conds []string
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.Email != "" {
		add("email = $%d", f.Email)
	}
	if f.IsBlocked != nil {
		add("is_blocked = $%d", *f.IsBlocked)
	}
	if f.BornAfter != nil {
		add("birthday > $%d", *f.BornAfter)
	}
	if f.BornBefore != nil {
		add("birthday < $%d", *f.BornBefore)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// setClause renders the present patch fields as an UPDATE SET list.
func setClause(patch repository.UserPatch) (string, []any) {
	var sets []string
	var args []any
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if v, ok := patch.Name.Get(); ok {
		add("name", v)
	}
	if v, ok := patch.Email.Get(); ok {
		add("email", v)
	}
	if v, ok := patch.Password.Get(); ok {
		add("password_hash", v)
	}
	if v, ok := patch.Birthday.Get(); ok {
		add("birthday", v)
	}
	if v, ok := patch.IsBlocked.Get(); ok {
		add("is_blocked", v)
	}
	if !patch.UpdatedAt.IsZero() {
		add("updated_at", patch.UpdatedAt)
	}
	if len(sets) == 0 {
		return "", nil
	}
	return strings.Join(sets, ", "), args
}

var _ repository.UserRepository = (*UserRepository)(nil)
