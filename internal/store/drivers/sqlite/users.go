package sqlite

import (
	"context"

	"github.com/carnotes-app/carnotes/internal/domain"
)

type usersRepo struct {
	q queryer
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO users (id, email, username, password_hash, roles, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.Username, u.PasswordHash, joinRoles(u.Roles), u.CreatedAt,
	)
	return mapConstraint(err)
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT id, email, username, password_hash, roles, created_at
		FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT id, email, username, password_hash, roles, created_at
		FROM users WHERE email = ?`, email)
	return scanUser(row)
}

func (r *usersRepo) UpdateUserRoles(ctx context.Context, id string, roles []string) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE users SET roles = ? WHERE id = ?`, joinRoles(roles), id)
	if err != nil {
		return err
	}
	return mapNoRows(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (domain.User, error) {
	var u domain.User
	var roles string
	if err := row.Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &roles, &u.CreatedAt); err != nil {
		return domain.User{}, mapNotFound(err)
	}
	u.Roles = splitRoles(roles)
	return u, nil
}
