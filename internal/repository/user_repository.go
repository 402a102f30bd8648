package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/utils"
)

// UserRepo mirrors the 'users' table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) string { return strings.ToLower(strings.TrimSpace(email)) }

// Create hashes the password and inserts the user.
func (r *UserRepo) Create(ctx context.Context, name, email, password string, role model.Role, cost int) (model.User, error) {
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return model.User{}, err
	}
	ts := now()
	u := model.User{
		ID:           NewID(),
		Name:         strings.TrimSpace(name),
		Email:        NormalizeEmail(email),
		PasswordHash: hash,
		Role:         model.ParseRole(string(role)),
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}
	_, err = r.DB.ExecContext(ctx,
		"INSERT INTO users (id, name, email, password_hash, role, created_at, updated_at) VALUES (?,?,?,?,?,?,?)",
		u.ID, u.Name, u.Email, u.PasswordHash, string(u.Role), u.CreatedAt, u.UpdatedAt)
	if err != nil {
		if isDuplicate(err) {
			return model.User{}, ErrEmailExists
		}
		return model.User{}, err
	}
	return u, nil
}

const userCols = "id, name, email, password_hash, role, created_at, updated_at"

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return r.getOne(ctx, "SELECT "+userCols+" FROM users WHERE email=? LIMIT 1", NormalizeEmail(email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id string) (model.User, error) {
	if err := CheckID(id); err != nil {
		return model.User{}, err
	}
	return r.getOne(ctx, "SELECT "+userCols+" FROM users WHERE id=? LIMIT 1", id)
}

func (r *UserRepo) getOne(ctx context.Context, q string, arg any) (model.User, error) {
	var (
		u    model.User
		role string
	)
	err := r.DB.QueryRowContext(ctx, q, arg).
		Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	u.Role = model.ParseRole(role)
	return u, nil
}

// AdminIDs lists every admin account id.
func (r *UserRepo) AdminIDs(ctx context.Context) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT id FROM users WHERE role=?", string(model.RoleAdmin))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
