package auth

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Account is a registered campus user. DisplayName and AvatarURL feed the
// author directory so the account's posts render with a proper byline.
type Account struct {
	ID           string
	Username     string
	Email        string
	DisplayName  string
	AvatarURL    string
	Course       string
	PasswordHash string
	TokenVersion int
	CreatedAt    time.Time
}

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

const accountColumns = `id, username, email, display_name, avatar_url, course, password_hash, token_version, created_at`

func (r *Repo) CreateAccount(ctx context.Context, a Account) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO users (id, username, email, display_name, avatar_url, course, password_hash)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, a.ID, a.Username, a.Email, a.DisplayName, a.AvatarURL, a.Course, a.PasswordHash)

	if err != nil {
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

type accountScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row accountScanner, op string) (*Account, error) {
	var a Account
	var displayName, avatarURL, course sql.NullString
	err := row.Scan(&a.ID, &a.Username, &a.Email, &displayName, &avatarURL, &course,
		&a.PasswordHash, &a.TokenVersion, &a.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	a.DisplayName = displayName.String
	a.AvatarURL = avatarURL.String
	a.Course = course.String
	if a.DisplayName == "" {
		a.DisplayName = a.Username
	}
	return &a, nil
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (*Account, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	row := r.DB.QueryRowContext(ctx, `
		SELECT `+accountColumns+` FROM users WHERE LOWER(email) = ?
	`, email)
	return scanAccount(row, "get by email")
}

func (r *Repo) GetByUsername(ctx context.Context, username string) (*Account, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT `+accountColumns+` FROM users WHERE username = ?
	`, strings.TrimSpace(username))
	return scanAccount(row, "get by username")
}

func (r *Repo) GetByID(ctx context.Context, id string) (*Account, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT `+accountColumns+` FROM users WHERE id = ?
	`, id)
	return scanAccount(row, "get by id")
}

// ListAll returns every account, oldest first. Used to rebuild the author
// directory at startup.
func (r *Repo) ListAll(ctx context.Context) ([]Account, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+accountColumns+` FROM users ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var out []Account
	for rows.Next() {
		a, err := scanAccount(rows, "scan account")
		if err != nil {
			return nil, err
		}
		if a != nil {
			out = append(out, *a)
		}
	}
	return out, rows.Err()
}

func (r *Repo) GetTokenVersion(ctx context.Context, id string) (int, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT token_version FROM users WHERE id = ?`, id)
	var version int
	if err := row.Scan(&version); err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, fmt.Errorf("get token version: %w", err)
	}
	return version, nil
}

func (r *Repo) UpdatePasswordAndBumpTokenVersion(ctx context.Context, id string, passwordHash string) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE users
		SET password_hash = ?, token_version = token_version + 1
		WHERE id = ?
	`, passwordHash, id)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update password rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update password: account not found")
	}
	return nil
}

func (r *Repo) BumpTokenVersion(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE users
		SET token_version = token_version + 1
		WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("bump token version: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("bump token version rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("bump token version: account not found")
	}
	return nil
}
