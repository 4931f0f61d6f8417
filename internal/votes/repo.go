package votes

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Vote is one user's up or down vote on a post. Value is +1 or -1.
type Vote struct {
	UserID    string    `json:"userId"`
	PostID    string    `json:"postId"`
	Value     int       `json:"value"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

// Cast inserts or updates the user's vote on a post.
func (r *Repo) Cast(ctx context.Context, userID, postID string, value int) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO votes (user_id, post_id, value, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(user_id, post_id) DO UPDATE SET
			value = excluded.value,
			updated_at = CURRENT_TIMESTAMP
	`, userID, postID, value)
	if err != nil {
		return fmt.Errorf("cast vote: %w", err)
	}
	return nil
}

func (r *Repo) Remove(ctx context.Context, userID, postID string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		DELETE FROM votes
		WHERE user_id = ? AND post_id = ?
	`, userID, postID)
	if err != nil {
		return false, fmt.Errorf("remove vote: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *Repo) Get(ctx context.Context, userID, postID string) (*Vote, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT user_id, post_id, value, updated_at
		FROM votes
		WHERE user_id = ? AND post_id = ?
	`, userID, postID)

	var v Vote
	var updated time.Time
	if err := row.Scan(&v.UserID, &v.PostID, &v.Value, &updated); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get vote: %w", err)
	}
	v.UpdatedAt = updated
	return &v, nil
}

// Score is the sum of all vote values for a post.
func (r *Repo) Score(ctx context.Context, postID string) (int, error) {
	var score int
	err := r.DB.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(value), 0) FROM votes WHERE post_id = ?
	`, postID).Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("score: %w", err)
	}
	return score, nil
}

func (r *Repo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Vote, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT user_id, post_id, value, updated_at
		FROM votes
		WHERE user_id = ?
		ORDER BY updated_at DESC
		LIMIT ? OFFSET ?
	`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list votes: %w", err)
	}
	defer rows.Close()

	out := make([]Vote, 0, limit)
	for rows.Next() {
		var v Vote
		var updated time.Time
		if err := rows.Scan(&v.UserID, &v.PostID, &v.Value, &updated); err != nil {
			return nil, fmt.Errorf("scan vote row: %w", err)
		}
		v.UpdatedAt = updated
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}
