package comments

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"campusmarket/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

func (r *Repo) Create(ctx context.Context, userID, postID, text string) (*models.Comment, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO comments (user_id, post_id, text)
		VALUES (?, ?, ?)
	`, userID, postID, text)
	if err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	return r.GetByID(ctx, id)
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT id, user_id, post_id, text, likes, created_at
		FROM comments
		WHERE id = ?
	`, id)

	var cm models.Comment
	var text sql.NullString
	var ts time.Time
	if err := row.Scan(&cm.ID, &cm.UserID, &cm.PostID, &text, &cm.Likes, &ts); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan comment: %w", err)
	}

	cm.Text = text.String
	cm.CreatedAt = ts
	return &cm, nil
}

func (r *Repo) ListByPost(ctx context.Context, postID string, limit, offset int) ([]models.Comment, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, user_id, post_id, text, likes, created_at
		FROM comments
		WHERE post_id = ?
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`, postID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	out := make([]models.Comment, 0, limit)
	for rows.Next() {
		var cm models.Comment
		var text sql.NullString
		var ts time.Time

		if err := rows.Scan(&cm.ID, &cm.UserID, &cm.PostID, &text, &cm.Likes, &ts); err != nil {
			return nil, fmt.Errorf("scan comment row: %w", err)
		}

		cm.Text = text.String
		cm.CreatedAt = ts
		out = append(out, cm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func (r *Repo) CountByPost(ctx context.Context, postID string) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM comments WHERE post_id = ?
	`, postID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count comments: %w", err)
	}
	return n, nil
}

func (r *Repo) Like(ctx context.Context, id int64) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE comments SET likes = likes + 1 WHERE id = ?
	`, id)
	if err != nil {
		return false, fmt.Errorf("like comment: %w", err)
	}
	rows, _ := res.RowsAffected()
	return rows > 0, nil
}

func (r *Repo) Delete(ctx context.Context, id int64, userID string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		DELETE FROM comments
		WHERE id = ? AND user_id = ?
	`, id, userID)
	if err != nil {
		return false, fmt.Errorf("delete comment: %w", err)
	}
	rows, _ := res.RowsAffected()
	return rows > 0, nil
}
