package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"campusmarket/pkg/models"
)

// LocalStore persists user-created posts in sqlite. It is the record of
// truth for those posts whatever base backend is active.
type LocalStore struct {
	DB *sql.DB
}

func NewLocalStore(db *sql.DB) *LocalStore {
	return &LocalStore{DB: db}
}

const postColumns = `id, module, module_label, title, description,
	category_key, category_label, subcategory_key, subcategory_text,
	price, price_text, original_price,
	author_id, author_name, author_avatar,
	timestamp_text, created_at, emoji, verified, condition, location,
	status, sustainable, tags, tag_keys, images, metadata, votes, comments, user_post`

// Insert writes one post.
func (s *LocalStore) Insert(ctx context.Context, p models.Post) error {
	return s.exec(ctx, s.DB, p, false)
}

// Upsert writes a batch inside one transaction, replacing rows with the
// same id. Used by the seed importer.
func (s *LocalStore) Upsert(ctx context.Context, list []models.Post) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, p := range list {
		if err := s.exec(ctx, tx, p, true); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *LocalStore) exec(ctx context.Context, db execer, p models.Post, upsert bool) error {
	tagsJSON, _ := json.Marshal(p.Tags)
	tagKeysJSON, _ := json.Marshal(p.TagKeys)
	imagesJSON, _ := json.Marshal(p.Images)
	metaJSON, _ := json.Marshal(p.Metadata)

	query := `INSERT INTO posts (` + postColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if upsert {
		query += `
		ON CONFLICT(id) DO UPDATE SET
		  module = excluded.module,
		  title = excluded.title,
		  description = excluded.description,
		  category_key = excluded.category_key,
		  category_label = excluded.category_label,
		  subcategory_key = excluded.subcategory_key,
		  subcategory_text = excluded.subcategory_text,
		  price = excluded.price,
		  price_text = excluded.price_text,
		  original_price = excluded.original_price,
		  votes = excluded.votes,
		  comments = excluded.comments,
		  metadata = excluded.metadata`
	}

	_, err := db.ExecContext(ctx, query,
		p.ID, p.Module, p.ModuleLabel, p.Title, p.Description,
		p.CategoryKey, p.CategoryLabel, p.SubcategoryKey, p.SubcategoryText,
		nullFloat(p.Price), p.PriceText, nullFloat(p.OriginalPrice),
		p.AuthorID, p.AuthorName, p.AuthorAvatar,
		p.Timestamp, p.CreatedAt, p.Emoji, boolInt(p.Verified), p.Condition, p.Location,
		p.Status, boolInt(p.Sustainable),
		string(tagsJSON), string(tagKeysJSON), string(imagesJSON), string(metaJSON),
		p.Votes, p.Comments, boolInt(p.UserPost),
	)
	if err != nil {
		return fmt.Errorf("save post %s: %w", p.ID, err)
	}
	return nil
}

// ListAll returns every stored post, newest first.
func (s *LocalStore) ListAll(ctx context.Context) ([]models.Post, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT `+postColumns+` FROM posts ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var out []models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetByID fetches one stored post; (nil, nil) when absent.
func (s *LocalStore) GetByID(ctx context.Context, id string) (*models.Post, error) {
	row := s.DB.QueryRowContext(ctx,
		`SELECT `+postColumns+` FROM posts WHERE id = ?`, id)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Count reports how many posts are stored.
func (s *LocalStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`).Scan(&n)
	return n, err
}

// AdjustVotes shifts the denormalized vote counter on a post row.
func (s *LocalStore) AdjustVotes(ctx context.Context, postID string, delta int) error {
	_, err := s.DB.ExecContext(ctx,
		`UPDATE posts SET votes = votes + ? WHERE id = ?`, delta, postID)
	if err != nil {
		return fmt.Errorf("adjust votes for %s: %w", postID, err)
	}
	return nil
}

// AdjustComments shifts the denormalized comment counter on a post row.
func (s *LocalStore) AdjustComments(ctx context.Context, postID string, delta int) error {
	_, err := s.DB.ExecContext(ctx,
		`UPDATE posts SET comments = comments + ? WHERE id = ?`, delta, postID)
	if err != nil {
		return fmt.Errorf("adjust comments for %s: %w", postID, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(r rowScanner) (models.Post, error) {
	var p models.Post
	var price, origPrice sql.NullFloat64
	var moduleLabel, priceText, authorID, authorName, authorAvatar sql.NullString
	var ts, createdAt, emoji, condition, location, status sql.NullString
	var catLabel, subKey, subText sql.NullString
	var verified, sustainable, userPost int
	var tagsJSON, tagKeysJSON, imagesJSON, metaJSON sql.NullString

	err := r.Scan(
		&p.ID, &p.Module, &moduleLabel, &p.Title, &p.Description,
		&p.CategoryKey, &catLabel, &subKey, &subText,
		&price, &priceText, &origPrice,
		&authorID, &authorName, &authorAvatar,
		&ts, &createdAt, &emoji, &verified, &condition, &location,
		&status, &sustainable,
		&tagsJSON, &tagKeysJSON, &imagesJSON, &metaJSON,
		&p.Votes, &p.Comments, &userPost,
	)
	if err != nil {
		return p, err
	}

	p.ModuleLabel = moduleLabel.String
	p.CategoryLabel = catLabel.String
	p.SubcategoryKey = subKey.String
	p.SubcategoryText = subText.String
	p.PriceText = priceText.String
	p.AuthorID = authorID.String
	p.AuthorName = authorName.String
	p.AuthorAvatar = authorAvatar.String
	p.Timestamp = ts.String
	p.CreatedAt = createdAt.String
	p.Emoji = emoji.String
	p.Condition = condition.String
	p.Location = location.String
	p.Status = status.String
	p.Verified = verified != 0
	p.Sustainable = sustainable != 0
	p.UserPost = userPost != 0
	if price.Valid {
		v := price.Float64
		p.Price = &v
	}
	if origPrice.Valid {
		v := origPrice.Float64
		p.OriginalPrice = &v
	}
	if tagsJSON.Valid && tagsJSON.String != "" && tagsJSON.String != "null" {
		_ = json.Unmarshal([]byte(tagsJSON.String), &p.Tags)
	}
	if tagKeysJSON.Valid && tagKeysJSON.String != "" && tagKeysJSON.String != "null" {
		_ = json.Unmarshal([]byte(tagKeysJSON.String), &p.TagKeys)
	}
	if imagesJSON.Valid && imagesJSON.String != "" && imagesJSON.String != "null" {
		_ = json.Unmarshal([]byte(imagesJSON.String), &p.Images)
	}
	if metaJSON.Valid && metaJSON.String != "" && metaJSON.String != "null" {
		_ = json.Unmarshal([]byte(metaJSON.String), &p.Metadata)
	}
	return p, nil
}

func nullFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
