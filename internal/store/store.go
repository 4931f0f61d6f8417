// Package store is the data access facade: posts come from one of two
// interchangeable base backends (bundled seed file or remote API) merged
// with the locally created user posts, behind one uniform interface.
package store

import (
	"context"
	"log"
	"strings"

	"campusmarket/internal/posts"
	"campusmarket/internal/textnorm"
	"campusmarket/pkg/models"
)

// Filters narrows a listing. Page is 1-based; Limit is clamped.
type Filters struct {
	Module      string
	Category    string
	Subcategory string
	Q           string
	Page        int
	Limit       int
}

const (
	defaultLimit = 20
	maxLimit     = 100
)

func (f *Filters) clamp() {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 || f.Limit > maxLimit {
		f.Limit = defaultLimit
	}
}

// Store is what the API layer and the CLI consume.
type Store interface {
	List(ctx context.Context, f Filters) (items []models.Post, total int, err error)
	All(ctx context.Context) ([]models.Post, error)
	GetByID(ctx context.Context, id string) (*models.Post, error)
	Create(ctx context.Context, raw map[string]any, authorID string) (*models.Post, error)
}

// BaseSource is the interchangeable backend behind the facade. It is
// resolved once at construction; call sites never probe capabilities.
// Records come back raw so the normalizer sees original field names.
type BaseSource interface {
	Name() string
	FetchAll(ctx context.Context) ([]map[string]any, error)
}

// remoteWriter is implemented by backends that accept creates.
type remoteWriter interface {
	Create(ctx context.Context, p models.Post) error
}

// Facade merges user posts (always local, always first) with the configured
// base backend and canonicalizes everything on the way out.
type Facade struct {
	local      *LocalStore
	base       BaseSource
	writer     remoteWriter // nil when the base cannot accept writes
	normalizer *posts.Normalizer
	builder    *posts.Builder
}

func NewFacade(local *LocalStore, base BaseSource, normalizer *posts.Normalizer) *Facade {
	f := &Facade{
		local:      local,
		base:       base,
		normalizer: normalizer,
		builder:    posts.NewBuilder(normalizer),
	}
	if w, ok := base.(remoteWriter); ok {
		f.writer = w
	}
	return f
}

// List returns one page of canonical posts plus the total match count.
// Base backend failures degrade to the user posts alone.
func (f *Facade) List(ctx context.Context, filters Filters) ([]models.Post, int, error) {
	filters.clamp()

	merged, err := f.allPosts(ctx)
	if err != nil {
		return nil, 0, err
	}

	var matched []models.Post
	for _, p := range merged {
		if matches(p, filters) {
			matched = append(matched, p)
		}
	}

	total := len(matched)
	start := (filters.Page - 1) * filters.Limit
	if start >= total {
		return []models.Post{}, total, nil
	}
	end := start + filters.Limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

// GetByID looks up one post, user posts first. Returns (nil, nil) when not
// found, mirroring the list semantics of "show less, never crash".
func (f *Facade) GetByID(ctx context.Context, id string) (*models.Post, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, nil
	}
	merged, err := f.allPosts(ctx)
	if err != nil {
		return nil, err
	}
	for i := range merged {
		if merged[i].ID == id {
			return &merged[i], nil
		}
	}
	return nil, nil
}

// Create sanitizes, canonicalizes and stores a user post locally, then
// mirrors it to the remote backend when one is configured. The mirror is
// best effort; the local write is the record of truth.
func (f *Facade) Create(ctx context.Context, raw map[string]any, authorID string) (*models.Post, error) {
	p, err := f.builder.BuildUserPost(raw, authorID)
	if err != nil {
		return nil, err
	}
	if err := f.local.Insert(ctx, p); err != nil {
		return nil, err
	}
	if f.writer != nil {
		if err := f.writer.Create(ctx, p); err != nil {
			log.Printf("[store] mirror create %s to %s: %v", p.ID, f.base.Name(), err)
		}
	}
	return &p, nil
}

// All returns the full merged, canonicalized post set. Ranked search runs
// over this rather than a page slice.
func (f *Facade) All(ctx context.Context) ([]models.Post, error) {
	return f.allPosts(ctx)
}

func (f *Facade) allPosts(ctx context.Context) ([]models.Post, error) {
	user, err := f.local.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	raw, err := f.base.FetchAll(ctx)
	if err != nil {
		log.Printf("[store] base source %s failed, serving user posts only: %v", f.base.Name(), err)
		raw = nil
	}

	seen := make(map[string]struct{}, len(user)+len(raw))
	merged := make([]models.Post, 0, len(user)+len(raw))
	add := func(p models.Post) {
		if p.ID == "" {
			return
		}
		if _, dup := seen[p.ID]; dup {
			return
		}
		seen[p.ID] = struct{}{}
		merged = append(merged, p)
	}
	// user posts first: they win dedup collisions and lead listings
	for _, p := range user {
		add(f.normalizer.NormalizePost(p))
	}
	for _, rec := range raw {
		add(f.normalizer.Normalize(rec))
	}
	return merged, nil
}

func matches(p models.Post, f Filters) bool {
	if f.Module != "" && p.Module != f.Module {
		return false
	}
	if f.Category != "" {
		c := textnorm.CanonicalCategory(f.Category)
		if !strings.Contains(textnorm.CanonicalCategory(p.CategoryKey), c) &&
			textnorm.CanonicalCategory(p.CategoryLabel) != c {
			return false
		}
	}
	if f.Subcategory != "" {
		s := textnorm.CanonicalCategory(f.Subcategory)
		if textnorm.CanonicalCategory(p.SubcategoryKey) != s &&
			textnorm.CanonicalCategory(p.SubcategoryText) != s {
			return false
		}
	}
	if q := textnorm.Normalize(f.Q); q != "" {
		hay := textnorm.Normalize(strings.Join(append([]string{p.Title, p.Description}, p.Tags...), " "))
		if !strings.Contains(hay, q) {
			return false
		}
	}
	return true
}
