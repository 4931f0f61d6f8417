package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"campusmarket/internal/authors"
	"campusmarket/internal/posts"
	"campusmarket/pkg/models"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE posts (
		id TEXT PRIMARY KEY,
		module TEXT NOT NULL,
		module_label TEXT,
		title TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		category_key TEXT NOT NULL DEFAULT '',
		category_label TEXT,
		subcategory_key TEXT,
		subcategory_text TEXT,
		price REAL,
		price_text TEXT,
		original_price REAL,
		author_id TEXT,
		author_name TEXT,
		author_avatar TEXT,
		timestamp_text TEXT,
		created_at TEXT,
		emoji TEXT,
		verified INTEGER NOT NULL DEFAULT 0,
		condition TEXT,
		location TEXT,
		status TEXT,
		sustainable INTEGER NOT NULL DEFAULT 0,
		tags TEXT,
		tag_keys TEXT,
		images TEXT,
		metadata TEXT,
		votes INTEGER NOT NULL DEFAULT 0,
		comments INTEGER NOT NULL DEFAULT 0,
		user_post INTEGER NOT NULL DEFAULT 0
	)`)
	if err != nil {
		t.Fatalf("create table: %v", err)
	}
	return db
}

type fakeBase struct {
	records []map[string]any
	err     error
}

func (f *fakeBase) Name() string { return "fake" }
func (f *fakeBase) FetchAll(ctx context.Context) ([]map[string]any, error) {
	return f.records, f.err
}

func newTestFacade(t *testing.T, base BaseSource) *Facade {
	t.Helper()
	dir := authors.NewDirectory()
	authors.SeedDefaults(dir)
	return NewFacade(NewLocalStore(testDB(t)), base, posts.NewNormalizer(dir))
}

func TestListMergesUserPostsFirstAndDedupes(t *testing.T) {
	base := &fakeBase{records: []map[string]any{
		{"id": "s1", "modulo": "eventos", "titulo": "Sarau"},
		{"id": "s2", "modulo": "eventos", "titulo": "Palestra"},
	}}
	f := newTestFacade(t, base)
	ctx := context.Background()

	created, err := f.Create(ctx, map[string]any{
		"id": "s1", "modulo": "eventos", "titulo": "Meu Sarau",
	}, "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	items, total, err := f.List(ctx, Filters{Module: "eventos"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 2 {
		t.Fatalf("total = %d, want 2 (user post wins the id collision)", total)
	}
	if items[0].ID != created.ID || items[0].Title != "Meu Sarau" {
		t.Fatalf("user post should lead and win dedupe: %+v", items[0])
	}
}

func TestListFiltersAndPaginates(t *testing.T) {
	recs := []map[string]any{
		{"id": "a", "modulo": "compra-venda", "titulo": "Notebook Dell", "categoriaKey": "eletronicos"},
		{"id": "b", "modulo": "compra-venda", "titulo": "Cálculo Vol.1", "categoriaKey": "livros"},
		{"id": "c", "modulo": "caronas", "titulo": "Carona centro"},
	}
	f := newTestFacade(t, &fakeBase{records: recs})
	ctx := context.Background()

	items, total, err := f.List(ctx, Filters{Module: "compra-venda"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Fatalf("module filter: total=%d len=%d", total, len(items))
	}

	items, total, _ = f.List(ctx, Filters{Module: "compra-venda", Category: "Livros"})
	if total != 1 || items[0].ID != "b" {
		t.Fatalf("category filter: %+v", items)
	}

	items, total, _ = f.List(ctx, Filters{Q: "notebook"})
	if total != 1 || items[0].ID != "a" {
		t.Fatalf("q filter: %+v", items)
	}

	items, total, _ = f.List(ctx, Filters{Page: 2, Limit: 2})
	if total != 3 || len(items) != 1 {
		t.Fatalf("pagination: total=%d len=%d", total, len(items))
	}

	items, _, _ = f.List(ctx, Filters{Page: 99, Limit: 2})
	if len(items) != 0 {
		t.Fatalf("page past the end should be empty, got %d", len(items))
	}
}

func TestListSurvivesBaseFailure(t *testing.T) {
	f := newTestFacade(t, &fakeBase{err: os.ErrDeadlineExceeded})
	ctx := context.Background()
	if _, err := f.Create(ctx, map[string]any{"modulo": "moradia", "titulo": "Quarto"}, ""); err != nil {
		t.Fatalf("create: %v", err)
	}

	items, total, err := f.List(ctx, Filters{})
	if err != nil {
		t.Fatalf("list should degrade, not fail: %v", err)
	}
	if total != 1 || items[0].Title != "Quarto" {
		t.Fatalf("user posts should survive base failure: %+v", items)
	}
}

func TestCreateRoundTripKeepsIntentCorrection(t *testing.T) {
	f := newTestFacade(t, &fakeBase{})
	ctx := context.Background()

	created, err := f.Create(ctx, map[string]any{
		"modulo":          "compra-venda",
		"titulo":          "Fone JBL",
		"categoriaKey":    "eletronicos",
		"subcategoriaKey": "vendo",
	}, "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.SubcategoryKey != "eletronicos" {
		t.Fatalf("intent correction missing on create: %q", created.SubcategoryKey)
	}

	got, err := f.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("created post not found")
	}
	if got.CategoryKey != created.CategoryKey || got.SubcategoryKey != created.SubcategoryKey {
		t.Fatalf("round trip changed keys: %+v vs %+v", got, created)
	}
	if !got.UserPost {
		t.Fatal("user post flag lost")
	}
}

func TestGetByIDUnknown(t *testing.T) {
	f := newTestFacade(t, &fakeBase{})
	got, err := f.GetByID(context.Background(), "nope")
	if err != nil || got != nil {
		t.Fatalf("unknown id should be (nil, nil), got %v %v", got, err)
	}
}

func TestParseSeed(t *testing.T) {
	wrapped := []byte(`{"anuncios":[{"id":"x","modulo":"eventos"}]}`)
	recs, err := ParseSeed(wrapped)
	if err != nil || len(recs) != 1 || recs[0]["id"] != "x" {
		t.Fatalf("wrapped parse: %v %v", recs, err)
	}

	bare := []byte(`[{"id":"y"}]`)
	recs, err = ParseSeed(bare)
	if err != nil || len(recs) != 1 || recs[0]["id"] != "y" {
		t.Fatalf("bare parse: %v %v", recs, err)
	}

	if _, err := ParseSeed([]byte("not json")); err == nil {
		t.Fatal("invalid JSON should error")
	}
}

func TestSeedSourceFallbackAndCache(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "seed.json")
	if err := os.WriteFile(good, []byte(`{"anuncios":[{"id":"s1","modulo":"eventos"}]}`), 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}

	s := NewSeedSource(filepath.Join(dir, "missing.json"), good)
	recs, err := s.FetchAll(context.Background())
	if err != nil || len(recs) != 1 {
		t.Fatalf("fallback fetch: %v %v", recs, err)
	}

	// cached: deleting the file must not matter anymore
	os.Remove(good)
	recs, err = s.FetchAll(context.Background())
	if err != nil || len(recs) != 1 {
		t.Fatalf("cached fetch: %v %v", recs, err)
	}
}

func TestSeedSourceAllCandidatesFail(t *testing.T) {
	s := NewSeedSource(filepath.Join(t.TempDir(), "nope.json"))
	if _, err := s.FetchAll(context.Background()); err == nil {
		t.Fatal("expected error when every candidate fails")
	}
}

func TestLocalStoreUpsert(t *testing.T) {
	ls := NewLocalStore(testDB(t))
	ctx := context.Background()
	p := models.Post{ID: "u1", Module: "moradia", Title: "Quarto", Tags: []string{"quarto"}}

	if err := ls.Upsert(ctx, []models.Post{p}); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	p.Title = "Quarto mobiliado"
	if err := ls.Upsert(ctx, []models.Post{p}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	n, err := ls.Count(ctx)
	if err != nil || n != 1 {
		t.Fatalf("count = %d, %v", n, err)
	}
	got, err := ls.GetByID(ctx, "u1")
	if err != nil || got == nil || got.Title != "Quarto mobiliado" {
		t.Fatalf("upsert did not replace: %+v %v", got, err)
	}
	if len(got.Tags) != 1 || got.Tags[0] != "quarto" {
		t.Fatalf("tags round trip: %+v", got.Tags)
	}
}
