// import-seed loads a seed JSON document into the local sqlite store so the
// posts survive without the seed file and show up in exports.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"campusmarket/internal/authors"
	"campusmarket/internal/posts"
	"campusmarket/internal/store"
	"campusmarket/pkg/database"
	"campusmarket/pkg/models"
	"campusmarket/pkg/utils"
)

func main() {
	_ = godotenv.Load()

	var (
		in       = flag.String("in", "data/seed.json", "input seed JSON path")
		asUser   = flag.Bool("as-user-posts", false, "mark imported posts as user posts")
		schemaIn = flag.String("schema", "", "schema path override")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg := utils.Load()
	schema := cfg.SchemaPath
	if *schemaIn != "" {
		schema = *schemaIn
	}

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.MigrateFile(db, schema); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	raw, err := os.ReadFile(*in)
	if err != nil {
		log.Fatalf("read %s: %v", *in, err)
	}

	records, err := store.ParseSeed(raw)
	if err != nil {
		log.Fatalf("parse %s: %v", *in, err)
	}

	dir := authors.NewDirectory()
	authors.SeedDefaults(dir)
	normalizer := posts.NewNormalizer(dir)

	batch := make([]models.Post, 0, len(records))
	for _, rec := range records {
		p := normalizer.Normalize(rec)
		if p.ID == "" {
			continue
		}
		p.UserPost = *asUser
		batch = append(batch, p)
	}

	local := store.NewLocalStore(db)
	if err := local.Upsert(ctx, batch); err != nil {
		log.Fatalf("upsert posts: %v", err)
	}

	log.Printf("✅ imported %d posts from %s", len(batch), *in)
}
