// export-seed dumps the local sqlite posts back into the seed JSON format
// so a database can be turned into a shareable seed file.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"campusmarket/internal/store"
	"campusmarket/pkg/database"
	"campusmarket/pkg/utils"
)

func main() {
	_ = godotenv.Load()

	var (
		out      = flag.String("out", "data/seed.json", "output seed JSON path")
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

	local := store.NewLocalStore(db)
	list, err := local.ListAll(ctx)
	if err != nil {
		log.Fatalf("list posts: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		log.Fatalf("ensure output dir: %v", err)
	}

	doc := map[string]any{"anuncios": list}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		log.Fatalf("marshal seed: %v", err)
	}
	if err := os.WriteFile(*out, b, 0o644); err != nil {
		log.Fatalf("write %s: %v", *out, err)
	}

	log.Printf("✅ exported %d posts to %s", len(list), *out)
}
