// seed-server serves a seed JSON file over HTTP so another instance can use
// it as a seed candidate (CAMPUSMARKET_SEED_PATHS=http://host:9000/seed.json).
package main

import (
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
)

func main() {
	var (
		addr     = flag.String("addr", ":9000", "listen address")
		dataPath = flag.String("data", "data/seed.json", "seed JSON path")
	)
	flag.Parse()

	http.HandleFunc("/seed.json", func(w http.ResponseWriter, r *http.Request) {
		b, err := os.ReadFile(*dataPath)
		if err != nil {
			http.Error(w, "cannot read seed file: "+err.Error(), http.StatusInternalServerError)
			return
		}
		// validate JSON so a bad file doesn't silently break clients
		var tmp any
		if err := json.Unmarshal(b, &tmp); err != nil {
			http.Error(w, "seed file invalid JSON: "+err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(b)
	})

	log.Printf("seed-server listening on %s", *addr)
	log.Fatal(http.ListenAndServe(*addr, nil))
}
