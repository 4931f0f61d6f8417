package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"
)

// SeedDocument is the on-disk seed shape. External tooling produces and
// consumes this format bit-for-bit, so the top-level key is fixed.
type SeedDocument struct {
	Anuncios []map[string]any `json:"anuncios"`
}

// SeedSource serves the bundled seed posts. Candidates (file paths or HTTP
// URLs) are tried in order; the first success is cached for the process
// lifetime.
type SeedSource struct {
	Candidates []string
	Client     *http.Client

	mu     sync.Mutex
	cached []map[string]any
}

func NewSeedSource(candidates ...string) *SeedSource {
	return &SeedSource{
		Candidates: candidates,
		Client:     &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *SeedSource) Name() string { return "seed" }

func (s *SeedSource) FetchAll(ctx context.Context) ([]map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cached != nil {
		return s.cached, nil
	}

	var lastErr error
	for _, c := range s.Candidates {
		raw, err := s.read(ctx, c)
		if err != nil {
			lastErr = err
			continue
		}
		list, err := ParseSeed(raw)
		if err != nil {
			lastErr = fmt.Errorf("parse %s: %w", c, err)
			continue
		}
		s.cached = list
		return s.cached, nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no seed candidates configured")
	}
	return nil, fmt.Errorf("seed: all candidates failed: %w", lastErr)
}

func (s *SeedSource) read(ctx context.Context, candidate string) ([]byte, error) {
	if strings.HasPrefix(candidate, "http://") || strings.HasPrefix(candidate, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, candidate, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		resp, err := s.Client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", candidate, err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("fetch %s: status %d", candidate, resp.StatusCode)
		}
		return io.ReadAll(resp.Body)
	}
	return os.ReadFile(candidate)
}

// ParseSeed decodes a seed document into raw records. A bare top-level
// array is tolerated for hand-built files.
func ParseSeed(raw []byte) ([]map[string]any, error) {
	var doc SeedDocument
	if err := json.Unmarshal(raw, &doc); err != nil || doc.Anuncios == nil {
		var bare []map[string]any
		if err2 := json.Unmarshal(raw, &bare); err2 != nil {
			if err == nil {
				err = err2
			}
			return nil, err
		}
		doc.Anuncios = bare
	}
	return doc.Anuncios, nil
}
