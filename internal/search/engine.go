// Package search ranks posts against a free-text query using substring
// containment widened by a static synonym table. Scoring is deterministic;
// equal scores keep input order.
package search

import (
	"sort"
	"strings"

	"campusmarket/internal/render"
	"campusmarket/internal/textnorm"
	"campusmarket/pkg/models"
)

// Fixed scoring weights.
const (
	weightTitle       = 0.5
	weightTags        = 0.3
	weightDescription = 0.2
	weightCategory    = 0.2

	DefaultLimit    = 50
	DefaultMinScore = 0.3
)

type Options struct {
	Module   string
	Category string
	Limit    int
	MinScore float64
}

// Result is a post plus its relevance score.
type Result struct {
	models.Post
	Score float64 `json:"relevanceScore"`
}

type Engine struct {
	synonyms map[string][]string
}

func NewEngine() *Engine {
	return &Engine{synonyms: defaultSynonyms}
}

// NewEngineWithSynonyms lets tests and callers supply their own table.
func NewEngineWithSynonyms(table map[string][]string) *Engine {
	return &Engine{synonyms: table}
}

// ExpandTerm returns the normalized term plus every member of any synonym
// set it belongs to, deduplicated, input first.
func (e *Engine) ExpandTerm(term string) []string {
	n := textnorm.Normalize(term)
	if n == "" {
		return nil
	}
	seen := map[string]struct{}{n: {}}
	out := []string{n}
	add := func(s string) {
		s = textnorm.Normalize(s)
		if s == "" {
			return
		}
		if _, dup := seen[s]; dup {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	for key, values := range e.synonyms {
		k := textnorm.Normalize(key)
		hit := k == n
		for _, v := range values {
			if textnorm.Normalize(v) == n {
				hit = true
				break
			}
		}
		if hit {
			add(k)
			for _, v := range values {
				add(v)
			}
		}
	}
	return out
}

func (e *Engine) expandQuery(query string) (normalized string, terms []string) {
	normalized = textnorm.Normalize(query)
	seen := map[string]struct{}{}
	for _, t := range strings.Fields(normalized) {
		if len([]rune(t)) <= 1 {
			continue
		}
		for _, x := range e.ExpandTerm(t) {
			if _, dup := seen[x]; dup {
				continue
			}
			seen[x] = struct{}{}
			terms = append(terms, x)
		}
	}
	return normalized, terms
}

// Search scores every post and returns the matches sorted by descending
// score. The sort is stable, so ties keep the input order.
func (e *Engine) Search(query string, posts []models.Post, opts Options) []Result {
	if strings.TrimSpace(query) == "" {
		return nil
	}
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}
	if opts.MinScore <= 0 {
		opts.MinScore = DefaultMinScore
	}

	normalizedQuery, terms := e.expandQuery(query)

	var results []Result
	for _, p := range posts {
		if opts.Module != "" && p.Module != opts.Module {
			continue
		}
		if opts.Category != "" && !categoryMatch(p, opts.Category) {
			continue
		}
		score := scorePost(p, normalizedQuery, terms)
		if score >= opts.MinScore {
			results = append(results, Result{Post: p, Score: score})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > opts.Limit {
		results = results[:opts.Limit]
	}
	return results
}

func categoryMatch(p models.Post, category string) bool {
	c := textnorm.CanonicalCategory(category)
	return textnorm.CanonicalCategory(p.CategoryKey) == c ||
		textnorm.CanonicalCategory(p.CategoryLabel) == c
}

func scorePost(p models.Post, normalizedQuery string, terms []string) float64 {
	title := textnorm.Normalize(p.Title)
	desc := textnorm.Normalize(p.Description)
	cat := textnorm.Normalize(p.CategoryLabel)
	if cat == "" {
		cat = textnorm.Normalize(p.CategoryKey)
	}
	sub := textnorm.Normalize(p.SubcategoryText)
	if sub == "" {
		sub = textnorm.Normalize(p.SubcategoryKey)
	}
	tags := make([]string, 0, len(p.Tags))
	for _, t := range p.Tags {
		tags = append(tags, textnorm.Normalize(t))
	}

	var score float64
	for _, term := range terms {
		if strings.Contains(title, term) {
			score += weightTitle
		}
		if strings.Contains(desc, term) {
			score += weightDescription
		}
		for _, tg := range tags {
			// bidirectional: "bluetooth" matches tag "fone bluetooth" and
			// tag "pc" matches term "pc gamer"
			if strings.Contains(tg, term) || strings.Contains(term, tg) {
				score += weightTags
				break
			}
		}
	}
	if strings.Contains(cat, normalizedQuery) || strings.Contains(sub, normalizedQuery) {
		score += weightCategory
	}
	return score
}

// FilterCards applies the same matching rules to already-rendered cards,
// toggling Visible in place. Returns the visible count; an empty query
// shows everything.
func (e *Engine) FilterCards(query string, cards []*render.Card) int {
	q := strings.TrimSpace(query)
	var terms []string
	if q != "" {
		_, terms = e.expandQuery(q)
	}

	visible := 0
	for _, c := range cards {
		match := q == ""
		if !match {
			hay := textnorm.Normalize(c.SearchText())
			for _, term := range terms {
				if strings.Contains(hay, term) {
					match = true
					break
				}
			}
		}
		c.Visible = match
		if match {
			visible++
		}
	}
	return visible
}
