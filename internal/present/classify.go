package present

import (
	"strings"

	"campusmarket/internal/textnorm"
	"campusmarket/pkg/models"
)

// Best-effort keyword classifiers. Their output is a hint: it backfills an
// empty category key but never overrides one a source provided, and it is
// known to misfire on unusual wording.

func postHaystack(p models.Post) string {
	parts := []string{p.Title, p.Description, p.CategoryKey, p.SubcategoryKey, p.Status}
	parts = append(parts, p.Tags...)
	parts = append(parts, p.TagKeys...)
	return textnorm.Normalize(strings.Join(parts, " "))
}

// foldRideKey collapses carpooling posts into the two keys the tabs use.
func foldRideKey(p models.Post) string {
	key := textnorm.Normalize(p.CategoryKey)
	if key == "ofereco" || key == "procuro" {
		return key
	}
	hay := postHaystack(p)
	for _, w := range []string{"procur", "preciso", "busco"} {
		if strings.Contains(hay, w) {
			return "procuro"
		}
	}
	return "ofereco"
}

// foldLostFoundKey collapses lost-and-found posts into perdidos/encontrados.
func foldLostFoundKey(p models.Post) string {
	key := textnorm.Normalize(p.CategoryKey)
	if key == "perdidos" || key == "encontrados" {
		return key
	}
	hay := postHaystack(p)
	for _, w := range []string{"encontr", "achei", "achado"} {
		if strings.Contains(hay, w) {
			return "encontrados"
		}
	}
	return "perdidos"
}

var eventKeywords = []struct {
	key   string
	words []string
}{
	{"sustentabilidade", []string{"sustent", "ecolog", "meio ambiente", "reciclag", "horta"}},
	{"esportivos", []string{"esport", "campeonato", "torneio", "corrida", "futebol", "volei"}},
	{"academicos", []string{"academ", "palestra", "semana", "simposio", "congresso", "monitoria"}},
	{"culturais", []string{"cultur", "show", "festival", "teatro", "musica", "sarau", "cinema"}},
}

// classifyEvent scans tags and description for taxonomy keywords. First
// taxonomy bucket with a hit wins; no hit yields "culturais".
func classifyEvent(p models.Post) string {
	hay := postHaystack(p)
	for _, e := range eventKeywords {
		for _, w := range e.words {
			if strings.Contains(hay, w) {
				return e.key
			}
		}
	}
	return "culturais"
}

var sustainabilityWords = []string{"sustent", "ecolog", "meio ambiente", "reciclag", "carona solidaria", "co2"}

// isSustainable reports whether a post advertises itself as sustainable,
// either via the explicit flag or by keyword.
func isSustainable(p models.Post) bool {
	if p.Sustainable {
		return true
	}
	hay := postHaystack(p)
	for _, w := range sustainabilityWords {
		if strings.Contains(hay, w) {
			return true
		}
	}
	return false
}
