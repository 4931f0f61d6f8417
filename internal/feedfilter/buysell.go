package feedfilter

import (
	"campusmarket/internal/render"
	"campusmarket/internal/textnorm"
)

// BuySellOptions mirrors the sidebar refinements of the buy-sell page:
// category checkboxes, condition checkboxes and the verified-only toggle.
type BuySellOptions struct {
	Categories   []string
	Conditions   []string
	VerifiedOnly bool
}

// BuySellPredicate builds the page predicate for those refinements. An
// empty category set means nothing is checked, and nothing is shown; that
// is the page's historical behavior, not an accident.
func BuySellPredicate(opts BuySellOptions) Predicate {
	cats := make([]string, 0, len(opts.Categories))
	for _, c := range opts.Categories {
		if cc := textnorm.CanonicalCategory(c); cc != "" {
			cats = append(cats, cc)
		}
	}
	conds := make(map[string]struct{}, len(opts.Conditions))
	for _, c := range opts.Conditions {
		if n := textnorm.Normalize(c); n != "" {
			conds[n] = struct{}{}
		}
	}

	return func(card *render.Card) bool {
		matched := false
		for _, c := range cats {
			if CategoryMatches(card.DataCategory, c) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
		if len(conds) > 0 {
			if _, ok := conds[textnorm.Normalize(card.DataCondition)]; !ok {
				return false
			}
		}
		if opts.VerifiedOnly && !card.DataVerified {
			return false
		}
		return true
	}
}
