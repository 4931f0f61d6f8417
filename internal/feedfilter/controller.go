// Package feedfilter holds the per-page filter state (selected category tab,
// free-text query, optional page predicate) and applies it to rendered cards.
package feedfilter

import (
	"strings"

	"campusmarket/internal/render"
	"campusmarket/internal/search"
	"campusmarket/internal/textnorm"
)

// Wildcard is the category selection that matches every card.
const Wildcard = "todas"

// Predicate lets a page refine visibility beyond category and query, e.g.
// the buy-sell condition/verified checkboxes.
type Predicate func(*render.Card) bool

// Controller is one page's filter state. Construct one per listing page;
// there is no shared global state.
type Controller struct {
	category string
	query    string
	extra    Predicate
	engine   *search.Engine
}

func NewController(engine *search.Engine) *Controller {
	if engine == nil {
		engine = search.NewEngine()
	}
	return &Controller{category: Wildcard, engine: engine}
}

func (c *Controller) Category() string { return c.category }
func (c *Controller) Query() string    { return c.query }

func (c *Controller) SetCategory(category string) {
	category = strings.TrimSpace(category)
	if category == "" {
		category = Wildcard
	}
	c.category = category
}

func (c *Controller) SetQuery(query string) {
	c.query = strings.TrimSpace(query)
}

func (c *Controller) SetExtraPredicate(p Predicate) {
	c.extra = p
}

// Apply recomputes visibility for every card: category AND query AND extra
// predicate. Returns the visible count; zero means the page should show its
// empty state. Safe to call repeatedly.
func (c *Controller) Apply(cards []*render.Card) int {
	visible := 0
	for _, card := range cards {
		ok := CategoryMatches(card.DataCategory, c.category) &&
			c.queryMatches(card) &&
			(c.extra == nil || c.extra(card))
		card.Visible = ok
		if ok {
			visible++
		}
	}
	return visible
}

func (c *Controller) queryMatches(card *render.Card) bool {
	if c.query == "" {
		return true
	}
	one := []*render.Card{{
		Title:        card.Title,
		Description:  card.Description,
		CategoryText: card.CategoryText,
		DataTags:     card.DataTags,
	}}
	return c.engine.FilterCards(c.query, one) > 0
}

// CategoryMatches compares canonicalized categories by bidirectional
// substring containment. The wildcard always matches. Containment is looser
// than equality on purpose: it lets "eletronicos-acessorios" satisfy an
// "eletronicos" tab, and it is what the filter tabs have always done.
func CategoryMatches(cardCategory, selected string) bool {
	sel := textnorm.CanonicalCategory(selected)
	if sel == "" || sel == "toda" {
		return true
	}
	card := textnorm.CanonicalCategory(cardCategory)
	if card == "" {
		return false
	}
	return strings.Contains(card, sel) || strings.Contains(sel, card)
}

// ResolveInitialCategory picks the category a page starts on: the URL hash
// wins, then the tab marked active, then the wildcard.
func ResolveInitialCategory(hash string, activeTab string) string {
	hash = strings.TrimPrefix(strings.TrimSpace(hash), "#")
	if hash != "" {
		return hash
	}
	if activeTab = strings.TrimSpace(activeTab); activeTab != "" {
		return activeTab
	}
	return Wildcard
}
