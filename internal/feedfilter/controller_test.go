package feedfilter

import (
	"testing"

	"campusmarket/internal/render"
	"campusmarket/internal/search"
)

func sampleCards() []*render.Card {
	return []*render.Card{
		{PostID: "p1", Title: "Notebook Dell", DataCategory: "eletronicos", DataCondition: "seminovo", DataVerified: true, Visible: true},
		{PostID: "p2", Title: "Cálculo Vol.1", DataCategory: "livros", DataCondition: "novo", Visible: true},
		{PostID: "p3", Title: "Sofá 3 lugares", DataCategory: "moveis", Visible: true},
	}
}

func newController() *Controller {
	return NewController(search.NewEngine())
}

func TestWildcardShowsAll(t *testing.T) {
	c := newController()
	cards := sampleCards()
	if n := c.Apply(cards); n != 3 {
		t.Fatalf("visible = %d, want 3", n)
	}
}

func TestCategorySelectionHidesOthers(t *testing.T) {
	c := newController()
	cards := sampleCards()
	c.SetCategory("Livros")
	if n := c.Apply(cards); n != 1 {
		t.Fatalf("visible = %d, want 1", n)
	}
	if cards[0].Visible || !cards[1].Visible || cards[2].Visible {
		t.Fatalf("wrong cards visible: %v %v %v", cards[0].Visible, cards[1].Visible, cards[2].Visible)
	}
}

func TestCategoryContainmentMatch(t *testing.T) {
	if !CategoryMatches("eletronicos-acessorios", "eletronicos") {
		t.Fatal("containment match should accept compound categories")
	}
	if !CategoryMatches("eletronicos", "Eletrônico") {
		t.Fatal("accent and plural folds should apply before matching")
	}
	if CategoryMatches("moveis", "livros") {
		t.Fatal("unrelated categories must not match")
	}
	if !CategoryMatches("qualquer", "todas") {
		t.Fatal("wildcard must match everything")
	}
	if CategoryMatches("", "livros") {
		t.Fatal("empty card category only matches the wildcard")
	}
}

func TestQueryCombinesWithCategory(t *testing.T) {
	c := newController()
	cards := sampleCards()
	c.SetCategory("todas")
	c.SetQuery("laptop") // synonym of notebook
	if n := c.Apply(cards); n != 1 {
		t.Fatalf("visible = %d, want 1", n)
	}
	if !cards[0].Visible {
		t.Fatal("synonym query should keep the notebook visible")
	}

	c.SetCategory("livros")
	if n := c.Apply(cards); n != 0 {
		t.Fatalf("conflicting category and query should empty the page, got %d", n)
	}
}

func TestReapplyIsIdempotent(t *testing.T) {
	c := newController()
	cards := sampleCards()
	c.SetCategory("moveis")
	first := c.Apply(cards)
	second := c.Apply(cards)
	if first != second {
		t.Fatalf("apply not idempotent: %d then %d", first, second)
	}
}

func TestExtraPredicate(t *testing.T) {
	c := newController()
	cards := sampleCards()
	c.SetExtraPredicate(func(card *render.Card) bool { return card.DataVerified })
	if n := c.Apply(cards); n != 1 {
		t.Fatalf("visible = %d, want 1", n)
	}
	if !cards[0].Visible {
		t.Fatal("verified card should remain visible")
	}
}

func TestBuySellPredicate(t *testing.T) {
	cards := sampleCards()

	// no category checked: nothing shows
	none := BuySellPredicate(BuySellOptions{})
	for _, card := range cards {
		if none(card) {
			t.Fatalf("empty checkbox set must hide %s", card.PostID)
		}
	}

	sel := BuySellPredicate(BuySellOptions{
		Categories: []string{"eletronicos", "livros"},
		Conditions: []string{"seminovo"},
	})
	if !sel(cards[0]) {
		t.Fatal("seminovo notebook should pass")
	}
	if sel(cards[1]) {
		t.Fatal("novo book should fail the seminovo condition")
	}

	ver := BuySellPredicate(BuySellOptions{
		Categories:   []string{"eletronicos", "livros", "moveis"},
		VerifiedOnly: true,
	})
	if !ver(cards[0]) || ver(cards[1]) {
		t.Fatal("verified-only toggle wrong")
	}
}

func TestResolveInitialCategory(t *testing.T) {
	if got := ResolveInitialCategory("#livros", "eletronicos"); got != "livros" {
		t.Fatalf("hash should win: %q", got)
	}
	if got := ResolveInitialCategory("", "eletronicos"); got != "eletronicos" {
		t.Fatalf("active tab should be second: %q", got)
	}
	if got := ResolveInitialCategory("", ""); got != Wildcard {
		t.Fatalf("wildcard default: %q", got)
	}
}
