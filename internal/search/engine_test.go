package search

import (
	"testing"

	"campusmarket/internal/render"
	"campusmarket/pkg/models"
)

func samplePosts() []models.Post {
	return []models.Post{
		{ID: "p1", Module: models.ModuleBuySell, Title: "Dell Notebook", Description: "i5, 8GB", CategoryLabel: "Eletrônicos", Tags: []string{"notebook", "dell"}},
		{ID: "p2", Module: models.ModuleBuySell, Title: "Mesa de escritório", Description: "Madeira maciça", CategoryLabel: "Móveis"},
		{ID: "p3", Module: models.ModuleRides, Title: "Carona para o centro", Description: "Saída 18h"},
	}
}

func TestSearchRanksTitleMatchFirst(t *testing.T) {
	e := NewEngine()
	res := e.Search("notebook", samplePosts(), Options{})
	if len(res) == 0 {
		t.Fatal("no results")
	}
	if res[0].ID != "p1" {
		t.Fatalf("first = %s, want p1", res[0].ID)
	}
	if res[0].Score < 0.5 {
		t.Fatalf("title match score = %v, want >= 0.5", res[0].Score)
	}
}

func TestSearchSynonymExpansion(t *testing.T) {
	e := NewEngine()
	res := e.Search("laptop", samplePosts(), Options{})
	if len(res) == 0 || res[0].ID != "p1" {
		t.Fatalf("laptop should surface the Dell notebook via synonyms: %+v", res)
	}
}

func TestSearchMinScoreExcludes(t *testing.T) {
	e := NewEngine()
	// "madeira" only hits the description (0.2 < 0.3 default min score).
	res := e.Search("madeira", samplePosts(), Options{})
	for _, r := range res {
		if r.ID == "p2" {
			t.Fatalf("description-only match should fall below min score: %+v", r)
		}
	}
}

func TestSearchModuleFilter(t *testing.T) {
	e := NewEngine()
	res := e.Search("carona", samplePosts(), Options{Module: models.ModuleBuySell})
	for _, r := range res {
		if r.Module != models.ModuleBuySell {
			t.Fatalf("module filter leaked: %+v", r)
		}
	}
}

func TestSearchCategoryBonusAndFilter(t *testing.T) {
	e := NewEngine()
	res := e.Search("notebook", samplePosts(), Options{Category: "Eletrônicos"})
	if len(res) != 1 || res[0].ID != "p1" {
		t.Fatalf("category filter: %+v", res)
	}

	// whole-query hit on the category label adds the flat bonus
	with := e.Search("eletrônicos dell", samplePosts(), Options{})
	if len(with) == 0 || with[0].ID != "p1" {
		t.Fatalf("category bonus search: %+v", with)
	}
	// dell hits title (0.5) + tag (0.3); the label bonus needs the whole
	// query inside the label, which fails here, so score stays below 1.0
	if with[0].Score < 0.8 {
		t.Fatalf("score = %v, want >= 0.8", with[0].Score)
	}
}

func TestSearchTieKeepsInputOrder(t *testing.T) {
	e := NewEngine()
	posts := []models.Post{
		{ID: "a", Module: models.ModuleEvents, Title: "Sarau de poesia"},
		{ID: "b", Module: models.ModuleEvents, Title: "Sarau aberto"},
	}
	res := e.Search("sarau", posts, Options{})
	if len(res) != 2 || res[0].ID != "a" || res[1].ID != "b" {
		t.Fatalf("tie order not stable: %+v", res)
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	e := NewEngine()
	if res := e.Search("   ", samplePosts(), Options{}); res != nil {
		t.Fatalf("blank query should return nil, got %+v", res)
	}
}

func TestSearchShortTermsDropped(t *testing.T) {
	e := NewEngine()
	// single-rune terms are discarded; "o" alone must not match everything
	res := e.Search("o", samplePosts(), Options{})
	if len(res) != 0 {
		t.Fatalf("single-rune query matched: %+v", res)
	}
}

func TestExpandTermBidirectional(t *testing.T) {
	e := NewEngine()
	got := e.ExpandTerm("laptop")
	want := map[string]bool{}
	for _, g := range got {
		want[g] = true
	}
	if !want["notebook"] || !want["laptop"] {
		t.Fatalf("expansion missing members: %v", got)
	}
	if got[0] != "laptop" {
		t.Fatalf("input term must come first: %v", got)
	}
}

func TestFilterCards(t *testing.T) {
	e := NewEngine()
	cards := []*render.Card{
		{Title: "Dell Notebook", Description: "i5", Visible: true},
		{Title: "Mesa de escritório", Visible: true},
	}

	if n := e.FilterCards("laptop", cards); n != 1 {
		t.Fatalf("visible = %d, want 1", n)
	}
	if !cards[0].Visible || cards[1].Visible {
		t.Fatalf("visibility wrong: %v %v", cards[0].Visible, cards[1].Visible)
	}

	if n := e.FilterCards("", cards); n != 2 {
		t.Fatalf("empty query should show all, got %d", n)
	}
	if !cards[1].Visible {
		t.Fatal("empty query must restore visibility")
	}
}
