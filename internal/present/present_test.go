package present

import (
	"reflect"
	"testing"
	"time"

	"campusmarket/pkg/models"
)

func f(v float64) *float64 { return &v }

func fixedEngine() *Engine {
	at := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	return NewEngineAt(func() time.Time { return at })
}

func TestApplyIdempotent(t *testing.T) {
	e := fixedEngine()
	ctx := Context{PageModule: models.ModuleBuySell}
	p := models.Post{
		ID: "p1", Module: models.ModuleBuySell, Title: "Cálculo Vol.1",
		CategoryKey: "livros", Price: f(120), OriginalPrice: f(200),
		Verified: true, CreatedAt: "2026-03-10T11:30:00Z",
	}
	once := e.Annotate(p, ctx)
	twice := e.Apply(once, ctx)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("second apply changed output:\n%+v\n%+v", once, twice)
	}
}

func TestDiscountBadge(t *testing.T) {
	e := fixedEngine()
	a := e.Annotate(models.Post{
		Module: models.ModuleBuySell, Title: "Cálculo Vol.1",
		CategoryKey: "livros", Price: f(120), OriginalPrice: f(200),
	}, Context{PageModule: models.ModuleBuySell})

	if !a.ShowDiscount || a.DiscountPercent != 40 {
		t.Fatalf("discount = %v %d, want 40%%", a.ShowDiscount, a.DiscountPercent)
	}
	if a.BadgeText != "-40%" || a.BadgeClass != "kc-badge-discount" {
		t.Fatalf("badge = %q %q", a.BadgeText, a.BadgeClass)
	}
	if a.PriceMain != "R$ 120,00" || a.OriginalPriceText != "R$ 200,00" {
		t.Fatalf("prices = %q / %q", a.PriceMain, a.OriginalPriceText)
	}
}

func TestNoDiscountOutsideBuySell(t *testing.T) {
	e := fixedEngine()
	a := e.Annotate(models.Post{
		Module: models.ModuleHousing, Price: f(500), OriginalPrice: f(900),
	}, Context{})
	if a.ShowDiscount {
		t.Fatal("housing posts must not get discount badges")
	}
}

func TestLostFoundStatusDrivesBadgeAndCTA(t *testing.T) {
	e := fixedEngine()
	ctx := Context{PageModule: models.ModuleLostFound}

	lost := e.Annotate(models.Post{
		Module: models.ModuleLostFound, Title: "Perdi minha carteira",
	}, ctx)
	if lost.CategoryKey != "perdidos" || lost.BadgeText != "Perdido" || lost.CTALabel != "Encontrei!" {
		t.Fatalf("lost post: key=%q badge=%q cta=%q", lost.CategoryKey, lost.BadgeText, lost.CTALabel)
	}

	found := e.Annotate(models.Post{
		Module: models.ModuleLostFound, Title: "Achei um fone na biblioteca",
	}, ctx)
	if found.CategoryKey != "encontrados" || found.BadgeText != "Encontrado" || found.CTALabel != "É Meu!" {
		t.Fatalf("found post: key=%q badge=%q cta=%q", found.CategoryKey, found.BadgeText, found.CTALabel)
	}
}

func TestRideKeyFold(t *testing.T) {
	e := fixedEngine()
	a := e.Annotate(models.Post{
		Module: models.ModuleRides, Title: "Procuro carona para o centro",
	}, Context{PageModule: models.ModuleRides})
	if a.CategoryKey != "procuro" {
		t.Fatalf("ride key = %q, want procuro", a.CategoryKey)
	}
	if a.CategoryLabel != "Procuro Carona" {
		t.Fatalf("label backfill = %q", a.CategoryLabel)
	}

	b := e.Annotate(models.Post{
		Module: models.ModuleRides, Title: "Saindo do campus às 18h",
	}, Context{PageModule: models.ModuleRides})
	if b.CategoryKey != "ofereco" {
		t.Fatalf("default ride key = %q, want ofereco", b.CategoryKey)
	}
}

func TestEventClassifierHint(t *testing.T) {
	e := fixedEngine()
	a := e.Annotate(models.Post{
		Module: models.ModuleEvents, Title: "Mutirão de reciclagem no campus",
	}, Context{PageModule: models.ModuleEvents})
	if a.EventCategoryHint != "sustentabilidade" {
		t.Fatalf("hint = %q", a.EventCategoryHint)
	}
	if a.CategoryKey != "sustentabilidade" {
		t.Fatalf("empty key not backfilled from hint: %q", a.CategoryKey)
	}

	// A key supplied by the source is never overridden by the hint.
	b := e.Annotate(models.Post{
		Module: models.ModuleEvents, Title: "Mutirão de reciclagem",
		CategoryKey: "workshops",
	}, Context{PageModule: models.ModuleEvents})
	if b.CategoryKey != "workshops" {
		t.Fatalf("hint overrode explicit key: %q", b.CategoryKey)
	}
	if b.EventCategoryHint != "sustentabilidade" {
		t.Fatalf("hint missing: %q", b.EventCategoryHint)
	}
}

func TestSustainabilityBadgeOnRides(t *testing.T) {
	e := fixedEngine()
	a := e.Annotate(models.Post{
		Module: models.ModuleRides, Title: "Carona solidária para o campus",
		Sustainable: true,
	}, Context{PageModule: models.ModuleRides})
	if a.BadgeText != "Sustentável" || a.BadgeClass != "kc-badge-sustainable" {
		t.Fatalf("badge = %q %q", a.BadgeText, a.BadgeClass)
	}
}

func TestCO2MetadataBadge(t *testing.T) {
	e := fixedEngine()
	a := e.Annotate(models.Post{
		Module: models.ModuleHousing, Price: f(800),
		Metadata: map[string]any{"co2": float64(12)},
	}, Context{})
	if a.BadgeText != "Economiza 12 kg CO₂" || a.BadgeClass != "kc-badge-co2" {
		t.Fatalf("badge = %q %q", a.BadgeText, a.BadgeClass)
	}
}

func TestModuleLabelSuppression(t *testing.T) {
	e := fixedEngine()

	onPage := e.Annotate(models.Post{Module: models.ModuleHousing}, Context{PageModule: models.ModuleHousing})
	if onPage.ShowModuleLabel {
		t.Fatal("module label should hide on the module's own page")
	}

	offPage := e.Annotate(models.Post{Module: models.ModuleHousing}, Context{PageModule: models.ModuleEvents})
	if !offPage.ShowModuleLabel {
		t.Fatal("module label should show off-module")
	}

	// livros and achados-perdidos always show it, even on their own page.
	books := e.Annotate(models.Post{Module: models.ModuleBooks}, Context{PageModule: models.ModuleBooks})
	if !books.ShowModuleLabel {
		t.Fatal("livros must always show the module label")
	}
	lf := e.Annotate(models.Post{Module: models.ModuleLostFound}, Context{PageModule: models.ModuleLostFound})
	if !lf.ShowModuleLabel {
		t.Fatal("achados-perdidos must always show the module label")
	}
}

func TestPriceRules(t *testing.T) {
	e := fixedEngine()

	free := e.Annotate(models.Post{Module: models.ModuleEvents, Price: f(0)}, Context{})
	if free.PriceMain != "Gratuito" || free.HidePrice {
		t.Fatalf("zero price: %q hide=%v", free.PriceMain, free.HidePrice)
	}

	none := e.Annotate(models.Post{Module: models.ModuleLostFound, Title: "Perdi o crachá"}, Context{})
	if !none.HidePrice {
		t.Fatal("no price and no text should hide the price block")
	}

	text := e.Annotate(models.Post{
		Module: models.ModuleRides, PriceText: "R$ 5,00/trecho Ida e volta",
	}, Context{})
	if text.PriceMain != "R$ 5,00/trecho" || text.PriceSmall != "Ida e volta" {
		t.Fatalf("price text split: %q / %q", text.PriceMain, text.PriceSmall)
	}
}

func TestSearchViewFlattensCTA(t *testing.T) {
	e := fixedEngine()
	a := e.Annotate(models.Post{Module: models.ModuleBuySell, CategoryKey: "eletronicos"},
		Context{View: ViewSearch})
	if a.CTALabel != "Ver Detalhes" || a.AuthorPrefix != "Por" {
		t.Fatalf("search view: cta=%q prefix=%q", a.CTALabel, a.AuthorPrefix)
	}
	if !a.CompactComments {
		t.Fatal("search view should compact comments")
	}
}

func TestCallerOverridesKept(t *testing.T) {
	e := fixedEngine()
	pre := Annotated{Post: models.Post{Module: models.ModuleEvents, Title: "Sarau"}}
	pre.CTALabel = "Inscrever"
	pre.CTAIcon = "fa-pen"
	out := e.Apply(pre, Context{PageModule: models.ModuleEvents})
	if out.CTALabel != "Inscrever" || out.CTAIcon != "fa-pen" {
		t.Fatalf("caller CTA overwritten: %q %q", out.CTALabel, out.CTAIcon)
	}
}

func TestRelativeTime(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		ago  time.Duration
		want string
	}{
		{30 * time.Second, "Agora mesmo"},
		{5 * time.Minute, "Há 5 min"},
		{3 * time.Hour, "Há 3 h"},
		{26 * time.Hour, "Há 1 dia"},
		{5 * 24 * time.Hour, "Há 5 dias"},
	}
	for _, c := range cases {
		if got := RelativeTime(now.Add(-c.ago), now); got != c.want {
			t.Fatalf("RelativeTime(-%v) = %q, want %q", c.ago, got, c.want)
		}
	}
}
