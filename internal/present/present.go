// Package present derives the display-facing fields of a post from its
// canonical form and the viewing context. Every rule here is pure: given the
// same post and context the output is always the same, and fields a caller
// already filled in are left alone.
package present

import (
	"fmt"
	"math"
	"time"

	"campusmarket/internal/textnorm"
	"campusmarket/pkg/models"
)

// View values. The search results view flattens CTAs and author prefixes.
const (
	ViewFeed   = "feed"
	ViewSearch = "search"
)

// Context describes where a post is being shown.
type Context struct {
	PageModule string
	View       string
}

// Derived holds the presentation state computed from a canonical post. It is
// never persisted.
type Derived struct {
	CategorySegments  []string `json:"categorySegments,omitempty"`
	ShowModuleLabel   bool     `json:"showModuleLabel"`
	ModulePage        string   `json:"modulePage,omitempty"`
	VerifiedTag       string   `json:"verifiedTag,omitempty"`
	BadgeText         string   `json:"badgeText,omitempty"`
	BadgeIcon         string   `json:"badgeIcon,omitempty"`
	BadgeClass        string   `json:"badgeClass,omitempty"`
	CTALabel          string   `json:"ctaLabel,omitempty"`
	CTAIcon           string   `json:"ctaIcon,omitempty"`
	AuthorPrefix      string   `json:"authorPrefix,omitempty"`
	HidePrice         bool     `json:"hidePrice"`
	PriceMain         string   `json:"priceMain,omitempty"`
	PriceSmall        string   `json:"priceSmall,omitempty"`
	OriginalPriceText string   `json:"originalPriceText,omitempty"`
	ShowDiscount      bool     `json:"showDiscount"`
	DiscountPercent   int      `json:"discountPercent,omitempty"`
	RelativeTime      string   `json:"relativeTime,omitempty"`
	CompactComments   bool     `json:"compactComments"`
	EventCategoryHint string   `json:"eventCategoryHint,omitempty"`
}

// Annotated is a canonical post plus its derived presentation state.
type Annotated struct {
	models.Post
	Derived
}

// Engine applies the presentation rules. It carries no mutable state; the
// clock is injectable so relative times are testable.
type Engine struct {
	now func() time.Time
}

func NewEngine() *Engine {
	return &Engine{now: time.Now}
}

func NewEngineAt(now func() time.Time) *Engine {
	return &Engine{now: now}
}

// Annotate runs the full rule set over a canonical post.
func (e *Engine) Annotate(p models.Post, ctx Context) Annotated {
	return e.Apply(Annotated{Post: p}, ctx)
}

// Apply computes every derived field that is still at its zero value.
// Applying twice with the same context yields the same output.
func (e *Engine) Apply(a Annotated, ctx Context) Annotated {
	e.inferCategoryKey(&a)
	e.backfillLabels(&a)
	e.moduleVisibility(&a, ctx)
	e.categorySegments(&a)
	e.verifiedTag(&a)
	e.badge(&a)
	e.cta(&a, ctx)
	e.price(&a)
	e.relativeTime(&a)
	if ctx.View == ViewSearch {
		a.CompactComments = true
	}
	return a
}

func (e *Engine) inferCategoryKey(a *Annotated) {
	switch a.Module {
	case models.ModuleRides:
		a.CategoryKey = foldRideKey(a.Post)
	case models.ModuleLostFound:
		a.CategoryKey = foldLostFoundKey(a.Post)
	case models.ModuleEvents:
		if a.EventCategoryHint == "" {
			a.EventCategoryHint = classifyEvent(a.Post)
		}
		if a.CategoryKey == "" {
			a.CategoryKey = a.EventCategoryHint
		}
	}
}

func (e *Engine) backfillLabels(a *Annotated) {
	if a.CategoryLabel == "" && a.CategoryKey != "" {
		a.CategoryLabel = labelFor(a.CategoryKey)
	}
	if a.SubcategoryText == "" && a.SubcategoryKey != "" {
		a.SubcategoryText = labelFor(a.SubcategoryKey)
	}
	if a.ModuleLabel == "" {
		a.ModuleLabel = models.ModuleLabels[a.Module]
	}
}

// Module label is dropped on the post's own page, except for the two feeds
// whose posts are routinely cross-listed elsewhere and always name
// themselves: livros and achados-perdidos.
func (e *Engine) moduleVisibility(a *Annotated, ctx Context) {
	a.ShowModuleLabel = a.Module != ctx.PageModule ||
		a.Module == models.ModuleBooks || a.Module == models.ModuleLostFound
	if a.ModulePage == "" {
		a.ModulePage = models.ModulePages[a.Module]
		if a.Module == models.ModuleBuySell && textnorm.CanonicalCategory(a.CategoryKey) == "livro" {
			a.ModulePage = models.ModulePages[models.ModuleBooks]
		}
	}
}

func (e *Engine) categorySegments(a *Annotated) {
	if len(a.CategorySegments) > 0 {
		return
	}
	var segs []string
	if a.ShowModuleLabel && a.ModuleLabel != "" {
		segs = append(segs, a.ModuleLabel)
	}
	if a.CategoryLabel != "" {
		segs = append(segs, a.CategoryLabel)
	}
	if a.SubcategoryText != "" && a.SubcategoryText != a.CategoryLabel {
		segs = append(segs, a.SubcategoryText)
	}
	a.CategorySegments = segs
}

func (e *Engine) verifiedTag(a *Annotated) {
	if a.Verified && a.VerifiedTag == "" {
		a.VerifiedTag = "✓ Verificado"
	}
}

// badge picks at most one badge. Order is fixed: explicit lost/found status,
// then discount, then sustainability, then metadata-supplied.
func (e *Engine) badge(a *Annotated) {
	if a.BadgeText != "" {
		return
	}
	if a.Module == models.ModuleLostFound {
		if a.CategoryKey == "encontrados" {
			a.BadgeText, a.BadgeIcon, a.BadgeClass = "Encontrado", "fa-check-circle", "kc-badge-found"
		} else {
			a.BadgeText, a.BadgeIcon, a.BadgeClass = "Perdido", "fa-exclamation-circle", "kc-badge-lost"
		}
		return
	}
	if pct, ok := discountPercent(a.Post); ok {
		a.ShowDiscount = true
		a.DiscountPercent = pct
		a.BadgeText = fmt.Sprintf("-%d%%", pct)
		a.BadgeIcon, a.BadgeClass = "fa-tag", "kc-badge-discount"
		if a.OriginalPrice != nil {
			a.OriginalPriceText = FormatBRL(*a.OriginalPrice)
		}
		return
	}
	if (a.Module == models.ModuleEvents || a.Module == models.ModuleRides) && isSustainable(a.Post) {
		a.BadgeText, a.BadgeIcon, a.BadgeClass = "Sustentável", "fa-leaf", "kc-badge-sustainable"
		return
	}
	if a.Metadata != nil {
		if co2, ok := numericMeta(a.Metadata, "co2"); ok {
			a.BadgeText = fmt.Sprintf("Economiza %s kg CO₂", trimNumber(co2))
			a.BadgeIcon, a.BadgeClass = "fa-leaf", "kc-badge-co2"
			return
		}
		if s, ok := a.Metadata["badge"].(string); ok && s != "" {
			a.BadgeText, a.BadgeIcon, a.BadgeClass = s, "fa-star", "kc-badge-meta"
		}
	}
}

func (e *Engine) cta(a *Annotated, ctx Context) {
	if a.AuthorPrefix == "" {
		a.AuthorPrefix = authorPrefixFor(a.Module, ctx.View)
	}
	if a.CTALabel != "" {
		return
	}
	if ctx.View == ViewSearch {
		a.CTALabel, a.CTAIcon = "Ver Detalhes", "fa-arrow-right"
		return
	}
	switch a.Module {
	case models.ModuleBuySell, models.ModuleBooks:
		a.CTALabel, a.CTAIcon = "Comprar", "fa-shopping-cart"
	case models.ModuleRides:
		a.CTALabel, a.CTAIcon = "Combinar Carona", "fa-car"
	case models.ModuleHousing:
		a.CTALabel, a.CTAIcon = "Agendar Visita", "fa-calendar-check"
	case models.ModuleEvents:
		a.CTALabel, a.CTAIcon = "Participar", "fa-calendar-plus"
	case models.ModuleLostFound:
		if a.CategoryKey == "encontrados" {
			a.CTALabel, a.CTAIcon = "É Meu!", "fa-hand-paper"
		} else {
			a.CTALabel, a.CTAIcon = "Encontrei!", "fa-hand-holding"
		}
	case models.ModuleOpportunities:
		a.CTALabel, a.CTAIcon = "Candidatar-se", "fa-paper-plane"
	default:
		a.CTALabel, a.CTAIcon = "Ver Detalhes", "fa-arrow-right"
	}
}

func authorPrefixFor(module, view string) string {
	if view == ViewSearch {
		return "Por"
	}
	switch module {
	case models.ModuleBuySell, models.ModuleBooks:
		return "Vendido por"
	case models.ModuleRides:
		return "Oferecida por"
	case models.ModuleHousing:
		return "Anunciado por"
	case models.ModuleEvents:
		return "Organizado por"
	default:
		return "Por"
	}
}

func (e *Engine) price(a *Annotated) {
	if a.PriceMain != "" {
		return
	}
	if a.PriceText != "" {
		a.PriceMain, a.PriceSmall = SplitPriceText(a.PriceText)
		return
	}
	if a.Price == nil {
		a.HidePrice = true
		return
	}
	if *a.Price == 0 {
		a.PriceMain = "Gratuito"
		return
	}
	a.PriceMain = FormatBRL(*a.Price)
}

func (e *Engine) relativeTime(a *Annotated) {
	if a.RelativeTime != "" {
		return
	}
	if a.Timestamp != "" {
		a.RelativeTime = a.Timestamp
		return
	}
	if t, err := time.Parse(time.RFC3339, a.CreatedAt); err == nil {
		a.RelativeTime = RelativeTime(t, e.now())
	}
}

func discountPercent(p models.Post) (int, bool) {
	if p.Module != models.ModuleBuySell && p.Module != models.ModuleBooks {
		return 0, false
	}
	if p.Price == nil || p.OriginalPrice == nil || *p.OriginalPrice <= *p.Price || *p.OriginalPrice <= 0 {
		return 0, false
	}
	pct := int(math.Round((1 - *p.Price / *p.OriginalPrice) * 100))
	if pct < 1 {
		return 0, false
	}
	return pct, true
}

func numericMeta(m map[string]any, key string) (float64, bool) {
	switch v := m[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}

func trimNumber(f float64) string {
	if f == math.Trunc(f) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%.1f", f)
}

// RelativeTime renders a short pt-BR "time ago" string.
func RelativeTime(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "Agora mesmo"
	case d < time.Hour:
		return fmt.Sprintf("Há %d min", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("Há %d h", int(d.Hours()))
	case d < 48*time.Hour:
		return "Há 1 dia"
	case d < 30*24*time.Hour:
		return fmt.Sprintf("Há %d dias", int(d.Hours()/24))
	default:
		return t.Format("02/01/2006")
	}
}
