// Package render serializes annotated posts into feed card fragments. The
// HTML is one compatibility surface, the machine-readable Card fields are
// the other: the filter layers work off the data fields, never off markup.
package render

import (
	"html/template"
	"log"
	"strings"

	"campusmarket/internal/present"
	"campusmarket/pkg/models"
)

// DescriptionLimit is the hard cutoff for card descriptions, in runes.
const DescriptionLimit = 140

// Card is a rendered post. Visible is owned by the filter layers and starts
// true.
type Card struct {
	PostID          string
	Module          string
	Title           string
	Description     string
	CategoryText    string
	DataCategory    string
	DataSubcategory string
	DataTags        string
	DataCondition   string
	DataVerified    bool
	Visible         bool
	HTML            string
}

// SearchText is the haystack the card-level filters match against.
func (c *Card) SearchText() string {
	return strings.Join([]string{c.Title, c.Description, c.CategoryText, c.DataTags}, " ")
}

type Renderer struct {
	engine *present.Engine
	tmpl   *template.Template
}

func NewRenderer(engine *present.Engine) *Renderer {
	return &Renderer{
		engine: engine,
		tmpl:   template.Must(template.New("card").Parse(cardTemplate)),
	}
}

// Render annotates and serializes one post. Template failures are logged
// and yield a card with empty HTML, never a panic.
func (r *Renderer) Render(p models.Post, ctx present.Context) Card {
	a := r.engine.Apply(present.Annotated{Post: p}, ctx)
	return r.RenderAnnotated(a)
}

func (r *Renderer) RenderAnnotated(a present.Annotated) Card {
	card := Card{
		PostID:          a.ID,
		Module:          a.Module,
		Title:           a.Title,
		Description:     Truncate(a.Description, DescriptionLimit),
		CategoryText:    strings.Join(a.CategorySegments, " • "),
		DataCategory:    a.CategoryKey,
		DataSubcategory: a.SubcategoryKey,
		DataTags:        strings.Join(a.TagKeys, " "),
		DataCondition:   a.Condition,
		DataVerified:    a.Verified,
		Visible:         true,
	}

	data := cardData{
		Annotated:    a,
		Card:         card,
		Image:        firstImage(a.Images),
		ProductHref:  "product.html?id=" + a.ID,
		CommentsHref: "product.html?id=" + a.ID + "#comentarios",
	}

	var b strings.Builder
	if err := r.tmpl.Execute(&b, data); err != nil {
		log.Printf("[render] card %s: %v", a.ID, err)
		return card
	}
	card.HTML = b.String()
	return card
}

// RenderList renders a batch in input order.
func (r *Renderer) RenderList(posts []models.Post, ctx present.Context) []*Card {
	cards := make([]*Card, 0, len(posts))
	for _, p := range posts {
		c := r.Render(p, ctx)
		cards = append(cards, &c)
	}
	return cards
}

type cardData struct {
	present.Annotated
	Card         Card
	Image        string
	ProductHref  string
	CommentsHref string
}

func firstImage(images []string) string {
	if len(images) > 0 {
		return images[0]
	}
	return ""
}

// Truncate cuts s at limit runes, appending an ellipsis when it cut.
func Truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return strings.TrimSpace(string(r[:limit])) + "…"
}

const cardTemplate = `<article class="kc-card" data-id="{{.Card.PostID}}" data-module="{{.Card.Module}}" data-category="{{.Card.DataCategory}}" data-subcategory="{{.Card.DataSubcategory}}" data-tags="{{.Card.DataTags}}"{{if .Card.DataCondition}} data-condition="{{.Card.DataCondition}}"{{end}} data-verified="{{if .Card.DataVerified}}true{{else}}false{{end}}">
  <div class="kc-card-media">{{if .Image}}<img class="kc-card-img" src="{{.Image}}" alt="{{.Card.Title}}">{{else}}<span class="kc-card-emoji">{{.Emoji}}</span>{{end}}</div>
  <div class="kc-card-body">
    <p class="kc-card-category">{{.Card.CategoryText}}{{if .VerifiedTag}} <span class="kc-verified">{{.VerifiedTag}}</span>{{end}}</p>
    <h3 class="kc-card-title"><a href="{{.ProductHref}}">{{.Card.Title}}</a></h3>
    {{if .BadgeText}}<div class="kc-card-badges"><span class="kc-badge {{.BadgeClass}}"><i class="fa {{.BadgeIcon}}"></i> {{.BadgeText}}</span></div>{{end}}
    {{if not .HidePrice}}<div class="kc-card-price"><span class="kc-price-main">{{.PriceMain}}</span>{{if .PriceSmall}} <span class="kc-price-small">{{.PriceSmall}}</span>{{end}}{{if .OriginalPriceText}} <span class="kc-price-old">{{.OriginalPriceText}}</span>{{end}}</div>{{end}}
    <p class="kc-card-desc">{{.Card.Description}}</p>
    <div class="kc-card-author">{{.AuthorPrefix}} {{if .AuthorAvatar}}<img class="kc-card-avatar" src="{{.AuthorAvatar}}" alt="">{{end}}<span class="kc-card-author-name">{{.AuthorName}}</span>{{if .RelativeTime}} <span class="kc-card-time">{{.RelativeTime}}</span>{{end}}</div>
    <div class="kc-card-footer">
      <button class="kc-vote" data-post-id="{{.Card.PostID}}"><i class="fa fa-arrow-up"></i> <span class="kc-vote-count">{{.Votes}}</span></button>
      <a class="kc-comments{{if .CompactComments}} kc-comments-compact{{end}}" href="{{.CommentsHref}}"><i class="fa fa-comment"></i> {{.Comments}}</a>
      <button class="kc-cta"><i class="fa {{.CTAIcon}}"></i> {{.CTALabel}}</button>
    </div>
  </div>
</article>`
