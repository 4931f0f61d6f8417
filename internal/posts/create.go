package posts

import (
	"fmt"
	"html"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"campusmarket/pkg/models"
)

var errModuleRequired = fmt.Errorf("modulo is required")

// Builder prepares user-submitted records for storage: strips any markup,
// normalizes, and stamps identity and timestamps.
type Builder struct {
	normalizer *Normalizer
	policy     *bluemonday.Policy
}

func NewBuilder(n *Normalizer) *Builder {
	return &Builder{normalizer: n, policy: bluemonday.StrictPolicy()}
}

// clean strips all HTML. The policy entity-escapes what survives, so the
// escape is undone here; escaping for output is the renderer's job.
func (b *Builder) clean(s string) string {
	return html.UnescapeString(b.policy.Sanitize(s))
}

// BuildUserPost sanitizes and canonicalizes a user-submitted raw record.
// authorID is the creating account ("" means the local self identity).
func (b *Builder) BuildUserPost(raw map[string]any, authorID string) (models.Post, error) {
	if raw == nil {
		raw = map[string]any{}
	}
	for _, k := range []string{"titulo", "title", "descricao", "description", "precoTexto", "priceText", "localizacao", "location", "categoria", "category", "subcategoria", "subcategory"} {
		if s, ok := raw[k].(string); ok {
			raw[k] = b.clean(s)
		}
	}

	p := b.normalizer.Normalize(raw)
	if p.Module == "" {
		return models.Post{}, errModuleRequired
	}
	if p.ID == "" {
		p.ID = "p_" + uuid.NewString()
	}
	if authorID == "" {
		authorID = models.SelfAuthorID
	}
	p.AuthorID = authorID
	if a, ok := b.normalizer.authors.GetByID(authorID); ok {
		p.AuthorName = a.Name
		p.AuthorAvatar = a.AvatarURL
	}
	if p.CreatedAt == "" {
		p.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	if p.Timestamp == "" {
		p.Timestamp = "Agora mesmo"
	}
	p.UserPost = true
	return p, nil
}
