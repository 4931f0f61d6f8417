// Package posts turns raw post records from any backend into the canonical
// shape the rest of the pipeline consumes.
package posts

import (
	"strconv"
	"strings"

	"campusmarket/internal/authors"
	"campusmarket/internal/textnorm"
	"campusmarket/pkg/models"
)

// Subcategory keys that express transactional intent rather than a product
// category. Buy-sell filter tabs are keyed by category, so these would make
// a post invisible on every tab.
var intentWords = map[string]struct{}{
	"vendo":  {},
	"compro": {},
	"doando": {},
	"doacao": {},
}

type Normalizer struct {
	authors *authors.Directory
}

func NewNormalizer(dir *authors.Directory) *Normalizer {
	return &Normalizer{authors: dir}
}

// Normalize maps an arbitrary raw record into a canonical Post. Total over
// any input: missing or mistyped fields fall back to zero values, never an
// error. Accepts both pt-BR and English field aliases.
func (n *Normalizer) Normalize(raw map[string]any) models.Post {
	if raw == nil {
		raw = map[string]any{}
	}

	p := models.Post{
		ID:              str(raw, "id"),
		Module:          str(raw, "modulo", "module"),
		Title:           str(raw, "titulo", "title"),
		Description:     str(raw, "descricao", "description"),
		CategoryKey:     str(raw, "categoriaKey", "categoryKey"),
		CategoryLabel:   str(raw, "categoria", "category"),
		SubcategoryKey:  str(raw, "subcategoriaKey", "subcategoryKey"),
		SubcategoryText: str(raw, "subcategoria", "subcategory"),
		Price:           num(raw, "preco", "price"),
		PriceText:       str(raw, "precoTexto", "priceText"),
		OriginalPrice:   num(raw, "precoOriginal", "originalPrice"),
		AuthorName:      str(raw, "autor", "author"),
		AuthorAvatar:    str(raw, "autorAvatar", "authorAvatar", "avatar"),
		Timestamp:       str(raw, "timestamp"),
		CreatedAt:       str(raw, "createdAt", "created_at"),
		Emoji:           str(raw, "emoji"),
		Verified:        boolean(raw, "verificado", "verified"),
		Condition:       str(raw, "condicao", "condition"),
		Location:        str(raw, "localizacao", "location"),
		Status:          str(raw, "status"),
		Sustainable:     boolean(raw, "sustentavel", "sustainable"),
		Tags:            strSlice(raw, "tags"),
		TagKeys:         strSlice(raw, "tagKeys"),
		Images:          strSlice(raw, "imagens", "images"),
		Metadata:        mapAny(raw, "metadata"),
		Votes:           intVal(raw, "votos", "votes"),
		Comments:        intVal(raw, "comentarios", "comments"),
		UserPost:        boolean(raw, "userPost", "_kcUserPost"),
	}

	p.ModuleLabel = str(raw, "moduloLabel")
	if p.ModuleLabel == "" {
		p.ModuleLabel = models.ModuleLabels[p.Module]
	}
	if p.Emoji == "" {
		p.Emoji = models.ModuleEmojis[p.Module]
	}

	// categoriaKey must always be derivable; filters index on it blindly.
	if p.CategoryKey == "" {
		p.CategoryKey = textnorm.CanonicalCategory(p.CategoryLabel)
	}
	if p.SubcategoryKey == "" {
		p.SubcategoryKey = textnorm.CanonicalCategory(p.SubcategoryText)
	}

	// Buy-sell tabs filter on product category, not on intent. A subcategory
	// that only says vendo/compro/doando is replaced with the category key so
	// the post stays reachable from the tabs.
	if p.Module == models.ModuleBuySell || p.Module == models.ModuleBooks {
		if _, intent := intentWords[p.SubcategoryKey]; intent {
			p.SubcategoryKey = p.CategoryKey
		}
	}

	// tagKeys absent: tags double as keys. Known limitation, labels and keys
	// are then identical.
	if len(p.TagKeys) == 0 && len(p.Tags) > 0 {
		p.TagKeys = append([]string(nil), p.Tags...)
	}
	if len(p.Tags) == 0 && len(p.TagKeys) > 0 {
		p.Tags = append([]string(nil), p.TagKeys...)
	}

	n.resolveAuthor(&p, raw)
	return p
}

// NormalizePost re-runs canonicalization over an already-typed Post. Used by
// the facade so every read path yields the same canonical shape regardless
// of which backend produced the record.
func (n *Normalizer) NormalizePost(p models.Post) models.Post {
	raw := map[string]any{
		"id": p.ID, "modulo": p.Module, "moduloLabel": p.ModuleLabel,
		"titulo": p.Title, "descricao": p.Description,
		"categoriaKey": p.CategoryKey, "categoria": p.CategoryLabel,
		"subcategoriaKey": p.SubcategoryKey, "subcategoria": p.SubcategoryText,
		"precoTexto": p.PriceText, "authorId": p.AuthorID,
		"autor": p.AuthorName, "autorAvatar": p.AuthorAvatar,
		"timestamp": p.Timestamp, "createdAt": p.CreatedAt,
		"emoji": p.Emoji, "verificado": p.Verified,
		"condicao": p.Condition, "localizacao": p.Location,
		"status": p.Status, "sustentavel": p.Sustainable,
		"votos": p.Votes, "comentarios": p.Comments, "userPost": p.UserPost,
	}
	if p.Price != nil {
		raw["preco"] = *p.Price
	}
	if p.OriginalPrice != nil {
		raw["precoOriginal"] = *p.OriginalPrice
	}
	if p.Tags != nil {
		raw["tags"] = p.Tags
	}
	if p.TagKeys != nil {
		raw["tagKeys"] = p.TagKeys
	}
	if p.Images != nil {
		raw["imagens"] = p.Images
	}
	if p.Metadata != nil {
		raw["metadata"] = p.Metadata
	}
	return n.Normalize(raw)
}

func (n *Normalizer) resolveAuthor(p *models.Post, raw map[string]any) {
	p.AuthorID = str(raw, "authorId", "autorId", "author_id")
	if p.AuthorID != "" {
		if a, ok := n.authors.GetByID(p.AuthorID); ok {
			if p.AuthorName == "" {
				p.AuthorName = a.Name
			}
			if p.AuthorAvatar == "" {
				p.AuthorAvatar = a.AvatarURL
			}
		}
		return
	}
	p.AuthorID = n.authors.ResolveLegacy(p.AuthorName, p.AuthorAvatar)
}

// ---- loose coercion over raw records ----

func first(raw map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := raw[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func str(raw map[string]any, keys ...string) string {
	v, ok := first(raw, keys...)
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	}
	return ""
}

func num(raw map[string]any, keys ...string) *float64 {
	v, ok := first(raw, keys...)
	if !ok {
		return nil
	}
	switch t := v.(type) {
	case float64:
		return &t
	case int:
		f := float64(t)
		return &f
	case int64:
		f := float64(t)
		return &f
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
			return &f
		}
	}
	return nil
}

func intVal(raw map[string]any, keys ...string) int {
	if f := num(raw, keys...); f != nil {
		return int(*f)
	}
	return 0
}

func boolean(raw map[string]any, keys ...string) bool {
	v, ok := first(raw, keys...)
	if !ok {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		b, _ := strconv.ParseBool(strings.TrimSpace(t))
		return b
	case float64:
		return t != 0
	}
	return false
}

func strSlice(raw map[string]any, keys ...string) []string {
	v, ok := first(raw, keys...)
	if !ok {
		return nil
	}
	switch t := v.(type) {
	case []string:
		out := make([]string, 0, len(t))
		for _, s := range t {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		return out
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok {
				if s = strings.TrimSpace(s); s != "" {
					out = append(out, s)
				}
			}
		}
		return out
	}
	return nil
}

func mapAny(raw map[string]any, key string) map[string]any {
	if m, ok := raw[key].(map[string]any); ok {
		return m
	}
	return nil
}
