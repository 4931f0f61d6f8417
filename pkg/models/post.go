package models

// Post is the canonical shape every feed item is normalized into before it
// reaches the rule engine, the renderer or the API. JSON tags keep the
// pt-BR field names the seed files and the frontend prototype already use.
type Post struct {
	ID              string         `json:"id"`
	Module          string         `json:"modulo"`
	ModuleLabel     string         `json:"moduloLabel,omitempty"`
	Title           string         `json:"titulo"`
	Description     string         `json:"descricao"`
	CategoryKey     string         `json:"categoriaKey"`
	CategoryLabel   string         `json:"categoria,omitempty"`
	SubcategoryKey  string         `json:"subcategoriaKey,omitempty"`
	SubcategoryText string         `json:"subcategoria,omitempty"`
	Price           *float64       `json:"preco"`
	PriceText       string         `json:"precoTexto,omitempty"`
	OriginalPrice   *float64       `json:"precoOriginal,omitempty"`
	AuthorID        string         `json:"authorId,omitempty"`
	AuthorName      string         `json:"autor,omitempty"`
	AuthorAvatar    string         `json:"autorAvatar,omitempty"`
	Timestamp       string         `json:"timestamp,omitempty"`
	CreatedAt       string         `json:"createdAt,omitempty"`
	Emoji           string         `json:"emoji,omitempty"`
	Verified        bool           `json:"verificado"`
	Condition       string         `json:"condicao,omitempty"`
	Location        string         `json:"localizacao,omitempty"`
	Status          string         `json:"status,omitempty"`
	Sustainable     bool           `json:"sustentavel,omitempty"`
	Tags            []string       `json:"tags"`
	TagKeys         []string       `json:"tagKeys"`
	Images          []string       `json:"imagens"`
	Metadata        map[string]any `json:"metadata,omitempty"`
	Votes           int            `json:"votos"`
	Comments        int            `json:"comentarios"`
	UserPost        bool           `json:"userPost,omitempty"`
}

// Known module keys. Livros is a dedicated page but its posts live in
// compra-venda with a livros category.
const (
	ModuleBuySell       = "compra-venda"
	ModuleRides         = "caronas"
	ModuleHousing       = "moradia"
	ModuleEvents        = "eventos"
	ModuleLostFound     = "achados-perdidos"
	ModuleOpportunities = "oportunidades"
	ModuleBooks         = "livros"
)

// ModuleLabels maps module keys to their display labels.
var ModuleLabels = map[string]string{
	ModuleBuySell:       "Compra e Venda",
	ModuleRides:         "Caronas",
	ModuleHousing:       "Moradia",
	ModuleEvents:        "Eventos",
	ModuleLostFound:     "Achados e Perdidos",
	ModuleOpportunities: "Oportunidades",
	ModuleBooks:         "Livros",
}

// ModulePages maps module keys to the feed page that hosts them.
var ModulePages = map[string]string{
	ModuleBuySell:       "compra-venda.html",
	ModuleRides:         "caronas.html",
	ModuleHousing:       "moradia.html",
	ModuleEvents:        "eventos.html",
	ModuleLostFound:     "achados-perdidos.html",
	ModuleOpportunities: "oportunidades.html",
	ModuleBooks:         "livros.html",
}

// ModuleEmojis is the fallback card art when a post carries no image.
var ModuleEmojis = map[string]string{
	ModuleBuySell:       "🛍️",
	ModuleRides:         "🚗",
	ModuleHousing:       "🏡",
	ModuleEvents:        "📅",
	ModuleLostFound:     "🔎",
	ModuleOpportunities: "💼",
	ModuleBooks:         "📚",
}
