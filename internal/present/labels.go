package present

import "campusmarket/internal/textnorm"

// Display labels for the category keys the create wizard and seed data use.
// Keys are unique across modules, one flat table is enough.
var categoryLabels = map[string]string{
	"eletronicos":      "Eletrônicos",
	"livros":           "Livros",
	"moveis":           "Móveis",
	"vestuario":        "Vestuário",
	"outros":           "Outros",
	"vendo":            "Vendo",
	"compro":           "Compro",
	"ofereco":          "Ofereço Carona",
	"procuro":          "Procuro Carona",
	"republicas":       "Repúblicas",
	"quartos":          "Quartos",
	"apartamentos":     "Apartamentos",
	"procurando":       "Procurando",
	"sustentabilidade": "Sustentabilidade",
	"academicos":       "Acadêmicos",
	"culturais":        "Culturais",
	"esportivos":       "Esportivos",
	"workshops":        "Workshops",
	"perdidos":         "Perdidos",
	"encontrados":      "Encontrados",
	"documentos":       "Documentos",
	"estagios":         "Estágios",
	"empregos":         "Empregos",
	"freelancer":       "Freelancer",
	"monitoria":        "Monitoria",
	"voluntariado":     "Voluntariado",
}

// labelFor resolves a display label for a machine key: dictionary first,
// title-cased key as the last resort.
func labelFor(key string) string {
	if l, ok := categoryLabels[key]; ok {
		return l
	}
	if l, ok := categoryLabels[textnorm.Normalize(key)]; ok {
		return l
	}
	return textnorm.TitleCase(key)
}
