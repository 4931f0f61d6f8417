package search

// Static synonym table for query expansion. Matching is bidirectional: a
// term equal to the key or to any member pulls in the whole set.
var defaultSynonyms = map[string][]string{
	"notebook":  {"laptop", "computador portátil", "note", "computador", "pc"},
	"celular":   {"smartphone", "telefone", "iphone", "android", "mobile", "fone"},
	"livro":     {"livros", "apostila", "material didático", "book"},
	"roupa":     {"roupas", "vestuário", "vestimenta", "blusa", "camisa", "calça"},
	"cama":      {"colchão", "box", "móvel quarto", "cama box"},
	"fone":      {"headphone", "fone de ouvido", "earphone", "airpod", "fones", "audio"},
	"bicicleta": {"bike", "bici", "mountain bike"},
	"carona":    {"transporte", "viagem", "ida", "volta", "caronas"},
	"estágio":   {"estagio", "trainee", "jovem aprendiz"},
	"emprego":   {"vaga", "trabalho", "job", "oportunidade"},
	"cálculo":   {"calculo", "matemática", "exatas"},
	"iphone":    {"apple", "ios", "celular apple"},
	"dell":      {"notebook dell", "laptop dell"},
	"jbl":       {"fone jbl", "headphone jbl", "audio jbl"},
}
