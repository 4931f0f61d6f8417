package textnorm

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"", ""},
		{"  Cálculo Avançado  ", "calculo avancado"},
		{"ELETRÔNICOS", "eletronicos"},
		{"ação", "acao"},
		{"já normalizado", "ja normalizado"},
		{"Vestuário", "vestuario"},
	}
	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Fatalf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	once := Normalize("Repúblicas Próximas")
	if got := Normalize(once); got != once {
		t.Fatalf("second pass changed output: %q -> %q", once, got)
	}
}

func TestCanonicalCategory(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"#Eletrônicos", "eletronico"},
		{"Livros", "livro"},
		{"gas", "gas"}, // three runes, singular rule does not fire
		{"gases", "gase"}, // naive singular drops exactly one 's'
		{"mês", "mes"},
		{"todas", "toda"},
		{"", ""},
	}
	for _, c := range cases {
		if got := CanonicalCategory(c.in); got != c.want {
			t.Fatalf("CanonicalCategory(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestTitleCase(t *testing.T) {
	if got := TitleCase("meio ambiente"); got != "Meio Ambiente" {
		t.Fatalf("got %q", got)
	}
	if got := TitleCase("  vaga  "); got != "Vaga" {
		t.Fatalf("got %q", got)
	}
}
