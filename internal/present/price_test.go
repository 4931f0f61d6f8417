package present

import "testing"

func TestSplitPriceText(t *testing.T) {
	cases := []struct {
		in, main, small string
	}{
		{"R$ 5,00/trecho Ida e volta", "R$ 5,00/trecho", "Ida e volta"},
		{"R$ 450,00/mês", "R$ 450,00/mês", ""},
		{"R$ 350 (negociável)", "R$ 350", "negociável"},
		{"Gratuito - vagas limitadas", "Gratuito", "vagas limitadas"},
		{"R$ 20 • por pessoa", "R$ 20", "por pessoa"},
		{"R$ 80 | material incluso", "R$ 80", "material incluso"},
		{"R$ 10\npor lote", "R$ 10", "por lote"},
		{"A combinar", "A combinar", ""},
		{"", "", ""},
	}
	for _, c := range cases {
		main, small := SplitPriceText(c.in)
		if main != c.main || small != c.small {
			t.Fatalf("SplitPriceText(%q) = (%q, %q), want (%q, %q)", c.in, main, small, c.main, c.small)
		}
	}
}

func TestFormatBRL(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{120, "R$ 120,00"},
		{1234.56, "R$ 1.234,56"},
		{0.5, "R$ 0,50"},
		{1000000, "R$ 1.000.000,00"},
		{-35.9, "-R$ 35,90"},
	}
	for _, c := range cases {
		if got := FormatBRL(c.in); got != c.want {
			t.Fatalf("FormatBRL(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}
