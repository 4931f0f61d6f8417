package authors

import (
	"testing"

	"campusmarket/pkg/models"
)

func TestResolveLegacyExactPairWins(t *testing.T) {
	d := NewDirectory()
	d.Put(models.Author{ID: "a1", Name: "Mariana Santos", AvatarURL: "http://x/m1.svg"})
	d.Put(models.Author{ID: "a2", Name: "Mariana Santos", AvatarURL: "http://x/m2.svg"})

	if got := d.ResolveLegacy("Mariana Santos", "http://x/m2.svg"); got != "a2" {
		t.Fatalf("pair lookup = %q, want a2", got)
	}
	// Name-only fallback keeps the first registration.
	if got := d.ResolveLegacy("Mariana Santos", "http://other/av.png"); got != "a1" {
		t.Fatalf("name fallback = %q, want a1", got)
	}
	if got := d.ResolveLegacy("Desconhecido", ""); got != "" {
		t.Fatalf("unknown name = %q, want empty", got)
	}
	if got := d.ResolveLegacy("", "http://x/m1.svg"); got != "" {
		t.Fatalf("empty name = %q, want empty", got)
	}
}

func TestSelfProfile(t *testing.T) {
	d := NewDirectory()
	if self := d.Self(); self.ID != models.SelfAuthorID {
		t.Fatalf("default self id = %q", self.ID)
	}
	d.SetSelf("Ana", "http://x/ana.svg")
	self := d.Self()
	if self.Name != "Ana" || self.AvatarURL != "http://x/ana.svg" {
		t.Fatalf("self not updated: %+v", self)
	}
}

func TestSeedDefaults(t *testing.T) {
	d := NewDirectory()
	SeedDefaults(d)
	if d.Len() == 0 {
		t.Fatal("no authors seeded")
	}
	a, ok := d.GetByID("a_mariana")
	if !ok || a.AvatarURL == "" {
		t.Fatalf("seeded author missing avatar: %+v", a)
	}
	if _, ok := d.GetByID(models.SelfAuthorID); !ok {
		t.Fatal("self profile not seeded")
	}
}
