package authors

import (
	"fmt"
	"net/url"

	"campusmarket/pkg/models"
)

// AvatarURL builds the generated-avatar URL used whenever an author has no
// picture of their own.
func AvatarURL(seed string) string {
	return fmt.Sprintf("https://api.dicebear.com/7.x/avataaars/svg?seed=%s", url.QueryEscape(seed))
}

// SeedDefaults loads the campus authors the bundled seed posts reference.
func SeedDefaults(d *Directory) {
	defaults := []models.Author{
		{ID: "a_mariana", Name: "Mariana Santos", Course: "Engenharia Ambiental", Verified: true},
		{ID: "a_joao", Name: "João Pedro", Course: "Ciência da Computação"},
		{ID: "a_carla", Name: "Carla Lima", Course: "Arquitetura", Verified: true},
		{ID: "a_rafael", Name: "Rafael Souza", Course: "Administração"},
		{ID: "a_beatriz", Name: "Beatriz Nunes", Course: "Biologia"},
		{ID: "a_atletica", Name: "Atlética Central", Verified: true},
		{ID: "a_dce", Name: "DCE", Verified: true},
	}
	for _, a := range defaults {
		if a.AvatarURL == "" {
			a.AvatarURL = AvatarURL(a.Name)
		}
		d.Put(a)
	}
	d.SetSelf("Você", AvatarURL("kc"))
}
