// Package authors keeps the author profiles posts point at, either by id or
// by the legacy name/avatar pair older seed entries still carry.
package authors

import (
	"strings"
	"sync"

	"campusmarket/pkg/models"
)

// Directory is an in-memory author registry. It is seeded once at startup
// and grows as accounts register, so reads vastly outnumber writes.
type Directory struct {
	mu     sync.RWMutex
	byID   map[string]models.Author
	legacy map[string]string
}

func NewDirectory() *Directory {
	return &Directory{
		byID:   make(map[string]models.Author),
		legacy: make(map[string]string),
	}
}

func legacyKey(name, avatar string) string {
	return strings.TrimSpace(name) + "::" + strings.TrimSpace(avatar)
}

// Put registers an author and indexes it for legacy resolution under both
// name::avatar and bare name.
func (d *Directory) Put(a models.Author) {
	if a.ID == "" {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.byID[a.ID] = a
	if name := strings.TrimSpace(a.Name); name != "" {
		d.legacy[legacyKey(name, a.AvatarURL)] = a.ID
		if _, taken := d.legacy[name]; !taken {
			d.legacy[name] = a.ID
		}
	}
}

func (d *Directory) GetByID(id string) (models.Author, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	a, ok := d.byID[strings.TrimSpace(id)]
	return a, ok
}

// ResolveLegacy maps a legacy name/avatar pair to an author id. The exact
// pair wins; a name-only match is the fallback. Returns "" when unknown.
func (d *Directory) ResolveLegacy(name, avatar string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	if id, ok := d.legacy[legacyKey(name, avatar)]; ok {
		return id
	}
	return d.legacy[name]
}

// Self returns the profile shown for the locally authenticated user.
func (d *Directory) Self() models.Author {
	if a, ok := d.GetByID(models.SelfAuthorID); ok {
		return a
	}
	return models.Author{ID: models.SelfAuthorID, Name: "Você"}
}

func (d *Directory) SetSelf(name, avatar string) {
	d.Put(models.Author{ID: models.SelfAuthorID, Name: name, AvatarURL: avatar})
}

func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.byID)
}
