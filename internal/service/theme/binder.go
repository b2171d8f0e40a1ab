// Package theme binds the selected deity to its visual theme. The carousel
// reports an index on every scroll settle, so selection is tolerant: repeats
// and out-of-range indexes are ignored rather than treated as errors.
package theme

import (
	"sync"

	"github.com/Heipiao/taluo/internal/model/deity"
	thememodel "github.com/Heipiao/taluo/internal/theme"
)

// Binder owns the current deity index and the theme derived from it.
type Binder struct {
	mu       sync.RWMutex
	deities  []deity.Deity
	current  int
	active   thememodel.Theme
}

// NewBinder starts on the first catalog entry, matching the carousel's
// initial position.
func NewBinder(catalog deity.Store) *Binder {
	deities := catalog.List()

	b := &Binder{deities: deities}
	if len(deities) > 0 {
		b.active = thememodel.ForDeity(deities[0].ID)
	}
	return b
}

// SelectDeity switches the active deity by carousel index. Selecting the
// current index or an out-of-range one leaves index and theme unchanged.
func (b *Binder) SelectDeity(index int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if index == b.current || index < 0 || index >= len(b.deities) {
		return
	}
	b.current = index
	b.active = thememodel.ForDeity(b.deities[index].ID)
}

// Current returns the active carousel index.
func (b *Binder) Current() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.current
}

// CurrentDeity returns the active deity.
func (b *Binder) CurrentDeity() deity.Deity {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if len(b.deities) == 0 {
		return deity.Deity{}
	}
	return b.deities[b.current]
}

// Theme returns the palette derived from the active deity.
func (b *Binder) Theme() thememodel.Theme {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.active
}
