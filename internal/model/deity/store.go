package deity

// Store exposes catalog retrieval to the binder and the dev server.
type Store interface {
	List() []Deity
	FindByID(id string) (Deity, bool)
	FindByName(name string) (Deity, bool)
}

// MemoryStore implements Store with an in-memory slice; the catalog is fixed
// at build time so nothing more is needed.
type MemoryStore struct {
	items []Deity
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied deities.
func NewMemoryStore(items []Deity) *MemoryStore {
	return &MemoryStore{items: append([]Deity(nil), items...)}
}

// List returns the catalog in carousel order.
func (s *MemoryStore) List() []Deity {
	return append([]Deity(nil), s.items...)
}

// FindByID looks up a deity by identifier.
func (s *MemoryStore) FindByID(id string) (Deity, bool) {
	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return Deity{}, false
}

// FindByName looks up a deity by display name. The chat endpoint carries the
// deity name, not the id, so the dev server resolves personas this way.
func (s *MemoryStore) FindByName(name string) (Deity, bool) {
	for _, item := range s.items {
		if item.Name == name {
			return item, true
		}
	}
	return Deity{}, false
}
