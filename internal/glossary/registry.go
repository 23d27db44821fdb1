package glossary

import (
	"sync"

	"github.com/fathima-sithara/lingua-relay/internal/domain"
)

// Registry caches one Protector per community scope, rebuilding it only
// when the scope's custom entries change. It satisfies
// pipeline.GlossaryProvider.
type Registry struct {
	mu         sync.Mutex
	protectors map[string]*Protector
	entries    map[string][]domain.GlossaryEntry
}

// NewRegistry constructs an empty Registry; scopes fall back to the
// bundled default glossary until entries are added for them.
func NewRegistry() *Registry {
	return &Registry{
		protectors: make(map[string]*Protector),
		entries:    make(map[string][]domain.GlossaryEntry),
	}
}

// SetEntries replaces the custom glossary entries for scope and discards
// its cached Protector, forcing a rebuild on next use.
func (r *Registry) SetEntries(scope string, entries []domain.GlossaryEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[scope] = entries
	delete(r.protectors, scope)
}

// ProtectorFor returns the cached Protector for scope, building it from
// the default glossary plus any custom entries registered for scope.
func (r *Registry) ProtectorFor(scope string) *Protector {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.protectors[scope]; ok {
		return p
	}
	p := New(scope, r.entries[scope])
	r.protectors[scope] = p
	return p
}
