package registry

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/caredash/caredash/internal/api"
	"github.com/caredash/caredash/internal/dao"
	"github.com/caredash/caredash/internal/render"
)

// Entry holds the factory functions for creating DAO and Renderer instances
// for one entity type. Both factories are called lazily when the entity is
// opened.
type Entry struct {
	DAOFactory      dao.Factory    // Creates a DAO for data access operations
	RendererFactory render.Factory // Creates a Renderer for display formatting

	DisplayName string     // Title shown in menus (e.g., "Patients")
	Roles       []api.Role // Roles allowed to open this entity; empty means every role
	Order       int        // Menu position, lower first
}

// Allows reports whether role may open the entity.
func (e Entry) Allows(role api.Role) bool {
	return len(e.Roles) == 0 || slices.Contains(e.Roles, role)
}

// Registry maps entity names to their DAO and renderer factories.
//
// It also maintains aliases (e.g., "p" -> "patients") for the command line
// and the role each entity requires.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Entry
	aliases map[string]string // alias -> entity name
}

// New creates a new Registry
func New() *Registry {
	return &Registry{
		entries: make(map[string]Entry),
		aliases: defaultAliases(),
	}
}

// defaultAliases returns the default entity aliases
func defaultAliases() map[string]string {
	return map[string]string{
		"p":       "patients",
		"pt":      "patients",
		"patient": "patients",
		"c":       "centers",
		"center":  "centers",
		"centres": "centers",
		"t":       "teams",
		"team":    "teams",
	}
}

// Global is the default registry populated by custom/* init functions
var Global = New()

// Register adds or replaces the entry for an entity.
func (r *Registry) Register(entity string, entry Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry.DisplayName == "" {
		entry.DisplayName = titleCase(entity)
	}
	r.entries[entity] = entry
}

// Get returns the entry for an entity.
func (r *Registry) Get(entity string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[entity]
	return e, ok
}

// ResolveAlias maps input to a registered entity name.
func (r *Registry) ResolveAlias(input string) (string, bool) {
	name := strings.ToLower(strings.TrimSpace(input))
	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.entries[name]; ok {
		return name, true
	}
	if target, ok := r.aliases[name]; ok {
		if _, ok := r.entries[target]; ok {
			return target, true
		}
	}
	return "", false
}

// GetDisplayName returns the menu title of an entity.
func (r *Registry) GetDisplayName(entity string) string {
	if e, ok := r.Get(entity); ok {
		return e.DisplayName
	}
	return titleCase(entity)
}

// GetDAO creates a DAO for the entity.
func (r *Registry) GetDAO(ctx context.Context, entity string, client *api.Client) (dao.DAO, error) {
	e, ok := r.Get(entity)
	if !ok || e.DAOFactory == nil {
		return nil, fmt.Errorf("no DAO registered for %s", entity)
	}
	return e.DAOFactory(ctx, client)
}

// GetRenderer creates a renderer for the entity.
func (r *Registry) GetRenderer(entity string) (render.Renderer, error) {
	e, ok := r.Get(entity)
	if !ok || e.RendererFactory == nil {
		return nil, fmt.Errorf("no renderer registered for %s", entity)
	}
	return e.RendererFactory(), nil
}

// List returns every registered entity in menu order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	slices.SortFunc(names, func(a, b string) int {
		if d := r.entries[a].Order - r.entries[b].Order; d != 0 {
			return d
		}
		return strings.Compare(a, b)
	})
	return names
}

// ListForRole returns the entities role may open, in menu order.
func (r *Registry) ListForRole(role api.Role) []string {
	var out []string
	for _, name := range r.List() {
		if r.Allowed(name, role) {
			out = append(out, name)
		}
	}
	return out
}

// Allowed reports whether role may open entity. Unknown entities are denied.
func (r *Registry) Allowed(entity string, role api.Role) bool {
	e, ok := r.Get(entity)
	return ok && e.Allows(role)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
