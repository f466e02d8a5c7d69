package dao

import (
	"context"
	"errors"

	"github.com/caredash/caredash/internal/api"
)

// ErrNoClient is returned by factories called without a backend client.
var ErrNoClient = errors.New("no API client")

// Resource is one backend entity (a patient, center or team).
type Resource interface {
	GetID() string
	GetName() string
	Raw() any
}

// DAO defines the data access operations for one entity type.
type DAO interface {
	// EntityName returns the entity type (e.g., "patients", "centers")
	EntityName() string

	// List retrieves every entity of this type
	List(ctx context.Context) ([]Resource, error)

	// Get retrieves a single entity by ID
	Get(ctx context.Context, id string) (Resource, error)

	// Supports returns whether this DAO supports the given operation
	Supports(op Operation) bool
}

// Operation represents a supported operation type
type Operation string

const (
	OpList   Operation = "list"
	OpGet    Operation = "get"
	OpExport Operation = "export"
)

// BaseResource provides a default implementation of Resource
type BaseResource struct {
	ID   string
	Name string
	Data any
}

func (r *BaseResource) GetID() string   { return r.ID }
func (r *BaseResource) GetName() string { return r.Name }
func (r *BaseResource) Raw() any        { return r.Data }

// BaseDAO provides common DAO functionality.
// Embed this in your DAO struct to get default implementations.
type BaseDAO struct {
	entity string
	client *api.Client
}

// NewBaseDAO creates a new BaseDAO for the given entity type.
func NewBaseDAO(entity string, client *api.Client) BaseDAO {
	return BaseDAO{entity: entity, client: client}
}

func (d *BaseDAO) EntityName() string  { return d.entity }
func (d *BaseDAO) Client() *api.Client { return d.client }

// Supports returns true for List, Get and Export by default.
func (d *BaseDAO) Supports(op Operation) bool {
	switch op {
	case OpList, OpGet, OpExport:
		return true
	default:
		return false
	}
}

// Factory creates DAO instances bound to a backend client
type Factory func(ctx context.Context, client *api.Client) (DAO, error)

// PageRequest asks a PaginatedDAO for one server-side page.
type PageRequest struct {
	PageIndex int // 0-based
	PageSize  int
	Search    string
	SortBy    string
	Desc      bool
}

// PageResult is one page plus the server's totals.
type PageResult struct {
	Items      []Resource
	TotalItems int
	PageCount  int
}

// PaginatedDAO extends DAO for entity types the server pages, sorts and
// filters itself. ResourceBrowser detects it and drives the table externally.
type PaginatedDAO interface {
	DAO
	// ListPage retrieves the page described by req.
	ListPage(ctx context.Context, req PageRequest) (PageResult, error)
}

// Mergeable is an optional interface for resources that need to preserve
// fields from List() when refreshed via Get().
type Mergeable interface {
	Resource
	// MergeFrom copies fields from the original resource that are not
	// available in the Get() response. Called after Get() refresh.
	MergeFrom(original Resource)
}

// Count returns the number of entities: the server total for paginated DAOs,
// the list length otherwise.
func Count(ctx context.Context, d DAO) (int, error) {
	if p, ok := d.(PaginatedDAO); ok {
		res, err := p.ListPage(ctx, PageRequest{PageSize: 1})
		if err != nil {
			return 0, err
		}
		return res.TotalItems, nil
	}
	items, err := d.List(ctx)
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

// Context key types for filter values
type filterContextKey string

const filterPrefix filterContextKey = "dao_filter_"

// WithFilter adds a filter value to the context
func WithFilter(ctx context.Context, key, value string) context.Context {
	return context.WithValue(ctx, filterPrefix+filterContextKey(key), value)
}

// GetFilterFromContext retrieves a filter value from the context
func GetFilterFromContext(ctx context.Context, key string) string {
	if v := ctx.Value(filterPrefix + filterContextKey(key)); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
