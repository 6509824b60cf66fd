// Package domain provides the generic entity client every Logo Objects
// resource is served through.
package domain

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"logoobjects/internal/core/apperror"
	"logoobjects/internal/domain/filter"
	"logoobjects/internal/metadata"
)

// Requester performs one exchange with the Logo Objects API. path is
// relative to the API root and may carry a query string. A nil body sends
// no payload; a nil out discards the response.
type Requester interface {
	Do(ctx context.Context, method, path string, body, out any) error
}

// Record is an untyped entity payload keyed by remote column names.
type Record = map[string]any

// ListResult is one page of a collection response.
type ListResult[T any] struct {
	Items      []T  `json:"items"`
	Count      int  `json:"count"`
	TotalCount int  `json:"totalCount,omitempty"`
	Limit      int  `json:"limit,omitempty"`
	Offset     int  `json:"offset,omitempty"`
	Meta       Meta `json:"Meta,omitempty"`
}

// Meta carries the self link the API attaches to resources.
type Meta struct {
	Href string `json:"href,omitempty"`
}

// EntityClient exposes CRUD, search and remote actions for one entity.
// It is safe for concurrent use when the Requester is.
type EntityClient[T any] struct {
	def metadata.EntityDef
	req Requester
}

// NewEntityClient creates a client for the entity described by def.
func NewEntityClient[T any](req Requester, def metadata.EntityDef) *EntityClient[T] {
	return &EntityClient[T]{def: def, req: req}
}

// Definition returns the entity descriptor.
func (c *EntityClient[T]) Definition() metadata.EntityDef {
	return c.def
}

// GetAll handles GET /{entity}?{options}.
func (c *EntityClient[T]) GetAll(ctx context.Context, opts filter.QueryOptions) (ListResult[T], error) {
	var result ListResult[T]

	path, err := c.listPath(opts)
	if err != nil {
		return result, err
	}
	if err := c.req.Do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return result, err
	}
	return result, nil
}

// GetByID handles GET /{entity}/{id}. Only fields and expand are meaningful
// in opts.
func (c *EntityClient[T]) GetByID(ctx context.Context, id int64, opts filter.QueryOptions) (T, error) {
	var entity T

	qs, err := filter.BuildQueryString(opts)
	if err != nil {
		return entity, err
	}
	if err := c.req.Do(ctx, http.MethodGet, withQuery(c.recordPath(id), qs), nil, &entity); err != nil {
		return entity, c.normalizeGetErr(err, id)
	}
	return entity, nil
}

// Create handles POST /{entity}.
func (c *EntityClient[T]) Create(ctx context.Context, data T) (T, error) {
	var created T
	if err := c.req.Do(ctx, http.MethodPost, c.collectionPath(), data, &created); err != nil {
		return created, err
	}
	return created, nil
}

// Update handles PUT /{entity}/{id}, replacing the record.
func (c *EntityClient[T]) Update(ctx context.Context, id int64, data T) (T, error) {
	var updated T
	if err := c.req.Do(ctx, http.MethodPut, c.recordPath(id), data, &updated); err != nil {
		return updated, c.normalizeGetErr(err, id)
	}
	return updated, nil
}

// Patch handles PATCH /{entity}/{id}. data is usually a partial Record.
func (c *EntityClient[T]) Patch(ctx context.Context, id int64, data any) (T, error) {
	var patched T
	if err := c.req.Do(ctx, http.MethodPatch, c.recordPath(id), data, &patched); err != nil {
		return patched, c.normalizeGetErr(err, id)
	}
	return patched, nil
}

// Delete handles DELETE /{entity}/{id}.
func (c *EntityClient[T]) Delete(ctx context.Context, id int64) error {
	if err := c.req.Do(ctx, http.MethodDelete, c.recordPath(id), nil, nil); err != nil {
		return c.normalizeGetErr(err, id)
	}
	return nil
}

// Search lists records matching criteria. An explicit opts.Q wins: the
// criteria are then neither compiled nor sent.
func (c *EntityClient[T]) Search(ctx context.Context, criteria filter.Criteria, opts filter.QueryOptions) (ListResult[T], error) {
	path, err := c.SearchPath(criteria, opts)
	if err != nil {
		return ListResult[T]{}, err
	}

	var result ListResult[T]
	if err := c.req.Do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return result, err
	}
	return result, nil
}

// SearchPath compiles the request path Search would send, without I/O.
func (c *EntityClient[T]) SearchPath(criteria filter.Criteria, opts filter.QueryOptions) (string, error) {
	if opts.Q == "" {
		q, err := filter.BuildSearchQuery(criteria, c.def.Resolver())
		if err != nil {
			return "", err
		}
		opts.Q = q
	}
	return c.listPath(opts)
}

// BuildQuery joins raw filter conditions into a q value.
func (c *EntityClient[T]) BuildQuery(conditions ...string) string {
	return filter.BuildQuery(conditions...)
}

// Invoke calls a declared remote action:
//
//	/{entity}/{id}/{Action}/{p1}/{p2}   record scope
//	/{entity}/{Action}/{p1}/{p2}        collection scope
//
// id is ignored for collection actions. out may be *string or *[]byte for
// non-JSON responses such as XML exports.
func (c *EntityClient[T]) Invoke(ctx context.Context, action string, id int64, params []string, body, out any) error {
	method, path, err := c.ActionPath(action, id, params)
	if err != nil {
		return err
	}
	if err := c.req.Do(ctx, method, path, body, out); err != nil {
		return c.normalizeGetErr(err, id)
	}
	return nil
}

// ActionPath resolves an action into its HTTP method and path.
func (c *EntityClient[T]) ActionPath(action string, id int64, params []string) (string, string, error) {
	def, ok := c.def.Action(action)
	if !ok {
		return "", "", apperror.NewInvalidQueryOption("action",
			fmt.Sprintf("%s has no action %q", c.def.Name, action))
	}
	if len(params) != len(def.Params) {
		return "", "", apperror.NewInvalidQueryOption("action",
			fmt.Sprintf("%s.%s expects %d parameter(s) (%s), got %d",
				c.def.Name, def.Name, len(def.Params), strings.Join(def.Params, ", "), len(params)))
	}

	segments := []string{c.collectionPath()}
	if def.Scope == metadata.ScopeRecord {
		if id <= 0 {
			return "", "", apperror.NewValidation("action requires a record id").WithDetail("action", def.Name)
		}
		segments = append(segments, strconv.FormatInt(id, 10))
	}
	segments = append(segments, def.Name)
	for _, p := range params {
		segments = append(segments, url.PathEscape(p))
	}

	return def.Method, strings.Join(segments, "/"), nil
}

func (c *EntityClient[T]) listPath(opts filter.QueryOptions) (string, error) {
	qs, err := filter.BuildQueryString(opts)
	if err != nil {
		return "", err
	}
	return withQuery(c.collectionPath(), qs), nil
}

func (c *EntityClient[T]) collectionPath() string {
	return "/" + c.def.Path
}

func (c *EntityClient[T]) recordPath(id int64) string {
	return c.collectionPath() + "/" + strconv.FormatInt(id, 10)
}

// normalizeGetErr maps a remote 404 to a not-found error naming this entity.
func (c *EntityClient[T]) normalizeGetErr(err error, id int64) error {
	if apperror.IsNotFound(err) {
		return apperror.NewNotFound(c.def.Name, id).WithCause(err)
	}
	return err
}

func withQuery(path, qs string) string {
	if qs == "" {
		return path
	}
	return path + "?" + qs
}
