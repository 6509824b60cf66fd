// Package handlers provides HTTP request handlers.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"logoobjects/internal/core/apperror"
	"logoobjects/internal/domain/filter"
	"logoobjects/internal/metadata"
)

// BaseHandler provides common handler utilities.
type BaseHandler struct {
	registry *metadata.Registry
}

// NewBaseHandler creates a new base handler.
func NewBaseHandler(registry *metadata.Registry) *BaseHandler {
	return &BaseHandler{registry: registry}
}

// BindJSON binds and validates JSON request body.
func (h *BaseHandler) BindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		h.Error(c, apperror.NewValidation("invalid request body").WithDetail("error", err.Error()))
		return false
	}
	return true
}

// Error registers err on the Gin context and aborts the request.
// The JSON response is produced by middleware.ErrorHandler.
func (h *BaseHandler) Error(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// Entity resolves the :entity path parameter.
func (h *BaseHandler) Entity(c *gin.Context) (metadata.EntityDef, bool) {
	name := c.Param("entity")
	def, ok := h.registry.Get(name)
	if !ok {
		h.Error(c, apperror.NewUnknownEntity(name))
		return metadata.EntityDef{}, false
	}
	return def, true
}

// ParseID parses the :id path parameter as an INTERNAL_REFERENCE.
func (h *BaseHandler) ParseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		h.Error(c, apperror.NewValidation("invalid id format").WithDetail("id", c.Param("id")))
		return 0, false
	}
	return id, true
}

// ParseListQuery reads criteria and query options from the URL:
//
//	filter  criteria JSON (object or item array)
//	fields  comma-separated columns
//	sort    "A,B desc" or a JSON tuple such as ["CODE","desc"]
//	limit, offset, q, count, expand
func (h *BaseHandler) ParseListQuery(c *gin.Context) (filter.Criteria, filter.QueryOptions, bool) {
	criteria, err := filter.DecodeCriteria([]byte(c.Query("filter")))
	if err != nil {
		h.Error(c, err)
		return nil, filter.QueryOptions{}, false
	}

	values := c.Request.URL.Query()
	values.Del("filter")
	tuple := ""
	if raw := strings.TrimSpace(values.Get("sort")); strings.HasPrefix(raw, "[") {
		tuple = raw
		values.Del("sort")
	}

	opts, err := filter.ParseQueryString(values.Encode())
	if err != nil {
		h.Error(c, err)
		return nil, filter.QueryOptions{}, false
	}

	if tuple != "" {
		var decoded []any
		if err := json.Unmarshal([]byte(tuple), &decoded); err != nil {
			h.Error(c, apperror.NewInvalidQueryOption("sort", "sort tuple is not valid JSON"))
			return nil, filter.QueryOptions{}, false
		}
		if opts.Sort, err = filter.ParseSort(decoded); err != nil {
			h.Error(c, err)
			return nil, filter.QueryOptions{}, false
		}
	}

	return criteria, opts, true
}

// OK sends 200 response with data.
func (h *BaseHandler) OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// Created sends 201 response with the created record.
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// NoContent sends 204 response.
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
