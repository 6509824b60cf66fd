package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"logoobjects/internal/core/apperror"
	"logoobjects/internal/domain"
	"logoobjects/internal/infrastructure/http/v1/dto"
	"logoobjects/internal/metadata"
)

// EntityHandler proxies every registered entity to the Logo Objects API.
// Records travel untyped, keyed by remote column names.
type EntityHandler struct {
	*BaseHandler
	req domain.Requester
}

// NewEntityHandler creates a new entity handler.
func NewEntityHandler(base *BaseHandler, req domain.Requester) *EntityHandler {
	return &EntityHandler{BaseHandler: base, req: req}
}

func (h *EntityHandler) client(def metadata.EntityDef) *domain.EntityClient[domain.Record] {
	return domain.NewEntityClient[domain.Record](h.req, def)
}

// List handles GET /:entity - search with criteria and query options.
func (h *EntityHandler) List(c *gin.Context) {
	def, ok := h.Entity(c)
	if !ok {
		return
	}
	criteria, opts, ok := h.ParseListQuery(c)
	if !ok {
		return
	}

	result, err := h.client(def).Search(c.Request.Context(), criteria, opts)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromListResult(result))
}

// Get handles GET /:entity/:id. Only fields and expand apply.
func (h *EntityHandler) Get(c *gin.Context) {
	def, ok := h.Entity(c)
	if !ok {
		return
	}
	id, ok := h.ParseID(c)
	if !ok {
		return
	}
	_, opts, ok := h.ParseListQuery(c)
	if !ok {
		return
	}

	rec, err := h.client(def).GetByID(c.Request.Context(), id, opts)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, rec)
}

// Create handles POST /:entity.
func (h *EntityHandler) Create(c *gin.Context) {
	def, ok := h.Entity(c)
	if !ok {
		return
	}
	var body domain.Record
	if !h.BindJSON(c, &body) {
		return
	}

	created, err := h.client(def).Create(c.Request.Context(), body)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, created)
}

// Update handles PUT /:entity/:id.
func (h *EntityHandler) Update(c *gin.Context) {
	def, ok := h.Entity(c)
	if !ok {
		return
	}
	id, ok := h.ParseID(c)
	if !ok {
		return
	}
	var body domain.Record
	if !h.BindJSON(c, &body) {
		return
	}

	updated, err := h.client(def).Update(c.Request.Context(), id, body)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, updated)
}

// Patch handles PATCH /:entity/:id with a partial record.
func (h *EntityHandler) Patch(c *gin.Context) {
	def, ok := h.Entity(c)
	if !ok {
		return
	}
	id, ok := h.ParseID(c)
	if !ok {
		return
	}
	var body domain.Record
	if !h.BindJSON(c, &body) {
		return
	}

	patched, err := h.client(def).Patch(c.Request.Context(), id, body)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, patched)
}

// Delete handles DELETE /:entity/:id.
func (h *EntityHandler) Delete(c *gin.Context) {
	def, ok := h.Entity(c)
	if !ok {
		return
	}
	id, ok := h.ParseID(c)
	if !ok {
		return
	}

	if err := h.client(def).Delete(c.Request.Context(), id); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// InvokeRecord handles GET|POST /:entity/:id/actions/:action?p=..&p=..
func (h *EntityHandler) InvokeRecord(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}
	h.invoke(c, id)
}

// InvokeCollection handles GET|POST /:entity/actions/:action?p=..&p=..
func (h *EntityHandler) InvokeCollection(c *gin.Context) {
	h.invoke(c, 0)
}

func (h *EntityHandler) invoke(c *gin.Context, id int64) {
	def, ok := h.Entity(c)
	if !ok {
		return
	}

	action, found := def.Action(c.Param("action"))
	if !found {
		h.Error(c, apperror.NewInvalidQueryOption("action", def.Name+" has no action "+c.Param("action")))
		return
	}
	if action.Method != c.Request.Method {
		h.Error(c, apperror.NewValidation("action "+action.Name+" must be called with "+action.Method).
			WithDetail("method", c.Request.Method))
		return
	}

	body, err := readOptionalJSON(c.Request)
	if err != nil {
		h.Error(c, err)
		return
	}

	var out []byte
	if err := h.client(def).Invoke(c.Request.Context(), action.Name, id, c.QueryArray("p"), body, &out); err != nil {
		h.Error(c, err)
		return
	}
	c.Data(http.StatusOK, sniffContentType(out), out)
}

// readOptionalJSON decodes a request body when one is present.
func readOptionalJSON(r *http.Request) (any, error) {
	if r.Body == nil {
		return nil, nil
	}
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, apperror.NewValidation("unreadable request body").WithCause(err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	if !json.Valid(data) {
		return nil, apperror.NewValidation("request body must be JSON")
	}
	return json.RawMessage(data), nil
}

func sniffContentType(data []byte) string {
	trimmed := bytes.TrimSpace(data)
	switch {
	case len(trimmed) == 0:
		return "text/plain; charset=utf-8"
	case trimmed[0] == '<':
		return "application/xml; charset=utf-8"
	case json.Valid(trimmed):
		return "application/json; charset=utf-8"
	}
	return "text/plain; charset=utf-8"
}
