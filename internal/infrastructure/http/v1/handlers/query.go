package handlers

import (
	"github.com/gin-gonic/gin"

	"logoobjects/internal/core/apperror"
	"logoobjects/internal/domain"
	"logoobjects/internal/domain/filter"
	"logoobjects/internal/infrastructure/http/v1/dto"
)

// QueryHandler compiles criteria without calling the remote API.
type QueryHandler struct {
	*BaseHandler
}

// NewQueryHandler creates a new query handler.
func NewQueryHandler(base *BaseHandler) *QueryHandler {
	return &QueryHandler{BaseHandler: base}
}

// Compile handles POST /query/compile.
//
// With an entity, field names go through its table and the response also
// carries the request path a search would use.
func (h *QueryHandler) Compile(c *gin.Context) {
	var req dto.CompileRequest
	if !h.BindJSON(c, &req) {
		return
	}

	criteria, err := filter.DecodeCriteria(req.Criteria)
	if err != nil {
		h.Error(c, err)
		return
	}
	opts, err := req.Options.ToOptions()
	if err != nil {
		h.Error(c, err)
		return
	}

	var resp dto.CompileResponse
	var resolver filter.FieldResolver
	if req.Entity != "" {
		def, ok := h.registry.Get(req.Entity)
		if !ok {
			h.Error(c, apperror.NewUnknownEntity(req.Entity))
			return
		}
		resolver = def.Resolver()

		if resp.Path, err = domain.NewEntityClient[domain.Record](nil, def).SearchPath(criteria, opts); err != nil {
			h.Error(c, err)
			return
		}
	}

	if opts.Q == "" {
		if opts.Q, err = filter.BuildSearchQuery(criteria, resolver); err != nil {
			h.Error(c, err)
			return
		}
	}
	if resp.QueryString, err = filter.BuildQueryString(opts); err != nil {
		h.Error(c, err)
		return
	}
	resp.Q = opts.Q

	h.OK(c, resp)
}
