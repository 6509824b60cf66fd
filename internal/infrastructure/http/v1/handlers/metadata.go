package handlers

import (
	"github.com/gin-gonic/gin"

	"logoobjects/internal/infrastructure/http/v1/dto"
)

type MetadataHandler struct {
	*BaseHandler
}

func NewMetadataHandler(base *BaseHandler) *MetadataHandler {
	return &MetadataHandler{BaseHandler: base}
}

// ListEntities returns a summary of every registered entity.
// GET /api/v1/entities
func (h *MetadataHandler) ListEntities(c *gin.Context) {
	defs := h.registry.List()
	out := make([]dto.EntitySummary, 0, len(defs))
	for _, def := range defs {
		out = append(out, dto.FromEntityDef(def))
	}
	h.OK(c, out)
}

// GetEntity returns the full descriptor: field table, table parts, actions.
// GET /api/v1/entities/:entity
func (h *MetadataHandler) GetEntity(c *gin.Context) {
	if def, ok := h.Entity(c); ok {
		h.OK(c, def)
	}
}
