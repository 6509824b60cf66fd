package v1

import (
	"github.com/gin-gonic/gin"
)

// EntityRouteHandler defines the handlers every entity route needs.
type EntityRouteHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Patch(c *gin.Context)
	Delete(c *gin.Context)
	InvokeRecord(c *gin.Context)
	InvokeCollection(c *gin.Context)
}

// RegisterEntityRoutes registers CRUD and action routes under /:entity.
// Action parameters are passed positionally as repeated "p" query values:
//
//	GET /items/7/actions/SetDefIntValue?p=CARD_TYPE&p=2
func RegisterEntityRoutes(group *gin.RouterGroup, handler EntityRouteHandler) {
	group.GET("/:entity", handler.List)
	group.POST("/:entity", handler.Create)
	group.GET("/:entity/:id", handler.Get)
	group.PUT("/:entity/:id", handler.Update)
	group.PATCH("/:entity/:id", handler.Patch)
	group.DELETE("/:entity/:id", handler.Delete)

	for _, method := range []string{"GET", "POST"} {
		group.Handle(method, "/:entity/:id/actions/:action", handler.InvokeRecord)
		group.Handle(method, "/:entity/actions/:action", handler.InvokeCollection)
	}
}
