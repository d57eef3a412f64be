package http

import (
	"github.com/gin-gonic/gin"
)

// RouteGroup defines a group of routes that can be registered.
type RouteGroup interface {
	// RegisterRoutes registers routes to the given router group.
	RegisterRoutes(rg *gin.RouterGroup)
}

// CartRoutes registers the per-session cart API.
type CartRoutes struct {
	handler *CartHandler
}

// NewCartRoutes creates a new CartRoutes instance.
func NewCartRoutes(handler *CartHandler) *CartRoutes {
	return &CartRoutes{handler: handler}
}

// RegisterRoutes mounts the cart routes under /sessions/:session.
func (r *CartRoutes) RegisterRoutes(rg *gin.RouterGroup) {
	session := rg.Group("/sessions/:" + sessionParam)

	session.GET("/cart", r.handler.GetCart)
	session.POST("/cart/items", r.handler.AddItem)
	session.PUT("/cart/items/:"+indexParam, r.handler.UpdateQuantity)
	session.PATCH("/cart/items/:"+indexParam, r.handler.AdjustQuantity)
	session.DELETE("/cart/items/:"+indexParam, r.handler.RemoveItem)
	session.POST("/checkout", r.handler.Checkout)
	session.GET("/orders", r.handler.Orders)
	session.POST("/commands", r.handler.Command)
}
