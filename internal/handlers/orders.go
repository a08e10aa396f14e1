package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/loopxpress/backend/internal/orders"
	"github.com/loopxpress/backend/internal/validation"
)

// OrdersConfig groups dependencies for the order tracking handlers.
type OrdersConfig struct {
	Orders *orders.Store
}

type ordersHandler struct {
	cfg OrdersConfig
}

// RegisterOrderRoutes registers the /api/orders tracking surface.
func RegisterOrderRoutes(r *gin.Engine, cfg OrdersConfig) {
	h := &ordersHandler{cfg: cfg}

	grp := r.Group("/api/orders")
	grp.GET("/track/:orderId", h.track)
	grp.PUT("/update/:orderId", h.updateStatus)
	grp.GET("/", h.list)
}

// track looks up orders by gateway order id. A gateway order fans out to one
// document per line item, so the response carries all of them, signatures
// stripped.
func (h *ordersHandler) track(c *gin.Context) {
	matches, err := h.cfg.Orders.ByGatewayOrderID(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		serverError(c, "track", err)
		return
	}
	if len(matches) == 0 {
		notFound(c, "Order not found")
		return
	}

	sanitized := make([]orders.Order, 0, len(matches))
	for _, o := range matches {
		sanitized = append(sanitized, o.Sanitized())
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "orders": sanitized})
}

// updateStatus validates the new status against the delivery enum and applies
// it to every order sharing the gateway order id.
func (h *ordersHandler) updateStatus(c *gin.Context) {
	var req validation.StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Status == "" {
		badRequest(c, "Status is required")
		return
	}
	if !orders.IsValidStatus(req.Status) {
		badRequest(c, fmt.Sprintf("Invalid status. Allowed values are: %s", strings.Join(orders.AllowedStatuses, ", ")))
		return
	}

	updated, err := h.cfg.Orders.UpdateStatusByGatewayOrderID(c.Request.Context(), c.Param("orderId"), req.Status)
	if err != nil {
		serverError(c, "updateStatus", err)
		return
	}
	if updated == 0 {
		notFound(c, "Order not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "updated": updated, "status": req.Status})
}

func (h *ordersHandler) list(c *gin.Context) {
	all, err := h.cfg.Orders.List(c.Request.Context())
	if err != nil {
		serverError(c, "listOrders", err)
		return
	}
	if len(all) == 0 {
		notFound(c, "No orders found")
		return
	}

	sanitized := make([]orders.Order, 0, len(all))
	for _, o := range all {
		sanitized = append(sanitized, o.Sanitized())
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "orders": sanitized})
}
