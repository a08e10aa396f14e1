package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/loopxpress/backend/internal/auth"
	"github.com/loopxpress/backend/internal/inventory"
	"github.com/loopxpress/backend/internal/products"
	"github.com/loopxpress/backend/internal/validation"
)

// InventoryConfig groups dependencies for the inventory handlers.
type InventoryConfig struct {
	Inventory *inventory.Store
	Products  *products.Store
	JWTSecret string
}

type inventoryHandler struct {
	cfg InventoryConfig
	v   *validatorv10.Validate
}

// RegisterInventoryRoutes registers the /api/inventory surface.
func RegisterInventoryRoutes(r *gin.Engine, cfg InventoryConfig) {
	h := &inventoryHandler{cfg: cfg, v: validation.New()}

	grp := r.Group("/api/inventory", auth.Require(cfg.JWTSecret, auth.RoleSeller))
	grp.POST("/add-product-inventory", h.upsert)
	grp.GET("/", h.list)
}

// upsert records per-location stock for a product the caller owns. The
// total quantity is always recomputed from the location breakdown.
func (h *inventoryHandler) upsert(c *gin.Context) {
	ctx := c.Request.Context()
	principal := auth.PrincipalFrom(c)

	var req validation.InventoryRequest
	if err := validation.BindAndValidate(c, &req, h.v); err != nil {
		return
	}

	product, err := h.cfg.Products.Get(ctx, req.ProductID)
	if err != nil {
		serverError(c, "addInventory", err)
		return
	}
	if product == nil {
		notFound(c, "Product not found")
		return
	}
	if product.SellerID != principal.ID {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "You do not own this product"})
		return
	}

	rec := inventory.Record{
		ProductID: req.ProductID,
		SellerID:  principal.ID,
	}
	for _, loc := range req.LocationWiseStock {
		rec.LocationWiseStock = append(rec.LocationWiseStock, inventory.LocationStock{
			LocationName: loc.LocationName,
			Stock:        loc.Stock,
		})
	}

	if err := h.cfg.Inventory.Put(ctx, rec); err != nil {
		serverError(c, "addInventory", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  "Inventory updated successfully",
		"quantity": inventory.TotalQuantity(rec.LocationWiseStock),
	})
}

func (h *inventoryHandler) list(c *gin.Context) {
	principal := auth.PrincipalFrom(c)

	list, err := h.cfg.Inventory.BySeller(c.Request.Context(), principal.ID)
	if err != nil {
		serverError(c, "listInventory", err)
		return
	}
	c.JSON(http.StatusOK, list)
}
