package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/loopxpress/backend/internal/auth"
	"github.com/loopxpress/backend/internal/aws"
	"github.com/loopxpress/backend/internal/products"
	"github.com/loopxpress/backend/internal/validation"
)

const (
	maxProductImages    = 5
	maxImageSizeBytes   = 5 << 20
	productDataFormName = "data"
	imagesFormName      = "images"
)

// ProductsConfig groups dependencies for the catalog handlers.
type ProductsConfig struct {
	Products  *products.Store
	Uploader  *aws.Uploader
	JWTSecret string
}

type productsHandler struct {
	cfg ProductsConfig
	v   *validatorv10.Validate
}

// RegisterProductRoutes registers the /api/products surface. Reads are
// public; writes require a seller token and an ownership check.
func RegisterProductRoutes(r *gin.Engine, cfg ProductsConfig) {
	h := &productsHandler{cfg: cfg, v: validation.New()}

	grp := r.Group("/api/products")
	grp.GET("/products", h.listAll)
	grp.GET("/all-products", h.listAll)
	grp.GET("/product/:id", h.getByID)

	sellerOnly := grp.Group("", auth.Require(cfg.JWTSecret, auth.RoleSeller))
	sellerOnly.POST("/add-product", h.add)
	sellerOnly.GET("/my-products", h.mine)
	sellerOnly.PUT("/update-product/:id", h.update)
	sellerOnly.DELETE("/product/:id", h.delete)
}

// add creates a product from a multipart form: a "data" field holding the
// product JSON plus up to five image files, each capped at 5 MiB.
func (h *productsHandler) add(c *gin.Context) {
	ctx := c.Request.Context()
	principal := auth.PrincipalFrom(c)

	req, files, ok := h.bindProductForm(c)
	if !ok {
		return
	}

	urls, err := h.uploadImages(c, files)
	if err != nil {
		serverError(c, "addProduct", err)
		return
	}

	now := time.Now().UTC()
	product := products.Product{
		ProductID: uuid.NewString(),
		SellerID:  principal.ID,
		ImageURLs: urls,
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyProductRequest(&product, req)

	if err := h.cfg.Products.Create(ctx, product); err != nil {
		serverError(c, "addProduct", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Product added successfully", "product": product})
}

func (h *productsHandler) mine(c *gin.Context) {
	principal := auth.PrincipalFrom(c)

	list, err := h.cfg.Products.BySeller(c.Request.Context(), principal.ID)
	if err != nil {
		serverError(c, "myProducts", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *productsHandler) listAll(c *gin.Context) {
	list, err := h.cfg.Products.List(c.Request.Context())
	if err != nil {
		serverError(c, "allProducts", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *productsHandler) getByID(c *gin.Context) {
	product, err := h.cfg.Products.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		serverError(c, "getProduct", err)
		return
	}
	if product == nil {
		notFound(c, "Product not found")
		return
	}
	c.JSON(http.StatusOK, product)
}

// update replaces the mutable fields of a product the caller owns. New
// images, when supplied, replace the existing set.
func (h *productsHandler) update(c *gin.Context) {
	ctx := c.Request.Context()
	principal := auth.PrincipalFrom(c)

	existing, err := h.cfg.Products.Get(ctx, c.Param("id"))
	if err != nil {
		serverError(c, "updateProduct", err)
		return
	}
	if existing == nil {
		notFound(c, "Product not found")
		return
	}
	if existing.SellerID != principal.ID {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "You do not own this product"})
		return
	}

	req, files, ok := h.bindProductForm(c)
	if !ok {
		return
	}

	updated := *existing
	applyProductRequest(&updated, req)
	updated.UpdatedAt = time.Now().UTC()

	if len(files) > 0 {
		urls, err := h.uploadImages(c, files)
		if err != nil {
			serverError(c, "updateProduct", err)
			return
		}
		updated.ImageURLs = urls
	}

	if err := h.cfg.Products.Update(ctx, updated); err != nil {
		if err == products.ErrNotFound {
			notFound(c, "Product not found")
			return
		}
		serverError(c, "updateProduct", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product updated successfully", "product": updated})
}

func (h *productsHandler) delete(c *gin.Context) {
	ctx := c.Request.Context()
	principal := auth.PrincipalFrom(c)

	existing, err := h.cfg.Products.Get(ctx, c.Param("id"))
	if err != nil {
		serverError(c, "deleteProduct", err)
		return
	}
	if existing == nil {
		notFound(c, "Product not found")
		return
	}
	if existing.SellerID != principal.ID {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "You do not own this product"})
		return
	}

	if err := h.cfg.Products.Delete(ctx, existing.ProductID); err != nil {
		serverError(c, "deleteProduct", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

// bindProductForm parses the multipart "data" JSON field and collects the
// image file headers. It writes the 400 response itself on failure.
func (h *productsHandler) bindProductForm(c *gin.Context) (validation.ProductRequest, []*multipart.FileHeader, bool) {
	var req validation.ProductRequest

	form, err := c.MultipartForm()
	if err != nil {
		badRequest(c, "Invalid multipart form")
		return req, nil, false
	}

	raw := c.PostForm(productDataFormName)
	if raw == "" {
		badRequest(c, "Missing product data")
		return req, nil, false
	}
	if err := json.Unmarshal([]byte(raw), &req); err != nil {
		badRequest(c, "Invalid product data")
		return req, nil, false
	}
	if err := h.v.Struct(req); err != nil {
		badRequest(c, validation.Message(err))
		return req, nil, false
	}

	files := form.File[imagesFormName]
	if len(files) > maxProductImages {
		badRequest(c, fmt.Sprintf("At most %d images are allowed", maxProductImages))
		return req, nil, false
	}
	for _, f := range files {
		if f.Size > maxImageSizeBytes {
			badRequest(c, fmt.Sprintf("Image %s exceeds the 5MB size limit", f.Filename))
			return req, nil, false
		}
	}
	return req, files, true
}

func (h *productsHandler) uploadImages(c *gin.Context, files []*multipart.FileHeader) ([]string, error) {
	if len(files) == 0 {
		return nil, nil
	}
	if h.cfg.Uploader == nil {
		return nil, fmt.Errorf("image uploads are not configured")
	}

	urls := make([]string, 0, len(files))
	for _, f := range files {
		src, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open upload %s: %w", f.Filename, err)
		}
		data, err := io.ReadAll(io.LimitReader(src, maxImageSizeBytes+1))
		src.Close()
		if err != nil {
			return nil, fmt.Errorf("read upload %s: %w", f.Filename, err)
		}

		ext := strings.ToLower(filepath.Ext(f.Filename))
		url, err := h.cfg.Uploader.UploadImage(c.Request.Context(), data, ext, f.Header.Get("Content-Type"))
		if err != nil {
			return nil, fmt.Errorf("upload %s: %w", f.Filename, err)
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func applyProductRequest(p *products.Product, req validation.ProductRequest) {
	p.Title = req.Title
	p.Brand = req.Brand
	p.Colors = req.Colors
	p.OriginalPrice = req.OriginalPrice
	p.DiscountedPrice = req.DiscountedPrice
	p.Category = req.Category
	p.Subcategory = req.Subcategory
	p.Quantity = req.Quantity
	p.Weight = req.Weight
	p.Description = req.Description
	p.Highlights = req.Highlights
	p.StockAlert = req.StockAlert
	p.ManufacturingDate = req.ManufacturingDate
	p.Warranty = req.Warranty
	p.ShippingInfo = req.ShippingInfo
}
