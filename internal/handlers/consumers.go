package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/loopxpress/backend/internal/auth"
	"github.com/loopxpress/backend/internal/consumers"
	"github.com/loopxpress/backend/internal/validation"
)

// ConsumersConfig groups dependencies for the consumer account handlers.
type ConsumersConfig struct {
	Consumers *consumers.Store
	JWTSecret string
}

type consumersHandler struct {
	cfg ConsumersConfig
	v   *validatorv10.Validate
}

// RegisterConsumerRoutes registers the /api/consumers surface.
func RegisterConsumerRoutes(r *gin.Engine, cfg ConsumersConfig) {
	h := &consumersHandler{cfg: cfg, v: validation.New()}

	grp := r.Group("/api/consumers")
	grp.POST("/signup", h.signup)
	grp.POST("/login", h.login)

	authed := grp.Group("", auth.Require(cfg.JWTSecret, auth.RoleConsumer))
	authed.GET("/profile", h.profile)
	authed.POST("/cart", h.addToCart)
	authed.DELETE("/cart/:productId", h.removeFromCart)
}

func (h *consumersHandler) signup(c *gin.Context) {
	var req validation.ConsumerSignupRequest
	if err := validation.BindAndValidate(c, &req, h.v); err != nil {
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		serverError(c, "consumerSignup", err)
		return
	}

	consumer := consumers.Consumer{
		ConsumerID:   uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
	}
	if err := h.cfg.Consumers.Create(c.Request.Context(), consumer); err != nil {
		if err == consumers.ErrEmailTaken {
			badRequest(c, "Email already registered")
			return
		}
		serverError(c, "consumerSignup", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Consumer registered successfully"})
}

func (h *consumersHandler) login(c *gin.Context) {
	var req validation.SigninRequest
	if err := validation.BindAndValidate(c, &req, h.v); err != nil {
		return
	}

	consumer, err := h.cfg.Consumers.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		serverError(c, "consumerLogin", err)
		return
	}
	if consumer == nil || !auth.CheckPassword(consumer.PasswordHash, req.Password) {
		badRequest(c, "Invalid email or password")
		return
	}

	token, err := auth.IssueToken(h.cfg.JWTSecret, consumer.ConsumerID, consumer.Email, auth.RoleConsumer)
	if err != nil {
		serverError(c, "consumerLogin", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"consumer": gin.H{
			"id":    consumer.ConsumerID,
			"name":  consumer.Name,
			"email": consumer.Email,
		},
	})
}

func (h *consumersHandler) profile(c *gin.Context) {
	principal := auth.PrincipalFrom(c)

	consumer, err := h.cfg.Consumers.Get(c.Request.Context(), principal.ID)
	if err != nil {
		serverError(c, "consumerProfile", err)
		return
	}
	if consumer == nil {
		notFound(c, "Consumer not found")
		return
	}
	c.JSON(http.StatusOK, consumer)
}

// addToCart merges quantities when the product is already in the cart.
func (h *consumersHandler) addToCart(c *gin.Context) {
	principal := auth.PrincipalFrom(c)

	var req validation.CartItemRequest
	if err := validation.BindAndValidate(c, &req, h.v); err != nil {
		return
	}

	item := consumers.CartItem{
		ProductID:   req.ProductID,
		Title:       req.Title,
		Quantity:    req.Quantity,
		ImageURL:    req.ImageURL,
		Brand:       req.Brand,
		Category:    req.Category,
		Subcategory: req.Subcategory,
		Price:       req.Price,
	}
	consumer, err := h.cfg.Consumers.UpsertCartItem(c.Request.Context(), principal.ID, item)
	if err == consumers.ErrNotFound {
		notFound(c, "Consumer not found")
		return
	}
	if err != nil {
		serverError(c, "addToCart", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item added to cart", "cart": consumer.Cart})
}

func (h *consumersHandler) removeFromCart(c *gin.Context) {
	principal := auth.PrincipalFrom(c)

	consumer, err := h.cfg.Consumers.RemoveCartItem(c.Request.Context(), principal.ID, c.Param("productId"))
	if err == consumers.ErrNotFound {
		notFound(c, "Consumer not found")
		return
	}
	if err != nil {
		serverError(c, "removeFromCart", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item removed from cart", "cart": consumer.Cart})
}
