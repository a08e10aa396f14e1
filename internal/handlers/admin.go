package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/loopxpress/backend/internal/auth"
	"github.com/loopxpress/backend/internal/sellers"
	"github.com/loopxpress/backend/internal/validation"
)

// AdminConfig groups dependencies for the admin handlers.
type AdminConfig struct {
	Admins    *sellers.AdminStore
	Sellers   *sellers.Store
	JWTSecret string
}

type adminHandler struct {
	cfg AdminConfig
	v   *validatorv10.Validate
}

// RegisterAdminRoutes registers the /api/admin surface. Admin sign-in goes
// through /api/users/signin, which falls back to the admins table.
func RegisterAdminRoutes(r *gin.Engine, cfg AdminConfig) {
	h := &adminHandler{cfg: cfg, v: validation.New()}

	grp := r.Group("/api/admin")
	grp.POST("/signup", h.signup)

	authed := grp.Group("", auth.Require(cfg.JWTSecret, auth.RoleAdmin))
	authed.GET("/admin-info", h.adminInfo)
	authed.GET("/sellers", h.listSellers)
}

func (h *adminHandler) signup(c *gin.Context) {
	var req validation.AdminSignupRequest
	if err := validation.BindAndValidate(c, &req, h.v); err != nil {
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		serverError(c, "adminSignup", err)
		return
	}

	admin := sellers.Admin{
		AdminID:      uuid.NewString(),
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
	}
	if err := h.cfg.Admins.Create(c.Request.Context(), admin); err != nil {
		if err == sellers.ErrEmailTaken {
			badRequest(c, "Email already registered")
			return
		}
		serverError(c, "adminSignup", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Admin registered successfully"})
}

func (h *adminHandler) adminInfo(c *gin.Context) {
	principal := auth.PrincipalFrom(c)

	admin, err := h.cfg.Admins.Get(c.Request.Context(), principal.ID)
	if err != nil {
		serverError(c, "adminInfo", err)
		return
	}
	if admin == nil {
		notFound(c, "Admin not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":    admin.AdminID,
		"email": admin.Email,
		"name":  admin.Name,
	})
}

// listSellers returns every registered seller for the review dashboard.
func (h *adminHandler) listSellers(c *gin.Context) {
	list, err := h.cfg.Sellers.List(c.Request.Context())
	if err != nil {
		serverError(c, "listSellers", err)
		return
	}
	c.JSON(http.StatusOK, list)
}
