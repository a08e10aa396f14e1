package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/loopxpress/backend/internal/gst"
	"github.com/loopxpress/backend/internal/sellers"
	"github.com/loopxpress/backend/internal/validation"
)

// GSTConfig groups dependencies for the GST endpoints.
type GSTConfig struct {
	Sellers  *sellers.Store
	Verifier *gst.Verifier
}

type gstHandler struct {
	cfg GSTConfig
	v   *validatorv10.Validate
}

// RegisterGSTRoutes registers the /api/gst surface.
func RegisterGSTRoutes(r *gin.Engine, cfg GSTConfig) {
	h := &gstHandler{cfg: cfg, v: validation.New()}

	grp := r.Group("/api/gst")
	grp.POST("/check-exists", h.checkExists)
	grp.POST("/verify-gst", h.verify)
}

// checkExists reports whether a GSTIN is already registered to a seller,
// so the signup form can reject duplicates before submission.
func (h *gstHandler) checkExists(c *gin.Context) {
	var req validation.GSTRequest
	if err := validation.BindAndValidate(c, &req, h.v); err != nil {
		return
	}

	exists, err := h.cfg.Sellers.ExistsByGST(c.Request.Context(), req.GSTIN)
	if err != nil {
		serverError(c, "checkGSTExists", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"exists": exists})
}

// verify proxies the GSTIN to the upstream verification service. Upstream
// failures pass their status code through; missing credentials are a 500.
func (h *gstHandler) verify(c *gin.Context) {
	var req validation.GSTRequest
	if err := validation.BindAndValidate(c, &req, h.v); err != nil {
		return
	}

	details, err := h.cfg.Verifier.Verify(c.Request.Context(), req.GSTIN)
	if err != nil {
		var upstream *gst.UpstreamError
		if errors.As(err, &upstream) {
			c.JSON(upstream.StatusCode, gin.H{"success": false, "message": upstream.Message})
			return
		}
		serverError(c, "verifyGST", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "details": details})
}
