package handlers

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/loopxpress/backend/internal/auth"
	"github.com/loopxpress/backend/internal/mailer"
	"github.com/loopxpress/backend/internal/sellers"
	"github.com/loopxpress/backend/internal/validation"
)

const resetTokenTTL = time.Hour

// SellersConfig groups dependencies for the seller account handlers.
type SellersConfig struct {
	Sellers      *sellers.Store
	Admins       *sellers.AdminStore
	Mailer       mailer.Sender
	JWTSecret    string
	ResetBaseURL string // e.g. https://shop.example.com/reset-password
}

type sellersHandler struct {
	cfg SellersConfig
	v   *validatorv10.Validate
}

// RegisterSellerRoutes registers the /api/users surface.
func RegisterSellerRoutes(r *gin.Engine, cfg SellersConfig) {
	h := &sellersHandler{cfg: cfg, v: validation.New()}

	grp := r.Group("/api/users")
	grp.POST("/submit-form", h.signup)
	grp.POST("/signin", h.signin)
	grp.GET("/user-info", auth.Require(cfg.JWTSecret, auth.RoleSeller), h.userInfo)
	grp.PUT("/update-personal-info", auth.Require(cfg.JWTSecret, auth.RoleSeller), h.updatePersonalInfo)
	grp.PUT("/update-password", auth.Require(cfg.JWTSecret, auth.RoleSeller), h.updatePassword)
	grp.POST("/forgot-password", h.forgotPassword)
	grp.POST("/reset-password/:token", h.resetPassword)
	grp.GET("/reset-password/:token", h.checkResetToken)
}

// signup registers a seller. The password is hashed explicitly here, before
// the entity is constructed, rather than in a persistence hook.
func (h *sellersHandler) signup(c *gin.Context) {
	ctx := c.Request.Context()

	var req validation.SellerSignupRequest
	if err := validation.BindAndValidate(c, &req, h.v); err != nil {
		return
	}

	hash, err := auth.HashPassword(req.PersonalDetails.Password)
	if err != nil {
		serverError(c, "signup", err)
		return
	}

	seller := sellers.Seller{
		SellerID:  uuid.NewString(),
		Email:     req.PersonalDetails.Email,
		GSTNumber: req.BusinessDetails.GSTNumber,
		PersonalDetails: sellers.PersonalDetails{
			FullName:     req.PersonalDetails.FullName,
			Email:        req.PersonalDetails.Email,
			PhoneNumber:  req.PersonalDetails.PhoneNumber,
			Address:      req.PersonalDetails.Address,
			PasswordHash: hash,
		},
		BusinessDetails: sellers.BusinessDetails{
			BusinessName:      req.BusinessDetails.BusinessName,
			BusinessType:      req.BusinessDetails.BusinessType,
			BrandName:         req.BusinessDetails.BrandName,
			BusinessPhone:     req.BusinessDetails.BusinessPhone,
			BusinessEmail:     req.BusinessDetails.BusinessEmail,
			GSTNumber:         req.BusinessDetails.GSTNumber,
			OtherBusinessType: req.BusinessDetails.OtherBusinessType,
		},
		BankDetails: sellers.BankDetails{
			AccountNumber: req.BankDetails.AccountNumber,
			BankName:      req.BankDetails.BankName,
			IFSCCode:      req.BankDetails.IFSCCode,
		},
	}

	if err := h.cfg.Sellers.Create(ctx, seller); err != nil {
		if err == sellers.ErrEmailTaken {
			badRequest(c, "Email already registered")
			return
		}
		serverError(c, "signup", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully"})
}

// signin checks sellers first, then falls back to the admins table, issuing
// a role-tagged token either way. Unknown email and wrong password get the
// same response.
func (h *sellersHandler) signin(c *gin.Context) {
	ctx := c.Request.Context()

	var req validation.SigninRequest
	if err := validation.BindAndValidate(c, &req, h.v); err != nil {
		return
	}

	seller, err := h.cfg.Sellers.GetByEmail(ctx, req.Email)
	if err != nil {
		serverError(c, "signin", err)
		return
	}

	if seller == nil {
		admin, err := h.cfg.Admins.GetByEmail(ctx, req.Email)
		if err != nil {
			serverError(c, "signin", err)
			return
		}
		if admin == nil || !auth.CheckPassword(admin.PasswordHash, req.Password) {
			badRequest(c, "Invalid email or password")
			return
		}

		token, err := auth.IssueToken(h.cfg.JWTSecret, admin.AdminID, admin.Email, auth.RoleAdmin)
		if err != nil {
			serverError(c, "signin", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": "Admin login successful",
			"token":   token,
			"admin": gin.H{
				"id":    admin.AdminID,
				"email": admin.Email,
				"name":  admin.Name,
				"role":  auth.RoleAdmin,
			},
		})
		return
	}

	if !auth.CheckPassword(seller.PersonalDetails.PasswordHash, req.Password) {
		badRequest(c, "Invalid email or password")
		return
	}

	token, err := auth.IssueToken(h.cfg.JWTSecret, seller.SellerID, seller.Email, auth.RoleSeller)
	if err != nil {
		serverError(c, "signin", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "User login successful",
		"token":   token,
		"user": gin.H{
			"id":        seller.SellerID,
			"email":     seller.Email,
			"full_name": seller.PersonalDetails.FullName,
			"role":      auth.RoleSeller,
		},
	})
}

func (h *sellersHandler) userInfo(c *gin.Context) {
	principal := auth.PrincipalFrom(c)

	seller, err := h.cfg.Sellers.Get(c.Request.Context(), principal.ID)
	if err != nil {
		serverError(c, "userInfo", err)
		return
	}
	if seller == nil {
		notFound(c, "User not found")
		return
	}
	c.JSON(http.StatusOK, seller)
}

func (h *sellersHandler) updatePersonalInfo(c *gin.Context) {
	principal := auth.PrincipalFrom(c)

	var req validation.PersonalInfoUpdateRequest
	if err := validation.BindAndValidate(c, &req, h.v); err != nil {
		return
	}

	seller, err := h.cfg.Sellers.UpdatePersonal(c.Request.Context(), principal.ID, sellers.PersonalDetails{
		FullName:    req.FullName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
	})
	if err == sellers.ErrNotFound {
		notFound(c, "User not found")
		return
	}
	if err != nil {
		serverError(c, "updatePersonalInfo", err)
		return
	}
	c.JSON(http.StatusOK, seller)
}

// updatePassword verifies the current password before hashing and storing
// the new one.
func (h *sellersHandler) updatePassword(c *gin.Context) {
	ctx := c.Request.Context()
	principal := auth.PrincipalFrom(c)

	var req validation.PasswordUpdateRequest
	if err := validation.BindAndValidate(c, &req, h.v); err != nil {
		return
	}

	seller, err := h.cfg.Sellers.Get(ctx, principal.ID)
	if err != nil {
		serverError(c, "updatePassword", err)
		return
	}
	if seller == nil {
		notFound(c, "User not found")
		return
	}
	if !auth.CheckPassword(seller.PersonalDetails.PasswordHash, req.CurrentPassword) {
		badRequest(c, "Current password is incorrect")
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		serverError(c, "updatePassword", err)
		return
	}
	if err := h.cfg.Sellers.UpdatePasswordHash(ctx, principal.ID, hash); err != nil {
		serverError(c, "updatePassword", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}

// forgotPassword issues a one-hour reset token and emails the reset link.
// An unknown email gets a 404 so the form can tell the user directly.
func (h *sellersHandler) forgotPassword(c *gin.Context) {
	ctx := c.Request.Context()

	var req validation.ForgotPasswordRequest
	if err := validation.BindAndValidate(c, &req, h.v); err != nil {
		return
	}

	seller, err := h.cfg.Sellers.GetByEmail(ctx, req.Email)
	if err != nil {
		serverError(c, "forgotPassword", err)
		return
	}
	if seller == nil {
		notFound(c, "User not found")
		return
	}

	token, err := newResetToken()
	if err != nil {
		serverError(c, "forgotPassword", err)
		return
	}
	if err := h.cfg.Sellers.SetResetToken(ctx, seller.SellerID, token, time.Now().Add(resetTokenTTL)); err != nil {
		serverError(c, "forgotPassword", err)
		return
	}

	h.sendResetMail(ctx, seller.Email, token)

	c.JSON(http.StatusOK, gin.H{"message": "Password reset email sent"})
}

func (h *sellersHandler) sendResetMail(ctx context.Context, to, token string) {
	if h.cfg.Mailer == nil {
		return
	}
	link := fmt.Sprintf("%s/%s", h.cfg.ResetBaseURL, token)
	body := fmt.Sprintf("You requested a password reset.\n\nReset your password here: %s\n\nThe link expires in one hour. If you did not request this, ignore this email.", link)
	if err := h.cfg.Mailer.Send(ctx, to, "Reset your password", body); err != nil {
		// the token is stored; the user can retry from the same screen
		log.Printf("[forgotPassword] send reset mail: %v", err)
	}
}

func (h *sellersHandler) resetPassword(c *gin.Context) {
	ctx := c.Request.Context()

	var req validation.ResetPasswordRequest
	if err := validation.BindAndValidate(c, &req, h.v); err != nil {
		return
	}

	seller, err := h.cfg.Sellers.GetByResetToken(ctx, c.Param("token"))
	if err != nil {
		serverError(c, "resetPassword", err)
		return
	}
	if seller == nil || time.Now().After(seller.ResetTokenExpiry) {
		badRequest(c, "Reset token is invalid or has expired")
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		serverError(c, "resetPassword", err)
		return
	}
	if err := h.cfg.Sellers.UpdatePasswordHash(ctx, seller.SellerID, hash); err != nil {
		serverError(c, "resetPassword", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password has been reset successfully"})
}

// checkResetToken lets the frontend probe token validity before showing the
// reset form.
func (h *sellersHandler) checkResetToken(c *gin.Context) {
	seller, err := h.cfg.Sellers.GetByResetToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		serverError(c, "checkResetToken", err)
		return
	}
	if seller == nil || time.Now().After(seller.ResetTokenExpiry) {
		badRequest(c, "Reset token is invalid or has expired")
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true})
}

func newResetToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
