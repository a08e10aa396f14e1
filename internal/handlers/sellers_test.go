package handlers

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/loopxpress/backend/internal/auth"
	"github.com/loopxpress/backend/internal/awstest"
	"github.com/loopxpress/backend/internal/sellers"
)

// fakeSender captures outbound mail.
type fakeSender struct {
	to      []string
	bodies  []string
	sendErr error
}

func (f *fakeSender) Send(ctx context.Context, to, subject, body string) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.to = append(f.to, to)
	f.bodies = append(f.bodies, body)
	return nil
}

type sellersFixture struct {
	*paymentsFixture
	sellers *sellers.Store
	admins  *sellers.AdminStore
	mail    *fakeSender
}

func newSellersFixture(t *testing.T) *sellersFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := awstest.NewMockDynamo()
	db.AddTable("sellers", "seller_id")
	db.AddTable("admins", "admin_id")

	f := &sellersFixture{
		paymentsFixture: &paymentsFixture{db: db},
		sellers:         sellers.NewStore(db, "sellers"),
		admins:          sellers.NewAdminStore(db, "admins"),
		mail:            &fakeSender{},
	}

	f.router = gin.New()
	RegisterSellerRoutes(f.router, SellersConfig{
		Sellers:      f.sellers,
		Admins:       f.admins,
		Mailer:       f.mail,
		JWTSecret:    testJWTSecret,
		ResetBaseURL: "https://shop.test/reset-password",
	})
	return f
}

func signupBody(email string) map[string]interface{} {
	return map[string]interface{}{
		"personal_details": map[string]interface{}{
			"full_name":    "Asha Rao",
			"email":        email,
			"phone_number": "9876543210",
			"address":      "12 Residency Road, Bengaluru",
			"password":     "s3cret-password",
		},
		"business_details": map[string]interface{}{
			"business_name":  "Rao Traders",
			"business_type":  "Proprietorship",
			"brand_name":     "RaoMart",
			"business_phone": "08012345678",
			"business_email": "biz@raomart.test",
			"gst_number":     "29ABCDE1234F1Z5",
		},
		"bank_details": map[string]interface{}{
			"account_number": "123456789012",
			"bank_name":      "State Bank",
			"ifsc_code":      "SBIN0001234",
		},
	}
}

func TestSellerSignupAndSignin(t *testing.T) {
	f := newSellersFixture(t)

	w := f.do(t, http.MethodPost, "/api/users/submit-form", signupBody("asha@raomart.test"), nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("signup status = %d, body %s", w.Code, w.Body.String())
	}

	// the stored hash must verify the plaintext and never appear in JSON
	stored, err := f.sellers.GetByEmail(context.Background(), "asha@raomart.test")
	if err != nil || stored == nil {
		t.Fatalf("seller not persisted: %v", err)
	}
	if !auth.CheckPassword(stored.PersonalDetails.PasswordHash, "s3cret-password") {
		t.Errorf("stored hash does not verify the password")
	}

	// duplicate email
	w = f.do(t, http.MethodPost, "/api/users/submit-form", signupBody("asha@raomart.test"), nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("duplicate signup status = %d, want 400", w.Code)
	}

	// wrong password
	w = f.do(t, http.MethodPost, "/api/users/signin", map[string]interface{}{
		"email": "asha@raomart.test", "password": "wrong",
	}, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("wrong password status = %d, want 400", w.Code)
	}

	// correct password yields a seller token that passes the middleware
	w = f.do(t, http.MethodPost, "/api/users/signin", map[string]interface{}{
		"email": "asha@raomart.test", "password": "s3cret-password",
	}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("signin status = %d, body %s", w.Code, w.Body.String())
	}
	token, _ := decodeBody(t, w)["token"].(string)
	if token == "" {
		t.Fatalf("signin response has no token")
	}

	w = f.do(t, http.MethodGet, "/api/users/user-info", nil, map[string]string{"Authorization": "Bearer " + token})
	if w.Code != http.StatusOK {
		t.Fatalf("user-info status = %d, body %s", w.Code, w.Body.String())
	}
	if strings.Contains(w.Body.String(), "password_hash") || strings.Contains(w.Body.String(), "s3cret-password") {
		t.Errorf("user-info leaks password material")
	}
}

func TestSigninFallsBackToAdmins(t *testing.T) {
	f := newSellersFixture(t)

	hash, err := auth.HashPassword("admin-password")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	err = f.admins.Create(context.Background(), sellers.Admin{
		AdminID: "admin-1", Email: "ops@loopxpress.test", Name: "Ops", PasswordHash: hash,
	})
	if err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	w := f.do(t, http.MethodPost, "/api/users/signin", map[string]interface{}{
		"email": "ops@loopxpress.test", "password": "admin-password",
	}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("admin signin status = %d, body %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["message"] != "Admin login successful" {
		t.Errorf("message = %q", body["message"])
	}

	token, _ := body["token"].(string)
	claims, err := auth.ParseToken(testJWTSecret, token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.Role != auth.RoleAdmin {
		t.Errorf("role = %q, want %q", claims.Role, auth.RoleAdmin)
	}
}

func TestForgotAndResetPassword(t *testing.T) {
	f := newSellersFixture(t)
	ctx := context.Background()

	w := f.do(t, http.MethodPost, "/api/users/submit-form", signupBody("asha@raomart.test"), nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("signup status = %d", w.Code)
	}

	// unknown email
	w = f.do(t, http.MethodPost, "/api/users/forgot-password", map[string]interface{}{"email": "nobody@raomart.test"}, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown email status = %d, want 404", w.Code)
	}

	w = f.do(t, http.MethodPost, "/api/users/forgot-password", map[string]interface{}{"email": "asha@raomart.test"}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("forgot-password status = %d, body %s", w.Code, w.Body.String())
	}
	if len(f.mail.to) != 1 || f.mail.to[0] != "asha@raomart.test" {
		t.Fatalf("reset mail recipients = %v", f.mail.to)
	}

	stored, err := f.sellers.GetByEmail(ctx, "asha@raomart.test")
	if err != nil || stored == nil {
		t.Fatalf("seller lookup: %v", err)
	}
	token := stored.ResetToken
	if len(token) != 64 {
		t.Fatalf("reset token length = %d, want 64 hex chars", len(token))
	}
	if !strings.Contains(f.mail.bodies[0], token) {
		t.Errorf("reset mail does not carry the token link")
	}

	// token probe
	w = f.do(t, http.MethodGet, "/api/users/reset-password/"+token, nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("token probe status = %d", w.Code)
	}
	w = f.do(t, http.MethodGet, "/api/users/reset-password/deadbeef", nil, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bogus token probe status = %d, want 400", w.Code)
	}

	w = f.do(t, http.MethodPost, "/api/users/reset-password/"+token, map[string]interface{}{
		"new_password": "brand-new-password",
	}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("reset status = %d, body %s", w.Code, w.Body.String())
	}

	// the token is single-use
	w = f.do(t, http.MethodPost, "/api/users/reset-password/"+token, map[string]interface{}{
		"new_password": "another-password",
	}, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("token reuse status = %d, want 400", w.Code)
	}

	// old password rejected, new one accepted
	w = f.do(t, http.MethodPost, "/api/users/signin", map[string]interface{}{
		"email": "asha@raomart.test", "password": "s3cret-password",
	}, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("old password still works: %d", w.Code)
	}
	w = f.do(t, http.MethodPost, "/api/users/signin", map[string]interface{}{
		"email": "asha@raomart.test", "password": "brand-new-password",
	}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("new password signin status = %d, body %s", w.Code, w.Body.String())
	}
}
