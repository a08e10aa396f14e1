package handlers

import (
	"context"
	"log"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/loopxpress/backend/internal/auth"
	"github.com/loopxpress/backend/internal/aws"
	"github.com/loopxpress/backend/internal/gateway"
	"github.com/loopxpress/backend/internal/orders"
	"github.com/loopxpress/backend/internal/payments"
	"github.com/loopxpress/backend/internal/validation"
)

// maxCheckoutAmount is the checkout ceiling in major currency units.
const maxCheckoutAmount = 1_000_000

// PaymentsConfig groups dependencies for the checkout and verification handlers.
// The gateway client is constructed in main and injected here; there is no
// process-wide instance.
type PaymentsConfig struct {
	Gateway       gateway.OrderCreator
	GatewayKeyID  string
	GatewaySecret string
	Orders        *orders.Store
	Payments      *payments.Store
	Events        *aws.Publisher
	JWTSecret     string
}

type paymentsHandler struct {
	cfg PaymentsConfig
	v   *validatorv10.Validate
}

// RegisterPaymentRoutes registers the /api/payment surface.
func RegisterPaymentRoutes(r *gin.Engine, cfg PaymentsConfig) {
	h := &paymentsHandler{cfg: cfg, v: validation.New()}

	grp := r.Group("/api/payment")
	grp.POST("/checkout", h.checkout)
	grp.POST("/paymentVerification", h.paymentVerification)
	grp.POST("/createOrderRequest", h.createOrderRequest)
	grp.PUT("/approveOrder/:orderId", auth.Require(cfg.JWTSecret, auth.RoleAdmin), h.approveOrder)
	grp.PUT("/rejectOrder/:orderId", auth.Require(cfg.JWTSecret, auth.RoleAdmin), h.rejectOrder)
	grp.GET("/order/:orderId", h.getOrderByID)

	r.GET("/api/getkey", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"key": cfg.GatewayKeyID})
	})
}

// checkout validates the requested amount, mints a gateway order and returns
// it. In the approval-gated variant (order_id present) the referenced order
// must be Approved, and the minted gateway order id is written back onto it.
func (h *paymentsHandler) checkout(c *gin.Context) {
	ctx := c.Request.Context()

	var req validation.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Amount <= 0 {
		badRequest(c, "Amount is required")
		return
	}
	if req.Amount > maxCheckoutAmount {
		badRequest(c, "Amount exceeds the maximum allowed value of ₹10,00,000")
		return
	}

	if req.OrderID != "" {
		order, err := h.cfg.Orders.Get(ctx, req.OrderID)
		if err != nil {
			serverError(c, "checkout", err)
			return
		}
		if order == nil {
			notFound(c, "Order not found")
			return
		}
		if order.ApprovalStatus != orders.ApprovalApproved {
			badRequest(c, "Order is not approved for checkout")
			return
		}
	}

	amountMinor := int64(math.Round(req.Amount * 100))
	gwOrder, err := h.cfg.Gateway.CreateOrder(ctx, amountMinor, "INR", "")
	if err != nil {
		serverError(c, "checkout", err)
		return
	}

	if req.OrderID != "" {
		if err := h.cfg.Orders.SetGatewayOrderID(ctx, req.OrderID, gwOrder.ID); err != nil {
			serverError(c, "checkout", err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "order": gwOrder})
}

// paymentVerification recomputes the gateway signature over the submitted
// order/payment id pair and, only on a match, persists one Payment plus the
// order documents. All required-field checks happen before the HMAC step and
// any write; nothing is persisted on a mismatch.
func (h *paymentsHandler) paymentVerification(c *gin.Context) {
	ctx := c.Request.Context()

	var req validation.VerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid payment data")
		return
	}
	if req.GatewayOrderID == "" || req.GatewayPaymentID == "" || req.GatewaySignature == "" ||
		req.Amount <= 0 || req.Currency == "" || (len(req.Items) == 0 && req.OrderID == "") {
		badRequest(c, "Invalid payment data")
		return
	}

	if !gateway.VerifySignature(h.cfg.GatewaySecret, req.GatewayOrderID, req.GatewayPaymentID, req.GatewaySignature) {
		badRequest(c, "Payment verification failed")
		return
	}

	payment := payments.Payment{
		GatewayPaymentID: req.GatewayPaymentID,
		GatewayOrderID:   req.GatewayOrderID,
		GatewaySignature: req.GatewaySignature,
		Amount:           req.Amount,
		Currency:         req.Currency,
		Status:           payments.StatusSuccess,
	}
	if err := h.cfg.Payments.Create(ctx, payment); err != nil {
		serverError(c, "paymentVerification", err)
		return
	}

	var orderIDs []string
	if req.OrderID != "" {
		// single-order variant: attach the payment to the referenced order
		err := h.cfg.Orders.AttachPayment(ctx, req.OrderID, req.GatewayOrderID, req.GatewayPaymentID, req.GatewaySignature, req.GatewayPaymentID)
		if err == orders.ErrNotFound {
			notFound(c, "Order not found")
			return
		}
		if err != nil {
			serverError(c, "paymentVerification", err)
			return
		}
		orderIDs = append(orderIDs, req.OrderID)
	} else {
		// one order document per complete line item; items missing required
		// fields are skipped, not rejected
		for _, item := range req.Items {
			if !item.Complete() {
				continue
			}
			order := orders.Order{
				OrderID:          uuid.NewString(),
				GatewayOrderID:   req.GatewayOrderID,
				GatewayPaymentID: req.GatewayPaymentID,
				GatewaySignature: req.GatewaySignature,
				PaymentID:        req.GatewayPaymentID,
				Amount:           req.Amount,
				DiscountedPrice:  item.DiscountedPrice,
				Currency:         req.Currency,
				Title:            item.Title,
				Brand:            item.Brand,
				Category:         item.Category,
				Subcategory:      item.Subcategory,
				Status:           orders.StatusPlaced,
			}
			if err := h.cfg.Orders.Create(ctx, order); err != nil {
				serverError(c, "paymentVerification", err)
				return
			}
			orderIDs = append(orderIDs, order.OrderID)
		}
	}

	h.publishOrderPlaced(ctx, req, orderIDs)

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "Payment verified successfully",
		"payment_id": req.GatewayPaymentID,
		"order_id":   req.GatewayOrderID,
	})
}

// publishOrderPlaced emits the order event best-effort: the payment is
// already persisted, so a queue failure is logged rather than surfaced.
func (h *paymentsHandler) publishOrderPlaced(ctx context.Context, req validation.VerificationRequest, orderIDs []string) {
	if h.cfg.Events == nil {
		return
	}
	ev := aws.OrderPlacedEvent{
		GatewayOrderID:   req.GatewayOrderID,
		GatewayPaymentID: req.GatewayPaymentID,
		OrderIDs:         orderIDs,
		Amount:           req.Amount,
		Currency:         req.Currency,
		ItemCount:        len(orderIDs),
	}
	if err := h.cfg.Events.PublishOrderPlaced(ctx, ev); err != nil {
		log.Printf("[paymentVerification] publish order event: %v", err)
	}
}

// createOrderRequest creates Pending pre-authorization orders, one per item,
// with no payment fields attached.
func (h *paymentsHandler) createOrderRequest(c *gin.Context) {
	ctx := c.Request.Context()

	var req validation.OrderRequest
	if err := validation.BindAndValidate(c, &req, h.v); err != nil {
		return
	}

	created := make([]orders.Order, 0, len(req.Items))
	for _, item := range req.Items {
		order := orders.Order{
			OrderID:         uuid.NewString(),
			Amount:          req.Amount,
			DiscountedPrice: item.DiscountedPrice,
			Currency:        "INR",
			Title:           item.Title,
			Brand:           item.Brand,
			Category:        item.Category,
			Subcategory:     item.Subcategory,
			Status:          orders.StatusPlaced,
			ApprovalStatus:  orders.ApprovalPending,
			Address:         req.Address,
		}
		if err := h.cfg.Orders.Create(ctx, order); err != nil {
			serverError(c, "createOrderRequest", err)
			return
		}
		created = append(created, order.Sanitized())
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "orders": created})
}

func (h *paymentsHandler) approveOrder(c *gin.Context) {
	h.updateApproval(c, orders.ApprovalApproved)
}

func (h *paymentsHandler) rejectOrder(c *gin.Context) {
	h.updateApproval(c, orders.ApprovalRejected)
}

func (h *paymentsHandler) updateApproval(c *gin.Context, approval string) {
	order, err := h.cfg.Orders.UpdateApproval(c.Request.Context(), c.Param("orderId"), approval)
	if err == orders.ErrNotFound {
		notFound(c, "Order not found")
		return
	}
	if err != nil {
		serverError(c, "updateApproval", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "order": order.Sanitized()})
}

func (h *paymentsHandler) getOrderByID(c *gin.Context) {
	order, err := h.cfg.Orders.Get(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		serverError(c, "getOrderById", err)
		return
	}
	if order == nil {
		notFound(c, "Order not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "order": order.Sanitized()})
}
