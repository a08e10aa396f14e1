package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
	"github.com/loopxpress/backend/internal/aws"
	"github.com/loopxpress/backend/internal/consumers"
	"github.com/loopxpress/backend/internal/gateway"
	"github.com/loopxpress/backend/internal/gst"
	"github.com/loopxpress/backend/internal/handlers"
	"github.com/loopxpress/backend/internal/inventory"
	"github.com/loopxpress/backend/internal/mailer"
	"github.com/loopxpress/backend/internal/orders"
	"github.com/loopxpress/backend/internal/payments"
	"github.com/loopxpress/backend/internal/products"
	"github.com/loopxpress/backend/internal/sellers"
)

func corsMiddleware(allowed []string) gin.HandlerFunc {
	allowedSet := make(map[string]bool, len(allowed))
	for _, origin := range allowed {
		allowedSet[strings.TrimSpace(origin)] = true
	}
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && allowedSet[origin] {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func setupRouter(clients *aws.AWSClients, gw gateway.OrderCreator, gatewayKeyID, gatewaySecret string, mailSender mailer.Sender) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		r.Use(corsMiddleware(strings.Split(origins, ",")))
	}

	// health
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	db := clients.DynamoDB
	orderStore := orders.NewStore(db, tableName("ORDERS_TABLE", "orders"))
	paymentStore := payments.NewStore(db, tableName("PAYMENTS_TABLE", "payments"))
	sellerStore := sellers.NewStore(db, tableName("SELLERS_TABLE", "sellers"))
	adminStore := sellers.NewAdminStore(db, tableName("ADMINS_TABLE", "admins"))
	consumerStore := consumers.NewStore(db, tableName("CONSUMERS_TABLE", "consumers"))
	productStore := products.NewStore(db, tableName("PRODUCTS_TABLE", "products"))
	inventoryStore := inventory.NewStore(db, tableName("INVENTORY_TABLE", "inventory"))

	var publisher *aws.Publisher
	if queueURL := os.Getenv("ORDERS_QUEUE_URL"); queueURL != "" {
		publisher = aws.NewPublisher(clients.SQS, queueURL)
	}

	var uploader *aws.Uploader
	if bucket := os.Getenv("PRODUCT_IMAGES_BUCKET"); bucket != "" {
		uploader = aws.NewUploader(clients.S3, bucket, aws.Region())
	}

	handlers.RegisterPaymentRoutes(r, handlers.PaymentsConfig{
		Gateway:       gw,
		GatewayKeyID:  gatewayKeyID,
		GatewaySecret: gatewaySecret,
		Orders:        orderStore,
		Payments:      paymentStore,
		Events:        publisher,
		JWTSecret:     jwtSecret,
	})
	handlers.RegisterOrderRoutes(r, handlers.OrdersConfig{Orders: orderStore})
	handlers.RegisterSellerRoutes(r, handlers.SellersConfig{
		Sellers:      sellerStore,
		Admins:       adminStore,
		Mailer:       mailSender,
		JWTSecret:    jwtSecret,
		ResetBaseURL: strings.TrimRight(os.Getenv("FRONTEND_URL"), "/") + "/reset-password",
	})
	handlers.RegisterConsumerRoutes(r, handlers.ConsumersConfig{
		Consumers: consumerStore,
		JWTSecret: jwtSecret,
	})
	handlers.RegisterProductRoutes(r, handlers.ProductsConfig{
		Products:  productStore,
		Uploader:  uploader,
		JWTSecret: jwtSecret,
	})
	handlers.RegisterInventoryRoutes(r, handlers.InventoryConfig{
		Inventory: inventoryStore,
		Products:  productStore,
		JWTSecret: jwtSecret,
	})
	handlers.RegisterGSTRoutes(r, handlers.GSTConfig{
		Sellers:  sellerStore,
		Verifier: gst.NewVerifier(nil, os.Getenv("GST_API_HOST"), os.Getenv("GST_API_KEY")),
	})
	handlers.RegisterAdminRoutes(r, handlers.AdminConfig{
		Admins:    adminStore,
		Sellers:   sellerStore,
		JWTSecret: jwtSecret,
	})

	return r
}

func tableName(envVar, fallback string) string {
	if v := os.Getenv(envVar); v != "" {
		return v
	}
	return fallback
}

func newMailSender() mailer.Sender {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		log.Print("SMTP_HOST not set, password reset emails disabled")
		return nil
	}
	port := 587
	if v := os.Getenv("SMTP_PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			log.Fatalf("invalid SMTP_PORT: %v", err)
		}
		port = p
	}
	sender, err := mailer.NewSMTPSender(host, port, os.Getenv("SMTP_USERNAME"), os.Getenv("SMTP_PASSWORD"), os.Getenv("SMTP_FROM"))
	if err != nil {
		log.Fatalf("failed to init smtp sender: %v", err)
	}
	return sender
}

func main() {
	clients, err := aws.NewAWSClients(context.Background())
	if err != nil {
		log.Fatalf("failed to init aws clients: %v", err)
	}

	keyID := os.Getenv("RAZORPAY_API_KEY")
	keySecret := os.Getenv("RAZORPAY_API_SECRET")
	if keyID == "" || keySecret == "" {
		log.Fatal("RAZORPAY_API_KEY and RAZORPAY_API_SECRET are required")
	}
	gw := gateway.NewClient(keyID, keySecret)

	r := setupRouter(clients, gw, keyID, keySecret, newMailSender())

	// if environment variable RUN_LOCAL is set to "true", run local HTTP server for development.
	if os.Getenv("RUN_LOCAL") == "true" {
		addr := ":8080"
		log.Printf("running local server on %s", addr)
		if err := r.Run(addr); err != nil {
			log.Fatalf("failed to run local server: %v", err)
		}
		return
	}

	// lambda adapter
	adapter := ginadapter.New(r)

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (interface{}, error) {
		// the adapter handles proxying; use adapter.ProxyWithContext for proper context propagation
		return adapter.ProxyWithContext(ctx, req)
	})
}
