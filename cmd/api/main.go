package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"staybook/internal/config"
	"staybook/internal/database"
	"staybook/internal/middleware"
	"staybook/internal/modules/admin"
	"staybook/internal/modules/auth"
	"staybook/internal/modules/booking"
	"staybook/internal/modules/catalog"
	"staybook/internal/modules/feed"
	"staybook/internal/modules/payment"
	"staybook/internal/modules/tenant"
	"staybook/internal/pkg/crypto"
	jwtsvc "staybook/internal/pkg/jwt"
	"staybook/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}

	cipher, err := crypto.New(cfg.EncryptionKey)
	if err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	propertyRepo := repository.NewPropertyRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	supplyRepo := repository.NewSupplyRepository(db)
	settingRepo := repository.NewSettingRepository(db)
	tenantRepo := repository.NewTenantRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	hub := feed.NewHub()
	defer hub.Close()
	events := feed.NewPublisher(hub)

	var providers []payment.Provider
	if cfg.Stripe.Configured() {
		providers = append(providers, payment.NewStripeProvider(cfg.Stripe))
	}
	if cfg.PayPal.Configured() {
		providers = append(providers, payment.NewPayPalProvider(cfg.PayPal))
	}
	if cfg.Webpay.Configured() {
		providers = append(providers, payment.NewWebpayProvider(cfg.Webpay))
	}
	registry := payment.NewRegistry(providers...)

	authService := auth.NewService(userRepo, j)
	authHandler := auth.NewHandler(authService)

	catalogService := catalog.NewService(propertyRepo)
	catalogHandler := catalog.NewHandler(catalogService)

	bookingService := booking.NewService(bookingRepo, propertyRepo, events, log.Printf)
	bookingHandler := booking.NewHandler(bookingService)

	paymentService := payment.NewService(registry, paymentRepo, bookingRepo, events, log.Printf)
	paymentHandler := payment.NewHandler(paymentService, cfg.Currency, log.Printf)

	adminService := admin.NewService(userRepo, settingRepo, supplyRepo, propertyRepo, bookingRepo, cipher, log.Printf)
	adminHandler := admin.NewHandler(adminService)

	tenantService := tenant.NewService(tenantRepo, settingRepo, tenant.MasterConfig{
		CompanyName: "StayBook",
		Currency:    cfg.Currency,
		Providers: tenant.PaymentsConfig{
			StripeEnabled: cfg.Stripe.Configured(),
			PayPalEnabled: cfg.PayPal.Configured(),
			WebpayEnabled: cfg.Webpay.Configured(),
		},
	}, log.Printf)
	tenantHandler := tenant.NewHandler(tenantService)

	feedHandler := feed.NewHandler(hub, cfg.FrontendURL, log.Printf)

	r := gin.Default()
	r.Use(middleware.ErrorLogger())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Stripe-Signature"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.DetectTenant(tenantRepo))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	{
		authHandler.RegisterPublicRoutes(v1)
		catalogHandler.RegisterPublicRoutes(v1)
		bookingHandler.RegisterPublicRoutes(v1)
		paymentHandler.RegisterPublicRoutes(v1)
		tenantHandler.RegisterPublicRoutes(v1)

		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(j))
		{
			authHandler.RegisterProtectedRoutes(protected)
			bookingHandler.RegisterProtectedRoutes(protected)
			paymentHandler.RegisterProtectedRoutes(protected)

			bookingHandler.RegisterAdminRoutes(protected)
			catalogHandler.RegisterAdminRoutes(protected)
			paymentHandler.RegisterAdminRoutes(protected)
			adminHandler.RegisterAdminRoutes(protected)
			tenantHandler.RegisterAdminRoutes(protected)
			feedHandler.RegisterAdminRoutes(protected)
		}
	}

	log.Printf("listening on :%s env=%s", cfg.Port, cfg.AppEnv)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
