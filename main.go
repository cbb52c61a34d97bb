package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/utils"

	"qurban_backend/internals/configs"
	database "qurban_backend/internals/databases"
	emailService "qurban_backend/internals/features/notifications/email/service"
	midtransService "qurban_backend/internals/features/payment/midtrans/service"
	mudhohiService "qurban_backend/internals/features/qurban/mudhohi/service"
	qrService "qurban_backend/internals/features/qurban/qrcode/service"
	realtime "qurban_backend/internals/features/realtime/service"
	authService "qurban_backend/internals/features/users/auth/service"
	middlewares "qurban_backend/internals/middlewares"
	routes "qurban_backend/internals/route"
	"qurban_backend/internals/seeds"
)

func main() {
	configs.LoadEnv()

	app := fiber.New(fiber.Config{
		// 🚀 JSON super cepat
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		DisableStartupMessage:   true,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"},
		BodyLimit:               8 * 1024 * 1024, // import sheet bisa besar
	})

	// ⚙️ middleware dasar + performa
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())

	// 🔎 Request-ID + timeout (selaras dengan statement_timeout di DB)
	reqTimeout := configs.GetEnvDuration("REQUEST_TIMEOUT", 15*time.Second)
	app.Use(func(c *fiber.Ctx) error {
		id := c.Get("X-Request-ID")
		if id == "" {
			id = utils.UUID()
		}
		c.Set("X-Request-ID", id)
		c.Locals("reqid", id)
		if c.Path() == "/ws" {
			return c.Next()
		}
		ctx, cancel := context.WithTimeout(c.Context(), reqTimeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	})

	middlewares.SetupMiddlewares(app)

	// 🔌 DB connect + pool + migrasi + warm-up
	database.ConnectDB()
	database.TunePool()
	if configs.GetEnvBool("DB_AUTO_MIGRATE", true) {
		if err := database.Migrate(database.DB); err != nil {
			log.Fatalf("❌ %v", err)
		}
	}
	if configs.GetEnvBool("DB_SEED", false) {
		if err := seeds.RunAllSeeds(database.DB, configs.GetEnv("SEED_DIR", "internals/seeds")); err != nil {
			log.Fatalf("❌ %v", err)
		}
	}
	database.WarmUpQueries()
	database.ConnectRedis()

	rootCtx, stopRoot := context.WithCancel(context.Background())
	defer stopRoot()

	// 📡 realtime: hub lokal, di-bridge lewat Redis kalau ada
	hub := realtime.NewHub()
	publisher := realtime.NewPublisher(rootCtx, database.Redis, hub)

	// ✉️ email + outbox
	notifier := emailService.NewSMTPNotifierFromEnv()
	dispatcher := emailService.NewDispatcher(database.DB, notifier, configs.GetEnvInt("OUTBOX_MAX_ATTEMPTS", 5))
	outboxCron, err := emailService.StartOutboxScheduler(dispatcher, configs.GetEnv("OUTBOX_CRON", "@every 1m"), configs.GetEnvInt("OUTBOX_BATCH", 50))
	if err != nil {
		log.Fatalf("❌ outbox scheduler: %v", err)
	}

	var resendStore emailService.KeyedStore = emailService.NewMemoryStore()
	if database.Redis != nil {
		resendStore = emailService.NewRedisStore(database.Redis)
	}

	// 🧾 QR code
	qrDir := configs.GetEnv("QR_LOCAL_DIR", "./public/qr-codes")
	qr := qrService.NewQRService(
		qrService.NewStoreFromEnv(qrDir, configs.AppBaseURL+"/qr-codes"),
		configs.AppBaseURL,
	)

	// ✅ MIDTRANS
	serverKey := configs.GetEnv("MIDTRANS_SERVER_KEY")
	snap := midtransService.NewSnapGateway(serverKey, configs.GetEnvBool("MIDTRANS_USE_PROD", false))

	order := mudhohiService.NewOrderService(database.DB, qr, dispatcher, publisher)
	order.DeliverAsync = true
	order.Resend = emailService.NewResendLimiter(resendStore, int64(configs.GetEnvInt("RESEND_MAX_PER_HOUR", 5)), time.Hour)
	if snap != nil {
		order.Snap = snap
	}
	if configs.GoogleClientID != "" {
		order.Verifier = authService.NewGoogleVerifier(configs.GoogleClientID)
	}
	payment := mudhohiService.NewPaymentService(database.DB, serverKey, publisher)

	// ✅ Routes
	routes.SetupRoutes(app, routes.Deps{
		DB:        database.DB,
		Hub:       hub,
		Publisher: publisher,
		Order:     order,
		Payment:   payment,
		QRDir:     qrDir,
	})

	// 🔒 Keep-Alive & timeout koneksi server
	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	port := configs.GetEnv("PORT", "3000")

	go func() {
		log.Printf("✅ Listening on :%s", port)
		if err := app.Listen("0.0.0.0:" + port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown: HTTP → cron → redis → DB
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	select {
	case <-outboxCron.Stop().Done():
	case <-ctx.Done():
	}
	stopRoot()
	database.CloseRedis()
	database.Close()
}
