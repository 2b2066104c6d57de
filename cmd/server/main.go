package main

import (
	"crypto/subtle"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"syscall"
	"time"

	"revenda/internal/config"
	"revenda/internal/database"
	"revenda/internal/handlers"
	"revenda/internal/i18n"
	"revenda/internal/middleware"
	"revenda/internal/repository"
	"revenda/internal/service"

	"github.com/gin-gonic/gin"
	"golang.org/x/term"
)

func main() {
	// CLI flags
	resetPassword := flag.Bool("reset-password", false, "Reset operator password (interactive or with --new-password)")
	newPassword := flag.String("new-password", "", "New password for operator (non-interactive, use with --reset-password)")
	disableAuth := flag.Bool("disable-auth", false, "Disable authentication, keeping credentials")
	flag.Parse()

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Initialize(cfg.DatabasePath)
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}

	// Run database migrations
	err = database.RunMigrations(db)
	if err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// Initialize repositories
	customerRepo := repository.NewCustomerRepository(db)
	serverRepo := repository.NewServerRepository(db)
	planRepo := repository.NewPlanRepository(db)
	renewalRepo := repository.NewRenewalRepository(db)
	additionRepo := repository.NewManualAdditionRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	// Initialize i18n service
	i18nService := i18n.NewI18nService()

	// Initialize services
	settingsService := service.NewSettingsService(settingsRepo)
	renewalService := service.NewRenewalService(customerRepo, serverRepo, planRepo, renewalRepo, additionRepo)
	aggregationService := service.NewAggregationService(customerRepo, serverRepo, planRepo, renewalRepo, additionRepo)
	messageService := service.NewMessageService(settingsService, customerRepo)
	shoutrrrService := service.NewShoutrrrService(settingsService, i18nService)
	importerService := service.NewImporterService(serverRepo, planRepo, renewalService)
	backupService := service.NewBackupService(db, customerRepo, serverRepo, planRepo, renewalRepo, additionRepo)
	authService := service.NewAuthService(settingsService, settingsRepo)

	// Handle CLI commands (run before starting HTTP server)
	if *disableAuth {
		handleDisableAuth(authService)
		return
	}

	if *resetPassword {
		handleResetPassword(authService, *newPassword)
		return
	}

	// Initialize session service (get or generate session secret)
	sessionSecret, err := authService.GetOrGenerateSessionSecret()
	if err != nil {
		log.Fatal("Failed to initialize session secret:", err)
	}
	sessionService := service.NewSessionService(sessionSecret)

	csrfSecret, err := authService.GetOrGenerateCSRFSecret()
	if err != nil {
		log.Fatal("Failed to initialize CSRF secret:", err)
	}

	// Initialize handlers
	customerHandler := handlers.NewCustomerHandler(customerRepo, renewalService)
	serverHandler := handlers.NewServerHandler(serverRepo, aggregationService)
	planHandler := handlers.NewPlanHandler(planRepo)
	ledgerHandler := handlers.NewLedgerHandler(renewalRepo, additionRepo, renewalService)
	dashboardHandler := handlers.NewDashboardHandler(customerRepo, aggregationService)
	reportHandler := handlers.NewReportHandler(aggregationService)
	notificationHandler := handlers.NewNotificationHandler(customerRepo, aggregationService, messageService)
	importExportHandler := handlers.NewImportExportHandler(customerRepo, serverRepo, planRepo, importerService, backupService)
	authHandler := handlers.NewAuthHandler(authService, sessionService)
	settingsHandler := handlers.NewSettingsHandler(settingsService, shoutrrrService, i18nService)

	// Setup Gin router
	if cfg.Environment == "production" || cfg.Environment == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// Health check endpoint with database connectivity check
	router.GET("/healthz", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  "database connection unavailable",
			})
			return
		}

		if err := sqlDB.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  "database ping failed",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
		})
	})

	// Apply middleware
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	router.Use(rateLimiter.Middleware())
	router.Use(middleware.CSRFMiddleware(csrfSecret, cfg.Environment == "production"))
	router.Use(middleware.AuthMiddleware(authService, sessionService))
	router.Use(middleware.I18nMiddleware(i18nService, settingsService))

	// Routes
	setupRoutes(router, customerHandler, serverHandler, planHandler, ledgerHandler, dashboardHandler, reportHandler, notificationHandler, importExportHandler, authHandler, settingsHandler)

	// Start daily reminder digest scheduler
	go startReminderDigestScheduler(aggregationService, shoutrrrService)

	log.Printf("Revenda server starting on port %s", cfg.Port)
	log.Fatal(router.Run(":" + cfg.Port))
}

func setupRoutes(
	router *gin.Engine,
	customerHandler *handlers.CustomerHandler,
	serverHandler *handlers.ServerHandler,
	planHandler *handlers.PlanHandler,
	ledgerHandler *handlers.LedgerHandler,
	dashboardHandler *handlers.DashboardHandler,
	reportHandler *handlers.ReportHandler,
	notificationHandler *handlers.NotificationHandler,
	importExportHandler *handlers.ImportExportHandler,
	authHandler *handlers.AuthHandler,
	settingsHandler *handlers.SettingsHandler,
) {
	api := router.Group("/api")
	{
		// Customer routes
		api.GET("/customers", customerHandler.List)
		api.POST("/customers", customerHandler.Create)
		api.GET("/customers/:id", customerHandler.Get)
		api.PUT("/customers/:id", customerHandler.Update)
		api.DELETE("/customers/:id", customerHandler.Delete)
		api.POST("/customers/:id/renew", customerHandler.Renew)

		// Server routes
		api.GET("/servers", serverHandler.List)
		api.POST("/servers", serverHandler.Create)
		api.PUT("/servers/:id", serverHandler.Update)
		api.DELETE("/servers/:id", serverHandler.Delete)
		api.GET("/servers/stats", serverHandler.Stats)
		api.GET("/servers/profit", serverHandler.Profits)

		// Plan routes
		api.GET("/plans", planHandler.List)
		api.POST("/plans", planHandler.Create)
		api.PUT("/plans/:id", planHandler.Update)
		api.DELETE("/plans/:id", planHandler.Delete)

		// Ledger routes
		api.GET("/renewals", ledgerHandler.Renewals)
		api.GET("/manual-additions", ledgerHandler.ManualAdditions)
		api.POST("/manual-additions", ledgerHandler.CreateManualAddition)

		// Dashboard and reports
		api.GET("/dashboard", dashboardHandler.Dashboard)
		api.GET("/totals", dashboardHandler.Totals)
		api.GET("/expiring", dashboardHandler.Expiring)
		api.GET("/reports/monthly", reportHandler.Monthly)

		// Notification routes
		api.GET("/notifications", notificationHandler.Pending)
		api.GET("/notifications/:id/preview", notificationHandler.Preview)
		api.POST("/notifications/:id/send", notificationHandler.Send)

		// Import, export and backup routes
		api.POST("/import/csv", importExportHandler.ImportCSV)
		api.GET("/export/csv", importExportHandler.ExportCSV)
		api.GET("/backup", importExportHandler.ExportBackup)
		api.POST("/backup/restore", importExportHandler.RestoreBackup)

		// Settings routes
		api.GET("/settings", settingsHandler.Get)
		api.PUT("/settings", settingsHandler.Update)
		api.POST("/settings/template/preview", settingsHandler.PreviewTemplate)
		api.POST("/settings/notifications/test", settingsHandler.TestNotification)

		// Auth routes
		api.GET("/auth/status", authHandler.Status)
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/logout", authHandler.Logout)
		api.POST("/auth/setup", authHandler.Setup)
		api.POST("/auth/disable", authHandler.Disable)
	}
}

// startReminderDigestScheduler runs a daily check that pushes one Shoutrrr
// digest listing the customers due for a WhatsApp reminder.
func startReminderDigestScheduler(aggregationService *service.AggregationService, shoutrrrService *service.ShoutrrrService) {
	// Run once shortly after startup
	go func() {
		time.Sleep(30 * time.Second)
		checkAndSendReminderDigest(aggregationService, shoutrrrService)
	}()

	ticker := time.NewTicker(24 * time.Hour)
	go func() {
		defer ticker.Stop()
		for range ticker.C {
			// Recover from any panics in the check to keep the scheduler running
			func() {
				defer func() {
					if r := recover(); r != nil {
						log.Printf("Panic in reminder digest check: %v", r)
					}
				}()
				checkAndSendReminderDigest(aggregationService, shoutrrrService)
			}()
		}
	}()
}

func checkAndSendReminderDigest(aggregationService *service.AggregationService, shoutrrrService *service.ShoutrrrService) {
	pending, err := aggregationService.PendingNotifications()
	if err != nil {
		log.Printf("Error collecting customers for reminder digest: %v", err)
		return
	}

	if len(pending) == 0 {
		log.Printf("No customers need reminders today")
		return
	}

	if err := shoutrrrService.SendReminderDigest(pending); err != nil {
		log.Printf("Error sending reminder digest: %v", err)
		return
	}
	log.Printf("Sent reminder digest for %d customer(s)", len(pending))
}

// handleResetPassword handles the --reset-password CLI command
func handleResetPassword(authService *service.AuthService, newPassword string) {
	var password string

	if newPassword != "" {
		// Non-interactive mode
		password = newPassword
	} else {
		// Interactive mode - prompt for password
		fmt.Print("Enter new operator password: ")
		passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
		if err != nil {
			log.Fatal("Failed to read password:", err)
		}
		fmt.Println()

		fmt.Print("Confirm password: ")
		confirmBytes, err := term.ReadPassword(int(syscall.Stdin))
		if err != nil {
			log.Fatal("Failed to read confirmation:", err)
		}
		fmt.Println()

		// Use constant-time comparison to prevent timing attacks
		if subtle.ConstantTimeCompare(passwordBytes, confirmBytes) != 1 {
			log.Fatal("Passwords do not match")
		}

		password = string(passwordBytes)
	}

	if len(password) < 8 {
		log.Fatal("Password must be at least 8 characters long")
	}

	if err := authService.SetAuthPassword(password); err != nil {
		log.Fatal("Failed to update password:", err)
	}

	fmt.Println("✓ Operator password reset successfully")
	os.Exit(0)
}

// handleDisableAuth handles the --disable-auth CLI command
func handleDisableAuth(authService *service.AuthService) {
	if err := authService.DisableAuth(); err != nil {
		log.Fatal("Failed to disable authentication:", err)
	}

	fmt.Println("✓ Authentication disabled successfully")
	fmt.Println("  Note: Credentials are preserved and can be re-enabled from Settings")
	os.Exit(0)
}
