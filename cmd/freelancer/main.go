package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/terraincognita07/freelancer-admin/internal/api"
	"github.com/terraincognita07/freelancer-admin/internal/calendar"
	"github.com/terraincognita07/freelancer-admin/internal/cli"
	"github.com/terraincognita07/freelancer-admin/internal/db"
	"github.com/terraincognita07/freelancer-admin/internal/logging"
	"github.com/terraincognita07/freelancer-admin/internal/mcpserver"
	"github.com/terraincognita07/freelancer-admin/internal/models"
	"github.com/terraincognita07/freelancer-admin/internal/templates"
)

const appName = "Freelancer Admin"

var logger logging.Logger = logging.New(os.Stderr, "info")

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
	}
	logger = logging.New(os.Stderr, getEnv("LOG_LEVEL", "info"))

	dataDir := getEnv("DATA_DIR", "data")
	dbPath := getEnv("DB_PATH", filepath.Join(dataDir, "freelancer.db"))

	command := "serve"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	var err error
	switch command {
	case "serve":
		err = runServe(dataDir, dbPath)
	case "reset-password":
		err = cli.RunResetPasswordCommand(dbPath, os.Stdout)
	case "set-password":
		err = cli.RunSetPasswordCommand(dbPath, cli.TerminalPrompt(os.Stdin, os.Stderr), os.Stdout)
	case "mcp":
		err = runMCP(dbPath)
	default:
		err = fmt.Errorf("unknown command %q (expected serve, reset-password, set-password or mcp)", command)
	}
	if err != nil {
		logger.Error(context.Background(), "command failed", "command", command, "error", err)
		os.Exit(1)
	}
}

func runServe(dataDir string, dbPath string) error {
	location := mustLoadLocation(getEnv("TZ", "Europe/Stockholm"))
	secretKey, err := resolveSecretKey()
	if err != nil {
		return err
	}
	port, err := resolvePort()
	if err != nil {
		return err
	}
	cookieSecure := getEnvBool("COOKIE_SECURE", false)

	database, err := db.OpenSQLite(dbPath, db.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}

	lifecycleCtx, cancelLifecycle := context.WithCancel(context.Background())
	defer cancelLifecycle()

	uploads, err := openUploadStore(lifecycleCtx, dataDir)
	if err != nil {
		return fmt.Errorf("upload store init failed: %w", err)
	}

	handler, err := api.NewHandler(api.Config{
		AppName:           getEnv("APP_NAME", appName),
		SecretKey:         secretKey,
		Location:          location,
		CookieSecure:      cookieSecure,
		DefaultVATPercent: getEnvInt("DEFAULT_VAT_PERCENT", models.DefaultVATPercent),
		Templates:         templates.FS,
		Logger:            logger,
	}, api.Dependencies{
		Repositories: db.NewRepositories(database),
		Uploads:      uploads,
		Calendar:     calendar.NewProvider(uploads, getEnv("CALENDAR_API_URL", calendar.DefaultBaseURL)),
	})
	if err != nil {
		return fmt.Errorf("handler init failed: %w", err)
	}

	app := fiber.New(fiber.Config{
		AppName:               appName,
		DisableStartupMessage: true,
		BodyLimit:             8 << 20,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(compress.New())
	app.Use(api.NoCache)
	app.Use(csrf.New(csrfMiddlewareConfig(cookieSecure)))
	api.RegisterRoutes(app, handler)

	go handler.CalendarSync().Run(lifecycleCtx, getEnvDuration("CALENDAR_SYNC_INTERVAL", 30*time.Second))

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		cancelLifecycle()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			logger.Error(shutdownCtx, "server shutdown failed", "error", err)
		}
	}()

	logger.Info(lifecycleCtx, "listening", "addr", "0.0.0.0:"+port, "db", dbPath, "tz", location.String())
	return app.Listen(":" + port)
}

func runMCP(dbPath string) error {
	database, err := db.OpenSQLite(dbPath, db.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	location := mustLoadLocation(getEnv("TZ", "Europe/Stockholm"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return mcpserver.Run(ctx, mcpserver.NewTools(db.NewRepositories(database), location))
}
