package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"storage-sample/core/loader"
	"storage-sample/core/logger"
	"storage-sample/core/middleware/auth"
	"storage-sample/core/middleware/rayid"
	"storage-sample/feature/gateway"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "storage-sample/docs/swagger"
)

// @title Storage Sample API
// @version 1.0
// @description HTTP gateway over an S3-compatible object store.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the storage gateway",
	Long:  `Starts the HTTP server exposing buckets and objects of the configured storage backend.`,
	Run: func(cmd *cobra.Command, args []string) {
		env, err := setup()
		if err != nil {
			log.Fatalf("Failed to initialize: %v", err)
		}
		logg := env.logger
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		if err := env.cfg.Server.Validate(); err != nil {
			logg.Fatal("Invalid server configuration", zap.Error(err))
		}

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
			BodyLimit:             env.cfg.Server.BodyLimit(),
		})

		mgr := loader.NewManager(logg)
		// A nil *journal.Journal must not become a non-nil interface.
		var j gateway.Journal
		if env.journal != nil {
			j = env.journal
		}
		mgr.Register(gateway.NewFeature(env.client, j, logg))

		// RayID first so every later log line carries it.
		app.Use(rayid.New())

		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		app.Get("/swagger/*", swagger.HandlerDefault)

		app.Use(auth.New(auth.Config{ApiKey: env.cfg.Server.ApiKey, Skip: []string{"/swagger"}}))

		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		go func() {
			logg.Info("Starting server",
				zap.String("port", env.cfg.Server.Port),
				zap.String("backend", env.cfg.Storage.Backend),
				zap.Strings("features", mgr.Names()),
			)
			if err := app.Listen(env.cfg.Server.Address()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		if err := app.ShutdownWithTimeout(env.cfg.Server.ShutdownTimeout()); err != nil {
			logg.Warn("Shutdown did not complete cleanly", zap.Error(err))
		}
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
