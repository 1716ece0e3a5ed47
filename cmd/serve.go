package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/mtrifilo/psychic-homily-web-sub009/core/config"
	"github.com/mtrifilo/psychic-homily-web-sub009/core/database"
	"github.com/mtrifilo/psychic-homily-web-sub009/core/loader"
	"github.com/mtrifilo/psychic-homily-web-sub009/core/logger"
	"github.com/mtrifilo/psychic-homily-web-sub009/core/metrics"
	"github.com/mtrifilo/psychic-homily-web-sub009/core/middleware/auth"
	"github.com/mtrifilo/psychic-homily-web-sub009/core/middleware/rayid"
	"github.com/mtrifilo/psychic-homily-web-sub009/feature/canonical"
	"github.com/mtrifilo/psychic-homily-web-sub009/feature/canonical/dbstore"
	"github.com/mtrifilo/psychic-homily-web-sub009/feature/dedupe"
	"github.com/mtrifilo/psychic-homily-web-sub009/feature/importer"
	"github.com/mtrifilo/psychic-homily-web-sub009/feature/provider"
	"github.com/mtrifilo/psychic-homily-web-sub009/feature/syncapi"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the replication API",
	Long: `Starts the HTTP server other environments push candidate batches to and
export stored records from.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)
		logg = logg.With(zap.String("environment", cfg.Server.Environment))

		// 3. Load the region offset table
		sourcesFile, err := provider.LoadSources(cfg.SourcesFile)
		if err != nil {
			logg.Fatal("Failed to load sources file", zap.Error(err))
		}
		offsets := canonical.Offsets(sourcesFile.Timezones)

		// 4. Connect to Database
		db, err := database.Connect(cfg.Database)
		if err != nil {
			logg.Fatal("Failed to connect to database", zap.Error(err))
		}
		store := dbstore.New(db)
		if err := store.Migrate(); err != nil {
			logg.Fatal("Failed to migrate schema", zap.Error(err))
		}

		// 5. Metrics listener (optional)
		var m *metrics.Metrics
		if cfg.Metrics.Addr != "" {
			m = metrics.New()
			go func() {
				logg.Info("Starting metrics listener", zap.String("addr", cfg.Metrics.Addr))
				if err := m.Serve(cfg.Metrics.Addr); err != nil {
					logg.Warn("Metrics listener stopped", zap.Error(err))
				}
			}()
		}

		// 6. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		// 7. Initialize Feature Loader
		mgr := loader.NewManager()

		imp := importer.New(store, dedupe.NewResolver(offsets), m, logg)
		mgr.Register(syncapi.NewFeature(store, imp, offsets, logg))

		// Middleware Registration
		// RayID must be first so everything downstream can trace.
		app.Use(rayid.New())

		// Logging middleware (Zap + RayID)
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

		// Auth protects every route; candidates can carry unpublished shows.
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		// 8. Load Features
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 9. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 10. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(serveCmd)
}
