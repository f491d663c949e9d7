package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"itemdex/core/config"
	"itemdex/core/database"
	"itemdex/core/gamedata"
	"itemdex/core/imaging"
	"itemdex/core/loader"
	"itemdex/core/logger"
	"itemdex/core/middleware/auth"
	"itemdex/core/middleware/rayid"
	"itemdex/core/storage"

	"itemdex/feature/acquisition"
	"itemdex/feature/catalog"

	"github.com/gofiber/fiber/v2"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the catalog exporter server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
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

		// 3. Connect to Database (Optional)
		// Without it the catalog feature is disabled and acquisition falls
		// back to the default save slot.
		var db *gorm.DB
		if conn, err := database.Connect(cfg.Database); err != nil {
			logg.Warn("Optional database connection failed", zap.Error(err))
		} else {
			db = conn
			logg.Info("Connected to emulator database", zap.String("database", cfg.Database.Name))
		}

		// 4. Initialize Storage Mirror (Optional)
		var mirror *storage.Mirror
		if cfg.Storage.Enabled {
			store, err := storage.NewClient(cfg.Storage)
			if err != nil {
				logg.Fatal("Failed to create storage client", zap.Error(err))
			}
			mirror = storage.NewMirror(store, cfg.Storage.Bucket, logg)
			if err := mirror.EnsureBucket(context.Background()); err != nil {
				logg.Fatal("Failed to ensure storage bucket", zap.Error(err))
			}
		}

		// 5. Game Data Sources
		var (
			master    gamedata.ItemMasterCollection
			inventory gamedata.InventoryReader
			slots     gamedata.SaveSlotProvider = gamedata.FixedSlot(gamedata.FallbackSlot)
		)
		if db != nil {
			master = gamedata.NewDBMasterCollection(db, logg)
			inventory = gamedata.NewDBInventoryReader(db)
			slots = gamedata.NewDBSlotProvider(db, logg)
		}

		// 6. Catalog Feature
		// Icon encoding runs on a single dedicated goroutine.
		exec := imaging.NewRenderExecutor()
		defer exec.Close()

		itemStore := catalog.NewStore(cfg.Catalog.DataRoot, exec, imaging.NewPNGEncoder(), mirror, logg)
		scanner := catalog.NewScanner(master, slots, itemStore, logg)
		catalogSvc := catalog.NewService(scanner, logg)
		catalogFeature := catalog.NewFeature(catalog.NewHandler(catalogSvc, logg), db != nil)

		// 7. Acquisition Feature
		window := time.Duration(cfg.Acquisition.DebounceMs) * time.Millisecond
		history := acquisition.NewHistoryLog(cfg.Catalog.DataRoot, mirror, logg)
		debouncer := acquisition.NewDebouncer(window, acquisition.NewScheduler(), history, slots, logg)
		ingest := acquisition.NewPushSource()
		acquisitionSvc := acquisition.NewService(debouncer, inventory, logg, ingest)
		acquisitionFeature := acquisition.NewFeature(acquisition.NewHandler(acquisitionSvc, ingest, logg))

		// 8. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		mgr := loader.NewManager()
		mgr.Register(catalogFeature)
		mgr.Register(acquisitionFeature)

		// Middleware Registration
		// 1. RayID (Must be first to trace everything)
		app.Use(rayid.New())

		// 2. Logging Middleware (Custom to use Zap + RayID)
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

		// 3. Auth (Protect API)
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 9. Start the Acquisition Pipeline
		// Runs the inventory handshake and subscribes to event sources.
		if err := acquisitionSvc.Start(context.Background()); err != nil {
			logg.Warn("Acquisition startup incomplete", zap.Error(err))
		}

		// 10. Initial and Scheduled Catalog Scans
		if cfg.Catalog.ScanOnStart && catalogFeature.IsEnabled() {
			catalogSvc.TriggerScan()
		}

		var scheduler *cron.Cron
		if cfg.Catalog.ScanSchedule != "" && catalogFeature.IsEnabled() {
			scheduler = cron.New()
			if _, err := scheduler.AddFunc(cfg.Catalog.ScanSchedule, func() {
				if !catalogSvc.TriggerScan() {
					logg.Warn("Scheduled scan skipped, previous pass still running")
				}
			}); err != nil {
				logg.Fatal("Invalid scan schedule", zap.String("schedule", cfg.Catalog.ScanSchedule), zap.Error(err))
			}
			scheduler.Start()
			logg.Info("Scheduled catalog scans", zap.String("schedule", cfg.Catalog.ScanSchedule))
		}

		// 11. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 12. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		if scheduler != nil {
			<-scheduler.Stop().Done()
		}
		// Stop detaches event sources and writes any pending history batch.
		acquisitionSvc.Stop()
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
