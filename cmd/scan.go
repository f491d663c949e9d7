package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"itemdex/core/config"
	"itemdex/core/database"
	"itemdex/core/gamedata"
	"itemdex/core/imaging"
	"itemdex/core/logger"
	"itemdex/core/storage"

	"itemdex/feature/catalog"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// scanCmd runs a single catalog pass and exits. Useful for cron jobs and
// for rebuilding the export tree offline.
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run a single catalog export pass",
	Long:  `Connects to the emulator database, exports the item catalog to disk and prints a summary.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()

		// The one-shot pass cannot run without the item master.
		db, err := database.Connect(cfg.Database)
		if err != nil {
			return fmt.Errorf("connect to emulator database: %w", err)
		}

		var mirror *storage.Mirror
		if cfg.Storage.Enabled {
			store, err := storage.NewClient(cfg.Storage)
			if err != nil {
				return fmt.Errorf("create storage client: %w", err)
			}
			mirror = storage.NewMirror(store, cfg.Storage.Bucket, logg)
			if err := mirror.EnsureBucket(cmd.Context()); err != nil {
				return fmt.Errorf("ensure storage bucket: %w", err)
			}
		}

		// No render loop needed for a single synchronous pass.
		itemStore := catalog.NewStore(cfg.Catalog.DataRoot, imaging.DirectExecutor{}, imaging.NewPNGEncoder(), mirror, logg)
		scanner := catalog.NewScanner(
			gamedata.NewDBMasterCollection(db, logg),
			gamedata.NewDBSlotProvider(db, logg),
			itemStore,
			logg,
		)

		summary, err := catalog.NewService(scanner, logg).RunOnce(context.Background())
		if err != nil {
			return err
		}

		logg.Info("Scan finished",
			zap.Int("exported", summary.Exported),
			zap.Int("skipped", summary.Skipped),
			zap.Int("errors", summary.Errors),
		)

		out, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(scanCmd)
}
