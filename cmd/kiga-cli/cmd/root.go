package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	firestorestore "github.com/Hotate516/kiga-workspace/internal/adapters/storage/firestore"
	gcsstore "github.com/Hotate516/kiga-workspace/internal/adapters/storage/gcs"
	memstore "github.com/Hotate516/kiga-workspace/internal/adapters/storage/memory"
	"github.com/Hotate516/kiga-workspace/internal/app/notes"
	"github.com/Hotate516/kiga-workspace/internal/config"
)

var (
	userID string

	notesSvc *notes.Service
)

var rootCmd = &cobra.Command{
	Use:   "kiga-cli",
	Short: "CLI client for Kiga Workspace notes",
	Long: `kiga-cli is a command-line client for the KigaNote module of
Kiga Workspace.

It talks directly to the configured backend (Firestore + Cloud Storage, or
an in-process store for local experiments) and keeps a device-local cache,
the same way the web client does.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		if userID == "" {
			return fmt.Errorf("--user is required")
		}
		return initServices(cmd.Context())
	},
}

func initServices(ctx context.Context) error {
	cfg := config.Load()

	switch cfg.StorageBackend {
	case "firestore":
		fsStore, err := firestorestore.NewStore(ctx, cfg.GCPProjectID)
		if err != nil {
			return fmt.Errorf("init firestore: %w", err)
		}
		blobStore, err := gcsstore.NewStore(ctx, cfg.GCSBucket)
		if err != nil {
			return fmt.Errorf("init gcs: %w", err)
		}
		notesSvc = notes.NewService(fsStore, blobStore)
	default:
		notesSvc = notes.NewService(memstore.NewNoteStore(), memstore.NewContentStore())
	}
	return nil
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&userID, "user", "u", os.Getenv("KIGA_USER"), "workspace user id")
}
