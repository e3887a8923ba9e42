package main

import (
	"context"
	"log"
	"net/http"

	httpadapter "github.com/Hotate516/kiga-workspace/internal/adapters/http"
	firestorestore "github.com/Hotate516/kiga-workspace/internal/adapters/storage/firestore"
	gcsstore "github.com/Hotate516/kiga-workspace/internal/adapters/storage/gcs"
	memstore "github.com/Hotate516/kiga-workspace/internal/adapters/storage/memory"
	"github.com/Hotate516/kiga-workspace/internal/app/notes"
	"github.com/Hotate516/kiga-workspace/internal/app/profile"
	"github.com/Hotate516/kiga-workspace/internal/app/workspace"
	"github.com/Hotate516/kiga-workspace/internal/config"
	"github.com/Hotate516/kiga-workspace/internal/domain"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()

	// Storage: Firestore + GCS, or memory
	var (
		noteStore    domain.NoteStore
		contentStore domain.ContentStore
		userStore    domain.UserStore
		avatarStore  domain.AvatarStore
	)

	switch cfg.StorageBackend {
	case "firestore":
		log.Printf("[STORE] Using Firestore + GCS (project=%s bucket=%s)", cfg.GCPProjectID, cfg.GCSBucket)

		fsStore, err := firestorestore.NewStore(ctx, cfg.GCPProjectID)
		if err != nil {
			log.Fatalf("error initializing Firestore store: %v", err)
		}
		blobStore, err := gcsstore.NewStore(ctx, cfg.GCSBucket)
		if err != nil {
			log.Fatalf("error initializing GCS store: %v", err)
		}

		// 1 store per service, each implements 2 interfaces
		noteStore = fsStore
		userStore = fsStore
		contentStore = blobStore
		avatarStore = blobStore

	default:
		log.Println("[STORE] Using in-memory storage")
		noteStore = memstore.NewNoteStore()
		contentStore = memstore.NewContentStore()
		users := memstore.NewUserStore()
		userStore = users
		avatarStore = users
	}

	// Linked-apps dashboard
	workspaceSvc, err := workspace.NewService(cfg.AppsFile)
	if err != nil {
		log.Fatalf("error loading apps file: %v", err)
	}
	if cfg.WatchApps {
		if err := workspaceSvc.Watch(); err != nil {
			log.Fatalf("error watching apps file: %v", err)
		}
		defer workspaceSvc.Close()
	}

	events := httpadapter.NewEventHub()
	notesSvc := notes.NewService(noteStore, contentStore).WithEvents(events)
	profileSvc := profile.NewService(userStore, avatarStore)

	handler := httpadapter.NewServer(notesSvc, profileSvc, workspaceSvc, events)

	port := ":" + cfg.Port
	log.Println("Kiga Workspace API listening on port:", port)
	if err := http.ListenAndServe(port, handler); err != nil {
		log.Fatal(err)
	}
}
