package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/ayusman/handwave/internal/app"
	"github.com/ayusman/handwave/internal/bridge"
	"github.com/ayusman/handwave/internal/engine"
	"github.com/ayusman/handwave/internal/remote"
	"github.com/ayusman/handwave/internal/server"
	"github.com/ayusman/handwave/internal/store"
	"github.com/ayusman/handwave/internal/tray"
)

func main() {
	var (
		addr     = flag.String("addr", ":8080", "service listen address")
		siteID   = flag.String("site", "default", "site identifier for config and evaluation")
		cameraID = flag.Int("camera", 0, "camera device ID")
		noTray   = flag.Bool("no-tray", false, "run without the system tray")
	)
	flag.Parse()

	fmt.Println("HandWave - Hands-Free Web Control")

	// Initialize the store
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Failed to get home directory: %v", err)
	}

	dbDir := filepath.Join(homeDir, ".handwave")
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	dbPath := filepath.Join(dbDir, "handwave.db")
	st, err := store.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	// The engine session drives connected pages through the bridge; pages
	// report their viewport back through the same connection.
	var session *engine.Session
	hub := bridge.New(func(width, height float64) {
		session.SetViewport(width, height)
	})

	client := remote.New("http://localhost" + *addr)
	session = engine.NewSession(engine.Options{
		SiteID:     *siteID,
		Dispatcher: hub,
		Evaluator:  client,
	})

	// Configure and start the evaluation/config service
	srv := server.New(server.Config{
		Store:  st,
		Bridge: hub,
	})
	go func() {
		fmt.Printf("Starting server on %s\n", *addr)
		if err := srv.ListenAndServe(*addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Start the capture pipeline
	a := app.New(app.Config{
		SiteID:    *siteID,
		CameraID:  *cameraID,
		Session:   session,
		Telemetry: hub,
		Fetcher:   client,
	})
	if err := a.Start(); err != nil {
		log.Fatalf("Failed to start pipeline: %v", err)
	}
	defer a.Stop()
	a.SetEnabled(true)

	if *noTray {
		select {}
	}

	t := tray.New()
	t.OnToggle(a.SetEnabled)
	t.OnQuit(a.Stop)
	t.Run()
}
