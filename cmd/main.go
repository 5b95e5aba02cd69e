package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	natsserver "github.com/nats-io/nats-server/v2/server"

	"github.com/mimetic-labs/resonance/api"
	"github.com/mimetic-labs/resonance/api/handlers"
	"github.com/mimetic-labs/resonance/config"
	"github.com/mimetic-labs/resonance/core"
	"github.com/mimetic-labs/resonance/storage"
)

func main() {
	// Parse command line flags
	apiPort := flag.Int("api-port", 0, "API server port (overrides API_PORT)")
	natsURL := flag.String("nats", "", "NATS URL (overrides NATS_URL)")
	embeddedNATS := flag.Bool("embedded-nats", false, "Run an in-process NATS server")
	natsPort := flag.Int("nats-port", 4222, "Port for the embedded NATS server")
	dataDir := flag.String("data-dir", "", "Run artifact directory (overrides DATA_DIR)")
	flag.Parse()

	cfg := config.Load()
	if *apiPort != 0 {
		cfg.APIPort = *apiPort
	}
	if *natsURL != "" {
		cfg.NATSURL = *natsURL
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}

	if *embeddedNATS {
		ns, err := natsserver.NewServer(&natsserver.Options{Port: *natsPort})
		if err != nil {
			log.Fatalf("Failed to create embedded NATS server: %v", err)
		}
		go ns.Start()
		if !ns.ReadyForConnections(5 * time.Second) {
			log.Fatalf("Embedded NATS server did not become ready")
		}
		defer ns.Shutdown()
		cfg.NATSURL = fmt.Sprintf("nats://localhost:%d", *natsPort)
		log.Printf("Embedded NATS server listening on port %d", *natsPort)
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	store, err := storage.GetDBStorage(cfg.DataDir)
	if err != nil {
		log.Fatalf("Failed to open run storage: %v", err)
	}
	defer store.Close()

	// Start NATS messaging
	core.SetupNATS(cfg.NATSURL)
	defer core.CloseNATS()

	handlers.Init(cfg, store)

	log.Printf("Starting API server on port %d", cfg.APIPort)
	log.Fatal(api.StartServer(cfg.APIPort))
}
