/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the commission engine server.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Initialize SQLite reservation store
  3. Build the billing engine with the configured rate policy
  4. Configure HTTP router and payout scheduler
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (default: 8080)
  -db      SQLite database path (default: commissions.db)
           Use ":memory:" for an in-memory database
  -rate    Flat commission percent; 0 selects the tiered dealer table

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop the payout scheduler
  2. Stop accepting new connections, drain active requests (30s timeout)
  3. Close the database connection

SEE ALSO:
  - api/server.go: Router configuration
  - billing/engine.go: The calculation engine
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fleetrent/commission-engine/api"
	"github.com/fleetrent/commission-engine/billing"
	"github.com/fleetrent/commission-engine/rates"
	"github.com/fleetrent/commission-engine/store/sqlite"
)

func main() {
	// Flags
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "commissions.db", "SQLite database path")
	flatRate := flag.Float64("rate", 0, "flat commission percent (0 = tiered dealer table)")
	flag.Parse()

	// Rate policy
	var amounts billing.AmountCalculator = rates.DefaultDealerRate()
	if *flatRate > 0 {
		amounts = rates.NewFlatRate(*flatRate)
	}

	// Engine (loads the fixed zone)
	engine, err := billing.NewEngine(amounts)
	if err != nil {
		log.Fatalf("Failed to initialize engine: %v", err)
	}

	// Store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Handler + scheduler
	handler := api.NewHandler(store, engine)
	scheduler := api.NewPayoutScheduler(store, engine)
	handler.Scheduler = scheduler
	scheduler.Start()
	defer scheduler.Stop()

	// HTTP server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", *port),
		Handler: api.NewRouter(handler),
	}

	go func() {
		log.Printf("Commission engine listening on :%d (zone %s)", *port, billing.ZoneName)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
