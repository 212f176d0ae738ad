package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/diewo77/hotel-backoffice/internal/cache"
	"github.com/diewo77/hotel-backoffice/internal/config"
	"github.com/diewo77/hotel-backoffice/internal/db"
	"github.com/diewo77/hotel-backoffice/internal/middleware"
	"github.com/diewo77/hotel-backoffice/internal/queue"
	"github.com/diewo77/hotel-backoffice/internal/services"
	"github.com/joho/godotenv"
)

var (
	migrateOnlyFlag   = flag.Bool("migrate-only", false, "Run DB migrations and exit")
	seedOnlyFlag      = flag.Bool("seed-only", false, "Run DB seed and exit")
	chargeNightlyFlag = flag.Bool("charge-nightly", false, "Charge tonight's room nights to open invoices and exit")
	reconcileFlag     = flag.Bool("reconcile-balances", false, "Recompute every client balance from invoices and exit")
)

func main() {
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	dbConn, err := db.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if *migrateOnlyFlag {
		if err := db.Setup(dbConn, cfg); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		log.Println("Migrations completed successfully")
		return
	}
	if *seedOnlyFlag {
		if err := db.Seed(dbConn); err != nil {
			log.Fatalf("Seeding failed: %v", err)
		}
		log.Println("Seeding completed successfully")
		return
	}

	if err := db.Setup(dbConn, cfg); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	if cfg.App.Seed {
		if err := db.Seed(dbConn); err != nil {
			log.Fatalf("Seeding failed: %v", err)
		}
	}

	rdb := cache.NewRedisClient(cfg.Redis)
	if rdb != nil {
		defer rdb.Close()
	}

	// Activity entries go through the broker when one is configured.
	var rec services.Recorder
	dbRecorder := services.NewDBRecorder(dbConn)
	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	if cfg.Queue.Enabled() {
		pub := queue.NewPublisher(cfg.Queue.URL, cfg.Queue.ActivityQueue, dbRecorder)
		defer pub.Close()
		rec = pub
		consumer := queue.NewConsumer(cfg.Queue.URL, cfg.Queue.ActivityQueue, cfg.Queue.Prefetch, dbRecorder)
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("activity-consumer: %v", err)
			}
		}()
	}

	svc := NewServices(dbConn, cache.New(cfg.Cache, rdb), rec)

	if *chargeNightlyFlag {
		report, err := svc.Billing.ChargeNightly(ctx, services.Today())
		if err != nil {
			log.Fatalf("Nightly charge failed: %v", err)
		}
		log.Printf("Nightly charge %s: %d checked, %d charged, %d already charged, %d without invoice, %d failed",
			report.Date, report.Checked, len(report.Charged), len(report.AlreadyCharged), len(report.MissingInvoice), len(report.Failed))
		return
	}
	if *reconcileFlag {
		changed, err := svc.Clients.ReconcileAll(ctx)
		if err != nil {
			log.Fatalf("Balance reconciliation failed: %v", err)
		}
		log.Printf("Balance reconciliation: %d client(s) corrected", changed)
		return
	}

	appHandler := NewApp(dbConn, svc, middleware.RateLimit(cfg.RateLimit, rdb))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      withLogging(appHandler),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		log.Printf("Server starting on port %s (dev=%v)", cfg.Server.Port, cfg.App.Dev)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	stop()
	log.Println("Server stopped gracefully")
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// withLogging logs method, path, status and duration of each request.
func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("%s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}
