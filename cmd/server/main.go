package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	emailPkg "lifeline/internal/adapters/email"
	web "lifeline/internal/adapters/http"
	"lifeline/internal/adapters/http/perf"
	"lifeline/internal/adapters/storage"
	alertStorePkg "lifeline/internal/adapters/storage/alert"
	applicationStorePkg "lifeline/internal/adapters/storage/application"
	donationStorePkg "lifeline/internal/adapters/storage/donation"
	eventStorePkg "lifeline/internal/adapters/storage/event"
	serviceStorePkg "lifeline/internal/adapters/storage/service"
	userStorePkg "lifeline/internal/adapters/storage/user"
	"lifeline/internal/application/orchestrators"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	// Initialize database with WAL mode, foreign keys, and busy timeout
	dbPath := envOrDefault("LIFELINE_DB", "lifeline.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Connection pool settings for WAL mode
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}

	if err := storage.MigrateDB(db, dbPath); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Performance instrumentation: wrap DB with timing, create collector
	collector := perf.NewCollector(perf.DefaultRingSize)
	timedDB := storage.NewTimedDB(db, collector)

	// Create store instances (using timed DB for query instrumentation).
	// The application store also backs shifts and training courses; the
	// event store also backs registrations; the alert store also backs
	// subscriptions.
	appStore := applicationStorePkg.NewSQLiteStore(timedDB)
	evStore := eventStorePkg.NewSQLiteStore(timedDB)
	alStore := alertStorePkg.NewSQLiteStore(timedDB)
	doStore := donationStorePkg.NewSQLiteStore(timedDB)
	svcStore := serviceStorePkg.NewSQLiteStore(timedDB)
	stores := &web.Stores{
		UserStore:         userStorePkg.NewSQLiteStore(timedDB),
		ApplicationStore:  appStore,
		ShiftStore:        appStore,
		TrainingStore:     appStore,
		EventStore:        evStore,
		RegistrationStore: evStore,
		ServiceStore:      svcStore,
		DonationStore:     doStore,
		AlertStore:        alStore,
		SubscriptionStore: alStore,
	}

	generateID := func() string { return uuid.New().String() }
	ctx := context.Background()

	// Seed the event calendar, service catalog, and donation baselines.
	// All three are idempotent: non-empty tables are left alone.
	if err := orchestrators.ExecuteSeedEvents(ctx, orchestrators.SeedEventsDeps{
		EventStore: evStore,
		GenerateID: generateID,
		Now:        time.Now,
	}); err != nil {
		log.Fatalf("failed to seed events: %v", err)
	}
	if err := orchestrators.ExecuteSeedServices(ctx, orchestrators.SeedServicesDeps{
		ServiceStore: svcStore,
		GenerateID:   generateID,
	}); err != nil {
		log.Fatalf("failed to seed services: %v", err)
	}
	if err := orchestrators.ExecuteSeedDonations(ctx, orchestrators.SeedDonationsDeps{
		DonationStore: doStore,
		GenerateID:    generateID,
		Now:           time.Now,
	}); err != nil {
		log.Fatalf("failed to seed donations: %v", err)
	}

	// Admin allow-list: these emails always hold the admin role.
	adminList := envOrDefault("LIFELINE_ADMIN_EMAILS", "admin@lifeline.ph,coordinator@lifeline.ph")
	var adminEmails []string
	for _, e := range strings.Split(adminList, ",") {
		if e = strings.TrimSpace(e); e != "" {
			adminEmails = append(adminEmails, strings.ToLower(e))
		}
	}
	web.SetAdminEmails(adminEmails)

	// Configure email sender
	resendKey := os.Getenv("LIFELINE_RESEND_KEY")
	emailFrom := envOrDefault("LIFELINE_RESEND_FROM", "Lifeline Philippines <noreply@lifeline.ph>")
	emailReply := envOrDefault("LIFELINE_REPLY_TO", "info@lifeline.ph")
	if resendKey != "" {
		web.SetEmailSender(emailPkg.NewResendSender(resendKey, emailFrom), emailFrom, emailReply)
		log.Println("Email sender configured (Resend)")
	} else {
		web.SetEmailSender(emailPkg.NewNoopSender(), emailFrom, emailReply)
		if os.Getenv("LIFELINE_ENV") == "production" {
			log.Println("WARNING: LIFELINE_RESEND_KEY is not set, email delivery is DISABLED in production")
		} else {
			log.Println("Email sender configured (noop, set LIFELINE_RESEND_KEY for real delivery)")
		}
	}

	// Alert simulator keeps the feed alive outside production
	simStopCh := make(chan struct{})
	if os.Getenv("LIFELINE_ENV") != "production" {
		sim := orchestrators.NewAlertSimulator(alStore, alStore, generateID, time.Now)
		orchestrators.StartAlertSimulator(sim, simStopCh)
		log.Println("Alert simulator started (dev mode)")
	}
	defer close(simStopCh)

	// Create HTTP handler with middleware (pass collector for timing + dashboard)
	mux := web.NewMux(envOrDefault("LIFELINE_STATIC_DIR", "static"), stores, collector)

	addr := envOrDefault("LIFELINE_ADDR", ":8080")
	log.Printf("Lifeline %s starting on %s (env=%s, schema=%d)", version, addr, envOrDefault("LIFELINE_ENV", "development"), storage.LatestSchemaVersion())

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
