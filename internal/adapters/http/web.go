package web

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"os"
	"time"

	"lifeline/internal/adapters/email"
	"lifeline/internal/adapters/http/middleware"
	"lifeline/internal/adapters/http/perf"
	alertStore "lifeline/internal/adapters/storage/alert"
	applicationStore "lifeline/internal/adapters/storage/application"
	donationStore "lifeline/internal/adapters/storage/donation"
	eventStore "lifeline/internal/adapters/storage/event"
	serviceStore "lifeline/internal/adapters/storage/service"
	userStore "lifeline/internal/adapters/storage/user"
)

// Stores holds all storage dependencies.
type Stores struct {
	UserStore         userStore.Store
	ApplicationStore  applicationStore.Store
	ShiftStore        applicationStore.ShiftStore
	TrainingStore     applicationStore.TrainingStore
	EventStore        eventStore.Store
	RegistrationStore eventStore.RegistrationStore
	ServiceStore      serviceStore.Store
	DonationStore     donationStore.Store
	AlertStore        alertStore.Store
	SubscriptionStore alertStore.SubscriptionStore
}

// loadCSRFKey reads the CSRF secret from LIFELINE_CSRF_KEY (hex-encoded, 32 bytes).
// In production, the key MUST be set. In development, a random key is generated per startup.
func loadCSRFKey() []byte {
	if keyHex := os.Getenv("LIFELINE_CSRF_KEY"); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			log.Fatal("LIFELINE_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key
	}
	if os.Getenv("LIFELINE_ENV") == "production" {
		log.Fatal("LIFELINE_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	log.Println("WARNING: using random CSRF key (sessions won't survive restart). Set LIFELINE_CSRF_KEY for production.")
	return key
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global session store instance
var sessions *middleware.SessionStore

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// Global perf collector (set by NewMux)
var perfCollector *perf.Collector

// adminEmails is the allow-list of emails that always hold the admin role.
var adminEmails []string

// Global email sender instance (set by SetEmailSender)
var emailSender email.Sender

// Email configuration
var emailFromAddress string
var emailReplyTo string

// SetEmailSender sets the global email sender for the application.
func SetEmailSender(sender email.Sender, from, replyTo string) {
	emailSender = sender
	emailFromAddress = from
	emailReplyTo = replyTo
}

// SetAdminEmails sets the admin allow-list used by login and session checks.
func SetAdminEmails(emails []string) {
	adminEmails = emails
}

// NewMux wires HTTP handlers for the app.
func NewMux(staticDir string, s *Stores, collector *perf.Collector) http.Handler {
	stores = s
	perfCollector = collector
	sessions = middleware.NewSessionStore()
	middleware.SecureCookies = os.Getenv("LIFELINE_ENV") == "production"

	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(staticDir)))
	registerRoutes(mux)

	// CSRF key: 32-byte hex-encoded secret from env var
	csrfKey := loadCSRFKey()

	// Rate limiter: configurable requests per second per IP (OWASP A04)
	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	// Apply middleware: Timing -> Auth -> CSRF -> SecurityHeaders -> RateLimit -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey),
		middleware.Auth(sessions),
		middleware.RateLimit(limiter),
		middleware.Timing(collector),
	)
}
