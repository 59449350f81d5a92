// Package http renders the budget views and proxies every user action to the
// backend API through the gateway client. Pages are server-rendered templates
// progressively enhanced with HTMX partial updates.
package http

import (
	"context"
	"html/template"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"budgetview/internal/api"
	"budgetview/internal/cache"
	"budgetview/internal/core"
	"budgetview/internal/log"
	"budgetview/internal/middleware/ratelimit"
	"budgetview/internal/middleware/security"
	"budgetview/internal/middleware/trace"
	"budgetview/internal/notify"
	"budgetview/internal/session"
	appweb "budgetview/web"
)

// fetchTimeout bounds every backend call made while rendering a page.
const fetchTimeout = 7 * time.Second

// ExportPublisher queues a transaction for spreadsheet export. Optional; a nil
// publisher disables exports.
type ExportPublisher interface {
	PublishExportRequest(ctx context.Context, transactionID int64) error
}

// SettingsStore persists local user preferences. Optional.
type SettingsStore interface {
	LoadSettings(ctx context.Context) (core.Settings, error)
	SaveSettings(ctx context.Context, settings core.Settings) error
}

type appMetrics struct {
	uptime              time.Time
	transactionsCreated int64
	cacheHits           int64
	cacheMisses         int64
}

// Options carries the optional server collaborators.
type Options struct {
	Logger    *slog.Logger
	Publisher ExportPublisher
	Settings  SettingsStore
	CacheSize int
	CacheTTL  time.Duration
}

// Server is the HTTP frontend. It embeds http.Server so callers can use
// ListenAndServe and Shutdown directly.
type Server struct {
	http.Server

	api       *api.Client
	session   *session.Store
	notify    *notify.Center
	publisher ExportPublisher
	settings  SettingsStore
	logger    *slog.Logger
	templates *template.Template

	txCache         *cache.LRU[api.Page[core.Transaction]]
	catCache        *cache.LRU[api.Page[core.Category]]
	budgetCache     *cache.LRU[api.Page[core.Budget]]
	comparisonCache *cache.LRU[[]core.ComparisonRecord]
	summaryCache    *cache.LRU[core.Summary]
	settingsCache   *cache.LRU[core.Settings]

	summaryGate api.Gate

	rateLimiter      *ratelimit.Limiter
	traceMiddleware  *trace.Middleware
	securityHeaders  *security.HeadersMiddleware
	securityDetector *security.Detector

	appMetrics *appMetrics
}

// NewServer builds the frontend server with all routes wired.
func NewServer(addr string, client *api.Client, sess *session.Store, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = 256
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 30 * time.Second
	}

	detector := security.NewDetector()
	s := &Server{
		api:       client,
		session:   sess,
		notify:    notify.NewCenter(notify.DefaultTTL),
		publisher: opts.Publisher,
		settings:  opts.Settings,
		logger:    logger,

		txCache:         cache.NewLRU[api.Page[core.Transaction]](opts.CacheSize, opts.CacheTTL),
		catCache:        cache.NewLRU[api.Page[core.Category]](opts.CacheSize, opts.CacheTTL),
		budgetCache:     cache.NewLRU[api.Page[core.Budget]](opts.CacheSize, opts.CacheTTL),
		comparisonCache: cache.NewLRU[[]core.ComparisonRecord](opts.CacheSize, opts.CacheTTL),
		summaryCache:    cache.NewLRU[core.Summary](opts.CacheSize, opts.CacheTTL),
		settingsCache:   cache.NewLRU[core.Settings](opts.CacheSize, opts.CacheTTL),

		rateLimiter: ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		traceMiddleware: trace.NewMiddleware(
			log.New(log.Config{Handler: logger.Handler(), Component: log.ComponentHTTP}),
			detector.ExtractClientIP),
		securityHeaders:  security.NewHeadersMiddleware(securityConfig()),
		securityDetector: detector,

		appMetrics: &appMetrics{uptime: time.Now()},
	}

	tmpl, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		logger.Error("Failed to parse templates", "error", err, log.FieldComponent, log.ComponentTemplate)
	} else {
		s.templates = tmpl
	}

	mux := http.NewServeMux()

	mux.Handle("/static/", security.StaticAssetMiddleware(86400)(http.FileServer(http.FS(appweb.StaticFS))))

	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.HandleFunc("/metrics", s.handleMetrics)

	mux.HandleFunc("/signup", s.requireAnon(s.handleSignup))
	mux.HandleFunc("/login", s.requireAnon(s.handleLogin))
	mux.HandleFunc("/logout", s.handleLogout)

	mux.HandleFunc("/dashboard", s.requireAuth(s.handleDashboard))
	mux.HandleFunc("/transactions", s.requireAuth(s.handleTransactions))
	mux.HandleFunc("/transactions/update", s.requireAuth(s.handleUpdateTransaction))
	mux.HandleFunc("/transactions/delete", s.requireAuth(s.handleDeleteTransaction))
	mux.HandleFunc("/categories", s.requireAuth(s.handleCategories))
	mux.HandleFunc("/categories/update", s.requireAuth(s.handleUpdateCategory))
	mux.HandleFunc("/categories/delete", s.requireAuth(s.handleDeleteCategory))
	mux.HandleFunc("/budgets", s.requireAuth(s.handleBudgets))
	mux.HandleFunc("/budgets/update", s.requireAuth(s.handleUpdateBudget))
	mux.HandleFunc("/budgets/delete", s.requireAuth(s.handleDeleteBudget))
	mux.HandleFunc("/profile", s.requireAuth(s.handleProfile))
	mux.HandleFunc("/settings", s.requireAuth(s.handleSettings))

	mux.HandleFunc("/ui/summary", s.requireAuth(s.handleSummaryPartial))
	mux.HandleFunc("/ui/budget-table", s.requireAuth(s.handleBudgetTablePartial))

	s.Server = http.Server{
		Addr:         addr,
		Handler:      s.wrap(mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// wrap applies the shared middleware chain: security headers, request tracing
// and POST rate limiting.
func (s *Server) wrap(next http.Handler) http.Handler {
	limited := s.rateLimiter.Middleware(s.securityDetector.ExtractClientIP, nil)

	var h http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.securityDetector.DetectSuspiciousRequest(r) {
			s.logger.WarnContext(r.Context(), "Suspicious request detected",
				log.FieldComponent, log.ComponentSecurity,
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path,
				log.FieldClientIP, s.securityDetector.ExtractClientIP(r),
				log.FieldUserAgent, r.Header.Get("User-Agent"))
		}
		if r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodDelete {
			limited(next).ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})

	return s.traceMiddleware.Middleware(s.securityHeaders.Middleware(h))
}

func securityConfig() security.HeadersConfig {
	cfg := security.DefaultHeadersConfig()
	// HTMX is loaded from unpkg and evaluates hx-* expressions.
	cfg.CSP = "default-src 'self'; " +
		"script-src 'self' https://unpkg.com 'unsafe-eval'; " +
		"style-src 'self' 'unsafe-inline'; " +
		"img-src 'self' data:; " +
		"connect-src 'self'; " +
		"font-src 'self'; " +
		"object-src 'none'; " +
		"frame-ancestors 'none'; " +
		"base-uri 'self'; " +
		"form-action 'self'"
	return cfg
}

// CacheCleaners exposes the response caches for periodic cleanup.
func (s *Server) CacheCleaners() []cache.Cleaner {
	return []cache.Cleaner{s.txCache, s.catCache, s.budgetCache, s.comparisonCache, s.summaryCache, s.settingsCache}
}

// Close stops the background collaborators owned by the server.
func (s *Server) Close() {
	s.rateLimiter.Stop()
}

// invalidateTransactionViews drops every cached view a transaction mutation
// can change: transaction pages, the summary and the budget comparison.
func (s *Server) invalidateTransactionViews() {
	s.txCache.InvalidatePrefix("transactions?")
	s.summaryCache.InvalidatePrefix("summary?")
	s.comparisonCache.InvalidatePrefix("comparison?")
}

func (s *Server) cacheHit()  { atomic.AddInt64(&s.appMetrics.cacheHits, 1) }
func (s *Server) cacheMiss() { atomic.AddInt64(&s.appMetrics.cacheMisses, 1) }
