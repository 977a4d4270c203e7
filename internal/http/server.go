// Package http exposes the ledger over a JSON API. Handlers stay thin:
// they parse, call into the store or bridge, and shape the response.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/manongfatu/dreamteamfinance/internal/auth"
	"github.com/manongfatu/dreamteamfinance/internal/config"
	applog "github.com/manongfatu/dreamteamfinance/internal/log"
	"github.com/manongfatu/dreamteamfinance/internal/notify"
	"github.com/manongfatu/dreamteamfinance/internal/persist"
	"github.com/manongfatu/dreamteamfinance/internal/store"
)

// Deps collects everything the handlers reach for.
type Deps struct {
	Store    *store.Store
	Bridge   *persist.Bridge
	Users    *auth.UserStore
	Sessions *auth.Sessions
	Email    notify.EmailSender
	SMS      notify.SMSSender
	Config   *config.Config
	Logger   *applog.Logger
}

type Server struct {
	http.Server

	store    *store.Store
	bridge   *persist.Bridge
	users    *auth.UserStore
	sessions *auth.Sessions
	email    notify.EmailSender
	sms      notify.SMSSender
	cfg      *config.Config
	log      *applog.Logger

	rateLimiter  *rateLimiter
	shutdownOnce sync.Once
}

func NewServer(addr string, d Deps) *Server {
	log := d.Logger
	if log == nil {
		log = applog.New(applog.DefaultConfig())
	}

	s := &Server{
		store:       d.Store,
		bridge:      d.Bridge,
		users:       d.Users,
		sessions:    d.Sessions,
		email:       d.Email,
		sms:         d.SMS,
		cfg:         d.Config,
		log:         log.WithComponent(applog.ComponentHTTP),
		rateLimiter: newRateLimiter(),
	}

	r := mux.NewRouter()
	r.Use(s.withRequestLog)
	r.Use(s.withRateLimit)

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/readyz", s.handleReady).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/auth/register", s.handleRegister).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", s.handleLogout).Methods(http.MethodPost)

	private := api.NewRoute().Subrouter()
	private.Use(auth.Middleware(d.Sessions))

	private.HandleFunc("/auth/me", s.handleMe).Methods(http.MethodGet)

	private.HandleFunc("/year", s.handleYear).Methods(http.MethodGet)
	private.HandleFunc("/months/{month}/entries", s.handleListEntries).Methods(http.MethodGet)
	private.HandleFunc("/months/{month}/entries", s.handleCreateEntry).Methods(http.MethodPost)
	private.HandleFunc("/months/{month}/entries", s.handleClearMonth).Methods(http.MethodDelete)
	private.HandleFunc("/months/{month}/entries/{id}", s.handleUpdateEntry).Methods(http.MethodPut)
	private.HandleFunc("/months/{month}/entries/{id}", s.handleDeleteEntry).Methods(http.MethodDelete)

	private.HandleFunc("/installments", s.handleListInstallments).Methods(http.MethodGet)
	private.HandleFunc("/installments", s.handleCreateInstallment).Methods(http.MethodPost)
	private.HandleFunc("/installments/{id}", s.handleUpdateInstallment).Methods(http.MethodPut)
	private.HandleFunc("/installments/{id}", s.handleDeleteInstallment).Methods(http.MethodDelete)
	private.HandleFunc("/installments/{id}/payments", s.handleTogglePayment).Methods(http.MethodPost)

	private.HandleFunc("/totals/month/{month}", s.handleMonthTotals).Methods(http.MethodGet)
	private.HandleFunc("/totals/ytd", s.handleYTDTotals).Methods(http.MethodGet)

	private.HandleFunc("/export/csv", s.handleExportCSV).Methods(http.MethodGet)

	private.HandleFunc("/email/send", s.handleSendEmail).Methods(http.MethodPost)
	private.HandleFunc("/sms/send", s.handleSendSMS).Methods(http.MethodPost)

	private.HandleFunc("/sync/flush", s.handleFlush).Methods(http.MethodPost)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Shutdown stops accepting requests and waits for in-flight handlers.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func (s *Server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info("request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			applog.FieldDuration, time.Since(start).Milliseconds())
	})
}

func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if !s.rateLimiter.allow(ip) {
			s.log.Warn("rate limit exceeded", "client_ip", ip)
			respondError(w, http.StatusTooManyRequests, "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
