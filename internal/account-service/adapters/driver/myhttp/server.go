package myhttp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"ride-hail-accounts/internal/account-service/adapters/driven/bm"
	"ride-hail-accounts/internal/account-service/adapters/driven/db"
	"ride-hail-accounts/internal/account-service/adapters/driven/ws"
	"ride-hail-accounts/internal/account-service/adapters/driver/myhttp/handle"
	"ride-hail-accounts/internal/account-service/adapters/driver/myhttp/middleware"
	"ride-hail-accounts/internal/account-service/core/domain/models"
	ports "ride-hail-accounts/internal/account-service/core/ports/driven"
	"ride-hail-accounts/internal/account-service/core/service"
	"ride-hail-accounts/internal/config"
	"ride-hail-accounts/internal/mylogger"
)

const (
	WaitTime      = 10
	sweepInterval = 10 * time.Minute
)

type Server struct {
	mux    *http.ServeMux
	cfg    *config.Config
	srv    *http.Server
	mylog  mylogger.Logger
	db     *db.DB
	broker ports.IAccountBroker
	ctx    context.Context
	appCtx context.Context
	mu     sync.Mutex
	wg     sync.WaitGroup
}

func NewServer(ctx, appCtx context.Context, mylog mylogger.Logger, cfg *config.Config) *Server {
	s := &Server{
		ctx:    ctx,
		appCtx: appCtx,
		cfg:    cfg,
		mylog:  mylog,
		mux:    http.NewServeMux(),
	}

	return s
}

// Run initializes dependencies and starts listening. It returns when the
// server stops.
func (s *Server) Run() error {
	mylog := s.mylog.Action("server_started")

	// Initialize database connection
	database, err := db.New(s.ctx, s.cfg.DB, mylog)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	s.db = database
	mylog.Info("Successful database connection")

	// The broker is best-effort: account CRUD keeps working when RabbitMQ
	// is down, we just stop publishing lifecycle events.
	var events ports.IEventPublisher
	broker, err := bm.New(s.appCtx, *s.cfg.RabbitMq, s.mylog)
	if err != nil {
		mylog.Warn("Message broker unavailable, lifecycle events disabled")
	} else {
		s.broker = broker
		events = bm.NewPublisher(s.appCtx, broker, s.mylog)
		mylog.Info("Successful message broker connection")
	}

	s.Configure(events)

	s.mu.Lock()
	s.srv = &http.Server{
		Addr:    fmt.Sprintf(":%v", s.cfg.Srv.AccountServicePort),
		Handler: s.mux,
	}
	s.mu.Unlock()

	mylog = mylog.WithGroup("details").With("port", s.cfg.Srv.AccountServicePort)

	mylog.Info("server is running")
	return s.startHTTPServer()
}

// Stop provides a programmatic shutdown. Accepts a context for timeout control.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mylog.Info("Shutting down HTTP server...")

	s.wg.Wait()

	if s.srv != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, WaitTime*time.Second)
		defer cancel()

		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.mylog.Error("Failed to shut down HTTP server gracefully", err)
			return fmt.Errorf("http server shutdown: %w", err)
		}
	}

	if s.broker != nil {
		if err := s.broker.Close(); err != nil {
			s.mylog.Error("Failed to close message broker", err)
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.mylog.Error("Failed to close database", err)
			return fmt.Errorf("db close: %w", err)
		}
		s.mylog.Info("Database closed")
	}

	s.mylog.Info("HTTP server shut down gracefully")
	return nil
}

func (s *Server) startHTTPServer() error {
	errCh := make(chan error, 1)

	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		} else {
			errCh <- nil
		}
	}()

	select {
	case <-s.ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

// Configure wires repositories, services, handlers and routes.
func (s *Server) Configure(events ports.IEventPublisher) {
	// Repositories
	accountRepo := db.NewAccountRepo(s.db)
	blacklistRepo := db.NewBlacklistRepo(s.db)

	// services
	accountService := service.NewAccountService(s.appCtx, s.cfg, accountRepo, blacklistRepo, events, s.mylog)

	// handlers
	riderHandler := handle.NewAccountHandler(accountService, s.cfg, models.KindRider, s.mylog)
	driverHandler := handle.NewAccountHandler(accountService, s.cfg, models.KindDriver, s.mylog)
	wsManager := ws.NewWebSocketManager()
	wsHandler := handle.NewWebSocketHandler(wsManager, accountService, s.mylog)

	authMiddleware := middleware.NewAuthMiddleware(accountService, s.mylog)

	s.mux = Router(riderHandler, driverHandler, wsHandler, authMiddleware).(*http.ServeMux)

	s.wg.Add(1)
	go s.runBlacklistSweep(blacklistRepo)
}

// runBlacklistSweep periodically purges expired revocation entries. The
// lazy expires_at predicate already keeps reads correct; the sweep only
// keeps the table small.
func (s *Server) runBlacklistSweep(ledger ports.IBlacklistRepo) {
	defer s.wg.Done()

	mylog := s.mylog.Action("blacklist_sweep")
	t := time.NewTicker(sweepInterval)
	defer t.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-t.C:
			purged, err := ledger.PurgeExpired(s.ctx)
			if err != nil {
				mylog.Error("Failed to purge blacklist", err)
				continue
			}
			if purged > 0 {
				mylog.Info("Purged expired blacklist entries", "count", purged)
			}
		}
	}
}
