package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/amsavalli07/socialsync/internal/repositories"
	"github.com/amsavalli07/socialsync/internal/shared"
)

// Options configure a [Sandbox]. Zero values fall back to the defaults noted per field.
type Options struct {
	Secret     string        // JWT signing secret; required
	TokenTTL   time.Duration // access token lifetime; one day
	OTPTTL     time.Duration // recovery code lifetime; ten minutes
	RateLimit  float64       // requests per second across clients; unlimited
	BcryptCost int           // password hash cost; [bcrypt.DefaultCost]
	Logger     *log.Logger
	Now        func() time.Time
}

// OptionsFromConfig maps the [sandbox] config section onto [Options].
func OptionsFromConfig(cfg shared.SandboxConfig, logger *log.Logger) Options {
	return Options{
		Secret:    cfg.JWTSecret,
		TokenTTL:  time.Duration(cfg.TokenTTLMinutes) * time.Minute,
		OTPTTL:    time.Duration(cfg.OTPTTLMinutes) * time.Minute,
		RateLimit: cfg.RateLimit,
		Logger:    logger,
	}
}

// Sandbox is a local implementation of the backend REST API over SQLite.
type Sandbox struct {
	router *BasicRouter
	logger *log.Logger
	posts  *repositories.PostRepository
}

// New builds the sandbox over db, which must already carry the sandbox schema.
func New(db *sql.DB, opts Options) (*Sandbox, error) {
	if opts.Secret == "" {
		return nil, fmt.Errorf("%w: sandbox jwt secret", shared.ErrMissingConfig)
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.OTPTTL <= 0 {
		opts.OTPTTL = 10 * time.Minute
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}

	logger := opts.Logger.WithPrefix("sandbox")
	tokens := NewTokenIssuer(opts.Secret, opts.TokenTTL)
	tokens.now = opts.Now

	accounts := repositories.NewAccountRepository(db)
	posts := repositories.NewPostRepository(db)

	router := NewBasicRouter()
	router.Use(
		RequestID(),
		Logging(logger),
		Recover(logger),
		RateLimit(opts.RateLimit, int(opts.RateLimit)+1),
	)

	router.Mount(&AccountHandler{
		accounts:   accounts,
		otps:       repositories.NewOTPRepository(db),
		tokens:     tokens,
		otpTTL:     opts.OTPTTL,
		bcryptCost: opts.BcryptCost,
		logger:     logger,
		now:        opts.Now,
	})
	router.Mount(&CredentialHandler{
		accounts:    accounts,
		credentials: repositories.NewCredentialRepository(db),
		logger:      logger,
	})
	router.Mount(&PostHandler{posts: posts, logger: logger, now: opts.Now})

	return &Sandbox{router: router, logger: logger, posts: posts}, nil
}

// ServeHTTP implements [http.Handler].
func (s *Sandbox) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Posts exposes the upload history.
func (s *Sandbox) Posts() *repositories.PostRepository {
	return s.posts
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down gracefully.
func (s *Sandbox) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("sandbox listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("sandbox shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down sandbox: %w", err)
		}
		return nil
	}
}

// ListenAndServe listens on addr and calls [Sandbox.Serve].
func (s *Sandbox) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}
