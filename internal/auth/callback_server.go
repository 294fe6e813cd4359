package auth

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/pyritecloud/pyrite/pkg/logging"
)

const (
	// DefaultCallbackHost is the loopback address the callback server binds.
	DefaultCallbackHost = "127.0.0.1"
	// DefaultCallbackPort is the fixed port registered as the redirect target.
	DefaultCallbackPort = 3456
	// CallbackPath is the path the provider redirects the browser to.
	CallbackPath = "/auth/callback"

	shutdownTimeout = 5 * time.Second
)

//go:embed templates/callback_success.html
var callbackSuccessHTML string

//go:embed templates/callback_error.html
var callbackErrorHTML string

var (
	successTemplate = template.Must(template.New("success").Parse(callbackSuccessHTML))
	errorTemplate   = template.Must(template.New("error").Parse(callbackErrorHTML))
)

// CallbackReceiver receives the provider redirect for one login attempt.
type CallbackReceiver interface {
	// Listen binds the local address. It may be called before Run so that the
	// port is held before the authorization URL is shown.
	Listen() error
	// RedirectURL is the URL the provider must send the browser to.
	RedirectURL() string
	// Run serves until one callback has been handled and the listener is closed.
	Run(ctx context.Context, verifier string) error
}

// CallbackServerConfig configures a CallbackServer.
type CallbackServerConfig struct {
	Host string
	Port int
	// Provider redeems the received code.
	Provider Provider
	// Store receives the session before the browser gets its response.
	Store SessionStore
	// SuccessRedirectURL, if set, is where the browser is sent after a
	// successful login. Otherwise a success page is rendered.
	SuccessRedirectURL string
}

// CallbackServer is a single-use local HTTP server that receives the OAuth
// redirect, exchanges the code, persists the session and shuts itself down.
type CallbackServer struct {
	addr       string
	provider   Provider
	store      SessionStore
	successURL string

	listener net.Listener
	server   *http.Server

	// set by Run before serving
	ctx      context.Context
	verifier string

	resultCh chan error
	serveCh  chan error
	once     sync.Once
}

// NewCallbackServer creates a callback server. Zero host and port select the
// defaults. A negative port binds an ephemeral one.
func NewCallbackServer(cfg CallbackServerConfig) *CallbackServer {
	if cfg.Host == "" {
		cfg.Host = DefaultCallbackHost
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultCallbackPort
	} else if cfg.Port < 0 {
		cfg.Port = 0
	}

	return &CallbackServer{
		addr:       net.JoinHostPort(cfg.Host, fmt.Sprintf("%d", cfg.Port)),
		provider:   cfg.Provider,
		store:      cfg.Store,
		successURL: cfg.SuccessRedirectURL,
		resultCh:   make(chan error, 1),
		serveCh:    make(chan error, 1),
	}
}

// RedirectURL returns http://<host>:<port>/auth/callback.
func (s *CallbackServer) RedirectURL() string {
	return "http://" + s.addr + CallbackPath
}

// Listen binds the callback address.
func (s *CallbackServer) Listen() error {
	if s.listener != nil {
		return nil
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to start callback server on %s: %w", s.addr, err)
	}
	s.listener = listener
	s.addr = listener.Addr().String()
	logging.Debug("CallbackServer", "Listening on %s", s.addr)
	return nil
}

// Run serves until exactly one callback has been handled, then shuts the
// listener down and returns that callback's outcome. When Run returns nil the
// session is already readable from the store. ctx bounds the wait for the
// browser; cancelling it also closes the listener.
func (s *CallbackServer) Run(ctx context.Context, verifier string) error {
	if err := s.Listen(); err != nil {
		return err
	}

	s.ctx = ctx
	s.verifier = verifier

	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.server.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.serveCh <- err
		}
	}()

	var result error
	select {
	case result = <-s.resultCh:
	case err := <-s.serveCh:
		result = fmt.Errorf("callback server failed: %w", err)
	case <-ctx.Done():
		result = fmt.Errorf("timed out waiting for the login callback: %w", ctx.Err())
	}

	s.shutdown()
	return result
}

// Handler returns the HTTP handler serving the callback path.
func (s *CallbackServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(CallbackPath, s.handleCallback)
	return mux
}

func (s *CallbackServer) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if s.server != nil {
		if err := s.server.Shutdown(ctx); err != nil {
			logging.Debug("CallbackServer", "Graceful shutdown failed: %v", err)
			_ = s.server.Close()
		}
	}
	if s.listener != nil {
		_ = s.listener.Close()
	}
	logging.Debug("CallbackServer", "Stopped")
}

// handleCallback handles the OAuth redirect. Only the first GET terminates the
// login; later requests are rejected without touching provider or store.
func (s *CallbackServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var handled bool
	s.once.Do(func() {
		handled = true
		s.processCallback(w, r)
	})

	if !handled {
		http.Error(w, "Callback already processed", http.StatusBadRequest)
	}
}

// processCallback runs exactly once: exchange, persist, respond, signal.
func (s *CallbackServer) processCallback(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("X-Frame-Options", "DENY")
	w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'unsafe-inline'")
	w.Header().Set("Referrer-Policy", "no-referrer")
	w.Header().Set("Cache-Control", "no-store")

	err := s.completeLogin(r)
	if err != nil {
		logging.Warn("CallbackServer", "Login callback failed: %v", err)
		s.renderError(w, err)
	} else if s.successURL != "" {
		http.Redirect(w, r, s.successURL, http.StatusTemporaryRedirect)
	} else {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = successTemplate.Execute(w, nil)
	}

	s.resultCh <- err
}

func (s *CallbackServer) completeLogin(r *http.Request) error {
	query := r.URL.Query()
	code := query.Get("code")

	if providerErr := query.Get("error"); providerErr != "" {
		detail := providerErr
		if desc := query.Get("error_description"); desc != "" {
			detail += ": " + desc
		}
		return newErrorf(KindMissingCode, "%s", detail)
	}
	if code == "" {
		return newError(KindMissingCode, nil)
	}

	ctx := s.ctx
	if ctx == nil {
		ctx = r.Context()
	}

	session, err := s.provider.ExchangeCode(ctx, code, s.verifier)
	if err != nil {
		if KindOf(err) == KindUnknown {
			return newError(KindExchangeFailed, err)
		}
		return err
	}
	if !session.Complete() {
		return newErrorf(KindExchangeFailed, "provider returned an incomplete session")
	}

	if err := s.store.Write(session); err != nil {
		return err
	}

	logging.Info("CallbackServer", "Login completed for %s", session.User.Email)
	return nil
}

func (s *CallbackServer) renderError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	switch KindOf(err) {
	case KindNetwork:
		status = http.StatusBadGateway
	case KindStorage:
		status = http.StatusInternalServerError
	}

	data := map[string]string{"Message": "Something went wrong."}
	var authErr *Error
	if errors.As(err, &authErr) {
		data["Message"] = authErr.Kind.message()
		data["Description"] = authErr.Detail
		if authErr.Err != nil && data["Description"] == "" {
			data["Description"] = authErr.Err.Error()
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = errorTemplate.Execute(w, data)
}
