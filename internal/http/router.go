package http

import (
	"log/slog"
	"net/http"

	"github.com/example/agenda/internal/application"
)

type middleware func(http.Handler) http.Handler

type RouterConfig struct {
	Auth     *AuthHandler
	Agenda   *AgendaHandler
	Clients  *ClientHandler
	Users    *UserHandler
	Finance  *FinanceHandler
	Settings *SettingsHandler
	// Protect wraps every route except login, logout, session and demo.
	Protect middleware
	// LoginGuard wraps the login route only.
	LoginGuard middleware
	Middleware []func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	protect := func(fn http.HandlerFunc) http.Handler {
		if cfg.Protect == nil {
			return fn
		}
		return cfg.Protect(fn)
	}

	if cfg.Auth != nil {
		var login http.Handler = http.HandlerFunc(cfg.Auth.Login)
		if cfg.LoginGuard != nil {
			login = cfg.LoginGuard(login)
		}
		mux.Handle("POST /login", login)
		mux.HandleFunc("POST /logout", cfg.Auth.Logout)
		mux.HandleFunc("GET /session", cfg.Auth.Session)
		mux.HandleFunc("POST /demo", cfg.Auth.Demo)
	}

	if cfg.Agenda != nil {
		mux.Handle("GET /agenda", protect(cfg.Agenda.View))
		mux.Handle("GET /bookings", protect(cfg.Agenda.ListBookings))
		mux.Handle("POST /bookings", protect(cfg.Agenda.SaveBooking))
		mux.Handle("DELETE /bookings/{id}", protect(cfg.Agenda.DeleteBooking))
	}

	if cfg.Clients != nil {
		mux.Handle("GET /clients", protect(cfg.Clients.List))
		mux.Handle("POST /clients", protect(cfg.Clients.Save))
		mux.Handle("DELETE /clients/{id}", protect(cfg.Clients.Delete))
	}

	if cfg.Users != nil {
		mux.Handle("GET /users", protect(cfg.Users.List))
		mux.Handle("POST /users", protect(cfg.Users.Save))
		mux.Handle("DELETE /users/{id}", protect(cfg.Users.Delete))
	}

	if cfg.Finance != nil {
		mux.Handle("GET /finance", protect(cfg.Finance.List))
		mux.Handle("POST /finance", protect(cfg.Finance.Save))
		mux.Handle("DELETE /finance/{id}", protect(cfg.Finance.Delete))
	}

	if cfg.Settings != nil {
		mux.Handle("GET /config", protect(cfg.Settings.GetConfig))
		mux.Handle("PUT /config", protect(cfg.Settings.SaveConfig))
		mux.Handle("GET /backup", protect(cfg.Settings.Backup))
		mux.Handle("POST /backup", protect(cfg.Settings.Restore))
		mux.Handle("POST /reset", protect(cfg.Settings.Reset))
	}

	var handler http.Handler = mux
	if len(cfg.Middleware) > 0 {
		for i := len(cfg.Middleware) - 1; i >= 0; i-- {
			if cfg.Middleware[i] != nil {
				handler = cfg.Middleware[i](handler)
			}
		}
	}

	return handler
}

// ServerOptions tunes the ambient middleware around the API.
type ServerOptions struct {
	Logger *slog.Logger
	// CORSOrigins lists browser origins allowed to call the API; empty
	// disables CORS handling.
	CORSOrigins []string
	// LoginRate caps login attempts per client host per minute; zero disables
	// the limit.
	LoginRate int
}

// NewHandler wires every handler to the agenda.
func NewHandler(agenda *application.Agenda, opts ServerOptions) http.Handler {
	logger := defaultLogger(opts.Logger)

	cfg := RouterConfig{
		Auth:     NewAuthHandler(agenda, logger),
		Agenda:   NewAgendaHandler(agenda, logger),
		Clients:  NewClientHandler(agenda, logger),
		Users:    NewUserHandler(agenda, logger),
		Finance:  NewFinanceHandler(agenda, logger),
		Settings: NewSettingsHandler(agenda, logger),
		Protect:  RequireLogin(agenda, logger),
		Middleware: []func(http.Handler) http.Handler{
			RequestLogger(logger),
			CORS(opts.CORSOrigins),
		},
	}
	if opts.LoginRate > 0 {
		cfg.LoginGuard = LoginRateLimit(opts.LoginRate, logger)
	}

	return NewRouter(cfg)
}
