package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"task-manager/internal/api"
	"task-manager/internal/logging"
)

//go:embed templates/*.html
var templateFS embed.FS

// Options configures the HTTP server.
type Options struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Server serves the task list view and its JSON API.
type Server struct {
	api  api.BusinessAPI
	log  zerolog.Logger
	tmpl *template.Template

	// baseCtx outlives single requests; background refreshes run on it.
	baseCtx context.Context
}

// NewServer creates a server. Background work started by requests uses ctx.
func NewServer(ctx context.Context, businessAPI api.BusinessAPI, log zerolog.Logger) (*Server, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, err
	}
	return &Server{
		api:     businessAPI,
		log:     log,
		tmpl:    tmpl,
		baseCtx: logging.WithContext(ctx, log),
	}, nil
}

// Handler returns the routed handler wrapped in middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// View
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /tasks", s.handleAddForm)
	mux.HandleFunc("POST /tasks/{id}/toggle", s.handleToggleForm)
	mux.HandleFunc("POST /tasks/{id}/delete", s.handleDeleteForm)
	mux.HandleFunc("POST /bills/refresh", s.handleRefreshForm)

	// JSON API
	mux.HandleFunc("GET /api/tasks", s.handleListTasks)
	mux.HandleFunc("POST /api/tasks", s.handleCreateTask)
	mux.HandleFunc("POST /api/tasks/{id}/toggle", s.handleToggleTask)
	mux.HandleFunc("DELETE /api/tasks/{id}", s.handleDeleteTask)
	mux.HandleFunc("POST /api/bills/refresh", s.handleRefreshBills)
	mux.HandleFunc("GET /api/state", s.handleState)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	return Recovery(s.log)(
		RequestID(
			Logger(s.log)(mux),
		),
	)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
// and waits for background refreshes.
func (s *Server) ListenAndServe(ctx context.Context, opts Options) error {
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}

	server := &http.Server{
		Addr:         opts.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", opts.Addr).Msg("Starting web server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info().Msg("Shutting down web server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), opts.ShutdownTimeout)
	defer cancel()

	err := server.Shutdown(shutdownCtx)
	s.api.WaitForRefresh()
	return err
}
