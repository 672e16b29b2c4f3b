package handler

import (
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

type Handlers struct {
	Registration *RegistrationHandler
	Students     *StudentHandler
	Import       *ImportHandler
	Progress     *ProgressHandler
}

// NewRouter wires every route of the form shell.
func NewRouter(h Handlers, allowedOrigins []string, log zerolog.Logger) http.Handler {
	r := mux.NewRouter()
	r.Use(requestLogger(log))

	r.HandleFunc("/", h.Registration.ShowForm).Methods(http.MethodGet)
	r.HandleFunc("/register", h.Registration.Register).Methods(http.MethodPost)
	r.HandleFunc("/students", h.Students.ListStudents).Methods(http.MethodGet)

	r.HandleFunc("/import", h.Import.ImportCSV).Methods(http.MethodPost)
	r.HandleFunc("/progress", h.Progress.GetAllProgress).Methods(http.MethodGet)
	r.HandleFunc("/progress/file", h.Progress.GetFileProgress).Methods(http.MethodGet)
	r.HandleFunc("/progress/sse", h.Progress.SSEProgress).Methods(http.MethodGet)

	cors := handlers.CORS(handlers.AllowedOrigins(allowedOrigins))
	return handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(cors(r))
}

func requestLogger(log zerolog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			log.Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Dur("elapsed", time.Since(start)).
				Msg("request")
		})
	}
}
