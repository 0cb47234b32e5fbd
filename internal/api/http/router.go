package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/aashikantkumar/cheifidea/internal/logger"
	"github.com/aashikantkumar/cheifidea/internal/metrics"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

type RouterOptions struct {
	CORSOrigins []string
	// UploadDir is served under /uploads/ when set.
	UploadDir string
}

func NewRouter(handler *Handler, opts RouterOptions) http.Handler {
	r := mux.NewRouter()
	r.Use(requestID, instrument)
	handler.RegisterRoutes(r)
	r.Handle("/metrics", metrics.Handler()).Methods("GET")
	if opts.UploadDir != "" {
		r.PathPrefix("/uploads/").Handler(http.StripPrefix("/uploads/", http.FileServer(http.Dir(opts.UploadDir))))
	}
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusNotFound, failure{StatusCode: http.StatusNotFound, Message: "Route not found", Errors: []string{}})
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})
	return c.Handler(r)
}

// StartServer serves handler on addr until ctx is cancelled.
func StartServer(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.FromContext(ctx).Info().Str("addr", addr).Msg("http server starting")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.FromContext(ctx).Info().Msg("http server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
