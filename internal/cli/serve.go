package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/causalab/gies/pkg/buildinfo"
	"github.com/causalab/gies/pkg/errors"
	"github.com/causalab/gies/pkg/graphio"
	"github.com/causalab/gies/pkg/score"
	"github.com/causalab/gies/pkg/search"
)

// serveCommand creates the serve command: expose the search as an HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the structure search as an HTTP API",
		Long: `Serve the structure search over HTTP.

Endpoints:
  POST /api/search   run a search; the body carries the score table and options
  GET  /healthz      liveness probe
  GET  /version      build information`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultServeAddr, "listen address")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string) error {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(5 * time.Minute))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/version", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"version": buildinfo.Version,
			"commit":  buildinfo.Commit,
			"built":   buildinfo.Date,
		})
	})
	r.Post("/api/search", c.handleSearch)

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	c.Logger.Infof("Listening on %s", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

// searchRequest is the POST /api/search body: a score table plus the same
// options the TOML configuration accepts.
type searchRequest struct {
	Score     score.TableDoc `json:"score"`
	Phases    []string       `json:"phases,omitempty"`
	Iterate   *bool          `json:"iterate,omitempty"`
	MaxDegree []float64      `json:"max_degree,omitempty"`
	Workers   int            `json:"workers,omitempty"`
	Targets   [][]int        `json:"targets,omitempty"`
	Gaps      [][]string     `json:"gaps,omitempty"`
}

func (c *CLI) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode request"))
		return
	}

	table, err := score.NewTable(req.Score)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	cfg := &Config{
		Phases:    req.Phases,
		Iterate:   req.Iterate,
		MaxDegree: req.MaxDegree,
		Workers:   req.Workers,
		Targets:   req.Targets,
		Gaps:      req.Gaps,
	}
	opts, err := cfg.SearchOptions(table)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	opts.Logger = c.Logger

	searcher, err := search.New(table, opts)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	res, err := searcher.Run(r.Context())
	if err != nil {
		status := http.StatusInternalServerError
		if r.Context().Err() != nil {
			status = http.StatusRequestTimeout
		}
		writeError(w, status, err)
		return
	}

	c.Logger.Infof("Search %s: score %g, %d moves", res.RunID, res.Score, res.Moves)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := graphio.WriteResult(res, w); err != nil {
		c.Logger.Errorf("Write response: %v", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	body := map[string]string{"error": errors.UserMessage(err)}
	if code := errors.GetCode(err); code != "" {
		body["code"] = string(code)
	}
	writeJSON(w, status, body)
}
