/*
Copyright © 2024 Alexandre Pires

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package playlistserver

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/a13labs/m3uflat/pkg/auth"
	"github.com/a13labs/m3uflat/pkg/logger"
	"github.com/a13labs/m3uflat/pkg/m3uparser"
	"github.com/a13labs/m3uflat/pkg/upstream"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	config       ServerConfig
	parser       *m3uparser.Parser
	geo          *geoFilter
	upstreamOpts []upstream.Option
}

// NewServer prepares the routes for config. Token checks are enabled when a
// secret key is configured, the country filter when a GeoIP database is.
func NewServer(config ServerConfig, opts ...upstream.Option) (*Server, error) {
	if config.Port == 0 {
		config.Port = DefaultConfig().Port
	}
	if config.Timeout < 1 {
		config.Timeout = DefaultConfig().Timeout
	}

	if config.Auth.SecretKey != "" {
		if err := auth.Init(config.Auth); err != nil {
			return nil, fmt.Errorf("failed to initialize authentication: %w", err)
		}
	} else {
		auth.Reset()
		logger.Warn("No secret key configured, playlists are served without authentication")
	}

	geo, err := newGeoFilter(config.Security.GeoIP)
	if err != nil {
		return nil, fmt.Errorf("failed to load GeoIP database: %w", err)
	}

	return &Server{
		config:       config,
		parser:       m3uparser.NewParser(m3uparser.WithDiagnostics(countDiagnostics(logger.Diagnostics()))),
		geo:          geo,
		upstreamOpts: opts,
	}, nil
}

func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.Use(metrics)

	router.HandleFunc("/health", healthCheckRequest).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	router.HandleFunc("/playlists/{name}", bearerAuth(s.getPlaylistRequest)).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/parse", bearerAuth(s.parseRequest)).Methods(http.MethodPost)

	return s.geo.middleware(router)
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	defer s.geo.close()

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.config.Port),
		Handler: s.Handler(),
	}

	errs := make(chan error, 1)
	go func() {
		logger.Infof("Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errs <- err
		}
		close(errs)
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("Server shutdown.")
	return nil
}

// Start serves config until SIGINT, SIGTERM or SIGQUIT.
func Start(config ServerConfig) error {
	server, err := NewServer(config)
	if err != nil {
		return err
	}

	logger.Infof("Serving %d playlists", len(config.Playlists))
	for name, playlist := range config.Playlists {
		logger.Debugf("Playlist %s: %s", name, playlist.Source)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	return server.Run(ctx)
}
