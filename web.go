/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/Seednode/imprompt/gateway"
	"github.com/Seednode/imprompt/imagegen"
)

const (
	logDate string        = `2006-01-02T15:04:05.000-07:00`
	timeout time.Duration = 10 * time.Second
)

func securityHeaders(cfg *Config, w http.ResponseWriter) {
	w.Header().Set("Cross-Origin-Opener-Policy", "same-origin")
	w.Header().Set("Cross-Origin-Resource-Policy", "same-site")
	w.Header().Set("Permissions-Policy", "geolocation=(), midi=(), sync-xhr=(), microphone=(), camera=(), magnetometer=(), gyroscope=(), fullscreen=(), payment=()")
	w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data: https:")

	if cfg.scheme() == "https" {
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
	}
}

func realIP(r *http.Request) string {
	host, port, _ := net.SplitHostPort(r.RemoteAddr)
	if ip := r.Header.Get("CF-Connecting-IP"); ip != "" {
		if net.ParseIP(ip) != nil {
			host = ip
		}
	} else if ip := r.Header.Get("X-Real-IP"); ip != "" {
		if net.ParseIP(ip) != nil {
			host = ip
		}
	}
	if net.ParseIP(host) != nil && strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	if port != "" {
		return host + ":" + port
	}
	return host
}

func serveVersion(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		startTime := time.Now()

		written, err := writeBody(cfg, w, http.StatusOK, "text/plain; charset=utf-8", []byte("imprompt v"+releaseVersion+"\n"))
		if err != nil {
			errs <- err

			return
		}

		logf(cfg, "SERVE: Version page (%s) to %s in %s",
			humanReadableSize(int64(written)),
			realIP(r),
			time.Since(startTime).Round(time.Microsecond),
		)
	}
}

func serveWebSocket(cfg *Config, gw *gateway.Gateway) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		logf(cfg, "GAMES: Websocket connection from %s", realIP(r))

		gw.ServeWS(w, r)
	}
}

// newUsage picks the usage tracker. Counts are shared through redis when an
// address is configured and kept in memory otherwise.
func newUsage(ctx context.Context, cfg *Config) (imagegen.Usage, func(), error) {
	if cfg.redisAddr == "" {
		return imagegen.NewMemoryUsage(), func() {}, nil
	}

	usage, err := imagegen.NewRedisUsage(ctx, cfg.redisAddr, cfg.redisPassword, cfg.redisDB)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to redis at %s: %w", cfg.redisAddr, err)
	}

	logf(cfg, "START: Tracking image usage in redis at %s", cfg.redisAddr)

	return usage, func() { _ = usage.Close() }, nil
}

func newRouter(cfg *Config, gw *gateway.Gateway, started time.Time, errs chan<- error) *httprouter.Router {
	mux := httprouter.New()

	mux.PanicHandler = func(w http.ResponseWriter, r *http.Request, i any) {
		cfg.log.Error().Interface("panic", i).Str("path", r.URL.Path).Msg("SERVE: Recovered from panic")

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		securityHeaders(cfg, w)
		w.WriteHeader(http.StatusInternalServerError)

		_, _ = io.WriteString(w, newPage("Server Error", "An error has occurred. Please try again."))
	}

	mux.NotFound = serveNotFound(cfg, errs)

	mux.GET(cfg.prefix+"/", serveHomePage(cfg, errs))

	mux.GET(cfg.prefix+"/healthz", serveHealthCheck(cfg, errs))

	mux.GET(cfg.prefix+"/robots.txt", serveRobots(cfg, errs))

	mux.GET(cfg.prefix+"/version", serveVersion(cfg, errs))

	mux.GET(cfg.prefix+"/api/health", serveAPIHealth(cfg, gw, started, errs))

	mux.GET(cfg.prefix+"/api/costs", serveCosts(cfg, gw, errs))

	mux.GET(cfg.prefix+"/api/rooms/new", serveNewRoom(cfg, gw, errs))

	mux.GET(cfg.prefix+"/room", redirectNewRoom(cfg, gw))

	mux.GET(cfg.prefix+"/room/:code", serveRoomPage(cfg, errs))

	mux.GET(cfg.prefix+"/room/:code/qr", serveRoomQR(cfg, errs))

	mux.GET(cfg.prefix+"/ws", serveWebSocket(cfg, gw))

	if cfg.profile {
		registerProfileHandlers(cfg, mux)
	}

	return mux
}

func ServePage(ctx context.Context, cfg *Config, args []string) error {
	var err error

	timeZone := os.Getenv("TZ")
	if timeZone != "" {
		time.Local, err = time.LoadLocation(timeZone)
		if err != nil {
			return err
		}
	}

	logf(cfg, "START: imprompt v%s", releaseVersion)

	gen, err := imagegen.New(cfg.imageOptions())
	if err != nil {
		return err
	}

	logf(cfg, "START: Generating images with the %s provider", gen.Name())

	usage, closeUsage, err := newUsage(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeUsage()

	gw := gateway.New(cfg.gatewayOptions(gen, usage))

	errs := make(chan error, 64)
	go logErrors(cfg, errs)

	cfg.prefix = strings.TrimSuffix(cfg.prefix, "/")

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.bind, strconv.Itoa(cfg.port)),
		Handler:           newRouter(cfg, gw, time.Now(), errs),
		IdleTimeout:       10 * time.Minute,
		ReadTimeout:       timeout,
		ReadHeaderTimeout: timeout,
		WriteTimeout:      timeout,
	}

	go func() {
		var err error
		logf(cfg, "SERVE: Listening on %s://%s%s/", cfg.scheme(), srv.Addr, cfg.prefix)
		if cfg.tlsKey != "" && cfg.tlsCert != "" {
			err = srv.ListenAndServeTLS(cfg.tlsCert, cfg.tlsKey)
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			cfg.log.Error().Err(err).Msg("SERVE: Server stopped")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)

	return nil
}
