/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/Seednode/imprompt/gateway"
	"github.com/Seednode/imprompt/imagegen"
)

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Rooms     int       `json:"rooms"`
	Uptime    float64   `json:"uptime"`
}

type newRoomResponse struct {
	RoomID string `json:"roomId"`
	URL    string `json:"url"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func serveAPIHealth(cfg *Config, gw *gateway.Gateway, started time.Time, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		now := time.Now()

		_, err := writeJSON(cfg, w, http.StatusOK, healthResponse{
			Status:    "ok",
			Timestamp: now.UTC(),
			Rooms:     gw.Rooms(),
			Uptime:    now.Sub(started).Seconds(),
		})
		if err != nil {
			errs <- err
		}
	}
}

func serveCosts(cfg *Config, gw *gateway.Gateway, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		startTime := time.Now()

		counts, err := gw.Usage().Counts(r.Context())
		if err != nil {
			cfg.log.Error().Err(err).Msg("SERVE: Failed to read image usage")

			_, err = writeJSON(cfg, w, http.StatusServiceUnavailable, errorResponse{Error: "usage statistics are unavailable"})
			if err != nil {
				errs <- err
			}

			return
		}

		stats := imagegen.Summarize(counts)

		written, err := writeJSON(cfg, w, http.StatusOK, stats)
		if err != nil {
			errs <- err

			return
		}

		logf(cfg, "SERVE: Cost summary (%s, %d images) to %s in %s",
			humanReadableSize(int64(written)),
			stats.TotalImages,
			realIP(r),
			time.Since(startTime).Round(time.Microsecond),
		)
	}
}

func serveNewRoom(cfg *Config, gw *gateway.Gateway, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		code := gw.NewRoomCode()

		_, err := writeJSON(cfg, w, http.StatusOK, newRoomResponse{
			RoomID: code,
			URL:    cfg.prefix + "/room/" + code,
		})
		if err != nil {
			errs <- err
		}
	}
}

// redirectNewRoom sends the client to a page for a fresh room code. The
// room itself is opened by the first create_room naming that code.
func redirectNewRoom(cfg *Config, gw *gateway.Gateway) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		code := gw.NewRoomCode()

		logf(cfg, "GAMES: Issued room code %s to %s", code, realIP(r))

		http.Redirect(w, r, cfg.prefix+"/room/"+code, http.StatusTemporaryRedirect)
	}
}
