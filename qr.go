/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"

	"github.com/Seednode/imprompt/gateway"
)

const qrSize = 320

// roomURL builds the absolute link to a room page, honouring TLS and
// X-Forwarded-Proto.
func roomURL(cfg *Config, r *http.Request, code string) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	return scheme + "://" + r.Host + cfg.prefix + "/room/" + code
}

func serveRoomQR(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		startTime := time.Now()

		code, err := gateway.NormalizeRoomCode(p.ByName("code"))
		if err != nil {
			http.Error(w, "invalid room code", http.StatusBadRequest)

			return
		}

		png, err := qrcode.Encode(roomURL(cfg, r, code), qrcode.Medium, qrSize)
		if err != nil {
			cfg.log.Error().Err(err).Str("room", code).Msg("SERVE: QR generation failed")

			http.Error(w, "qr generation failed", http.StatusInternalServerError)

			return
		}

		w.Header().Set("Cache-Control", "public, max-age=3600")

		written, err := writeBody(cfg, w, http.StatusOK, "image/png", png)
		if err != nil {
			errs <- err

			return
		}

		logf(cfg, "SERVE: QR code for room %s (%s) to %s in %s",
			code,
			humanReadableSize(int64(written)),
			realIP(r),
			time.Since(startTime).Round(time.Microsecond),
		)
	}
}
