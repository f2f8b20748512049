/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"fmt"
	"html"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/Seednode/imprompt/gateway"
)

func serveHomePage(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		body := fmt.Sprintf(`<h1>imprompt</h1>`+
			`<p>One player describes an image, everyone else guesses the prompt.</p>`+
			`<p><a href="%s/room">Start a new room</a></p>`, cfg.prefix)

		_, err := writeBody(cfg, w, http.StatusOK, "text/html; charset=utf-8", []byte(newPage("imprompt", body)))
		if err != nil {
			errs <- err
		}
	}
}

func serveRoomPage(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		code, err := gateway.NormalizeRoomCode(p.ByName("code"))
		if err != nil {
			serveNotFound(cfg, errs).ServeHTTP(w, r)

			return
		}

		body := fmt.Sprintf(`<h1>Room %[2]s</h1>`+
			`<img src="%[1]s/room/%[2]s/qr" alt="QR code for room %[2]s" width="320" height="320">`+
			`<p>Scan to join, or enter code <strong>%[2]s</strong>.</p>`, cfg.prefix, html.EscapeString(code))

		_, err = writeBody(cfg, w, http.StatusOK, "text/html; charset=utf-8", []byte(newPage("imprompt: "+code, body)))
		if err != nil {
			errs <- err
		}
	}
}

func serveNotFound(cfg *Config, errs chan<- error) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, err := writeBody(cfg, w, http.StatusNotFound, "text/html; charset=utf-8",
			[]byte(newPage("Not Found", fmt.Sprintf(`<p>Nothing here.</p><p><a href="%s/">Back to the start</a></p>`, cfg.prefix))))
		if err != nil {
			errs <- err
		}
	})
}

func serveHealthCheck(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		_, err := writeBody(cfg, w, http.StatusOK, "text/plain; charset=utf-8", []byte("Ok\n"))
		if err != nil {
			errs <- err

			return
		}
	}
}

func serveRobots(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		data := `User-agent: Amazonbot
Disallow: /

User-agent: Applebot-Extended
Disallow: /

User-agent: Bytespider
Disallow: /

User-agent: CCBot
Disallow: /

User-agent: ClaudeBot
Disallow: /

User-agent: Google-Extended
Disallow: /

User-agent: GPTBot
Disallow: /

User-agent: meta-externalagent
Disallow: /

User-agent: *
Disallow: /api/
Disallow: /room/`

		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Header().Set("Expires", time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))

		_, err := writeBody(cfg, w, http.StatusOK, "text/plain; charset=utf-8", []byte(data))
		if err != nil {
			errs <- err

			return
		}
	}
}
