/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/rs/zerolog"
)

func newLogger(out io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: logDate,
		NoColor:    true,
	}).Level(level).With().Timestamp().Logger()
}

func logf(cfg *Config, format string, args ...any) {
	if !cfg.verbose {
		return
	}

	cfg.log.Info().Msgf(format, args...)
}

func logErrors(cfg *Config, errs <-chan error) {
	for err := range errs {
		cfg.log.Error().Err(err).Msg("SERVE: Failed to write response")
	}
}

func newPage(title, body string) string {
	var htmlBody strings.Builder

	htmlBody.WriteString(`<!DOCTYPE html><html lang="en"><head>`)
	htmlBody.WriteString(`<meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">`)
	htmlBody.WriteString(`<style>`)
	htmlBody.WriteString(`html,body{height:100%;margin:0;font-family:sans-serif;}main{display:flex;flex-direction:column;align-items:center;justify-content:center;height:100%;gap:1em;}a{color:inherit;}</style>`)
	htmlBody.WriteString(fmt.Sprintf("<title>%s</title></head>", html.EscapeString(title)))
	htmlBody.WriteString(fmt.Sprintf("<body><main>%s</main></body></html>", body))

	return htmlBody.String()
}
