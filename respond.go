/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

func humanReadableSize(bytes int64) string {
	const unit int64 = 1000
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := unit, 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB",
		float64(bytes)/float64(div),
		"kMGTPE"[exp])
}

// writeBody sends data with the given status and content type, returning
// the number of bytes written.
func writeBody(cfg *Config, w http.ResponseWriter, status int, contentType string, data []byte) (int, error) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	securityHeaders(cfg, w)
	w.WriteHeader(status)

	return w.Write(data)
}

func writeJSON(cfg *Config, w http.ResponseWriter, status int, v any) (int, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return 0, err
	}

	w.Header().Set("Cache-Control", "no-store")

	return writeBody(cfg, w, status, "application/json; charset=utf-8", append(data, '\n'))
}
