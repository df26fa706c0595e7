package jsonrpc

import (
	"os"
	"strconv"
	"strings"
)

// CORSFromEnv reads environment variables and constructs a CORSConfig.
// Returns (cfg, true) if any CORS-related env var is set; otherwise (zero, false).
//
// Env vars:
// - CORS_ALLOWED_ORIGINS: comma-separated list
// - CORS_ALLOWED_METHODS: comma-separated list
// - CORS_ALLOWED_HEADERS: comma-separated list
// - CORS_MAX_AGE: integer seconds
func CORSFromEnv() (CORSConfig, bool) {
	origins := splitAndTrim(os.Getenv("CORS_ALLOWED_ORIGINS"))
	methods := splitAndTrim(os.Getenv("CORS_ALLOWED_METHODS"))
	headers := splitAndTrim(os.Getenv("CORS_ALLOWED_HEADERS"))

	var maxAge int
	if raw := os.Getenv("CORS_MAX_AGE"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			maxAge = v
		}
	}

	provided := len(origins) > 0 || len(methods) > 0 || len(headers) > 0 || maxAge > 0
	if !provided {
		return CORSConfig{}, false
	}

	return CORSConfig{
		AllowedOrigins: origins,
		AllowedMethods: methods,
		AllowedHeaders: headers,
		MaxAge:         maxAge,
	}, true
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
