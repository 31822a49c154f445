package masterblog

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
)

// DefaultBaseURL is used until the user configures another API address.
const DefaultBaseURL = "http://localhost:5002/api"

// Endpoint joins path segments onto a base URL. Segments are path-escaped.
func Endpoint(base string, segments ...string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(base))
	if err != nil {
		return "", fmt.Errorf("invalid base URL %q: %w", base, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("invalid base URL %q: scheme must be http or https", base)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid base URL %q: missing host", base)
	}
	escaped := make([]string, 0, len(segments))
	for _, s := range segments {
		escaped = append(escaped, url.PathEscape(s))
	}
	u.RawQuery = ""
	u.Fragment = ""
	out := strings.TrimRight(u.String(), "/")
	if len(escaped) > 0 {
		out += "/" + strings.Join(escaped, "/")
	}
	return out, nil
}

// NormalizeBaseURL trims whitespace and trailing slashes. An empty value
// becomes DefaultBaseURL.
func NormalizeBaseURL(s string) string {
	s = strings.TrimRight(strings.TrimSpace(s), "/")
	if s == "" {
		return DefaultBaseURL
	}
	return s
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// MustEnv returns the value of the environment variable key, or fatally exits if empty.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("masterblog: required environment variable %s is not set", key)
	}
	return v
}
