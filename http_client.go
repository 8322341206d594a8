package main

import (
	"net/http"
	"time"
)

const defaultExternalHTTPTimeout = 30 * time.Second

var externalHTTPClient = &http.Client{
	Timeout: defaultExternalHTTPTimeout,
}

// ConfigureExternalHTTPClient applies the configured timeout and
// returns the value in effect. Zero or negative keeps the default.
func ConfigureExternalHTTPClient(seconds int) time.Duration {
	if seconds > 0 {
		externalHTTPClient.Timeout = time.Duration(seconds) * time.Second
	}
	return externalHTTPClient.Timeout
}
