package utils

import (
	"net/http"
	"time"
)

// NewHTTPClient vraća klijenta sa podešenim timeout-om za pozive između servisa.
func NewHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 5 * time.Second,
	}
}
