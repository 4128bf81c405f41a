package storage

import (
	"testing"
	"time"
)

func TestShoppingListKey(t *testing.T) {
	at := time.Date(2026, 3, 1, 23, 30, 0, 0, time.FixedZone("ICT", 7*3600))
	got := ShoppingListKey(at, "abc", "xlsx")
	if got != "shopping-lists/2026-03-01/abc.xlsx" {
		t.Fatalf("unexpected key %s", got)
	}
}

func TestNormalizeEndpoint(t *testing.T) {
	tests := []struct {
		endpoint   string
		useSSL     bool
		wantHost   string
		wantSecure bool
	}{
		{"https://s3.example.com", false, "s3.example.com", true},
		{"http://minio:9000", true, "minio:9000", false},
		{"minio:9000", true, "minio:9000", true},
		{"//minio:9000/", false, "minio:9000", false},
	}
	for _, tt := range tests {
		host, secure := normalizeEndpoint(tt.endpoint, tt.useSSL)
		if host != tt.wantHost || secure != tt.wantSecure {
			t.Errorf("normalizeEndpoint(%q, %v) = %q, %v", tt.endpoint, tt.useSSL, host, secure)
		}
	}
}
