// Package testutil provides shared test utilities and fixtures.
package testutil

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/soundcath/beamformer/internal/beamform"
	"github.com/soundcath/beamformer/internal/monitoring"
	"github.com/soundcath/beamformer/internal/scan"
)

// LocalRequest creates a test request that appears to come from localhost,
// which the admin debug routes require. A non-nil body is sent as a form.
func LocalRequest(method, path string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, path, body)
	req.RemoteAddr = "127.0.0.1:12345"
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	return req
}

// CaptureLogs routes monitoring output into the test log until the test ends.
func CaptureLogs(t testing.TB) {
	t.Helper()
	monitoring.SetLogger(t.Logf)
	t.Cleanup(func() { monitoring.SetLogger(log.Printf) })
}

// SmallScan returns stock scan parameters reduced to an x-by-y grid.
func SmallScan(x, y int, delays bool) scan.Params {
	p := scan.DefaultParams()
	p.XSteps, p.YSteps = x, y
	p.UseDelays = delays
	return p
}

// BuildCache builds a cache with the stock beam parameters and fails the
// test on error.
func BuildCache(t testing.TB, p scan.Params) *scan.Cache {
	t.Helper()
	c, err := scan.Build(context.Background(), beamform.DefaultParams(), p)
	if err != nil {
		t.Fatalf("scan.Build failed: %v", err)
	}
	return c
}
