package metric

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitForServer(t *testing.T, url string) *http.Response {
	t.Helper()
	var resp *http.Response
	var err error
	for i := 0; i < 100; i++ {
		resp, err = http.Get(url)
		if err == nil {
			return resp
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("server never became reachable at %s: %v", url, err)
	return nil
}

func TestServerServesAndStops(t *testing.T) {
	registry := NewMetricsRegistry()
	server := NewServer(29187, "/metrics", registry)

	startDone := make(chan error, 1)
	go func() {
		startDone <- server.Start()
	}()

	resp := waitForServer(t, "http://localhost:29187/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	resp, err := http.Get("http://localhost:29187/metrics")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	require.NoError(t, server.Stop())

	select {
	case err := <-startDone:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after Stop")
	}
}

func TestServerStopBeforeStart(t *testing.T) {
	registry := NewMetricsRegistry()
	server := NewServer(29188, "/metrics", registry)

	// A short-lived caller can tear down before the serving goroutine has
	// even bound the port. Start must refuse to serve, not bind a server
	// nothing will ever shut down.
	require.NoError(t, server.Stop())

	startDone := make(chan error, 1)
	go func() {
		startDone <- server.Start()
	}()

	select {
	case err := <-startDone:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after a preceding Stop")
	}

	_, err := http.Get("http://localhost:29188/health")
	assert.Error(t, err, "nothing should be listening after Stop then Start")
}

func TestServerStopIdempotent(t *testing.T) {
	server := NewServer(29189, "/metrics", NewMetricsRegistry())
	require.NoError(t, server.Stop())
	require.NoError(t, server.Stop())
}

func TestServerStartTwice(t *testing.T) {
	registry := NewMetricsRegistry()
	server := NewServer(29190, "/metrics", registry)

	startDone := make(chan error, 1)
	go func() {
		startDone <- server.Start()
	}()
	defer func() {
		_ = server.Stop()
		<-startDone
	}()

	resp := waitForServer(t, "http://localhost:29190/health")
	_ = resp.Body.Close()

	err := server.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already running")
}

func TestServerNilRegistry(t *testing.T) {
	server := NewServer(29191, "/metrics", nil)
	err := server.Start()
	require.Error(t, err)
}

func TestServerAddress(t *testing.T) {
	server := NewServer(9095, "/custom", NewMetricsRegistry())
	assert.Equal(t, fmt.Sprintf("http://localhost:%d%s", 9095, "/custom"), server.Address())
}
