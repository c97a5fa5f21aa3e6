package api

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charliek/errboard/internal/snapshot"
)

func TestStreamUpdates_Headers(t *testing.T) {
	handlers := newTestHandlers(t)

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest("GET", "/api/v1/stream", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		handlers.StreamUpdates(rec, req)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("handler did not finish after context cancel")
	}

	result := rec.Result()
	defer result.Body.Close()

	assert.Equal(t, "text/event-stream", result.Header.Get("Content-Type"))
	assert.Equal(t, "no-cache", result.Header.Get("Cache-Control"))
	assert.Equal(t, "keep-alive", result.Header.Get("Connection"))
	assert.Equal(t, "no", result.Header.Get("X-Accel-Buffering"))
	assert.Equal(t, 0, handlers.store.Stats().Subscribers, "subscription should be released")
}

func TestStreamUpdates_DataFormat(t *testing.T) {
	handlers := newTestHandlers(t)
	server := httptest.NewServer(NewServer(ServerConfig{Host: "127.0.0.1"}, handlers).Handler())
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/v1/stream")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	reader := bufio.NewReader(resp.Body)

	// Wait for the connection comment so the subscription exists
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, ": connected\n", line)

	handlers.store.Set(snapshot.Snapshot{Calls: snapshot.CallsData{}, Events: nil})

	deadline := time.After(2 * time.Second)
	for {
		select {
		case <-deadline:
			t.Fatal("no update received")
		default:
		}

		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		if !strings.HasPrefix(line, "data: ") {
			continue
		}

		var update UpdateResponse
		require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(strings.TrimPrefix(line, "data: "))), &update))
		assert.Equal(t, 0, update.Calls)
		assert.NotEmpty(t, update.LoadedAt)
		return
	}
}
