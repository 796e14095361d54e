// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package server

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	flattrie "github.com/absolutelightning/go-flat-trie"
)

func newTestServer(t *testing.T) *httptest.Server {
	trie, err := flattrie.New[byte, string](flattrie.CharDigits, 4, "none")
	require.NoError(t, err)
	ts := httptest.NewServer(New(trie, zap.NewNop()).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, method, url, body string) (int, string) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(data)
}

func getSlot(t *testing.T, base, key string) slotResponse {
	t.Helper()
	code, body := do(t, http.MethodGet, base+"/api/slots/"+key, "")
	require.Equal(t, http.StatusOK, code, body)
	var resp slotResponse
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	return resp
}

func TestServer_Healthz(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	code, body := do(t, http.MethodGet, ts.URL+"/healthz", "")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "ok", body)
}

func TestServer_PutAndGet(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)

	require.Equal(t, "none", getSlot(t, ts.URL, "0115").Value)

	code, _ := do(t, http.MethodPut, ts.URL+"/api/slots/123", "hundred")
	require.Equal(t, http.StatusNoContent, code)

	resp := getSlot(t, ts.URL, "123")
	require.Equal(t, "123", resp.Key)
	require.Equal(t, "hundred", resp.Value)
	require.Equal(t, 110+(1+2)*10+3, resp.Slot)

	// Keys longer than the max key length are truncated.
	code, _ = do(t, http.MethodPut, ts.URL+"/api/slots/12345", "trunc")
	require.Equal(t, http.StatusNoContent, code)
	require.Equal(t, "trunc", getSlot(t, ts.URL, "1234").Value)
}

func TestServer_InvalidKey(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	code, _ := do(t, http.MethodGet, ts.URL+"/api/slots/12a", "")
	require.Equal(t, http.StatusBadRequest, code)

	code, _ = do(t, http.MethodPut, ts.URL+"/api/slots/x", "v")
	require.Equal(t, http.StatusBadRequest, code)

	code, _ = do(t, http.MethodGet, ts.URL+"/api/slots/", "")
	require.Equal(t, http.StatusNotFound, code)
}

func TestServer_Reset(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	do(t, http.MethodPut, ts.URL+"/api/slots/7", "seven")

	code, _ := do(t, http.MethodPost, ts.URL+"/api/reset", "blank")
	require.Equal(t, http.StatusNoContent, code)
	require.Equal(t, "blank", getSlot(t, ts.URL, "7").Value)
	require.Equal(t, "blank", getSlot(t, ts.URL, "9999").Value)
}

func TestServer_Layout(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	code, body := do(t, http.MethodGet, ts.URL+"/api/layout", "")
	require.Equal(t, http.StatusOK, code)

	var resp layoutResponse
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	require.Equal(t, layoutResponse{
		Symbols:    10,
		MaxKeyLen:  4,
		Addressing: "shared",
		Offsets:    []int{0, 10, 110, 1110},
		Size:       10000,
		Slots:      10000,
	}, resp)
}

func TestServer_NotFound(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	code, _ := do(t, http.MethodGet, ts.URL+"/api/chain", "")
	require.Equal(t, http.StatusNotFound, code)
}

func TestServer_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := string(rune('0' + i))
			req, _ := http.NewRequest(http.MethodPut, ts.URL+"/api/slots/"+key, strings.NewReader(key))
			resp, err := http.DefaultClient.Do(req)
			if err == nil {
				resp.Body.Close()
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < 8; i++ {
		key := string(rune('0' + i))
		require.Equal(t, key, getSlot(t, ts.URL, key).Value)
	}
}

func TestServer_ListenAndServe(t *testing.T) {
	t.Parallel()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	trie, err := flattrie.New[byte, string](flattrie.CharDigits, 2, "")
	require.NoError(t, err)
	srv := New(trie, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe(ctx, addr, time.Second, time.Second) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}
