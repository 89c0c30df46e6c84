package vybe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "test-key", zap.NewNop())
}

func TestTokenDetails_Success(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/token/mint-1", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-API-KEY"))
		w.Write([]byte(`{"name":"Solana","symbol":"SOL"}`))
	})

	res := client.TokenDetails(context.Background(), "mint-1")
	require.Equal(t, Success, res.Kind)

	details, ok := res.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Solana", details["name"])
}

func TestTokenTransfers_PassesParams(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/token/transfers", r.URL.Path)
		assert.Equal(t, "wallet-1", r.URL.Query().Get("walletAddress"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		w.Write([]byte(`{"transfers":[]}`))
	})

	res := client.TokenTransfers(context.Background(), "wallet-1", 10)
	assert.Equal(t, Success, res.Kind)
}

func TestTokenHolders_PassesParams(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/token/mint-1/top-holders", r.URL.Path)
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		w.Write([]byte(`{"data":[]}`))
	})

	res := client.TokenHolders(context.Background(), "mint-1", 10)
	assert.Equal(t, Success, res.Kind)
}

func TestGet_NotFoundIsEmpty(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})

	res := client.TokenDetails(context.Background(), "mint-1")
	assert.Equal(t, Empty, res.Kind)
	assert.Nil(t, res.Data)
}

func TestGet_EmptyBodyIsEmpty(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	res := client.InstructionNames(context.Background())
	assert.Equal(t, Empty, res.Kind)
}

func TestGet_NullBodyIsEmpty(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("null"))
	})

	res := client.InstructionNames(context.Background())
	assert.Equal(t, Empty, res.Kind)
}

func TestGet_ServerErrorIsFailure(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	res := client.TokenDetails(context.Background(), "mint-1")
	require.Equal(t, Failure, res.Kind)
	assert.Contains(t, res.Reason, "Status 500")
	assert.Contains(t, res.Reason, "boom")
}

func TestGet_MalformedBodyIsFailure(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"name": `))
	})

	res := client.TokenDetails(context.Background(), "mint-1")
	require.Equal(t, Failure, res.Kind)
	assert.Contains(t, res.Reason, "malformed response body")
}

func TestGet_TransportErrorIsFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // закрываем сразу: соединение гарантированно не установится

	client := NewClient(srv.URL, "test-key", zap.NewNop())
	res := client.TokenDetails(context.Background(), "mint-1")
	require.Equal(t, Failure, res.Kind)
	assert.NotEmpty(t, res.Reason)
}

func TestGet_ContextCancelledIsFailure(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := client.TokenDetails(ctx, "mint-1")
	assert.Equal(t, Failure, res.Kind)
}

func TestGet_LongErrorBodyIsTrimmed(t *testing.T) {
	t.Parallel()

	long := make([]byte, 5000)
	for i := range long {
		long[i] = 'x'
	}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write(long)
	})

	res := client.TokenDetails(context.Background(), "mint-1")
	require.Equal(t, Failure, res.Kind)
	assert.Less(t, len(res.Reason), 300)
}

func TestGet_MultibyteErrorBodyStaysValidUTF8(t *testing.T) {
	t.Parallel()

	// Лимит в 200 байт попадает в середину трёхбайтовой руны
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(strings.Repeat("€", 100)))
	})

	res := client.TokenDetails(context.Background(), "mint-1")
	require.Equal(t, Failure, res.Kind)
	assert.True(t, utf8.ValidString(res.Reason))
	assert.Contains(t, res.Reason, "Status 502")
}
