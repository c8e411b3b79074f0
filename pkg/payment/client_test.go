package payment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/storefront/pkg/config"
)

func newTestClient(baseURL string) *Client {
	return NewClient(&config.PaymentConfig{
		BaseURL:   baseURL,
		SecretKey: "sk_test_secret",
		Timeout:   2 * time.Second,
	})
}

func TestVerifySuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transaction/verify/ref-123", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_secret", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"status": true,
			"message": "Verification successful",
			"data": {
				"status": "success",
				"reference": "ref-123",
				"amount": 10748,
				"metadata": {"order_id": "order-1"}
			}
		}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	resp, err := client.Verify(context.Background(), "ref-123")
	require.NoError(t, err)
	assert.True(t, resp.Succeeded())
	assert.Equal(t, "order-1", resp.Data.Metadata.OrderID)
	assert.Equal(t, int64(10748), resp.Data.Amount)
}

func TestVerifyDeclined(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": true, "data": {"status": "failed"}}`))
	}))
	defer server.Close()

	resp, err := newTestClient(server.URL).Verify(context.Background(), "ref-123")
	require.NoError(t, err)
	assert.False(t, resp.Succeeded())
}

func TestVerifyGatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Verify(context.Background(), "ref-123")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestVerifyRespectsContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := newTestClient(server.URL).Verify(ctx, "ref-123")
	require.Error(t, err)
}

func TestVerifyEscapesReference(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.Write([]byte(`{"status": false}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Verify(context.Background(), "ref/../../admin")
	require.NoError(t, err)
	assert.Equal(t, "/transaction/verify/ref%2F..%2F..%2Fadmin", gotPath)
}
