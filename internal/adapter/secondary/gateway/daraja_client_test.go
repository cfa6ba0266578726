package gateway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentflow/payment-gateway/internal/core"
	"github.com/rentflow/payment-gateway/internal/port/output"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func testConfig(baseURL string, timeout time.Duration) Config {
	return Config{
		BaseURL:        baseURL,
		ConsumerKey:    "key",
		ConsumerSecret: "secret",
		Shortcode:      "174379",
		Passkey:        "passkey",
		CallbackURL:    "https://example.com/api/v1/payments/mpesa/callback",
		Timeout:        timeout,
	}
}

func serveOAuth(w http.ResponseWriter) {
	json.NewEncoder(w).Encode(map[string]string{
		"access_token": "token-123",
		"expires_in":   "3599",
	})
}

func TestSTKPush_Accepted(t *testing.T) {
	var pushBody stkPushRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/oauth/v1/generate":
			user, pass, ok := r.BasicAuth()
			require.True(t, ok)
			assert.Equal(t, "key", user)
			assert.Equal(t, "secret", pass)
			serveOAuth(w)
		case "/mpesa/stkpush/v1/processrequest":
			assert.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&pushBody))
			json.NewEncoder(w).Encode(map[string]string{
				"MerchantRequestID":   "29115-34620561-1",
				"CheckoutRequestID":   "ws_CO_191220191020363925",
				"ResponseCode":        "0",
				"ResponseDescription": "Success. Request accepted for processing",
			})
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client := NewDarajaClient(testConfig(server.URL, 5*time.Second), testLogger())

	result, err := client.STKPush(context.Background(), output.STKPushRequest{
		Amount:           1000,
		Phone:            "254700000001",
		AccountReference: "RENT-abc",
		Description:      "Rent Payment",
	})

	require.NoError(t, err)
	assert.Equal(t, "ws_CO_191220191020363925", result.CheckoutRequestID)
	assert.Equal(t, "29115-34620561-1", result.MerchantRequestID)

	assert.Equal(t, "174379", pushBody.BusinessShortCode)
	assert.Equal(t, int64(1000), pushBody.Amount)
	assert.Equal(t, "254700000001", pushBody.PhoneNumber)
	assert.Equal(t, "CustomerPayBillOnline", pushBody.TransactionType)
	assert.NotEmpty(t, pushBody.Password)
}

func TestSTKPush_RejectionMapsToGatewayRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/oauth/v1/generate" {
			serveOAuth(w)
			return
		}
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{
			"errorCode":    "500.001.1001",
			"errorMessage": "Invalid PhoneNumber",
		})
	}))
	defer server.Close()

	client := NewDarajaClient(testConfig(server.URL, 5*time.Second), testLogger())

	_, err := client.STKPush(context.Background(), output.STKPushRequest{
		Amount: 1000,
		Phone:  "bogus",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrGatewayRejected)
}

// A 4xx with a non-JSON body is still an active refusal, not a
// transient outage.
func TestSTKPush_NonJSONRejectionStillMapsToGatewayRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/oauth/v1/generate" {
			serveOAuth(w)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusForbidden)
		io.WriteString(w, "<html><body>Access Denied</body></html>")
	}))
	defer server.Close()

	client := NewDarajaClient(testConfig(server.URL, 5*time.Second), testLogger())

	_, err := client.STKPush(context.Background(), output.STKPushRequest{Amount: 1000, Phone: "254700000001"})

	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrGatewayRejected)
	assert.NotErrorIs(t, err, core.ErrGatewayUnavailable)
}

func TestSTKPush_ServerErrorMapsToUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/oauth/v1/generate" {
			serveOAuth(w)
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewDarajaClient(testConfig(server.URL, 5*time.Second), testLogger())

	_, err := client.STKPush(context.Background(), output.STKPushRequest{Amount: 1000, Phone: "254700000001"})

	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrGatewayUnavailable)
}

func TestSTKPush_TimeoutMapsToUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/oauth/v1/generate" {
			serveOAuth(w)
			return
		}
		time.Sleep(300 * time.Millisecond)
	}))
	defer server.Close()

	client := NewDarajaClient(testConfig(server.URL, 50*time.Millisecond), testLogger())

	_, err := client.STKPush(context.Background(), output.STKPushRequest{Amount: 1000, Phone: "254700000001"})

	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrGatewayUnavailable)
}

func TestSTKPush_ReusesCachedToken(t *testing.T) {
	tokenFetches := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/oauth/v1/generate" {
			tokenFetches++
			serveOAuth(w)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{
			"CheckoutRequestID": "ws_CO_1",
			"ResponseCode":      "0",
		})
	}))
	defer server.Close()

	client := NewDarajaClient(testConfig(server.URL, 5*time.Second), testLogger())

	for i := 0; i < 3; i++ {
		_, err := client.STKPush(context.Background(), output.STKPushRequest{Amount: 1000, Phone: "254700000001"})
		require.NoError(t, err)
	}
	assert.Equal(t, 1, tokenFetches)
}
