package gateway

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rentflow/payment-gateway/internal/core"
	"github.com/rentflow/payment-gateway/internal/port/output"
)

const (
	oauthPath   = "/oauth/v1/generate?grant_type=client_credentials"
	stkPushPath = "/mpesa/stkpush/v1/processrequest"

	timestampLayout = "20060102150405"
)

// Config carries the gateway credential bundle. It is loaded once at
// process start and handed to the client constructor; nothing else in
// the process reads these secrets.
type Config struct {
	BaseURL        string
	ConsumerKey    string
	ConsumerSecret string
	Shortcode      string
	Passkey        string
	CallbackURL    string
	Timeout        time.Duration
}

// DarajaClient is a secondary adapter that implements the GatewayClient
// output port against the Daraja (M-Pesa) push-payment API. The push
// only confirms that the request was accepted for asynchronous
// processing; the final outcome arrives on the callback endpoint.
type DarajaClient struct {
	cfg        Config
	httpClient *http.Client
	log        *logrus.Logger

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewDarajaClient creates a new Daraja gateway client
func NewDarajaClient(cfg Config, log *logrus.Logger) *DarajaClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &DarajaClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

type oauthResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   string `json:"expires_in"`
}

type stkPushRequest struct {
	BusinessShortCode string `json:"BusinessShortCode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	TransactionType   string `json:"TransactionType"`
	Amount            int64  `json:"Amount"`
	PartyA            string `json:"PartyA"`
	PartyB            string `json:"PartyB"`
	PhoneNumber       string `json:"PhoneNumber"`
	CallBackURL       string `json:"CallBackURL"`
	AccountReference  string `json:"AccountReference"`
	TransactionDesc   string `json:"TransactionDesc"`
}

type stkPushResponse struct {
	MerchantRequestID   string `json:"MerchantRequestID"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	ErrorCode           string `json:"errorCode"`
	ErrorMessage        string `json:"errorMessage"`
}

// STKPush issues one push-payment request. A transport failure or 5xx
// maps to core.ErrGatewayUnavailable, an active refusal to
// core.ErrGatewayRejected.
func (c *DarajaClient) STKPush(ctx context.Context, req output.STKPushRequest) (*output.STKPushResult, error) {
	token, err := c.getAccessToken(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	timestamp := now.Format(timestampLayout)
	password := base64.StdEncoding.EncodeToString(
		[]byte(c.cfg.Shortcode + c.cfg.Passkey + timestamp))

	body := stkPushRequest{
		BusinessShortCode: c.cfg.Shortcode,
		Password:          password,
		Timestamp:         timestamp,
		TransactionType:   "CustomerPayBillOnline",
		Amount:            int64(math.Round(req.Amount)),
		PartyA:            req.Phone,
		PartyB:            c.cfg.Shortcode,
		PhoneNumber:       req.Phone,
		CallBackURL:       c.cfg.CallbackURL,
		AccountReference:  req.AccountReference,
		TransactionDesc:   req.Description,
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal push request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+stkPushPath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build push request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("push request failed: %v: %w", err, core.ErrGatewayUnavailable)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read push response: %v: %w", err, core.ErrGatewayUnavailable)
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("gateway returned %d: %w", resp.StatusCode, core.ErrGatewayUnavailable)
	}

	var pushResp stkPushResponse
	if err := json.Unmarshal(raw, &pushResp); err != nil {
		// A non-JSON body on a 4xx is still an active refusal; only an
		// undecodable success response is treated as transient.
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("gateway refused push with status %d: %w", resp.StatusCode, core.ErrGatewayRejected)
		}
		return nil, fmt.Errorf("failed to decode push response: %v: %w", err, core.ErrGatewayUnavailable)
	}

	if resp.StatusCode != http.StatusOK || pushResp.ResponseCode != "0" {
		msg := pushResp.ErrorMessage
		if msg == "" {
			msg = pushResp.ResponseDescription
		}
		return nil, fmt.Errorf("gateway refused push (%s): %w", msg, core.ErrGatewayRejected)
	}

	c.log.WithFields(logrus.Fields{
		"checkout_request_id": pushResp.CheckoutRequestID,
		"merchant_request_id": pushResp.MerchantRequestID,
	}).Debug("stk push accepted")

	return &output.STKPushResult{
		MerchantRequestID: pushResp.MerchantRequestID,
		CheckoutRequestID: pushResp.CheckoutRequestID,
	}, nil
}

// getAccessToken returns a cached OAuth token, fetching a fresh one
// when the cached token is within a minute of expiry.
func (c *DarajaClient) getAccessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry.Add(-time.Minute)) {
		return c.accessToken, nil
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+oauthPath, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build token request: %w", err)
	}
	httpReq.SetBasicAuth(c.cfg.ConsumerKey, c.cfg.ConsumerSecret)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("token request failed: %v: %w", err, core.ErrGatewayUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode >= http.StatusInternalServerError {
			return "", fmt.Errorf("token endpoint returned %d: %w", resp.StatusCode, core.ErrGatewayUnavailable)
		}
		return "", fmt.Errorf("token endpoint returned %d: %w", resp.StatusCode, core.ErrGatewayRejected)
	}

	var tokenResp oauthResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", fmt.Errorf("failed to decode token response: %v: %w", err, core.ErrGatewayUnavailable)
	}
	if tokenResp.AccessToken == "" {
		return "", fmt.Errorf("token response missing access token: %w", core.ErrGatewayUnavailable)
	}

	ttl := time.Hour
	if secs, err := time.ParseDuration(tokenResp.ExpiresIn + "s"); err == nil && secs > 0 {
		ttl = secs
	}
	c.accessToken = tokenResp.AccessToken
	c.tokenExpiry = time.Now().Add(ttl)
	return c.accessToken, nil
}
