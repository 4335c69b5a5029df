// Package verify sends and checks SMS one-time codes through Twilio Verify v2.
package verify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the Twilio Verify API base URL
	DefaultBaseURL = "https://verify.twilio.com"

	defaultRateLimit = 5.0 // requests per second
	defaultBurst     = 5

	statusApproved = "approved"
)

// ErrProvider wraps any failure talking to the verification provider.
var ErrProvider = errors.New("verification provider error")

// Verifier is what the identity service needs from an OTP provider.
type Verifier interface {
	SendCode(ctx context.Context, phone string) error
	CheckCode(ctx context.Context, phone, code string) (bool, error)
}

// Client is a Twilio Verify client.
type Client struct {
	baseURL    string
	accountSID string
	authToken  string
	serviceSID string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// ClientOption configures the client.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithRateLimit sets custom outbound rate limiting.
func WithRateLimit(rps float64, burst int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// NewClient creates a new Twilio Verify client for one Verify service.
func NewClient(accountSID, authToken, serviceSID string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		accountSID: accountSID,
		authToken:  authToken,
		serviceSID: serviceSID,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(defaultRateLimit), defaultBurst),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

type verificationResponse struct {
	SID    string `json:"sid"`
	Status string `json:"status"`
	Valid  bool   `json:"valid"`
}

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// SendCode starts an SMS verification for an E.164 phone number.
func (c *Client) SendCode(ctx context.Context, phone string) error {
	form := url.Values{}
	form.Set("To", phone)
	form.Set("Channel", "sms")

	var resp verificationResponse
	if err := c.post(ctx, "/Verifications", form, &resp); err != nil {
		return err
	}
	return nil
}

// CheckCode reports whether the code was approved for the phone number.
func (c *Client) CheckCode(ctx context.Context, phone, code string) (bool, error) {
	form := url.Values{}
	form.Set("To", phone)
	form.Set("Code", code)

	var resp verificationResponse
	if err := c.post(ctx, "/VerificationCheck", form, &resp); err != nil {
		return false, err
	}
	return resp.Status == statusApproved, nil
}

func (c *Client) post(ctx context.Context, path string, form url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: rate limiter: %v", ErrProvider, err)
	}

	endpoint := fmt.Sprintf("%s/v2/Services/%s%s", c.baseURL, url.PathEscape(c.serviceSID), path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrProvider, err)
	}
	req.SetBasicAuth(c.accountSID, c.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("[Verify] Request to %s failed: %v", path, err)
		return fmt.Errorf("%w: request failed: %v", ErrProvider, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %v", ErrProvider, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr errorResponse
		_ = json.Unmarshal(body, &apiErr)
		log.Printf("[Verify] Twilio error on %s: status=%d code=%d message=%q", path, resp.StatusCode, apiErr.Code, apiErr.Message)
		return fmt.Errorf("%w: status %d", ErrProvider, resp.StatusCode)
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrProvider, err)
	}
	return nil
}
