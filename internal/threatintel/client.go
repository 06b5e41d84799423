package threatintel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

// DefaultTimeout is the suggested per-endpoint deadline (spec.md §5).
const DefaultTimeout = 5 * time.Second

// Client is the threat-intel HTTP client. It is safe for concurrent use:
// the embedded rate limiter serializes outbound request admission while
// the underlying http.Client handles concurrent in-flight requests.
type Client struct {
	cfg     Config
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

// New constructs a Client. baseURL defaults to the GoPlus-style security
// API root when empty. The limiter caps outbound calls to 5/sec with a
// burst of 10, bounding worst-case egress from a single process (spec.md
// §5's "external calls MUST be cancellable and carry a deadline").
func New(cfg Config, baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://api.gopluslabs.io"
	}
	return &Client{
		cfg:     cfg,
		baseURL: baseURL,
		client:  &http.Client{Timeout: DefaultTimeout},
		limiter: rate.NewLimiter(rate.Limit(5), 10),
	}
}

// ConfigFromEnv reads GOPLUS_API_KEY and GOPLUS_API_SECRET (spec.md §6).
func ConfigFromEnv(getenv func(string) string) Config {
	return Config{
		APIKey:    getenv("GOPLUS_API_KEY"),
		APISecret: getenv("GOPLUS_API_SECRET"),
	}
}

// PhishingSite checks whether origin is a known phishing site. Unconfigured
// clients and transport errors both degrade to an unavailable result
// rather than raising (spec.md §4.5, §7).
func (c *Client) PhishingSite(ctx context.Context, origin string) PhishingResult {
	if !c.cfg.Configured() {
		return PhishingResult{Unavailable: true}
	}
	q := url.Values{"url": {origin}}
	var payload struct {
		Result struct {
			IsPhishingSite bool `json:"is_phishing_site"`
		} `json:"result"`
	}
	if err := c.getJSON(ctx, "/api/v1/phishing_site", q, &payload); err != nil {
		return PhishingResult{Unavailable: true}
	}
	return PhishingResult{IsPhishing: payload.Result.IsPhishingSite}
}

// AddressSecurity checks a set of addresses on chainID for known malicious
// activity.
func (c *Client) AddressSecurity(ctx context.Context, chainID string, addresses []string) AddressSecurityResult {
	if !c.cfg.Configured() || len(addresses) == 0 {
		return AddressSecurityResult{Unavailable: !c.cfg.Configured()}
	}
	q := url.Values{"chain_id": {chainID}}
	for _, a := range addresses {
		q.Add("addresses", a)
	}
	var payload struct {
		Result map[string]struct {
			Blacklisted        string `json:"blacklist_doubt"`
			PhishingActivities string `json:"phishing_activities"`
			StealingAttack     string `json:"stealing_attack"`
			HoneypotRelated    string `json:"honeypot_related_address"`
		} `json:"result"`
	}
	if err := c.getJSON(ctx, "/api/v1/address_security", q, &payload); err != nil {
		return AddressSecurityResult{Unavailable: true}
	}
	out := make(map[string]AddressSecurity, len(payload.Result))
	for addr, v := range payload.Result {
		out[addr] = AddressSecurity{
			IsBlacklisted:         v.Blacklisted == "1",
			IsPhishingActivities:  v.PhishingActivities == "1",
			IsStealingAttack:      v.StealingAttack == "1",
			IsHoneypotRelatedAddr: v.HoneypotRelated == "1",
		}
	}
	return AddressSecurityResult{Addresses: out}
}

// SimulateTransaction simulates req against the provider's transaction
// simulation endpoint.
func (c *Client) SimulateTransaction(ctx context.Context, req SimulationRequest) SimulationResult {
	if !c.cfg.Configured() {
		return SimulationResult{Unavailable: true}
	}
	q := url.Values{
		"chain_id": {req.ChainID},
		"from":     {req.From},
		"to":       {req.To},
		"value":    {req.Value},
		"data":     {req.Data},
	}
	var payload struct {
		Result struct {
			Success         bool   `json:"success"`
			RiskLevel       string `json:"risk_level"`
			ErrorMessage    string `json:"error_message"`
			RiskTags        []string `json:"risk_tags"`
			BalanceChanges  []struct {
				Token  string `json:"token"`
				Amount string `json:"amount"`
			} `json:"balance_changes"`
			ApprovalChanges []struct {
				Token       string `json:"token"`
				Spender     string `json:"spender"`
				Amount      string `json:"amount"`
				IsUnlimited bool   `json:"is_unlimited"`
			} `json:"approval_changes"`
		} `json:"result"`
	}
	if err := c.getJSON(ctx, "/api/v1/simulate_transaction", q, &payload); err != nil {
		return SimulationResult{Unavailable: true}
	}

	res := SimulationResult{
		Success:      payload.Result.Success,
		RiskLevel:    payload.Result.RiskLevel,
		ErrorMessage: payload.Result.ErrorMessage,
		RiskTags:     payload.Result.RiskTags,
	}
	for _, b := range payload.Result.BalanceChanges {
		res.BalanceChanges = append(res.BalanceChanges, BalanceChange{Token: b.Token, Amount: b.Amount})
	}
	for _, a := range payload.Result.ApprovalChanges {
		res.ApprovalChanges = append(res.ApprovalChanges, ApprovalChange{
			Token: a.Token, Spender: a.Spender, Amount: a.Amount, IsUnlimited: a.IsUnlimited,
		})
	}
	return res
}

func (c *Client) getJSON(ctx context.Context, endpoint string, query url.Values, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	u := c.baseURL + endpoint
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	status, body, err := c.getRaw(ctx, u)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("INTEL_HTTP: unexpected status %d", status)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("INTEL_DECODE: %w", err)
	}
	return nil
}

// getRaw retries transient failures with exponential backoff, honoring a
// Retry-After header on 429/5xx responses (grounded on the teacher's own
// HTTP retry client).
func (c *Client) getRaw(ctx context.Context, fullURL string) (int, []byte, error) {
	const attempts = 3
	var lastErr error
	for i := 0; i < attempts; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return 0, nil, err
		}
		req.Header.Set("User-Agent", "agentguard/1.0")
		req.Header.Set("Ok-Access-Key", c.cfg.APIKey)
		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = err
			select {
			case <-ctx.Done():
				return 0, nil, ctx.Err()
			case <-time.After(time.Duration(1<<i) * 250 * time.Millisecond):
			}
			continue
		}
		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			return 0, nil, readErr
		}
		if (resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500) && i < attempts-1 {
			wait := parseRetryAfter(resp.Header.Get("Retry-After"), i)
			select {
			case <-ctx.Done():
				return 0, nil, ctx.Err()
			case <-time.After(wait):
			}
			continue
		}
		return resp.StatusCode, body, nil
	}
	if lastErr != nil {
		return 0, nil, fmt.Errorf("INTEL_HTTP: %w", lastErr)
	}
	return 0, nil, errors.New("INTEL_HTTP: request failed")
}

func parseRetryAfter(value string, attempt int) time.Duration {
	defaultBackoff := time.Duration(1<<attempt) * 250 * time.Millisecond
	if value == "" {
		return defaultBackoff
	}
	secs, err := strconv.Atoi(value)
	if err != nil || secs < 0 {
		return defaultBackoff
	}
	if secs > 10 {
		secs = 10
	}
	return time.Duration(secs) * time.Second
}
