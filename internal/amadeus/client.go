// Package amadeus is a client for the Amadeus self-service flight APIs.
package amadeus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/farewatch/farewatch/internal/contract"
	"github.com/farewatch/farewatch/schema"
	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
)

// Endpoint paths relative to the base URL.
const (
	tokenPath        = "/v1/security/oauth2/token"
	flightOffersPath = "/v2/shopping/flight-offers"
	flightDatesPath  = "/v1/shopping/flight-dates"
)

// DefaultCurrency is sent when a query names no currency.
const DefaultCurrency = "EUR"

// tokenRefreshMargin renews the token this long before it expires.
const tokenRefreshMargin = 60 * time.Second

// Client talks to Amadeus with OAuth2 client credentials. It is safe for
// concurrent use; the access token is shared and refreshed on demand.
type Client struct {
	http      *resty.Client
	apiKey    string
	apiSecret string
	now       func() time.Time

	mu      sync.Mutex
	token   string
	expires time.Time
}

var _ contract.FlightSearcher = &Client{} // Compile-time check

// NewClient builds a client for baseURL.
func NewClient(baseURL, apiKey, apiSecret string, timeout time.Duration) *Client {
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetTimeout(timeout)
	client.SetHeader("Accept", "application/json")
	return &Client{
		http:      client,
		apiKey:    apiKey,
		apiSecret: apiSecret,
		now:       time.Now,
	}
}

// NewClientFromConfig builds a client from the validated configuration.
func NewClientFromConfig(cfg *contract.Config) *Client {
	return NewClient(cfg.AmadeusBaseURL, cfg.AmadeusAPIKey, cfg.AmadeusAPISecret, cfg.RequestTimeout)
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type offersResponse struct {
	Data []json.RawMessage `json:"data"`
}

type datesResponse struct {
	Data []schema.RawDatePrice `json:"data"`
}

// SearchOffers returns the raw round-trip offers for one query.
// Offers that cannot be decoded are skipped and logged.
func (c *Client) SearchOffers(ctx context.Context, query schema.OfferQuery) ([]schema.RawOffer, error) {
	if err := contract.ValidateIATA("origin", query.Origin); err != nil {
		return nil, err
	}
	if err := contract.ValidateIATA("destination", query.Destination); err != nil {
		return nil, err
	}
	currency := query.Currency
	if currency == "" {
		currency = DefaultCurrency
	}

	params := map[string]string{
		"originLocationCode":      query.Origin,
		"destinationLocationCode": query.Destination,
		"departureDate":           query.DepartureDate,
		"adults":                  "1",
		"currencyCode":            currency,
		"max":                     strconv.Itoa(schema.OffersPageSize),
	}
	if query.ReturnDate != "" {
		params["returnDate"] = query.ReturnDate
	}
	if query.Cabin != "" {
		params["travelClass"] = string(query.Cabin)
	}

	body, err := c.get(ctx, flightOffersPath, params)
	if err != nil {
		return nil, err
	}
	var resp offersResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &schema.ProviderCallError{Category: schema.DecodeFailure, Err: err}
	}

	offers := make([]schema.RawOffer, 0, len(resp.Data))
	for i, item := range resp.Data {
		var offer schema.RawOffer
		if err := json.Unmarshal(item, &offer); err != nil {
			contract.LogWarn("skipping offer", &schema.MalformedOfferError{OfferID: strconv.Itoa(i), Field: "body", Err: err})
			continue
		}
		offers = append(offers, offer)
	}
	return offers, nil
}

// CheapestDates returns the provider's cheapest round-trip dates, cheapest first.
func (c *Client) CheapestDates(ctx context.Context, query schema.DateQuery) ([]schema.DatePrice, error) {
	if err := contract.ValidateIATA("origin", query.Origin); err != nil {
		return nil, err
	}
	if err := contract.ValidateIATA("destination", query.Destination); err != nil {
		return nil, err
	}
	params := map[string]string{
		"origin":      query.Origin,
		"destination": query.Destination,
		"oneWay":      "false",
	}
	if query.DepartureDate != "" {
		params["departureDate"] = query.DepartureDate
	}

	body, err := c.get(ctx, flightDatesPath, params)
	if err != nil {
		return nil, err
	}
	var resp datesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &schema.ProviderCallError{Category: schema.DecodeFailure, Err: err}
	}

	dates := make([]schema.DatePrice, 0, len(resp.Data))
	for _, item := range resp.Data {
		price, err := parseTotal(item.Price.Total)
		if err != nil {
			return nil, &schema.ProviderCallError{Category: schema.DecodeFailure, Err: err}
		}
		dates = append(dates, schema.DatePrice{
			DepartureDate: item.DepartureDate,
			ReturnDate:    item.ReturnDate,
			Price:         price,
		})
	}
	sortDates(dates)
	return dates, nil
}

// get performs an authenticated GET, retrying once with a fresh token when
// the cached one is rejected.
func (c *Client) get(ctx context.Context, path string, params map[string]string) ([]byte, error) {
	for attempt := 0; ; attempt++ {
		token, err := c.accessToken(ctx)
		if err != nil {
			return nil, err
		}
		resp, err := c.http.R().
			SetContext(ctx).
			SetAuthToken(token).
			SetQueryParams(params).
			Get(path)
		if err != nil {
			return nil, &schema.ProviderCallError{Category: schema.NetworkFailure, Err: err}
		}
		if resp.StatusCode() == http.StatusUnauthorized && attempt == 0 {
			c.invalidateToken()
			continue
		}
		if err := statusError(resp); err != nil {
			return nil, err
		}
		return resp.Body(), nil
	}
}

// accessToken returns a cached token or fetches a new one.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && c.now().Before(c.expires) {
		return c.token, nil
	}
	if c.apiKey == "" || c.apiSecret == "" {
		return "", &schema.ProviderCallError{Category: schema.AuthFailure, Err: errors.New("missing API credentials")}
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"grant_type":    "client_credentials",
			"client_id":     c.apiKey,
			"client_secret": c.apiSecret,
		}).
		Post(tokenPath)
	if err != nil {
		return "", &schema.ProviderCallError{Category: schema.NetworkFailure, Err: err}
	}
	if resp.StatusCode() == http.StatusBadRequest {
		// Amadeus answers invalid credentials with 400 invalid_client
		return "", &schema.ProviderCallError{Category: schema.AuthFailure, StatusCode: resp.StatusCode()}
	}
	if err := statusError(resp); err != nil {
		return "", err
	}

	var tok tokenResponse
	if err := json.Unmarshal(resp.Body(), &tok); err != nil || tok.AccessToken == "" {
		if err == nil {
			err = errors.New("empty access token")
		}
		return "", &schema.ProviderCallError{Category: schema.DecodeFailure, Err: err}
	}

	lifetime := time.Duration(tok.ExpiresIn)*time.Second - tokenRefreshMargin
	c.token = tok.AccessToken
	c.expires = c.now().Add(max(lifetime, 0))
	return c.token, nil
}

func (c *Client) invalidateToken() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
	c.expires = time.Time{}
}

// statusError maps a non-2xx response to a categorized provider error.
func statusError(resp *resty.Response) error {
	code := resp.StatusCode()
	var category schema.ProviderErrorCategory
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		category = schema.AuthFailure
	case code == http.StatusTooManyRequests:
		category = schema.RateLimited
	case code >= 500:
		category = schema.ServerFailure
	default:
		category = schema.ClientFailure
	}
	return &schema.ProviderCallError{
		Category:   category,
		StatusCode: code,
		Err:        fmt.Errorf("unexpected status %d", code),
	}
}

func parseTotal(raw json.RawMessage) (float64, error) {
	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		// Numbers arrive unquoted
		text = string(raw)
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return 0, fmt.Errorf("invalid price total: %w", err)
	}
	return d.InexactFloat64(), nil
}
