package contract

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/farewatch/farewatch/schema"
)

// Default values for configuration.
const (
	DefaultAmadeusBaseURL = "https://test.api.amadeus.com"
	DefaultRequestTimeout = 30 * time.Second
	DefaultWebhookTimeout = 10 * time.Second
	DefaultServeAddr      = ":8080"
	DefaultTopOffers      = schema.DefaultTopOffers
	MaxTopOffers          = 20
	DefaultMaxPairs       = schema.DefaultMaxPairs
)

// Config holds the runtime configuration.
// This struct remains the "final, validated" config.
type Config struct {
	AmadeusAPIKey    string // Please use env var as this is plaintext
	AmadeusAPISecret string // Please use env var as this is plaintext
	AmadeusBaseURL   string
	RequestTimeout   time.Duration

	SlackWebhookURL string // Default webhook when a trip has none

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool

	TopOffers int
	MaxPairs  int

	Trips      []schema.Trip
	TripFilter string
	DryRun     bool

	ServeAddr string
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Provider and webhook secrets (env or config file) ---
	AmadeusAPIKey    string `mapstructure:"amadeus-api-key"`
	AmadeusAPISecret string `mapstructure:"amadeus-api-secret"`
	AmadeusBaseURL   string `mapstructure:"amadeus-base-url"`
	RequestTimeout   string `mapstructure:"request-timeout"`
	SlackWebhookURL  string `mapstructure:"slack-webhook-url"`

	// --- Fields from rootCmd.PersistentFlags() ---
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`
	Output           string `mapstructure:"output"`
	OutputFile       string `mapstructure:"output-file"`
	Width            int    `mapstructure:"width"`
	Color            string `mapstructure:"color"`
	TopOffers        int    `mapstructure:"top-offers"`
	MaxPairs         int    `mapstructure:"max-pairs"`

	// --- Fields from scanCmd.Flags() ---
	Trip   string `mapstructure:"trip"`
	DryRun bool   `mapstructure:"dry-run"`

	// --- Fields from serveCmd.Flags() ---
	Addr string `mapstructure:"addr"`

	// --- Trips from config file ---
	Trips []schema.Trip `mapstructure:"trips"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Trips != nil {
		clone.Trips = slices.Clone(c.Trips)
	}
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfig(cfg, input); err != nil {
		return err
	}
	if err := processProviderConfig(cfg, input); err != nil {
		return err
	}
	return processTrips(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// ParseBackend normalizes a backend string, treating empty as the SQLite default.
func ParseBackend(s string) (schema.DatabaseBackend, error) {
	if s == "" {
		return schema.SQLiteBackend, nil
	}
	backend := schema.DatabaseBackend(strings.ToLower(s))
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", s)
	}
	return backend, nil
}

// RequireProviderCredentials checks that the provider secrets are present.
func (c *Config) RequireProviderCredentials() error {
	if c.AmadeusAPIKey == "" || c.AmadeusAPISecret == "" {
		return fmt.Errorf("amadeus-api-key and amadeus-api-secret are required (set FAREWATCH_AMADEUS_API_KEY and FAREWATCH_AMADEUS_API_SECRET)")
	}
	return nil
}

// SelectTrips returns the configured trips, narrowed to TripFilter when set.
func (c *Config) SelectTrips() ([]schema.Trip, error) {
	if c.TripFilter == "" {
		return c.Trips, nil
	}
	for _, t := range c.Trips {
		if t.ID == c.TripFilter {
			return []schema.Trip{t}, nil
		}
	}
	return nil, fmt.Errorf("trip %q not found in configuration", c.TripFilter)
}

// validateBackendConfig validates the history backend configuration.
func validateBackendConfig(cfg *Config, input *ConfigRawInput) error {
	backend, err := ParseBackend(input.HistoryBackend)
	if err != nil {
		return err
	}
	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = input.HistoryDBConnect
	return ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect)
}

// validateSimpleInputs processes and validates the output and presentation fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.TripFilter = strings.TrimSpace(input.Trip)
	cfg.DryRun = input.DryRun

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if cfg.Output == "" {
		cfg.Output = schema.TextOut
	}
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}

	if input.TopOffers <= 0 || input.TopOffers > MaxTopOffers {
		return fmt.Errorf("top-offers must be greater than 0 and cannot exceed %d (received %d)", MaxTopOffers, input.TopOffers)
	}
	cfg.TopOffers = input.TopOffers

	if input.MaxPairs <= 0 {
		return fmt.Errorf("max-pairs must be greater than 0 (received %d)", input.MaxPairs)
	}
	cfg.MaxPairs = input.MaxPairs

	cfg.ServeAddr = input.Addr
	if cfg.ServeAddr == "" {
		cfg.ServeAddr = DefaultServeAddr
	}
	return nil
}

// processProviderConfig handles the provider endpoint, secrets and timeouts.
func processProviderConfig(cfg *Config, input *ConfigRawInput) error {
	cfg.AmadeusAPIKey = strings.TrimSpace(input.AmadeusAPIKey)
	cfg.AmadeusAPISecret = strings.TrimSpace(input.AmadeusAPISecret)
	cfg.SlackWebhookURL = strings.TrimSpace(input.SlackWebhookURL)

	cfg.AmadeusBaseURL = strings.TrimRight(strings.TrimSpace(input.AmadeusBaseURL), "/")
	if cfg.AmadeusBaseURL == "" {
		cfg.AmadeusBaseURL = DefaultAmadeusBaseURL
	}
	if !strings.HasPrefix(cfg.AmadeusBaseURL, "http://") && !strings.HasPrefix(cfg.AmadeusBaseURL, "https://") {
		return fmt.Errorf("amadeus-base-url must start with http:// or https:// (received %q)", input.AmadeusBaseURL)
	}

	cfg.RequestTimeout = DefaultRequestTimeout
	if input.RequestTimeout != "" {
		d, err := time.ParseDuration(input.RequestTimeout)
		if err != nil {
			return fmt.Errorf("invalid request-timeout '%s': %w", input.RequestTimeout, err)
		}
		if d <= 0 {
			return fmt.Errorf("request-timeout must be positive (received %s)", d)
		}
		cfg.RequestTimeout = d
	}
	return nil
}

// processTrips copies the configured trips and rejects duplicate identifiers.
// Per-trip content is validated at scan time so one bad trip never blocks the rest.
func processTrips(cfg *Config, input *ConfigRawInput) error {
	seen := make(map[string]struct{}, len(input.Trips))
	for _, t := range input.Trips {
		if t.ID == "" {
			return fmt.Errorf("every trip needs an id (trip labelled %q has none)", t.Label)
		}
		if _, ok := seen[t.ID]; ok {
			return fmt.Errorf("duplicate trip id %q", t.ID)
		}
		seen[t.ID] = struct{}{}
	}
	cfg.Trips = slices.Clone(input.Trips)
	return nil
}

// ParseCabin normalizes a cabin class, treating empty as economy.
func ParseCabin(s string) (schema.CabinClass, error) {
	if s == "" {
		return schema.Economy, nil
	}
	cabin := schema.CabinClass(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := schema.ValidCabinClasses[cabin]; !ok {
		return "", fmt.Errorf("invalid cabin '%s'. must be ECONOMY, PREMIUM_ECONOMY, BUSINESS, FIRST", s)
	}
	return cabin, nil
}

// ParseAirlines splits a comma-separated carrier list into upper-case codes.
func ParseAirlines(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if code := strings.ToUpper(strings.TrimSpace(part)); code != "" {
			out = append(out, code)
		}
	}
	return out
}

// BuildOfferQuery validates ad-hoc search inputs shared by the CLI and the MCP tools.
func BuildOfferQuery(origin, destination, departure, ret, cabin, currency string) (schema.OfferQuery, error) {
	query := schema.OfferQuery{
		Origin:        strings.ToUpper(strings.TrimSpace(origin)),
		Destination:   strings.ToUpper(strings.TrimSpace(destination)),
		DepartureDate: strings.TrimSpace(departure),
		ReturnDate:    strings.TrimSpace(ret),
		Currency:      strings.ToUpper(strings.TrimSpace(currency)),
	}
	if err := ValidateIATA("origin", query.Origin); err != nil {
		return schema.OfferQuery{}, err
	}
	if err := ValidateIATA("destination", query.Destination); err != nil {
		return schema.OfferQuery{}, err
	}
	if query.DepartureDate == "" {
		return schema.OfferQuery{}, fmt.Errorf("--depart is required")
	}
	dep, err := time.Parse(schema.DateLayout, query.DepartureDate)
	if err != nil {
		return schema.OfferQuery{}, &schema.ValidationError{Field: "departure_date", Value: query.DepartureDate}
	}
	if query.ReturnDate != "" {
		back, err := time.Parse(schema.DateLayout, query.ReturnDate)
		if err != nil || back.Before(dep) {
			return schema.OfferQuery{}, &schema.ValidationError{Field: "return_date", Value: query.ReturnDate}
		}
	}
	c, err := ParseCabin(cabin)
	if err != nil {
		return schema.OfferQuery{}, err
	}
	query.Cabin = c
	return query, nil
}
