package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for price history.
	DatabaseBackend string

	// CabinClass represents the travel class requested from the provider.
	CabinClass string

	// ProviderErrorCategory classifies a failed provider call without exposing its detail.
	ProviderErrorCategory string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All history backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All cabin classes supported by the provider.
const (
	Economy        CabinClass = "ECONOMY"
	PremiumEconomy CabinClass = "PREMIUM_ECONOMY"
	Business       CabinClass = "BUSINESS"
	First          CabinClass = "FIRST"
)

// Provider error categories.
const (
	NetworkFailure   ProviderErrorCategory = "network"
	AuthFailure      ProviderErrorCategory = "auth"
	RateLimited      ProviderErrorCategory = "rate_limit"
	ClientFailure    ProviderErrorCategory = "client"
	ServerFailure    ProviderErrorCategory = "server"
	DecodeFailure    ProviderErrorCategory = "decode"
	ValidationFailed ProviderErrorCategory = "validation"
)

// Pipeline constants.
const (
	BaselineWindow    = 7  // Observations averaged into a rolling baseline
	OffersPageSize    = 20 // Offers requested per provider call
	DefaultTopOffers  = 5  // Offers per cabin shown in an alert
	DefaultMaxPairs   = 5  // Date pairs sampled per trip
	DefaultFareFamily = "Standard"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid history backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidCabinClasses lists all valid cabin classes.
var ValidCabinClasses = map[CabinClass]struct{}{
	Economy:        {},
	PremiumEconomy: {},
	Business:       {},
	First:          {},
}

// CabinLabel returns the human-readable name of a cabin class.
func CabinLabel(c CabinClass) string {
	switch c {
	case PremiumEconomy:
		return "Premium Economy"
	case Business:
		return "Business"
	case First:
		return "First"
	default:
		return "Economy"
	}
}
