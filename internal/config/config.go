package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/flexprice/billingrecon/internal/types"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type Configuration struct {
	Deployment     DeploymentConfig     `validate:"required"`
	Server         ServerConfig         `validate:"required"`
	Logging        LoggingConfig        `validate:"required"`
	Postgres       PostgresConfig       `validate:"required"`
	Cache          CacheConfig          `mapstructure:"cache"`
	Reconciliation ReconciliationConfig `validate:"required"`
	Proration      ProrationConfig      `validate:"required"`
	Revenue        RevenueConfig        `mapstructure:"revenue"`
	Sentry         SentryConfig         `mapstructure:"sentry"`
	Plans          []PlanConfig         `validate:"dive"`
}

type DeploymentConfig struct {
	Mode types.RunMode `validate:"required"`
}

type ServerConfig struct {
	Address string `validate:"required"`
}

type LoggingConfig struct {
	Level types.LogLevel `validate:"required,oneof=debug info warn error"`
}

type PostgresConfig struct {
	Host                   string
	Port                   int
	User                   string
	Password               string
	DBName                 string `mapstructure:"dbname"`
	SSLMode                string `mapstructure:"sslmode"`
	MaxOpenConns           int    `mapstructure:"max_open_conns"`
	MaxIdleConns           int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `mapstructure:"conn_max_lifetime_minutes"`
}

type CacheConfig struct {
	Enabled bool
}

// ReconciliationConfig holds the discrepancy detection policy
type ReconciliationConfig struct {
	// DuplicateWindowDays is the inclusive day distance under which two equal
	// succeeded charges are reported as a duplicate pair
	DuplicateWindowDays int  `mapstructure:"duplicate_window_days" validate:"min=0"`
	CheckLineItems      bool `mapstructure:"check_line_items"`
	MaxConcurrency      int  `mapstructure:"max_concurrency" validate:"min=1"`
}

// ProrationConfig holds the cycle lengths and rounding policy used for mid-cycle changes
type ProrationConfig struct {
	MonthlyCycleDays int                `mapstructure:"monthly_cycle_days" validate:"min=1"`
	AnnualCycleDays  int                `mapstructure:"annual_cycle_days" validate:"min=1"`
	RoundingPlaces   int32              `mapstructure:"rounding_places" validate:"min=0,max=8"`
	RoundingMode     types.RoundingMode `mapstructure:"rounding_mode" validate:"required,oneof=half_up half_even truncate"`
}

type RevenueConfig struct {
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

type SentryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	DSN         string  `mapstructure:"dsn"`
	Environment string  `mapstructure:"environment"`
	SampleRate  float64 `mapstructure:"sample_rate" validate:"min=0,max=1"`
}

// PlanConfig is one tier of the price catalog
type PlanConfig struct {
	Name                string `validate:"required"`
	MonthlyPricePerSeat string `mapstructure:"monthly_price_per_seat" validate:"required"`
	AnnualPricePerSeat  string `mapstructure:"annual_price_per_seat" validate:"required"`
}

func NewConfig() (*Configuration, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/billingrecon")

	v.SetEnvPrefix("BILLINGRECON")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("Error reading config file: %v\n", err)
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
	} else {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("deployment.mode", types.ModeLocal)
	v.SetDefault("server.address", ":8080")
	v.SetDefault("logging.level", types.LogLevelInfo)
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.max_open_conns", 10)
	v.SetDefault("postgres.max_idle_conns", 5)
	v.SetDefault("postgres.conn_max_lifetime_minutes", 30)
	v.SetDefault("cache.enabled", true)
	v.SetDefault("reconciliation.duplicate_window_days", 7)
	v.SetDefault("reconciliation.check_line_items", true)
	v.SetDefault("reconciliation.max_concurrency", 8)
	v.SetDefault("proration.monthly_cycle_days", 30)
	v.SetDefault("proration.annual_cycle_days", 360)
	v.SetDefault("proration.rounding_places", 2)
	v.SetDefault("proration.rounding_mode", types.RoundingModeHalfUp)
	v.SetDefault("revenue.cache_ttl", 5*time.Minute)
	v.SetDefault("sentry.enabled", false)
	v.SetDefault("sentry.environment", "local")
	v.SetDefault("sentry.sample_rate", 1.0)
}

func (c Configuration) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return err
	}
	for _, p := range c.Plans {
		if _, err := decimal.NewFromString(p.MonthlyPricePerSeat); err != nil {
			return fmt.Errorf("plan %s: invalid monthly_price_per_seat: %w", p.Name, err)
		}
		if _, err := decimal.NewFromString(p.AnnualPricePerSeat); err != nil {
			return fmt.Errorf("plan %s: invalid annual_price_per_seat: %w", p.Name, err)
		}
	}
	return nil
}

// GetDefaultConfig returns a configuration for tests and scripts that don't read a file
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.ModeLocal},
		Server:     ServerConfig{Address: ":8080"},
		Logging:    LoggingConfig{Level: types.LogLevelDebug},
		Cache:      CacheConfig{Enabled: true},
		Reconciliation: ReconciliationConfig{
			DuplicateWindowDays: 7,
			CheckLineItems:      true,
			MaxConcurrency:      8,
		},
		Proration: ProrationConfig{
			MonthlyCycleDays: 30,
			AnnualCycleDays:  360,
			RoundingPlaces:   2,
			RoundingMode:     types.RoundingModeHalfUp,
		},
		Revenue: RevenueConfig{CacheTTL: 5 * time.Minute},
		Sentry:  SentryConfig{Environment: "local", SampleRate: 1.0},
		Plans: []PlanConfig{
			{Name: "starter", MonthlyPricePerSeat: "29", AnnualPricePerSeat: "290"},
			{Name: "pro", MonthlyPricePerSeat: "59", AnnualPricePerSeat: "590"},
			{Name: "enterprise", MonthlyPricePerSeat: "199", AnnualPricePerSeat: "2388"},
		},
	}
}

// CycleLengthDays returns the configured proration denominator for a billing cycle
func (c ProrationConfig) CycleLengthDays(cycle types.BillingCycle) int {
	if cycle == types.BillingCycleAnnual {
		return c.AnnualCycleDays
	}
	return c.MonthlyCycleDays
}

func (c PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"user=%s password=%s dbname=%s host=%s port=%d sslmode=%s",
		c.User,
		c.Password,
		c.DBName,
		c.Host,
		c.Port,
		c.SSLMode,
	)
}
