package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/hooplabs/nba-sync/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

const seasonStartEnvPrefix = "SEASON_START_UTC_"

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv         string `validate:"required,oneof=dev stage prod"`
	ServiceName    string `validate:"required"`
	ServiceVersion string

	DBURL string `validate:"required"`

	ProviderName            string        `validate:"required"`
	ProviderBaseURL         string        `validate:"required,url"`
	ProviderAPIKey          string
	ProviderTimeout         time.Duration `validate:"gt=0"`
	ProviderMaxRetries      int           `validate:"gte=0"`
	ProviderCircuitEnabled  bool
	ProviderCircuitFailures int
	ProviderCircuitOpenWait time.Duration
	ProviderCircuitHalfOpen int

	SeasonStarts         map[int]time.Time
	FinalizeLookbackDays int    `validate:"gt=0"`
	PlayerInfoLimit      int    `validate:"gt=0"`
	CivilTZ              string `validate:"required"`

	UptraceEnabled         bool
	UptraceDSN             string
	PyroscopeEnabled       bool
	PyroscopeServerAddress string
	PyroscopeAuthToken     string
	PyroscopeUploadRate    time.Duration

	LogLevel logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	dbURL := strings.TrimSpace(getEnv("DB_URL", ""))
	if dbURL == "" {
		return Config{}, fmt.Errorf("DB_URL is required")
	}

	providerTimeout, err := time.ParseDuration(getEnv("PROVIDER_TIMEOUT", "20s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PROVIDER_TIMEOUT: %w", err)
	}
	providerMaxRetries, err := getEnvAsInt("PROVIDER_MAX_RETRIES", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse PROVIDER_MAX_RETRIES: %w", err)
	}
	providerCircuitEnabled, err := strconv.ParseBool(getEnv("PROVIDER_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PROVIDER_CIRCUIT_ENABLED: %w", err)
	}
	providerCircuitFailures, err := getEnvAsInt("PROVIDER_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse PROVIDER_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	providerCircuitOpenWait, err := time.ParseDuration(getEnv("PROVIDER_CIRCUIT_OPEN_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PROVIDER_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	providerCircuitHalfOpen, err := getEnvAsInt("PROVIDER_CIRCUIT_HALF_OPEN_MAX_REQ", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse PROVIDER_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}

	seasonStarts, err := parseSeasonStarts(os.Environ())
	if err != nil {
		return Config{}, err
	}

	lookbackDays, err := getEnvAsInt("SYNC_FINALIZE_LOOKBACK_DAYS", 3)
	if err != nil {
		return Config{}, fmt.Errorf("parse SYNC_FINALIZE_LOOKBACK_DAYS: %w", err)
	}
	playerInfoLimit, err := getEnvAsInt("SYNC_PLAYER_INFO_LIMIT", 25)
	if err != nil {
		return Config{}, fmt.Errorf("parse SYNC_PLAYER_INFO_LIMIT: %w", err)
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}

	cfg := Config{
		AppEnv:         appEnv,
		ServiceName:    getEnv("SERVICE_NAME", "nba-sync"),
		ServiceVersion: getEnv("SERVICE_VERSION", "dev"),

		DBURL: dbURL,

		ProviderName:            getEnv("PROVIDER_NAME", "nba"),
		ProviderBaseURL:         getEnv("PROVIDER_BASE_URL", "https://stats.nbaupstream.example.com/v1"),
		ProviderAPIKey:          strings.TrimSpace(getEnv("PROVIDER_API_KEY", "")),
		ProviderTimeout:         providerTimeout,
		ProviderMaxRetries:      providerMaxRetries,
		ProviderCircuitEnabled:  providerCircuitEnabled,
		ProviderCircuitFailures: providerCircuitFailures,
		ProviderCircuitOpenWait: providerCircuitOpenWait,
		ProviderCircuitHalfOpen: providerCircuitHalfOpen,

		SeasonStarts:         seasonStarts,
		FinalizeLookbackDays: lookbackDays,
		PlayerInfoLimit:      playerInfoLimit,
		CivilTZ:              getEnv("SYNC_CIVIL_TZ", "America/New_York"),

		UptraceEnabled:         uptraceEnabled,
		UptraceDSN:             uptraceDSN,
		PyroscopeEnabled:       pyroscopeEnabled,
		PyroscopeServerAddress: pyroscopeServerAddress,
		PyroscopeAuthToken:     strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeUploadRate:    pyroscopeUploadRate,

		LogLevel: parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// parseSeasonStarts collects SEASON_START_UTC_<year> variables, e.g.
// SEASON_START_UTC_2025=2025-10-21T23:00:00Z.
func parseSeasonStarts(environ []string) (map[int]time.Time, error) {
	out := make(map[int]time.Time)
	for _, kv := range environ {
		if !strings.HasPrefix(kv, seasonStartEnvPrefix) {
			continue
		}
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) != 2 {
			continue
		}
		yearText := strings.TrimPrefix(parts[0], seasonStartEnvPrefix)
		year, err := strconv.Atoi(yearText)
		if err != nil {
			return nil, fmt.Errorf("invalid season year in %s: %w", parts[0], err)
		}
		start, err := time.Parse(time.RFC3339, strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", parts[0], err)
		}
		out[year] = start.UTC()
	}

	return out, nil
}

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}
