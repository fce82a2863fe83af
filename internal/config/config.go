package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Cache     CacheConfig
	Providers ProvidersConfig
	LLM       LLMConfig
	Search    SearchConfig
	Log       LogConfig
	Worker    WorkerConfig
}

type ServerConfig struct {
	Host string
	Port int
	Env  string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CacheConfig struct {
	ResponseCacheTTL time.Duration
}

// ProvidersConfig holds upstream base URLs and the per-provider query
// deadline. Every URL is overridable so tests can point providers at
// local fakes.
type ProvidersConfig struct {
	AdminBaseURL      string
	OGCBaseURL        string
	CadastrePTBaseURL string
	CadastreESBaseURL string
	ElevationBaseURL  string
	OverpassBaseURL   string
	NominatimBaseURL  string
	QueryTimeout      time.Duration
}

type LLMConfig struct {
	APIKey    string
	Model     string
	MaxTokens int
}

type SearchConfig struct {
	BaseURL string
	APIKey  string
}

type LogConfig struct {
	Level string
}

// WorkerConfig is the batch sweep tuple: how many items per run, how many
// parallel workers, the fixed inter-request delay and the retry budget.
type WorkerConfig struct {
	Enabled       bool
	Limit         int
	Concurrency   int
	RequestDelay  time.Duration
	MaxRetries    int
	SweepInterval time.Duration
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: viper.GetString("API_HOST"),
			Port: viper.GetInt("API_PORT"),
			Env:  viper.GetString("API_ENV"),
		},
		Database: DatabaseConfig{
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetInt("DB_PORT"),
			User:            viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			DBName:          viper.GetString("DB_NAME"),
			SSLMode:         viper.GetString("DB_SSLMODE"),
			MaxConns:        viper.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(viper.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(viper.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetInt("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			ResponseCacheTTL: time.Duration(viper.GetInt("RESPONSE_CACHE_TTL")) * time.Second,
		},
		Providers: ProvidersConfig{
			AdminBaseURL:      viper.GetString("ADMIN_BASE_URL"),
			OGCBaseURL:        viper.GetString("OGC_BASE_URL"),
			CadastrePTBaseURL: viper.GetString("CADASTRE_PT_BASE_URL"),
			CadastreESBaseURL: viper.GetString("CADASTRE_ES_BASE_URL"),
			ElevationBaseURL:  viper.GetString("ELEVATION_BASE_URL"),
			OverpassBaseURL:   viper.GetString("OVERPASS_BASE_URL"),
			NominatimBaseURL:  viper.GetString("NOMINATIM_BASE_URL"),
			QueryTimeout:      time.Duration(viper.GetInt("PROVIDER_QUERY_TIMEOUT")) * time.Second,
		},
		LLM: LLMConfig{
			APIKey:    viper.GetString("ANTHROPIC_API_KEY"),
			Model:     viper.GetString("LLM_MODEL"),
			MaxTokens: viper.GetInt("LLM_MAX_TOKENS"),
		},
		Search: SearchConfig{
			BaseURL: viper.GetString("SEARCH_BASE_URL"),
			APIKey:  viper.GetString("SEARCH_API_KEY"),
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
		Worker: WorkerConfig{
			Enabled:       viper.GetBool("WORKER_ENABLED"),
			Limit:         viper.GetInt("WORKER_LIMIT"),
			Concurrency:   viper.GetInt("WORKER_CONCURRENCY"),
			RequestDelay:  time.Duration(viper.GetInt("WORKER_REQUEST_DELAY")) * time.Millisecond,
			MaxRetries:    viper.GetInt("WORKER_MAX_RETRIES"),
			SweepInterval: time.Duration(viper.GetInt("WORKER_SWEEP_INTERVAL")) * time.Second,
		},
	}

	// Set default values if not provided
	if cfg.Cache.ResponseCacheTTL == 0 {
		cfg.Cache.ResponseCacheTTL = 5 * time.Minute
	}
	if cfg.Providers.AdminBaseURL == "" {
		cfg.Providers.AdminBaseURL = "https://geoapi.pt"
	}
	if cfg.Providers.OGCBaseURL == "" {
		cfg.Providers.OGCBaseURL = "https://ogcapi.dgterritorio.gov.pt"
	}
	if cfg.Providers.CadastrePTBaseURL == "" {
		cfg.Providers.CadastrePTBaseURL = "https://snig.dgterritorio.gov.pt/cadastro"
	}
	if cfg.Providers.CadastreESBaseURL == "" {
		cfg.Providers.CadastreESBaseURL = "http://ovc.catastro.meh.es/INSPIRE/wfsCP.aspx"
	}
	if cfg.Providers.ElevationBaseURL == "" {
		cfg.Providers.ElevationBaseURL = "https://api.open-meteo.com"
	}
	if cfg.Providers.OverpassBaseURL == "" {
		cfg.Providers.OverpassBaseURL = "https://overpass-api.de"
	}
	if cfg.Providers.NominatimBaseURL == "" {
		cfg.Providers.NominatimBaseURL = "https://nominatim.openstreetmap.org"
	}
	if cfg.Providers.QueryTimeout == 0 {
		cfg.Providers.QueryTimeout = 20 * time.Second
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = "claude-sonnet-4-20250514"
	}
	if cfg.LLM.MaxTokens == 0 {
		cfg.LLM.MaxTokens = 2048
	}
	if cfg.Worker.Limit == 0 {
		cfg.Worker.Limit = 200
	}
	if cfg.Worker.Concurrency == 0 {
		cfg.Worker.Concurrency = 4
	}
	if cfg.Worker.RequestDelay == 0 {
		cfg.Worker.RequestDelay = 1500 * time.Millisecond
	}
	if cfg.Worker.MaxRetries == 0 {
		cfg.Worker.MaxRetries = 3
	}
	if cfg.Worker.SweepInterval == 0 {
		cfg.Worker.SweepInterval = 15 * time.Minute
	}

	return cfg, nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
