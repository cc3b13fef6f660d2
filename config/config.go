package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	DB        DBConfig
	Redis     RedisConfig
	JWT       JWTConfig
	SMTP      SMTPConfig
	Predictor PredictorConfig
	Analyzer  AnalyzerConfig
}

type AppConfig struct {
	Port              string
	Env               string
	RequestsPerSecond float64
	RequestBurst      int
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// Enabled reports whether mail delivery is configured
func (c SMTPConfig) Enabled() bool {
	return c.Host != ""
}

type PredictorConfig struct {
	BaseURL string
	Timeout time.Duration
}

type AnalyzerConfig struct {
	CacheTTL time.Duration
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	accessExpiry, err := time.ParseDuration(viper.GetString("JWT_ACCESS_EXPIRY"))
	if err != nil {
		accessExpiry = 15 * time.Minute
	}

	refreshExpiry, err := time.ParseDuration(viper.GetString("JWT_REFRESH_EXPIRY"))
	if err != nil {
		refreshExpiry = 7 * 24 * time.Hour
	}

	predictorTimeout, err := time.ParseDuration(viper.GetString("PREDICTOR_TIMEOUT"))
	if err != nil {
		predictorTimeout = 10 * time.Second
	}

	cacheTTL, err := time.ParseDuration(viper.GetString("ANALYZER_CACHE_TTL"))
	if err != nil {
		cacheTTL = 10 * time.Minute
	}

	rps := viper.GetFloat64("APP_REQUESTS_PER_SECOND")
	if rps <= 0 {
		rps = 50
	}
	burst := viper.GetInt("APP_REQUEST_BURST")
	if burst <= 0 {
		burst = 100
	}

	config := &Config{
		App: AppConfig{
			Port:              viper.GetString("APP_PORT"),
			Env:               viper.GetString("APP_ENV"),
			RequestsPerSecond: rps,
			RequestBurst:      burst,
		},
		DB: DBConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Name:     viper.GetString("DB_NAME"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:        viper.GetString("JWT_SECRET"),
			AccessExpiry:  accessExpiry,
			RefreshExpiry: refreshExpiry,
		},
		SMTP: SMTPConfig{
			Host:     viper.GetString("SMTP_HOST"),
			Port:     viper.GetInt("SMTP_PORT"),
			User:     viper.GetString("SMTP_USER"),
			Password: viper.GetString("SMTP_PASS"),
			From:     viper.GetString("SMTP_FROM"),
		},
		Predictor: PredictorConfig{
			BaseURL: viper.GetString("PREDICTOR_URL"),
			Timeout: predictorTimeout,
		},
		Analyzer: AnalyzerConfig{
			CacheTTL: cacheTTL,
		},
	}

	return config, nil
}
