package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host string
	Port int
}

type DBConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime string
}

type AuthConfig struct {
	AccessSecret string
}

type DispatchConfig struct {
	HighPriorityFillLevel int
}

type RouteConfig struct {
	AvgSpeedKmh float64
	FuelPerKm   float64
}

type PredictionConfig struct {
	DefaultDaysAhead int
	MaxDaysAhead     int
}

type VisionConfig struct {
	Endpoint       string
	APIKey         string
	TimeoutSeconds int
}

type Config struct {
	Environment string
	HTTP        HTTPConfig
	DB          DBConfig
	Auth        AuthConfig
	Dispatch    DispatchConfig
	Routes      RouteConfig
	Predictions PredictionConfig
	Vision      VisionConfig
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./deploy")

	v.AutomaticEnv()

	_ = v.ReadInConfig()

	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		HTTP: HTTPConfig{
			Host: v.GetString("HTTP_HOST"),
			Port: v.GetInt("HTTP_PORT"),
		},
		DB: DBConfig{
			DSN:             v.GetString("DB_DSN"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetString("DB_CONN_MAX_LIFETIME"),
		},
		Auth: AuthConfig{
			AccessSecret: v.GetString("JWT_ACCESS_SECRET"),
		},
		Dispatch: DispatchConfig{
			HighPriorityFillLevel: v.GetInt("DISPATCH_HIGH_PRIORITY_FILL_LEVEL"),
		},
		Routes: RouteConfig{
			AvgSpeedKmh: v.GetFloat64("ROUTE_AVG_SPEED_KMH"),
			FuelPerKm:   v.GetFloat64("ROUTE_FUEL_PER_KM"),
		},
		Predictions: PredictionConfig{
			DefaultDaysAhead: v.GetInt("PREDICTION_DEFAULT_DAYS_AHEAD"),
			MaxDaysAhead:     v.GetInt("PREDICTION_MAX_DAYS_AHEAD"),
		},
		Vision: VisionConfig{
			Endpoint:       v.GetString("VISION_ENDPOINT"),
			APIKey:         v.GetString("VISION_API_KEY"),
			TimeoutSeconds: v.GetInt("VISION_TIMEOUT_SECONDS"),
		},
	}

	if cfg.HTTP.Host == "" {
		cfg.HTTP.Host = "0.0.0.0"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 7090
	}
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.Dispatch.HighPriorityFillLevel <= 0 {
		cfg.Dispatch.HighPriorityFillLevel = 90
	}
	if cfg.Routes.AvgSpeedKmh <= 0 {
		cfg.Routes.AvgSpeedKmh = 30
	}
	if cfg.Routes.FuelPerKm <= 0 {
		cfg.Routes.FuelPerKm = 0.15
	}
	if cfg.Predictions.DefaultDaysAhead <= 0 {
		cfg.Predictions.DefaultDaysAhead = 7
	}
	if cfg.Predictions.MaxDaysAhead <= 0 {
		cfg.Predictions.MaxDaysAhead = 30
	}
	if cfg.Vision.TimeoutSeconds <= 0 {
		cfg.Vision.TimeoutSeconds = 10
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.DB.DSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}
	if cfg.Auth.AccessSecret == "" {
		return fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	return nil
}
