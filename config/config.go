package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/webitel/video-exporter/internal/errors"
)

type AppConfig struct {
	File     string          `json:"-"`
	Consul   *ConsulConfig   `json:"consul,omitempty"`
	Redis    *RedisConfig    `json:"redis,omitempty"`
	Database *DatabaseConfig `json:"database,omitempty"`
	HTTP     *HTTPConfig     `json:"http,omitempty"`
	Export   *ExportConfig   `json:"export,omitempty"`
}

// ConsulConfig is optional: an empty Address disables service registration.
type ConsulConfig struct {
	Id            string `json:"id"`
	Address       string `json:"address"`
	PublicAddress string `json:"publicAddress"`
}

type RedisConfig struct {
	Addr     string `json:"addr"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

type DatabaseConfig struct {
	Url string `json:"url"`
}

type HTTPConfig struct {
	Addr string `json:"addr"`
	// AdminToken guards the admin API. Empty disables the check.
	AdminToken string `json:"-"`
}

type ExportConfig struct {
	SiteURL string `json:"siteUrl"`
	// APIEndpoint and APIToken seed the settings store when it holds no credentials yet.
	APIEndpoint string `json:"apiEndpoint"`
	APIToken    string `json:"-"`
}

func LoadConfig() (*AppConfig, error) {
	return loadConfig(pflag.CommandLine, os.Args[1:])
}

func loadConfig(flags *pflag.FlagSet, args []string) (*AppConfig, error) {
	v := viper.New()
	if err := bindFlagsAndEnv(v, flags, args); err != nil {
		return nil, err
	}

	configFile := getConfigFilePath(v)
	if configFile != "" {
		if err := loadFromFile(v, configFile); err != nil {
			return nil, err
		}
	}

	cfg := buildAppConfig(v, configFile)
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func bindFlagsAndEnv(v *viper.Viper, flags *pflag.FlagSet, args []string) error {
	flags.String("config_file", "", "Configuration file in JSON format")

	// database
	flags.String("data_source", "", "Data source")

	// redis
	flags.String("redis_addr", "localhost:6379", "Redis address")
	flags.String("redis_password", "", "Redis password")
	flags.Int("redis_db", 0, "Redis DB number")

	// http
	flags.String("http_addr", ":8080", "Admin HTTP listen address")
	flags.String("admin_token", "", "Bearer token required by the admin API")

	// consul
	flags.String("id", "", "Service id")
	flags.String("consul", "", "Host to consul")
	flags.String("public_addr", "", "Public HTTP address with port")

	// export
	flags.String("site_url", "", "Public URL of the site whose posts are exported")
	flags.String("api_endpoint", "", "Video API endpoint used when none is stored")
	flags.String("api_token", "", "Video API token used when none is stored")

	if err := flags.Parse(args); err != nil {
		return errors.BadRequest("could not parse flags", errors.WithCause(err))
	}

	_ = v.BindPFlags(flags)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Explicit mapping
	_ = v.BindEnv("data_source", "DATA_SOURCE")
	_ = v.BindEnv("redis_addr", "REDIS_ADDR")
	_ = v.BindEnv("redis_password", "REDIS_PASSWORD")
	_ = v.BindEnv("redis_db", "REDIS_DB")
	_ = v.BindEnv("http_addr", "HTTP_ADDR")
	_ = v.BindEnv("admin_token", "VIDEO_EXPORTER_ADMIN_TOKEN")
	_ = v.BindEnv("id", "CONSUL_ID")
	_ = v.BindEnv("consul", "CONSUL_HOST")
	_ = v.BindEnv("public_addr", "PUBLIC_ADDR")
	_ = v.BindEnv("site_url", "SITE_URL")
	_ = v.BindEnv("api_endpoint", "VIDEO_EXPORTER_API_ENDPOINT")
	_ = v.BindEnv("api_token", "VIDEO_EXPORTER_API_TOKEN")
	return nil
}

func getConfigFilePath(v *viper.Viper) string {
	file := v.GetString("config_file")
	if file == "" {
		file = os.Getenv("VIDEO_EXPORTER_CONFIG_FILE")
	}
	return file
}

func loadFromFile(v *viper.Viper, path string) error {
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return errors.New(fmt.Sprintf("could not load config file: %s", err.Error()))
	}
	return nil
}

func buildAppConfig(v *viper.Viper, file string) *AppConfig {
	return &AppConfig{
		File:     file,
		Database: &DatabaseConfig{Url: v.GetString("data_source")},
		Redis: &RedisConfig{
			Addr:     v.GetString("redis_addr"),
			Password: v.GetString("redis_password"),
			DB:       v.GetInt("redis_db"),
		},
		HTTP: &HTTPConfig{
			Addr:       v.GetString("http_addr"),
			AdminToken: v.GetString("admin_token"),
		},
		Consul: &ConsulConfig{
			Id:            v.GetString("id"),
			Address:       v.GetString("consul"),
			PublicAddress: v.GetString("public_addr"),
		},
		Export: &ExportConfig{
			SiteURL:     strings.TrimRight(v.GetString("site_url"), "/"),
			APIEndpoint: v.GetString("api_endpoint"),
			APIToken:    v.GetString("api_token"),
		},
	}
}

func validateConfig(cfg *AppConfig) error {
	if cfg.Database.Url == "" {
		return errors.New("Data source is required")
	}
	if cfg.Redis.Addr == "" {
		return errors.New("Redis address is required")
	}
	if cfg.HTTP.Addr == "" {
		return errors.New("HTTP address is required")
	}
	if cfg.Export.SiteURL == "" {
		return errors.New("Site URL is required")
	}
	if cfg.Consul.Address != "" {
		if cfg.Consul.Id == "" {
			return errors.New("Service id is required when consul is set")
		}
		if cfg.Consul.PublicAddress == "" {
			return errors.New("Public address is required when consul is set")
		}
	}
	return nil
}
