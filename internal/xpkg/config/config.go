package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	DB       *Postgres `yaml:"database"`
	RMQ      *RabbitMQ `yaml:"rabbitmq"`
	Business *Business `yaml:"business"`
	Admin    *Admin    `yaml:"admin"`
}

type Postgres struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

type RabbitMQ struct {
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	VHost    string `yaml:"vhost"`
}

// Business holds restaurant-level settings shared by every service.
// Timezone is the business time zone used for all "today" and daily-bucket
// computations, independent of the caller's clock.
type Business struct {
	Timezone    string  `yaml:"timezone"`
	DeliveryFee float64 `yaml:"delivery_fee"`
}

type Admin struct {
	JWTSecret string `yaml:"jwt_secret"`
	User      string `yaml:"user"`
	Password  string `yaml:"password"`
}

func LoadConfig(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

// LoadDotEnv builds a config from environment variables with sane defaults,
// used when no yaml file is supplied.
func LoadDotEnv() *Config {
	cfg := &Config{
		DB: &Postgres{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnv("POSTGRES_PORT", "5432"),
			User:     getEnv("POSTGRES_USER", "admin"),
			Password: getEnv("POSTGRES_PASSWORD", "admin"),
			Database: getEnv("POSTGRES_DBNAME", "tavolo_db"),
		},
		RMQ: &RabbitMQ{
			Host:     getEnv("RABBITMQ_HOST", "localhost"),
			Port:     getEnv("RABBITMQ_PORT", "5672"),
			User:     getEnv("RABBITMQ_USER", "guest"),
			Password: getEnv("RABBITMQ_PASSWORD", "guest"),
			VHost:    getEnv("RABBITMQ_VHOST", ""),
		},
		Business: &Business{
			Timezone:    getEnv("BUSINESS_TIMEZONE", "Asia/Almaty"),
			DeliveryFee: 5.0,
		},
		Admin: &Admin{
			JWTSecret: getEnv("ADMIN_JWT_SECRET", "change-me"),
			User:      getEnv("ADMIN_USER", "admin"),
			Password:  getEnv("ADMIN_PASSWORD", "admin"),
		},
	}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Business == nil {
		c.Business = &Business{}
	}
	if c.Business.Timezone == "" {
		c.Business.Timezone = "Asia/Almaty"
	}
	if c.Business.DeliveryFee == 0 {
		c.Business.DeliveryFee = 5.0
	}
	if c.Admin == nil {
		c.Admin = &Admin{JWTSecret: "change-me", User: "admin", Password: "admin"}
	}
}

// Location resolves the business time zone. Fails loudly on an unknown
// name instead of silently falling back to the server clock.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Business.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid business timezone %q: %w", c.Business.Timezone, err)
	}
	return loc, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
