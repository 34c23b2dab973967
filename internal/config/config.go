package config

import (
	"time"

	"github.com/spf13/viper"
)

// APIConfig holds the base URL and key for one outbound dependency.
type APIConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
}

// Config holds the configuration for the application.
type Config struct {
	Server struct {
		Port         int           `mapstructure:"port"`
		ReadTimeout  time.Duration `mapstructure:"read_timeout"`
		WriteTimeout time.Duration `mapstructure:"write_timeout"`
		IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	} `mapstructure:"server"`
	DB struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
		SSLMode  string `mapstructure:"sslmode"`
	} `mapstructure:"db"`
	Security struct {
		// APIKey protects the inbound /submission endpoints.
		APIKey string `mapstructure:"api_key"`
	} `mapstructure:"security"`
	API struct {
		Origami     APIConfig `mapstructure:"origami"`
		RootsAI     APIConfig `mapstructure:"rootsai"`
		AgentPortal APIConfig `mapstructure:"agent_portal"`
	} `mapstructure:"api"`
	Clients struct {
		// Timeout applies to every outbound HTTP call.
		Timeout time.Duration `mapstructure:"timeout"`
	} `mapstructure:"clients"`
	Breaker struct {
		FailureThreshold uint32        `mapstructure:"failure_threshold"`
		FailureRate      float64       `mapstructure:"failure_rate"`
		Window           time.Duration `mapstructure:"window"`
		Cooldown         time.Duration `mapstructure:"cooldown"`
		MaxTrialCalls    uint32        `mapstructure:"max_trial_calls"`
	} `mapstructure:"breaker"`
}

// LoadConfig loads the configuration from a file and the environment.
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 15*time.Second)
	viper.SetDefault("server.write_timeout", 15*time.Second)
	viper.SetDefault("server.idle_timeout", 60*time.Second)
	viper.SetDefault("db.sslmode", "disable")
	viper.SetDefault("clients.timeout", 30*time.Second)
	viper.SetDefault("breaker.failure_threshold", 5)
	viper.SetDefault("breaker.failure_rate", 0.5)
	viper.SetDefault("breaker.window", 60*time.Second)
	viper.SetDefault("breaker.cooldown", 30*time.Second)
	viper.SetDefault("breaker.max_trial_calls", 3)

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
