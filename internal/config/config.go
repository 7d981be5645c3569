package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port              int    `mapstructure:"port"`
	Host              string `mapstructure:"host"`
	Environment       string `mapstructure:"environment"`
	PublicDir         string `mapstructure:"public_dir"`
	SecretKey         string `mapstructure:"session_secret"`
	Predictor         string `mapstructure:"predictor"`
	PreprocessWorkers int    `mapstructure:"preprocess_workers"`
	MaxUploadMB       int64  `mapstructure:"max_upload_mb"`
}

var config *Config

// Configure sets defaults and environment bindings on v. Every setting can be
// overridden with a CROPSCAN_ prefixed variable, except the session secret
// which keeps its historical SESSION_SECRET name.
func Configure(v *viper.Viper) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(
		`-`, `_`, // convert hyphens to underscores
		`.`, `_`, // convert dots to underscores
	))
	v.AutomaticEnv()

	v.SetDefault("port", DefaultPort)
	v.SetDefault("host", DefaultHost)
	v.SetDefault("environment", DefaultEnvironment)
	v.SetDefault("public_dir", "")
	v.SetDefault("session_secret", DefaultSecretKey)
	v.SetDefault("predictor", DefaultPredictor)
	v.SetDefault("preprocess_workers", 0)
	v.SetDefault("max_upload_mb", DefaultMaxUploadMB)

	v.BindEnv("session_secret", "SESSION_SECRET")
}

// LoadEnvAndConfigFiles loads the optional .env and YAML config files into
// the global viper instance and builds the process-wide config.
func LoadEnvAndConfigFiles() error {
	envFile := viper.GetString("env_file")
	if envFile == "" {
		envFile = ".env"
	}

	if err := loadEnvFile(envFile); err != nil {
		return err
	}

	configFile, err := expandPath(viper.GetString("config_file"))
	if err != nil {
		return fmt.Errorf("failed to expand config file path: %w", err)
	}

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		home, err := expandPath(DefaultHomeDir)
		if err != nil {
			return fmt.Errorf("failed to expand home directory: %w", err)
		}

		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
		viper.AddConfigPath(".")
		viper.AddConfigPath(home)
	}

	if err := viper.ReadInConfig(); err != nil {
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return fmt.Errorf("error reading config: %w", err)
		}
	}

	cfg, err := Unmarshal(viper.GetViper())
	if err != nil {
		return err
	}

	config = cfg
	return nil
}

func Unmarshal(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("%w: %d", ErrInvalidPort, c.Port)
	}
	if c.MaxUploadMB < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidUploadLimit, c.MaxUploadMB)
	}

	return nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// MaxUploadBytes is the request body limit for uploads. Zero means unlimited.
func (c *Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}

func (c *Config) UsesDefaultSecret() bool {
	return c.SecretKey == DefaultSecretKey
}

func SetConfig(c *Config) {
	if c == nil {
		panic("config is nil")
	}

	config = c
}

func MustGetConfig() *Config {
	if config == nil {
		panic("config not loaded")
	}

	return config
}

func loadEnvFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}

		return fmt.Errorf("failed to stat env file: %w", err)
	}

	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}

	return nil
}

// expandPath replaces a leading "~" with the user's home directory.
func expandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, path[1:]), nil
}
