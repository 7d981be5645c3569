package config

import "errors"

const envPrefix = "CROPSCAN"

const (
	DefaultPort        = 5000
	DefaultHost        = "0.0.0.0"
	DefaultEnvironment = "dev"
	DefaultHomeDir     = "~/.cropscan"
	DefaultSecretKey   = "default_secret_key"
	DefaultPredictor   = "mock"
	DefaultMaxUploadMB = 0
)

var (
	ErrInvalidPort        = errors.New("invalid port")
	ErrInvalidUploadLimit = errors.New("invalid upload limit")
)
