// Package config loads client settings from defaults, an optional .env file and LMS_ environment variables.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/viant/learnsphere"
)

// EnvPrefix prefixes every environment key, e.g. LMS_BASEURL
const EnvPrefix = "LMS"

// Keys
const (
	KeyBaseURL    = "baseURL"
	KeyTimeout    = "timeout"
	KeyRedisAddr  = "redisAddr"
	KeyHintID     = "hintID"
	KeyLoginRoute = "loginRoute"
	KeySecret     = "secret"
	KeyDebug      = "debug"
)

// Config holds resolved client settings
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	RedisAddr  string
	HintID     string
	LoginRoute string
	Secret     string
	Debug      bool
}

// New returns a viper instance with client defaults bound to LMS_ environment variables
func New() *viper.Viper {
	ret := viper.New()
	ret.SetTypeByDefaultValue(true)
	ret.SetDefault(KeyBaseURL, "http://localhost:4000"+learnsphere.DefaultBasePath)
	ret.SetDefault(KeyTimeout, 30*time.Second)
	ret.SetDefault(KeyRedisAddr, "")
	ret.SetDefault(KeyHintID, "")
	ret.SetDefault(KeyLoginRoute, learnsphere.LoginRoute)
	ret.SetDefault(KeySecret, "")
	ret.SetDefault(KeyDebug, false)
	ret.SetEnvPrefix(EnvPrefix)
	ret.AutomaticEnv()
	return ret
}

// Load reads dotEnvPath when it exists, then resolves settings from the environment
func Load(dotEnvPath string) (*Config, error) {
	if dotEnvPath != "" {
		if _, err := os.Stat(dotEnvPath); err == nil {
			if err := godotenv.Load(dotEnvPath); err != nil {
				return nil, fmt.Errorf("config.godotenv(%s): %w", dotEnvPath, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("config.os.Stat(%s): %w", dotEnvPath, err)
		}
	}
	return From(New())
}

// From resolves settings from conf
func From(conf *viper.Viper) (*Config, error) {
	ret := &Config{
		BaseURL:    conf.GetString(KeyBaseURL),
		Timeout:    conf.GetDuration(KeyTimeout),
		RedisAddr:  conf.GetString(KeyRedisAddr),
		HintID:     conf.GetString(KeyHintID),
		LoginRoute: conf.GetString(KeyLoginRoute),
		Secret:     conf.GetString(KeySecret),
		Debug:      conf.GetBool(KeyDebug),
	}
	if ret.BaseURL == "" {
		return nil, fmt.Errorf("config: %v is required", KeyBaseURL)
	}
	if ret.Timeout <= 0 {
		return nil, fmt.Errorf("config: %v must be positive, got %v", KeyTimeout, ret.Timeout)
	}
	return ret, nil
}
