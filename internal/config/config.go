package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. PIXELPET_BACKEND_URL.
const EnvPrefix = "PIXELPET"

// Config holds application configuration.
type Config struct {
	DB      string        `mapstructure:"db"`
	Addr    string        `mapstructure:"addr"`
	Log     string        `mapstructure:"log"`
	Backend BackendConfig `mapstructure:"backend"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Images  ImagesConfig  `mapstructure:"images"`
	Session SessionConfig `mapstructure:"session"`
}

// BackendConfig locates the game backend.
type BackendConfig struct {
	URL    string `mapstructure:"url"`
	APIKey string `mapstructure:"api_key"`
	// Timeout bounds snapshot reads.
	Timeout time.Duration `mapstructure:"timeout"`
	// GenerationTimeout bounds test generations. Zero means no limit.
	GenerationTimeout time.Duration `mapstructure:"generation_timeout"`
	// ImageHosts are extra hosts generated images may be fetched from.
	ImageHosts []string `mapstructure:"image_hosts"`
}

// CacheConfig enables the redis snapshot cache when RedisAddr is set.
type CacheConfig struct {
	RedisAddr string        `mapstructure:"redis_addr"`
	TTL       time.Duration `mapstructure:"ttl"`
}

// ImagesConfig holds thumbnail settings.
type ImagesConfig struct {
	ThumbnailSize int `mapstructure:"thumbnail_size"`
}

// SessionConfig holds login session settings.
type SessionConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// flagKeys maps command line flags to config keys.
var flagKeys = map[string]string{
	"db":          "db",
	"addr":        "addr",
	"log":         "log",
	"backend-url": "backend.url",
	"redis-addr":  "cache.redis_addr",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("db", "pixelpet.db")
	v.SetDefault("addr", ":8080")
	v.SetDefault("log", "")
	v.SetDefault("backend.url", "http://localhost:3000")
	v.SetDefault("backend.api_key", "")
	v.SetDefault("backend.timeout", 10*time.Second)
	v.SetDefault("backend.generation_timeout", time.Duration(0))
	v.SetDefault("backend.image_hosts", []string{})
	v.SetDefault("cache.redis_addr", "")
	v.SetDefault("cache.ttl", 2*time.Second)
	v.SetDefault("images.thumbnail_size", 256)
	v.SetDefault("session.ttl", 7*24*time.Hour)
}

// Load reads configuration with increasing precedence from defaults, a TOML
// file, PIXELPET_ environment variables and flags that were set explicitly.
// An explicit path (argument or PIXELPET_CONFIG) must exist; the default
// ~/.config/pixelpet/config.toml is optional.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")
	if path == "" {
		path = os.Getenv(EnvPrefix + "_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "pixelpet"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return Config{}, fmt.Errorf("binding flag %s: %w", name, err)
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks values that would otherwise fail late.
func (c Config) Validate() error {
	switch {
	case c.DB == "":
		return errors.New("config: db path is empty")
	case c.Addr == "":
		return errors.New("config: listen address is empty")
	case c.Backend.URL == "":
		return errors.New("config: backend.url is empty")
	case c.Backend.Timeout < 0 || c.Backend.GenerationTimeout < 0:
		return errors.New("config: backend timeouts must not be negative")
	case c.Images.ThumbnailSize <= 0:
		return errors.New("config: images.thumbnail_size must be positive")
	}
	return nil
}
