package server

import (
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/pkg/errors"
)

// Config is the process-level configuration. Runtime user settings (polling
// interval, auth bundle, badge preferences) live in the store instead, where
// the popup UI mutates them.
type Config struct {
	Env string `yaml:"env" env:"COMPANION_ENV" env-default:"local"`

	Listen struct {
		BindIP string `yaml:"bind_ip" env:"COMPANION_BIND_IP" env-default:"127.0.0.1"`
		Port   string `yaml:"port" env:"COMPANION_PORT" env-default:"9134"`
	} `yaml:"listen"`

	Store struct {
		Path string `yaml:"path" env:"COMPANION_STORE_PATH" env-default:"companion.db"`
	} `yaml:"store"`

	ChatProxy struct {
		BaseURL string `yaml:"base_url" env:"COMPANION_CHAT_PROXY_URL" env-default:"https://chat.openhive.network"`
	} `yaml:"chat_proxy"`

	Hive struct {
		APIURL string `yaml:"api_url" env:"COMPANION_HIVE_API_URL" env-default:"https://api.hive.blog"`
	} `yaml:"hive"`

	Log struct {
		Level string `yaml:"level" env:"COMPANION_LOG_LEVEL" env-default:"info"`
	} `yaml:"log"`
}

// LoadConfig reads the YAML config when the file exists, then applies
// environment overrides. A missing file is fine; defaults plus environment
// carry a fresh install.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(path); err == nil {
		if err = cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, errors.Wrapf(err, "failed to read config %s", path)
		}
		return cfg, nil
	}

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, errors.Wrap(err, "failed to read config from environment")
	}
	return cfg, nil
}
