package config

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/inconshreveable/log15"
	"github.com/pkg/errors"
	"github.com/robfig/cron"

	"github.com/vitelabs/go-crowdfund/common"
)

const DefaultConfigFileName = "gfund.config.json"

type RPC struct {
	Enabled     bool     `json:"Enabled" env:"GFUND_RPC_ENABLED"`
	ListenAddr  string   `json:"ListenAddr" env:"GFUND_RPC_ADDR"`
	CorsOrigins []string `json:"CorsOrigins" env:"GFUND_RPC_CORS" envSeparator:","`
}

type Config struct {
	RPC `json:"RPC"`

	// global keys
	DataDir   string `json:"DataDir" env:"GFUND_DATADIR"`
	LogLevel  string `json:"LogLevel" env:"GFUND_LOGLEVEL"`
	LogDir    string `json:"LogDir" env:"GFUND_LOGDIR"`
	CacheSize int    `json:"CacheSize" env:"GFUND_CACHE_SIZE"`
	SweepSpec string `json:"SweepSpec" env:"GFUND_SWEEP_SPEC"`
}

func Default() *Config {
	return &Config{
		RPC: RPC{
			Enabled:     true,
			ListenAddr:  fmt.Sprintf("%s:%d", common.DefaultHTTPHost, common.DefaultHTTPPort),
			CorsOrigins: []string{"*"},
		},
		DataDir:   common.DefaultDataDir(),
		LogLevel:  "info",
		CacheSize: common.DefaultCacheSize,
		SweepSpec: common.DefaultSweepSpec,
	}
}

// Load starts from the defaults, overlays the JSON file at path and then the
// GFUND_* environment. An empty path reads gfund.config.json from the working
// directory when it exists.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigFileName
	}
	if _, err := os.Stat(path); err == nil {
		text, err := ioutil.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "read config %s", path)
		}
		if err := json.Unmarshal(text, cfg); err != nil {
			return nil, errors.Wrapf(err, "parse config %s", path)
		}
	} else if explicit {
		return nil, errors.Wrapf(err, "config file %s", path)
	}

	if err := env.Parse(cfg); err != nil {
		return nil, errors.Wrap(err, "parse env")
	}
	if cfg.LogDir == "" && cfg.DataDir != "" {
		cfg.LogDir = filepath.Join(cfg.DataDir, "runlog")
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DataDir == "" {
		return ErrEmptyDataDir
	}
	if _, err := log15.LvlFromString(c.LogLevel); err != nil {
		return errors.Wrapf(ErrBadLogLevel, "%q", c.LogLevel)
	}
	if c.CacheSize <= 0 {
		return ErrBadCacheSize
	}
	if _, err := cron.Parse(c.SweepSpec); err != nil {
		return errors.Wrapf(ErrBadSweepSpec, "%q: %v", c.SweepSpec, err)
	}
	if c.RPC.Enabled && c.RPC.ListenAddr == "" {
		return ErrBadListenAddr
	}
	return nil
}
