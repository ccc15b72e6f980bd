package cli

import (
	"fmt"
	"strings"

	"github.com/indigo-web/muncher/http/parser/http1"
	"github.com/indigo-web/muncher/settings"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is assembled from flags, MUNCHER_* environment variables and an optional
// YAML file, in order of precedence
type Config struct {
	Mode    string            `mapstructure:"mode"`
	Chunk   int               `mapstructure:"chunk"`
	MaxBody int               `mapstructure:"max_body"`
	Log     LogConfig         `mapstructure:"log"`
	Parser  settings.Settings `mapstructure:"parser"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// flagKeys maps flags onto configuration keys
var flagKeys = map[string]string{
	"mode":       "mode",
	"chunk":      "chunk",
	"max-body":   "max_body",
	"pipelining": "parser.pipelining",
	"log-level":  "log.level",
	"log-file":   "log.file",
}

func loadConfig(flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("MUNCHER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for name, key := range flagKeys {
		if flag := flags.Lookup(name); flag != nil {
			if err := v.BindPFlag(key, flag); err != nil {
				return Config{}, fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	if path, _ := flags.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, cfg.validate()
}

func setDefaults(v *viper.Viper) {
	d := settings.Default()

	v.SetDefault("mode", http1.Request.String())
	v.SetDefault("chunk", 0)
	v.SetDefault("max_body", 0)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 7)
	v.SetDefault("log.compress", false)

	v.SetDefault("parser.headers.number.default", d.Headers.Number.Default)
	v.SetDefault("parser.headers.number.maximal", d.Headers.Number.Maximal)
	v.SetDefault("parser.headers.size.default", d.Headers.Size.Default)
	v.SetDefault("parser.headers.size.maximal", d.Headers.Size.Maximal)
	v.SetDefault("parser.body.chunksize.default", d.Body.ChunkSize.Default)
	v.SetDefault("parser.body.chunksize.maximal", d.Body.ChunkSize.Maximal)
	v.SetDefault("parser.feed.readsize.default", d.Feed.ReadSize.Default)
	v.SetDefault("parser.feed.readsize.maximal", d.Feed.ReadSize.Maximal)
	v.SetDefault("parser.pipelining", false)
}

func (c *Config) validate() error {
	if _, ok := http1.ParseMode(c.Mode); !ok {
		return fmt.Errorf("unknown mode %q: must be request, response or both", c.Mode)
	}

	c.Parser = settings.Fill(c.Parser)

	switch {
	case c.Chunk < 0:
		return fmt.Errorf("chunk size must not be negative, got %d", c.Chunk)
	case c.Chunk == 0:
		c.Chunk = int(c.Parser.Feed.ReadSize.Default)
	case c.Chunk > int(c.Parser.Feed.ReadSize.Maximal):
		return fmt.Errorf("chunk size %d exceeds the limit of %d", c.Chunk, c.Parser.Feed.ReadSize.Maximal)
	}

	if c.MaxBody < 0 {
		return fmt.Errorf("body limit must not be negative, got %d", c.MaxBody)
	}

	return nil
}

func (c Config) mode() http1.Mode {
	mode, _ := http1.ParseMode(c.Mode)
	return mode
}
