// Package config loads the flashdrill configuration.
//
// Values are layered, lowest first: flag defaults, the YAML file, FLASHDRILL_*
// environment variables (a .env file is read into the environment first), and
// finally flags given on the command line.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

const (
	EnvPrefix         = "FLASHDRILL_"
	DefaultConfigFile = "flashdrill.yaml"
)

type Config struct {
	Storage Storage `koanf:"storage"`
	Log     Log     `koanf:"log"`
	Console Console `koanf:"console"`
	Import  Import  `koanf:"import"`
}

type Storage struct {
	Driver string `koanf:"driver" validate:"required,oneof=sqlite postgres memory"`
	DSN    string `koanf:"dsn" validate:"required_unless=Driver memory"`
}

type Log struct {
	Level  string `koanf:"level" validate:"required,oneof=debug info warn error"`
	Format string `koanf:"format" validate:"required,oneof=text json color"`
}

type Console struct {
	NoColor bool `koanf:"no_color"`
}

// Import lists card sources loaded before the session starts.
// A source is a local directory or a git URL.
type Import struct {
	Sources  []string `koanf:"sources" validate:"dive,required"`
	ReposDir string   `koanf:"repos_dir" validate:"required"`
}

// flagKeys maps command line flags to configuration keys.
var flagKeys = map[string]string{
	"driver":     "storage.driver",
	"db":         "storage.dsn",
	"log-level":  "log.level",
	"log-format": "log.format",
	"no-color":   "console.no_color",
	"import":     "import.sources",
	"repos-dir":  "import.repos_dir",
}

// NewFlagSet declares every flag understood by Load.
func NewFlagSet(name string) *pflag.FlagSet {
	f := pflag.NewFlagSet(name, pflag.ContinueOnError)
	f.String("config", DefaultConfigFile, "path to a YAML config file")
	f.String("driver", "sqlite", "storage driver: sqlite, postgres or memory")
	f.String("db", "flashdrill.db", "SQLite file or PostgreSQL connection string")
	f.String("log-level", "warn", "log level: debug, info, warn or error")
	f.String("log-format", "text", "log format: text, json or color")
	f.Bool("no-color", false, "disable coloured console output")
	f.StringSlice("import", nil, "directory or git URL to import cards from (repeatable)")
	f.String("repos-dir", "repos", "directory git sources are cloned into")
	return f
}

// Load parses args into f and builds the validated configuration.
func Load(f *pflag.FlagSet, args []string) (*Config, error) {
	if err := f.Parse(args); err != nil {
		return nil, err
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	k := koanf.New(".")

	path, _ := f.GetString("config")
	if err := loadFile(k, path, f.Changed("config")); err != nil {
		return nil, err
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	flags := posflag.ProviderWithFlag(f, ".", k, func(fl *pflag.Flag) (string, interface{}) {
		key, ok := flagKeys[fl.Name]
		if !ok {
			return "", nil
		}
		return key, posflag.FlagVal(f, fl)
	})
	if err := k.Load(flags, nil); err != nil {
		return nil, fmt.Errorf("failed to load flags: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadFile reads the YAML file at path. A missing file is only an error when it was asked for explicitly.
func loadFile(k *koanf.Koanf, path string, required bool) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return nil
		}
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// envKey turns FLASHDRILL_STORAGE_DSN into storage.dsn and FLASHDRILL_IMPORT_REPOS_DIR into import.repos_dir.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	section, name, ok := strings.Cut(key, "_")
	if !ok {
		return ""
	}
	return section + "." + name
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the decoded configuration.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
