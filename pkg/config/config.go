package config

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
	"github.com/xrsl/careerflow/pkg/utils"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Agent  string       `mapstructure:"agent" yaml:"agent,omitempty"`
	Goal   string       `mapstructure:"goal" yaml:"goal,omitempty"`
	Store  StoreConfig  `mapstructure:"store" yaml:"store"`
	Remote RemoteConfig `mapstructure:"remote" yaml:"remote"`
	Server ServerConfig `mapstructure:"server" yaml:"server"`
}

// StoreConfig selects where workflow state is persisted.
type StoreConfig struct {
	Backend   string `mapstructure:"backend" yaml:"backend" validate:"oneof=file memory redis"`
	Dir       string `mapstructure:"dir" yaml:"dir,omitempty" validate:"required_if=Backend file"`
	RedisAddr string `mapstructure:"redis_addr" yaml:"redis_addr,omitempty" validate:"required_if=Backend redis"`
	Prefix    string `mapstructure:"prefix" yaml:"prefix,omitempty"`
}

// RemoteConfig selects the source of account-level counts (resumes,
// applications, brand audits, skills).
type RemoteConfig struct {
	Backend string `mapstructure:"backend" yaml:"backend" validate:"oneof=none postgres github"`
	DSN     string `mapstructure:"dsn" yaml:"dsn,omitempty" validate:"required_if=Backend postgres"`
	Repo    string `mapstructure:"repo" yaml:"repo,omitempty" validate:"required_if=Backend github"`
	User    string `mapstructure:"user" yaml:"user,omitempty" validate:"omitempty,email"`
}

type ServerConfig struct {
	Addr      string `mapstructure:"addr" yaml:"addr" validate:"required,hostname_port"`
	Reconcile string `mapstructure:"reconcile" yaml:"reconcile" validate:"required,cronspec"`
}

var defaults = map[string]string{
	"agent":            "claude-code",
	"goal":             "",
	"store.backend":    "file",
	"store.dir":        ".careerflow",
	"store.redis_addr": "localhost:6379",
	"store.prefix":     "careerflow",
	"remote.backend":   "none",
	"remote.dsn":       "",
	"remote.repo":      "",
	"remote.user":      "",
	"server.addr":      "localhost:8080",
	"server.reconcile": "@every 1h",
}

var (
	configFile = ".careerflow.yaml"
	v          *viper.Viper
	validate   *validator.Validate
)

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	_ = validate.RegisterValidation("cronspec", func(fl validator.FieldLevel) bool {
		_, err := cron.ParseStandard(fl.Field().String())
		return err == nil
	})

	v = newViper(configFile)
	// Try to read config file (ignore if not exists)
	_ = v.ReadInConfig()
}

func newViper(path string) *viper.Viper {
	nv := viper.New()
	nv.SetConfigFile(path)
	for k, val := range defaults {
		nv.SetDefault(k, val)
	}

	nv.SetEnvPrefix("CAREERFLOW")
	nv.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	nv.AutomaticEnv()
	return nv
}

func Path() string {
	return configFile
}

// Keys returns every settable key in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func Load() (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Validate checks field constraints, e.g. that a postgres remote carries a DSN.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// AgentCLI returns the CLI agent name derived from the agent setting
func (c *Config) AgentCLI() string {
	if strings.HasPrefix(c.Agent, "gemini") {
		return "gemini"
	}
	return "claude"
}

func known(key string) bool {
	_, ok := defaults[key]
	return ok
}

func Get(key string) (string, error) {
	if !known(key) {
		return "", fmt.Errorf("unknown config key: %s", key)
	}
	return v.GetString(key), nil
}

// Set updates key, validates the result and persists it. An invalid value
// leaves the previous setting in place.
func Set(key, value string) error {
	if !known(key) {
		return fmt.Errorf("unknown config key: %s (valid: %s)", key, strings.Join(Keys(), ", "))
	}

	prev := v.GetString(key)
	v.Set(key, value)

	cfg, err := Load()
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		v.Set(key, prev)
		return err
	}
	return writeConfig(cfg)
}

func All() (map[string]string, error) {
	out := make(map[string]string, len(defaults))
	for k := range defaults {
		out[k] = v.GetString(k)
	}
	return out, nil
}

// Save saves the full config
func Save(c *Config) error {
	if err := c.Validate(); err != nil {
		return err
	}
	return writeConfig(c)
}

func writeConfig(cfg *Config) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	return utils.WriteFile(configFile, buf.String())
}

// ResetForTest resets viper for testing (only use in tests)
func ResetForTest(testPath string) {
	configFile = testPath + "/.careerflow.yaml"
	v = newViper(configFile)
	_ = v.ReadInConfig()
}
