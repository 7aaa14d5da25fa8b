package handler

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/logtools-dev/logtools/core"
	"github.com/logtools-dev/logtools/formatter"
)

// MailConfig holds the mail handler's settings. Everything is supplied
// at construction and not mutated afterwards.
type MailConfig struct {
	// Host and Port of the SMTP server
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	// Username and Password for SMTP authentication (both may be empty
	// for an unauthenticated relay)
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	// SenderAddress for the From header (default: Username, then
	// noreply@<fqdn>)
	SenderAddress string `mapstructure:"senderAddress"`
	// SenderName for the From header (default: program name)
	SenderName string `mapstructure:"senderName"`
	// To lists the recipient addresses; at least one is required
	To []string `mapstructure:"to"`
	// SubjectPrefix is a pattern template for the leading portion of
	// the subject (default: DefaultSubjectPrefix)
	SubjectPrefix string `mapstructure:"subjectPrefix"`
	// InsecureSkipVerify disables TLS certificate verification
	InsecureSkipVerify bool `mapstructure:"insecureSkipVerify"`
	// RetryCount is the number of send retries (default: 3)
	RetryCount int `mapstructure:"retryCount"`
	// RetryBackoff is the initial retry delay, doubled per attempt and
	// capped at 32s (default: 100ms)
	RetryBackoff time.Duration `mapstructure:"retryBackoff"`
	// MinPause is the quiet period after a successful send during
	// which further entries are not mailed (0 = no quiet period)
	MinPause time.Duration `mapstructure:"minPause"`

	// MinLevel is the threshold below which entries are ignored
	MinLevel core.Level `mapstructure:"-"`

	// Formatter renders the mail body (default: level-aware pattern
	// formatter with DefaultLevelPatterns)
	Formatter formatter.Formatter `mapstructure:"-"`
	// Sender overrides SMTP dispatch; used by tests and by callers
	// with their own delivery path
	Sender Sender `mapstructure:"-"`

	// Async enables queued dispatch so slow SMTP servers never stall
	// the logging call site
	Async bool `mapstructure:"async"`
	// BufferSize is the size of the async queue (default: 1000)
	BufferSize int `mapstructure:"bufferSize"`
	// OverflowPolicy defines per-level overflow behavior (default: DefaultLevelPolicy)
	OverflowPolicy map[core.Level]OverflowPolicy `mapstructure:"-"`
	// BlockTimeout is the timeout for the blocking overflow policy (default: 100ms)
	BlockTimeout time.Duration `mapstructure:"blockTimeout"`
	// DrainTimeout is the timeout for draining the queue on Close (default: 5s)
	DrainTimeout time.Duration `mapstructure:"drainTimeout"`
}

func (cfg MailConfig) validate() error {
	if len(cfg.To) == 0 {
		return fmt.Errorf("handler: mail handler needs at least one recipient")
	}
	for _, addr := range cfg.To {
		if addr == "" {
			return fmt.Errorf("handler: empty recipient address")
		}
	}
	if cfg.Sender == nil {
		if cfg.Host == "" {
			return fmt.Errorf("handler: mail handler needs an SMTP host")
		}
		if cfg.Port <= 0 {
			return fmt.Errorf("handler: mail handler needs an SMTP port")
		}
	}
	return nil
}

// MailConfigFromFile loads mail settings from a JSON, YAML or TOML
// file. The minLevel key holds a level name ("info", "error", ...).
// Fields without a file value keep their zero value and fall back to
// the constructor defaults.
func MailConfigFromFile(path string) (MailConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return MailConfig{}, fmt.Errorf("handler: read mail config: %w", err)
	}

	var cfg MailConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return MailConfig{}, fmt.Errorf("handler: parse mail config: %w", err)
	}
	if lvl := v.GetString("minLevel"); lvl != "" {
		cfg.MinLevel = core.ParseLevel(lvl)
	}
	return cfg, nil
}
