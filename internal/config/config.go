package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration for the digest pipeline.
type Config struct {
	Completion CompletionConfig
	Search     SearchConfig
	Email      EmailConfig
	Output     OutputConfig
	Store      StoreConfig
	Schedule   string // standard 5-field cron expression
	Digest     DigestConfig
}

// CompletionConfig controls the language-model call that produces the raw listing text.
type CompletionConfig struct {
	BaseURL    string // OpenAI-compatible API root, defaults to OpenPipe
	APIKey     string
	Model      string
	Timeout    time.Duration
	Focus      string
	MinJobs    int
	MaxJobs    int
	PromptPath string // optional text/template file overriding the embedded prompt
}

// SearchConfig controls link resolution.
type SearchConfig struct {
	Provider    string // "brave", "duckduckgo" or "none"
	BaseURL     string
	APIKey      string
	Country     string
	SearchLang  string
	Timeout     time.Duration // per-query budget before falling back
	MinDelay    time.Duration // minimum gap between search requests
	Locality    string        // appended to every query
	FallbackURL string        // printf pattern with a single %s
}

// EmailConfig controls digest delivery.
type EmailConfig struct {
	Transport            string   `yaml:"transport"` // "smtp", "resend", "postmark" or "log"
	Host                 string   `yaml:"host"`
	Port                 int      `yaml:"port"`
	Username             string   `yaml:"username"`
	Password             string   `yaml:"password"`
	KeyringAccount       string   `yaml:"keyring_account"`
	From                 string   `yaml:"from"`
	To                   []string `yaml:"-"`
	Subject              string   `yaml:"subject"`
	ResendAPIKey         string   `yaml:"resend_api_key"`
	PostmarkServerToken  string   `yaml:"postmark_server_token"`
	PostmarkAccountToken string   `yaml:"postmark_account_token"`
}

// OutputConfig controls the on-disk HTML artifact.
type OutputConfig struct {
	Path string `yaml:"path"`
}

// StoreConfig controls the SQLite history database.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// DigestConfig holds the document chrome.
type DigestConfig struct {
	Heading   string `yaml:"heading"`
	AgentName string `yaml:"agent_name"`
}

const (
	DefaultPath              = "config.yaml"
	defaultCompletionURL     = "https://app.openpipe.ai/api/v1"
	defaultFocus             = "experimental media, digital culture, and XR"
	defaultLocality          = "Hong Kong"
	defaultSMTPHost          = "smtp.gmail.com"
	defaultSMTPPort          = 465
	defaultSubject           = "🗞️ Your Daily Job Digest (with links)"
	defaultOutputPath        = "job_digest_email.html"
	defaultStorePath         = "jobdigest.db"
	defaultSchedule          = "0 9 * * *"
	defaultSearchProvider    = "brave"
	defaultEmailTransport    = "smtp"
	defaultCompletionTimeout = 60 * time.Second
)

// rawConfig is used for YAML unmarshaling (snake_case fields and duration as string).
type rawConfig struct {
	Completion rawCompletionConfig `yaml:"completion"`
	Search     rawSearchConfig     `yaml:"search"`
	Email      rawEmailConfig      `yaml:"email"`
	Output     OutputConfig        `yaml:"output"`
	Store      StoreConfig         `yaml:"store"`
	Schedule   string              `yaml:"schedule"`
	Digest     DigestConfig        `yaml:"digest"`
}

type rawCompletionConfig struct {
	BaseURL    string `yaml:"base_url"`
	APIKey     string `yaml:"api_key"`
	Model      string `yaml:"model"`
	Timeout    string `yaml:"timeout"`
	Focus      string `yaml:"focus"`
	MinJobs    int    `yaml:"min_jobs"`
	MaxJobs    int    `yaml:"max_jobs"`
	PromptPath string `yaml:"prompt_path"`
}

type rawSearchConfig struct {
	Provider    string `yaml:"provider"`
	BaseURL     string `yaml:"base_url"`
	APIKey      string `yaml:"api_key"`
	Country     string `yaml:"country"`
	SearchLang  string `yaml:"search_lang"`
	Timeout     string `yaml:"timeout"`
	MinDelay    string `yaml:"min_delay"`
	Locality    string `yaml:"locality"`
	FallbackURL string `yaml:"fallback_url"`
}

// rawEmailConfig accepts "to" as either a single address or a list.
type rawEmailConfig struct {
	EmailConfig `yaml:",inline"`
	To          yaml.Node `yaml:"to"`
}

// envOverrides are the variable names used by earlier deployments of the
// digest bot. Set values win over the YAML file.
type envOverrides struct {
	CompletionAPIKey string   `env:"OPENPIPE_API_KEY"`
	Model            string   `env:"MODEL_ID"`
	BraveAPIKey      string   `env:"BRAVE_API_KEY"`
	From             string   `env:"FROM_EMAIL"`
	To               []string `env:"TO_EMAIL" envSeparator:","`
	Password         string   `env:"GMAIL_APP_PASSWORD"`
}

// ResolvePath picks the config file: the flag value, then $JOBDIGEST_CONFIG,
// then ./config.yaml.
func ResolvePath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if p := os.Getenv("JOBDIGEST_CONFIG"); p != "" {
		return p
	}
	return DefaultPath
}

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment
// without overriding variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Load reads and parses the YAML config file at path, applies environment
// overrides and defaults, validates it, and returns Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse builds a Config from YAML bytes.
func Parse(data []byte) (*Config, error) {
	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	completionTimeout, err := parseDuration("completion.timeout", raw.Completion.Timeout, defaultCompletionTimeout)
	if err != nil {
		return nil, err
	}
	searchTimeout, err := parseDuration("search.timeout", raw.Search.Timeout, 5*time.Second)
	if err != nil {
		return nil, err
	}
	minDelay, err := parseDuration("search.min_delay", raw.Search.MinDelay, 1*time.Second)
	if err != nil {
		return nil, err
	}
	to, err := decodeRecipients(raw.Email.To)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Completion: CompletionConfig{
			BaseURL:    orDefault(raw.Completion.BaseURL, defaultCompletionURL),
			APIKey:     raw.Completion.APIKey,
			Model:      raw.Completion.Model,
			Timeout:    completionTimeout,
			Focus:      orDefault(raw.Completion.Focus, defaultFocus),
			MinJobs:    raw.Completion.MinJobs,
			MaxJobs:    raw.Completion.MaxJobs,
			PromptPath: raw.Completion.PromptPath,
		},
		Search: SearchConfig{
			Provider:    strings.ToLower(orDefault(raw.Search.Provider, defaultSearchProvider)),
			BaseURL:     raw.Search.BaseURL,
			APIKey:      raw.Search.APIKey,
			Country:     orDefault(raw.Search.Country, "HK"),
			SearchLang:  orDefault(raw.Search.SearchLang, "en"),
			Timeout:     searchTimeout,
			MinDelay:    minDelay,
			Locality:    orDefault(raw.Search.Locality, defaultLocality),
			FallbackURL: raw.Search.FallbackURL,
		},
		Email:    raw.Email.EmailConfig,
		Output:   OutputConfig{Path: orDefault(raw.Output.Path, defaultOutputPath)},
		Store:    StoreConfig{Path: orDefault(raw.Store.Path, defaultStorePath)},
		Schedule: orDefault(raw.Schedule, defaultSchedule),
		Digest:   raw.Digest,
	}
	cfg.Email.To = to
	cfg.Email.Transport = strings.ToLower(orDefault(cfg.Email.Transport, defaultEmailTransport))
	cfg.Email.Host = orDefault(cfg.Email.Host, defaultSMTPHost)
	cfg.Email.Subject = orDefault(cfg.Email.Subject, defaultSubject)
	if cfg.Email.Port == 0 {
		cfg.Email.Port = defaultSMTPPort
	}
	if cfg.Completion.MinJobs == 0 {
		cfg.Completion.MinJobs = 5
	}
	if cfg.Completion.MaxJobs == 0 {
		cfg.Completion.MaxJobs = 10
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if cfg.Email.Username == "" {
		cfg.Email.Username = cfg.Email.From
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyEnv(cfg *Config) error {
	var ov envOverrides
	if err := env.Parse(&ov); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	if ov.CompletionAPIKey != "" {
		cfg.Completion.APIKey = ov.CompletionAPIKey
	}
	if ov.Model != "" {
		cfg.Completion.Model = ov.Model
	}
	if ov.BraveAPIKey != "" && cfg.Search.Provider == "brave" {
		cfg.Search.APIKey = ov.BraveAPIKey
	}
	if ov.From != "" {
		cfg.Email.From = ov.From
	}
	if len(ov.To) > 0 {
		cfg.Email.To = trimAll(ov.To)
	}
	if ov.Password != "" {
		cfg.Email.Password = ov.Password
	}
	return nil
}

func decodeRecipients(node yaml.Node) ([]string, error) {
	switch node.Kind {
	case 0:
		return nil, nil
	case yaml.ScalarNode:
		if node.Value == "" {
			return nil, nil
		}
		return trimAll(strings.Split(node.Value, ",")), nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return nil, fmt.Errorf("parse email.to: %w", err)
		}
		return trimAll(list), nil
	default:
		return nil, fmt.Errorf("parse email.to: expected string or list")
	}
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func parseDuration(field, value string, def time.Duration) (time.Duration, error) {
	if value == "" {
		return def, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", field, value, err)
	}
	return d, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func validate(cfg *Config) error {
	if cfg.Completion.Timeout <= 0 {
		return fmt.Errorf("completion.timeout must be positive, got %v", cfg.Completion.Timeout)
	}
	if cfg.Completion.MinJobs < 1 || cfg.Completion.MaxJobs < cfg.Completion.MinJobs {
		return fmt.Errorf("completion.min_jobs/max_jobs must satisfy 1 <= min <= max, got %d/%d",
			cfg.Completion.MinJobs, cfg.Completion.MaxJobs)
	}

	switch cfg.Search.Provider {
	case "brave":
		if cfg.Search.APIKey == "" {
			return fmt.Errorf("search.api_key (or BRAVE_API_KEY) is required when provider is \"brave\"")
		}
	case "duckduckgo", "none":
	default:
		return fmt.Errorf("search.provider must be one of brave, duckduckgo, none; got %q", cfg.Search.Provider)
	}
	if cfg.Search.Timeout <= 0 {
		return fmt.Errorf("search.timeout must be positive, got %v", cfg.Search.Timeout)
	}
	if cfg.Search.MinDelay < 0 {
		return fmt.Errorf("search.min_delay must not be negative, got %v", cfg.Search.MinDelay)
	}
	if cfg.Search.FallbackURL != "" && strings.Count(cfg.Search.FallbackURL, "%s") != 1 {
		return fmt.Errorf("search.fallback_url must contain exactly one %%s, got %q", cfg.Search.FallbackURL)
	}
	if cfg.Search.FallbackURL != "" && !strings.HasPrefix(cfg.Search.FallbackURL, "http") {
		return fmt.Errorf("search.fallback_url must be an http(s) URL, got %q", cfg.Search.FallbackURL)
	}

	if err := validateEmail(cfg.Email); err != nil {
		return err
	}

	if len(strings.Fields(cfg.Schedule)) != 5 && !strings.HasPrefix(cfg.Schedule, "@") {
		return fmt.Errorf("schedule must be a 5-field cron expression or @descriptor, got %q", cfg.Schedule)
	}
	return nil
}

func validateEmail(e EmailConfig) error {
	switch e.Transport {
	case "log":
		return nil
	case "smtp":
		if e.Port <= 0 || e.Port > 65535 {
			return fmt.Errorf("email.port must be in 1..65535, got %d", e.Port)
		}
	case "resend":
		if e.ResendAPIKey == "" {
			return fmt.Errorf("email.resend_api_key is required when transport is \"resend\"")
		}
	case "postmark":
		if e.PostmarkServerToken == "" {
			return fmt.Errorf("email.postmark_server_token is required when transport is \"postmark\"")
		}
	default:
		return fmt.Errorf("email.transport must be one of smtp, resend, postmark, log; got %q", e.Transport)
	}
	if e.From == "" {
		return fmt.Errorf("email.from (or FROM_EMAIL) is required when transport is %q", e.Transport)
	}
	if len(e.To) == 0 {
		return fmt.Errorf("email.to (or TO_EMAIL) is required when transport is %q", e.Transport)
	}
	return nil
}
