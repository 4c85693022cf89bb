package main

import (
	"errors"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobdigest/internal/completion"
	"github.com/amishk599/jobdigest/internal/config"
	"github.com/amishk599/jobdigest/internal/digest"
	"github.com/amishk599/jobdigest/internal/enricher"
	"github.com/amishk599/jobdigest/internal/mailer"
	"github.com/amishk599/jobdigest/internal/model"
	"github.com/amishk599/jobdigest/internal/parser"
	"github.com/amishk599/jobdigest/internal/ratelimit"
	"github.com/amishk599/jobdigest/internal/render"
	"github.com/amishk599/jobdigest/internal/search"
	"github.com/amishk599/jobdigest/internal/secrets"
	"github.com/amishk599/jobdigest/internal/store"
)

var (
	cfgPath   string
	debug     bool
	inputPath string
)

var rootCmd = &cobra.Command{
	Use:   "jobdigest",
	Short: "Daily job digest by email",
	Long:  "jobdigest asks a language model for open roles, finds a link for each one and emails the list as an HTML digest.",
	// Default to `run` so that a cron entry or systemd timer can invoke the binary directly.
	RunE:          runRun,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: JOBDIGEST_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&inputPath, "input", "", "read completion text from this file instead of calling the model")
}

// loadConfig loads ./.env, resolves the config path and parses it.
// Priority: explicit path arg > JOBDIGEST_CONFIG env var > "./config.yaml"
func loadConfig(path string) (*config.Config, error) {
	if err := config.LoadDotEnv(".env"); err != nil {
		return nil, err
	}
	return config.Load(config.ResolvePath(path))
}

func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}

// mustLoad loads config or exits, logging the failure.
func mustLoad(logger *slog.Logger) *config.Config {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger.Debug("config loaded",
		"search", cfg.Search.Provider,
		"transport", cfg.Email.Transport,
		"output", cfg.Output.Path,
		"store", cfg.Store.Path,
	)
	return cfg
}

// openStore opens the history database. A failure is logged and a NopStore
// is returned so the digest still goes out.
func openStore(cfg *config.Config, logger *slog.Logger) (model.DigestStore, func()) {
	sqlStore, err := store.NewSQLiteStore(cfg.Store.Path)
	if err != nil {
		logger.Error("failed to open store, history will not be saved", "path", cfg.Store.Path, "error", err)
		return store.NewNopStore(), func() {}
	}
	return sqlStore, func() { sqlStore.Close() }
}

func setupSource(cfg *config.Config, logger *slog.Logger) (completion.Source, error) {
	if inputPath != "" {
		logger.Info("reading completion from file", "path", inputPath)
		return completion.NewFileSource(inputPath), nil
	}
	if cfg.Completion.APIKey == "" {
		return nil, errors.New("completion.api_key (or OPENPIPE_API_KEY) is required unless --input is given")
	}
	if cfg.Completion.Model == "" {
		return nil, errors.New("completion.model (or MODEL_ID) is required unless --input is given")
	}

	tmpl, err := completion.LoadTemplate(cfg.Completion.PromptPath)
	if err != nil {
		return nil, err
	}
	prompt, err := completion.RenderPrompt(tmpl, completion.PromptData{
		Focus:    cfg.Completion.Focus,
		Locality: cfg.Search.Locality,
		MinJobs:  cfg.Completion.MinJobs,
		MaxJobs:  cfg.Completion.MaxJobs,
	})
	if err != nil {
		return nil, err
	}

	httpClient := &http.Client{Timeout: cfg.Completion.Timeout}
	return completion.NewOpenAIProvider(cfg.Completion.BaseURL, cfg.Completion.APIKey, cfg.Completion.Model, prompt, httpClient), nil
}

func setupSearcher(cfg *config.Config, logger *slog.Logger) model.Searcher {
	// The resolver enforces the per-query timeout; this one bounds a stuck connection.
	httpClient := &http.Client{Timeout: 2 * cfg.Search.Timeout}

	var s model.Searcher
	switch cfg.Search.Provider {
	case "brave":
		s = search.NewBraveSearcher(cfg.Search.BaseURL, cfg.Search.APIKey, cfg.Search.Country, cfg.Search.SearchLang, httpClient)
	case "duckduckgo":
		region := ""
		if cfg.Search.Country != "" && cfg.Search.SearchLang != "" {
			region = strings.ToLower(cfg.Search.Country + "-" + cfg.Search.SearchLang)
		}
		s = search.NewDuckDuckGoSearcher(cfg.Search.BaseURL, region, httpClient)
	default:
		logger.Info("search disabled, every link will use the fallback")
		return search.NewNopSearcher()
	}

	logger.Debug("search configured", "provider", cfg.Search.Provider, "min_delay", cfg.Search.MinDelay.String())
	return ratelimit.NewRateLimitedSearcher(s, ratelimit.NewLimiter(cfg.Search.MinDelay))
}

func setupMailer(cfg *config.Config, logger *slog.Logger) (model.Mailer, error) {
	e := cfg.Email
	switch e.Transport {
	case "smtp":
		account := secrets.Account(e.KeyringAccount, e.Username, e.Host)
		password, err := secrets.SMTPPassword(account, e.Password)
		if err != nil {
			return nil, err
		}
		return mailer.NewSMTPMailer(mailer.SMTPSettings{
			Host:     e.Host,
			Port:     e.Port,
			Username: e.Username,
			Password: password,
			From:     e.From,
			To:       e.To,
		}, logger)
	case "resend":
		return mailer.NewResendMailer(e.ResendAPIKey, e.From, e.To, logger)
	case "postmark":
		return mailer.NewPostmarkMailer(e.PostmarkServerToken, e.PostmarkAccountToken, e.From, e.To, logger)
	default:
		return mailer.NewLogMailer(e.To, logger), nil
	}
}

// setupBuilder wires the pipeline. m may be nil for runs that never send.
func setupBuilder(cfg *config.Config, st model.DigestStore, m model.Mailer, writer digest.ArtifactWriter, logger *slog.Logger) (*digest.Builder, error) {
	src, err := setupSource(cfg, logger)
	if err != nil {
		return nil, err
	}

	resolver := search.NewResolver(setupSearcher(cfg, logger), cfg.Search.Timeout, cfg.Search.FallbackURL, logger)

	return digest.New(digest.Options{
		Source:    src,
		Parser:    parser.New(logger),
		Enricher:  enricher.New(resolver, cfg.Search.Locality, logger),
		Assembler: render.NewAssembler(render.NewRenderer(), cfg.Digest.Heading, cfg.Digest.AgentName, nil),
		Store:     st,
		Writer:    writer,
		Mailer:    m,
		Subject:   cfg.Email.Subject,
		Logger:    logger,
	}), nil
}
