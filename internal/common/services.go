package common

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/dtnitsch/drive-digest/models"
	"github.com/dtnitsch/drive-digest/pkg/auth"
	"github.com/dtnitsch/drive-digest/pkg/extractor"
	"github.com/dtnitsch/drive-digest/pkg/fetcher"
	"github.com/dtnitsch/drive-digest/pkg/llm"
	"github.com/dtnitsch/drive-digest/pkg/logger"
	"github.com/dtnitsch/drive-digest/pkg/mailer"
	"github.com/dtnitsch/drive-digest/pkg/metrics"
	"github.com/dtnitsch/drive-digest/pkg/summarizer"
)

// Exit codes shared by every command.
const (
	ExitFailure       = 1
	ExitMissingConfig = 2
)

// Services is everything a workflow command needs, built once from Config.
type Services struct {
	Config     *models.Config
	Logger     *zap.Logger
	Recorder   *metrics.Recorder
	Fetcher    *fetcher.Fetcher
	Extractor  *extractor.Extractor
	Summarizer *summarizer.Summarizer
	Deliverer  *mailer.Deliverer
}

// LoadConfig reads configuration and builds the logger from global flags.
func LoadConfig(c *cli.Context) (*models.Config, *zap.Logger, error) {
	log, err := logger.New(c.Bool("quiet"), c.Bool("verbose"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build logger: %w", err)
	}
	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		return nil, log, err
	}
	if c.IsSet("via") {
		cfg.Mail.Channel = c.String("via")
	}
	if c.IsSet("model") {
		cfg.LLM.Model = c.String("model")
	}
	return cfg, log, nil
}

// Recipient is --to when given, otherwise TARGET_EMAIL.
func Recipient(c *cli.Context, cfg *models.Config) string {
	if to := strings.TrimSpace(c.String("to")); to != "" {
		return to
	}
	return cfg.TargetEmail
}

// SMTPOverride returns the transport given on the command line when
// --smtp-override is set.
func SMTPOverride(c *cli.Context) *mailer.Transport {
	if !c.Bool("smtp-override") {
		return nil
	}
	return &mailer.Transport{
		Host:     c.String("smtp-server"),
		Port:     c.Int("smtp-port"),
		Username: c.String("smtp-user"),
		Password: c.String("smtp-password"),
	}
}

// RequiredKeys lists the secrets a workflow needs before it may start.
func RequiredKeys(cfg *models.Config, recipient string, override *mailer.Transport) []string {
	keys := []string{models.KeyGeminiAPIKey, models.KeyGoogleCredentials}
	if recipient == "" {
		keys = append(keys, models.KeyTargetEmail)
	}
	if cfg.Mail.Channel != mailer.ChannelGmail && override == nil {
		keys = append(keys, models.KeySMTPServer, models.KeySMTPPort)
	}
	return keys
}

// BuildServices wires the Google clients, Gemini, the summarizer and the
// selected delivery channel.
func BuildServices(ctx context.Context, cfg *models.Config, log *zap.Logger, override *mailer.Transport) (*Services, error) {
	creds, err := cfg.CredentialsJSON()
	if err != nil {
		return nil, err
	}
	ts, err := auth.TokenSource(ctx, creds, auth.Options{Subject: cfg.Google.Subject}, auth.Scopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to load google credentials: %w", err)
	}
	clientOpt := option.WithTokenSource(ts)

	rec := metrics.NewRecorder()

	f, err := fetcher.NewFetcher(ctx, clientOpt)
	if err != nil {
		return nil, err
	}

	ext := extractor.New(f,
		extractor.WithLogger(log),
		extractor.WithRecorder(rec),
		extractor.WithSheetRange(cfg.Google.SheetRange))

	sumOpts := []summarizer.Option{summarizer.WithLogger(log), summarizer.WithRecorder(rec)}
	if cfg.Summary.DetectLanguage {
		sumOpts = append(sumOpts, summarizer.WithLanguageDetector(summarizer.NewLinguaDetector()))
	}
	gen := llm.NewGemini(cfg.GeminiAPIKey, cfg.LLM.Model, cfg.LLM.BaseURL, cfg.LLM.Timeout)
	sum := summarizer.New(gen, sumOpts...)

	var sender mailer.Sender
	switch cfg.Mail.Channel {
	case mailer.ChannelGmail:
		sender, err = mailer.NewGmailSender(ctx, "", clientOpt)
		if err != nil {
			return nil, err
		}
	case mailer.ChannelSMTP, "":
		transport := mailer.ResolveTransport(override, mailer.TransportFromConfig(cfg.SMTP))
		sender = mailer.NewSMTPSender(transport, cfg.SMTP.Timeout)
	default:
		return nil, fmt.Errorf("unknown mail channel %q (want smtp or gmail)", cfg.Mail.Channel)
	}

	return &Services{
		Config:     cfg,
		Logger:     log,
		Recorder:   rec,
		Fetcher:    f,
		Extractor:  ext,
		Summarizer: sum,
		Deliverer:  mailer.NewDeliverer(sender, log, rec),
	}, nil
}

// ExitError maps an error onto the process exit code. Missing configuration
// exits 2, everything else 1.
func ExitError(err error) error {
	if err == nil {
		return nil
	}
	var missing *models.MissingConfigurationError
	if errors.As(err, &missing) {
		return cli.Exit(err.Error(), ExitMissingConfig)
	}
	return cli.Exit(err.Error(), ExitFailure)
}

// WriteMetrics exports the run's metrics when --metrics-file is set.
func WriteMetrics(c *cli.Context, svc *Services) {
	path := c.String("metrics-file")
	if path == "" || svc == nil {
		return
	}
	if err := svc.Recorder.WriteTextfile(path); err != nil {
		svc.Logger.Warn("failed to write metrics", zap.String("path", path), zap.Error(err))
	}
}
