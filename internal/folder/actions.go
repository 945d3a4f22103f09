package folder

import (
	"errors"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/dtnitsch/drive-digest/internal/common"
	"github.com/dtnitsch/drive-digest/models"
	"github.com/dtnitsch/drive-digest/pkg/walker"
)

var errSendFlags = errors.New("use either --send or --send-all, not both")

// FolderAction summarizes every supported file below a Drive folder and
// optionally delivers one or all of the summaries.
func FolderAction(c *cli.Context) error {
	startTime := time.Now()

	if c.IsSet("send") && c.Bool("send-all") {
		return cli.Exit(errSendFlags.Error(), common.ExitFailure)
	}
	sending := c.IsSet("send") || c.Bool("send-all")

	cfg, logger, err := common.LoadConfig(c)
	if err != nil {
		return common.ExitError(err)
	}
	defer logger.Sync()

	recipient := common.Recipient(c, cfg)
	override := common.SMTPOverride(c)
	keys := []string{models.KeyGeminiAPIKey, models.KeyGoogleCredentials}
	if sending {
		keys = common.RequiredKeys(cfg, recipient, override)
	}
	if err := cfg.Require(keys...); err != nil {
		return common.ExitError(err)
	}

	ref, err := models.ParseLink(common.SanitizeURL(c.String("link")), models.FormatFolder)
	if err != nil {
		return cli.Exit(err.Error(), common.ExitFailure)
	}

	svc, err := common.BuildServices(c.Context, cfg, logger, override)
	if err != nil {
		return common.ExitError(err)
	}
	defer common.WriteMetrics(c, svc)

	w := walker.New(svc.Fetcher, svc.Extractor, svc.Summarizer, svc.Deliverer, cfg.Mail.Subject, logger)
	book, err := w.Browse(c.Context, ref.ExternalID)
	if err != nil {
		return cli.Exit(err.Error(), common.ExitFailure)
	}

	out := buildOutput(book)
	switch {
	case c.IsSet("send"):
		status, err := w.SendSelected(c.Context, book, c.String("send"), recipient)
		if err != nil {
			return cli.Exit(err.Error(), common.ExitFailure)
		}
		out.Delivery = &status
	case c.Bool("send-all"):
		status := w.SendAll(c.Context, book, recipient)
		out.Delivery = &status
	}
	out.Stats.TotalTimeSeconds = time.Since(startTime).Seconds()

	data, err := common.Marshal(out, c.String("format-output"), func() string { return textReport(out) })
	if err != nil {
		return cli.Exit(err.Error(), common.ExitFailure)
	}
	if err := common.Emit(c, logger, data); err != nil {
		logger.Error("failed to save report", zap.Error(err))
	}

	if out.Delivery != nil && !out.Delivery.OK {
		return cli.Exit("", common.ExitFailure)
	}
	return nil
}
