package fetch

import (
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/dtnitsch/drive-digest/internal/common"
	"github.com/dtnitsch/drive-digest/models"
	"github.com/dtnitsch/drive-digest/pkg/pipeline"
)

// SummarizeAction runs the fetch, summarize and deliver pipeline for one
// linked file.
func SummarizeAction(c *cli.Context) error {
	startTime := time.Now()

	cfg, logger, err := common.LoadConfig(c)
	if err != nil {
		return common.ExitError(err)
	}
	defer logger.Sync()

	recipient := common.Recipient(c, cfg)
	override := common.SMTPOverride(c)
	if err := cfg.Require(common.RequiredKeys(cfg, recipient, override)...); err != nil {
		return common.ExitError(err)
	}

	format, err := models.ParseSourceFormat(c.String("format"))
	if err != nil {
		return cli.Exit(err.Error(), common.ExitFailure)
	}
	link := common.SanitizeURL(c.String("link"))
	ref, err := models.ParseLink(link, format)
	if err != nil {
		return cli.Exit(err.Error(), common.ExitFailure)
	}

	svc, err := common.BuildServices(c.Context, cfg, logger, override)
	if err != nil {
		return common.ExitError(err)
	}
	defer common.WriteMetrics(c, svc)

	p := pipeline.New(svc.Extractor, svc.Summarizer, svc.Deliverer, pipeline.Config{
		Subject:  cfg.Mail.Subject,
		Logger:   logger,
		Recorder: svc.Recorder,
	})
	delivered := p.Run(c.Context, models.Request{
		Format:    ref.Format,
		SourceID:  ref.ExternalID,
		Recipient: recipient,
	})

	out := FinalOutput{
		Status: statusOf(delivered),
		Source: Source{
			Link:   link,
			Format: ref.Format.String(),
			ID:     ref.ExternalID,
		},
		Summary:  delivered.SummaryText,
		Delivery: delivered.Status,
		Stats:    statsOf(delivered, time.Since(startTime)),
	}

	var report interface{} = out
	if fields := c.String("fields"); fields != "" {
		report = common.FilterResultFields(out, fields)
	}
	data, err := common.Marshal(report, c.String("format-output"), func() string { return textReport(out) })
	if err != nil {
		return cli.Exit(err.Error(), common.ExitFailure)
	}
	if err := common.Emit(c, logger, data); err != nil {
		logger.Error("failed to save report", zap.Error(err))
	}

	if !delivered.Status.OK {
		return cli.Exit("", common.ExitFailure)
	}
	return nil
}
