// Package pipeline runs one document through fetch, summarize and deliver.
// Each stage consumes the previous stage's record and adds one field; a
// failed stage passes its error text forward instead of stopping the run.
package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/dtnitsch/drive-digest/models"
	"github.com/dtnitsch/drive-digest/pkg/logger"
	"github.com/dtnitsch/drive-digest/pkg/metrics"
)

const (
	StageFetch     = "fetch"
	StageSummarize = "summarize"
	StageDeliver   = "deliver"
)

type Extractor interface {
	Extract(ctx context.Context, format models.SourceFormat, id string) models.TextResult
}

type Summarizer interface {
	Summarize(ctx context.Context, format models.SourceFormat, text string) models.TextResult
}

type Deliverer interface {
	Send(ctx context.Context, msg models.Message) models.DeliveryStatus
}

type Pipeline struct {
	extractor  Extractor
	summarizer Summarizer
	deliverer  Deliverer
	subject    string
	log        *zap.Logger
	rec        *metrics.Recorder
}

type Config struct {
	Subject  string
	Logger   *zap.Logger
	Recorder *metrics.Recorder
}

func New(ext Extractor, sum Summarizer, del Deliverer, cfg Config) *Pipeline {
	return &Pipeline{
		extractor:  ext,
		summarizer: sum,
		deliverer:  del,
		subject:    cfg.Subject,
		log:        logger.OrNop(cfg.Logger),
		rec:        cfg.Recorder,
	}
}

func (p *Pipeline) observe(stage string, format models.SourceFormat, start time.Time) {
	d := time.Since(start)
	p.rec.ObserveStage(stage, format.String(), d)
	p.log.Info("stage complete",
		zap.String("stage", stage),
		zap.String("format", format.String()),
		zap.Duration("took", d))
}

func (p *Pipeline) Fetch(ctx context.Context, req models.Request) models.Fetched {
	defer p.observe(StageFetch, req.Format, time.Now())

	res := p.extractor.Extract(ctx, req.Format, req.SourceID)
	return models.Fetched{
		Request:       req,
		ExtractedText: res.Render(),
		ExtractFailed: res.Failed(),
	}
}

func (p *Pipeline) Summarize(ctx context.Context, f models.Fetched) models.Summarized {
	defer p.observe(StageSummarize, f.Format, time.Now())

	res := p.summarizer.Summarize(ctx, f.Format, f.ExtractedText)
	return models.Summarized{
		Fetched:       f,
		SummaryText:   res.Render(),
		SummaryFailed: res.Failed(),
	}
}

func (p *Pipeline) Deliver(ctx context.Context, s models.Summarized) models.Delivered {
	defer p.observe(StageDeliver, s.Format, time.Now())

	status := p.deliverer.Send(ctx, models.Message{
		Subject: p.subject,
		Body:    s.SummaryText,
		To:      s.Recipient,
	})
	return models.Delivered{Summarized: s, Status: status}
}

// Run executes every stage in order. It always reaches Deliver.
func (p *Pipeline) Run(ctx context.Context, req models.Request) models.Delivered {
	p.log.Info("pipeline started",
		zap.String("format", req.Format.String()),
		zap.String("id", req.SourceID))

	fetched := p.Fetch(ctx, req)
	summarized := p.Summarize(ctx, fetched)
	return p.Deliver(ctx, summarized)
}
