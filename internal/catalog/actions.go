// Package catalog lists the Gemini models available to the configured key.
package catalog

import (
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/drive-digest/internal/common"
	"github.com/dtnitsch/drive-digest/models"
	"github.com/dtnitsch/drive-digest/pkg/llm"
)

type FinalOutput struct {
	Default string          `json:"default_model" yaml:"default_model"`
	Models  []llm.ModelInfo `json:"models" yaml:"models"`
}

func ModelsAction(c *cli.Context) error {
	cfg, logger, err := common.LoadConfig(c)
	if err != nil {
		return common.ExitError(err)
	}
	defer logger.Sync()

	if err := cfg.Require(models.KeyGeminiAPIKey); err != nil {
		return common.ExitError(err)
	}

	g := llm.NewGemini(cfg.GeminiAPIKey, cfg.LLM.Model, cfg.LLM.BaseURL, cfg.LLM.Timeout)
	all, err := g.ListModels(c.Context)
	if err != nil {
		return cli.Exit(err.Error(), common.ExitFailure)
	}

	out := FinalOutput{Default: cfg.LLM.Model, Models: filterModels(all, c.Bool("all"))}
	data, err := common.Marshal(out, c.String("format-output"), func() string { return textReport(out) })
	if err != nil {
		return cli.Exit(err.Error(), common.ExitFailure)
	}
	return common.Emit(c, logger, data)
}

// filterModels keeps models that support generateContent unless all is set.
func filterModels(in []llm.ModelInfo, all bool) []llm.ModelInfo {
	if all {
		return in
	}
	var out []llm.ModelInfo
	for _, m := range in {
		if m.SupportsGenerate() {
			out = append(out, m)
		}
	}
	return out
}

func textReport(out FinalOutput) string {
	var sb strings.Builder
	for _, m := range out.Models {
		sb.WriteString("- " + m.Name)
		if m.DisplayName != "" {
			sb.WriteString(" (" + m.DisplayName + ")")
		}
		sb.WriteString("\n   Methods: " + strings.Join(m.GenerationMethods, ", ") + "\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}
