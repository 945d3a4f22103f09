package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/drive-digest/internal/catalog"
	"github.com/dtnitsch/drive-digest/internal/fetch"
	"github.com/dtnitsch/drive-digest/internal/folder"
	"github.com/dtnitsch/drive-digest/models"
	"github.com/dtnitsch/drive-digest/pkg/help"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	globalFlags := []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "YAML config file (default " + models.DefaultConfigFile + " when present)",
		},
		&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "only log errors"},
		&cli.BoolFlag{Name: "verbose", Usage: "log debug detail"},
		&cli.StringFlag{Name: "format-output", Value: "yaml", Usage: "report format: yaml, json or text"},
		&cli.StringFlag{Name: "output-file", Usage: "also write the report to this path"},
	}

	deliveryFlags := []cli.Flag{
		&cli.StringFlag{Name: "to", Usage: "recipient address (default TARGET_EMAIL)"},
		&cli.StringFlag{Name: "via", Usage: "delivery channel: smtp or gmail"},
		&cli.StringFlag{Name: "model", Usage: "Gemini model name"},
		&cli.StringFlag{Name: "metrics-file", Usage: "write Prometheus metrics in textfile format"},
		&cli.BoolFlag{Name: "smtp-override", Usage: "use the --smtp-* settings instead of the configured server"},
		&cli.StringFlag{Name: "smtp-server"},
		&cli.IntFlag{Name: "smtp-port", Value: 587},
		&cli.StringFlag{Name: "smtp-user"},
		&cli.StringFlag{Name: "smtp-password"},
	}

	return &cli.App{
		Name:  "drive-digest",
		Usage: "summarize Google Drive files with Gemini and email the result",
		Commands: []*cli.Command{
			{
				Name:  "summarize",
				Usage: "extract, summarize and email one linked file",
				Flags: withFlags(globalFlags, deliveryFlags, []cli.Flag{
					&cli.StringFlag{Name: "link", Aliases: []string{"l"}, Required: true, Usage: "Drive, Docs, Sheets or Slides link"},
					&cli.StringFlag{
						Name:     "format",
						Aliases:  []string{"f"},
						Required: true,
						Usage:    "source format: " + strings.Join(models.FormatAliases(), ", "),
					},
					&cli.StringFlag{Name: "fields", Usage: "comma-separated report fields to keep"},
				}),
				Action: fetch.SummarizeAction,
			},
			{
				Name:  "folder",
				Usage: "summarize every supported file under a Drive folder",
				Flags: withFlags(globalFlags, deliveryFlags, []cli.Flag{
					&cli.StringFlag{Name: "link", Aliases: []string{"l"}, Required: true, Usage: "Drive folder link"},
					&cli.StringFlag{Name: "send", Usage: "email the summary of this file id"},
					&cli.BoolFlag{Name: "send-all", Usage: "email every summary in one message"},
				}),
				Action: folder.FolderAction,
			},
			{
				Name:  "models",
				Usage: "list the Gemini models available to GEMINI_API_KEY",
				Flags: withFlags(globalFlags, []cli.Flag{
					&cli.BoolFlag{Name: "all", Usage: "include models without generateContent"},
				}),
				Action: catalog.ModelsAction,
			},
			{
				Name:  "quickstart",
				Usage: "print a YAML cheat sheet of secrets, formats and commands",
				Action: func(c *cli.Context) error {
					fmt.Fprint(c.App.Writer, help.ColdstartYAML)
					return nil
				},
			},
		},
	}
}

// withFlags concatenates flag groups into a fresh slice so commands never
// share a backing array.
func withFlags(groups ...[]cli.Flag) []cli.Flag {
	var out []cli.Flag
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}
