package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/docket-hq/docket/pkg/agent/tool"
	"github.com/docket-hq/docket/pkg/cli/config"
	"github.com/docket-hq/docket/pkg/domain/types"
	"github.com/docket-hq/docket/pkg/usecase"
	"github.com/docket-hq/docket/pkg/utils/logging"
)

func cmdAssist() *cli.Command {
	var caseID string
	var repoCfg config.Repository
	var geminiCfg config.Gemini

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "case-id",
			Usage:       "Case to ask about (required)",
			Required:    true,
			Sources:     cli.EnvVars("DOCKET_ASSIST_CASE_ID"),
			Destination: &caseID,
		},
	}

	// Add shared config flags
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)

	return &cli.Command{
		Name:      "assist",
		Aliases:   []string{"a"},
		Usage:     "Ask the AI assistant a question about a case",
		ArgsUsage: "<question>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			question := c.Args().First()
			if question == "" {
				return goerr.New("question argument is required")
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			llmClient, err := geminiCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize Gemini client")
			}
			if llmClient == nil {
				return goerr.New("gemini-project is required for the assist command")
			}

			assistUC := usecase.NewAssistUseCase(repo, llmClient)

			// Show tool progress on the terminal while the agent works.
			progress := color.New(color.FgHiBlack)
			ctx = tool.WithUpdate(ctx, func(ctx context.Context, message string) {
				progress.Fprintln(os.Stderr, message)
			})

			answer, err := assistUC.Ask(ctx, types.CaseID(caseID), question)
			if err != nil {
				return goerr.Wrap(err, "failed to run assistant")
			}

			color.New(color.FgCyan, color.Bold).Printf("Case %s\n\n", caseID)
			fmt.Println(answer)
			return nil
		},
	}
}
