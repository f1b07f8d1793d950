package app

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tyemirov/ktool/internal/plan"
	"github.com/tyemirov/ktool/internal/report"
	"github.com/tyemirov/ktool/internal/runner"
	"github.com/tyemirov/ktool/pkg/logging"
)

const (
	logMessagePlanCompleted = "plan completed"
	logMessageReportWritten = "report written"
	logFieldPlan            = "plan"
	logFieldReport          = "report"
	logFieldExecuted        = "executed"
	logFieldSkipped         = "skipped"
	logFieldFailed          = "failed"
	logFieldDuration        = "duration"
)

func newRunCommand(resources *applicationResources) *cobra.Command {
	runCommand := &cobra.Command{
		Use:   "run <plan>",
		Short: "Execute the keytool requests declared in a YAML or TOML plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd, args[0])
		},
	}
	runCommand.Flags().String(flagNameReport, resources.configurationManager.GetString(configKeyRunReport), "Write a run report (.md, or .html for HTML)")
	_ = resources.configurationManager.BindPFlag(configKeyRunReport, runCommand.Flags().Lookup(flagNameReport))
	return runCommand
}

func runPlan(cmd *cobra.Command, planPath string) error {
	resources, err := getApplicationResources(cmd)
	if err != nil {
		return err
	}
	executionPlan, err := plan.Load(planPath)
	if err != nil {
		return err
	}

	planRunner := runner.NewRunner(resources.keytoolTool(), resources.loggingService)
	summary, runErr := planRunner.Run(cmd.Context(), executionPlan)
	writeOutcomeOutput(cmd.OutOrStdout(), summary)

	reportPath := strings.TrimSpace(resources.configurationManager.GetString(configKeyRunReport))
	if reportPath != "" && len(summary.Outcomes) > 0 {
		if reportErr := report.Write(reportPath, summary); reportErr != nil {
			return errors.Join(runErr, reportErr)
		}
		resources.loggingService.Info(logMessageReportWritten, logging.String(logFieldReport, reportPath))
	}
	if runErr != nil {
		return runErr
	}

	resources.loggingService.Info(logMessagePlanCompleted,
		logging.String(logFieldPlan, planPath),
		logging.Int(logFieldExecuted, summary.Count(runner.StatusExecuted)),
		logging.Int(logFieldSkipped, summary.Count(runner.StatusSkipped)),
		logging.Int(logFieldFailed, summary.Count(runner.StatusFailed)),
		logging.Duration(logFieldDuration, summary.Duration),
	)
	return nil
}

func writeOutcomeOutput(writer io.Writer, summary runner.Summary) {
	for _, outcome := range summary.Outcomes {
		if outcome.Status == runner.StatusSkipped || outcome.Result.Stdout == "" {
			continue
		}
		fmt.Fprint(writer, outcome.Result.Stdout)
		if !strings.HasSuffix(outcome.Result.Stdout, "\n") {
			fmt.Fprintln(writer)
		}
	}
}
