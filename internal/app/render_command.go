package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tyemirov/ktool/internal/plan"
)

const (
	annotationSkipped      = " [skipped]"
	annotationUnlessExists = " [unless the alias exists]"
)

func newRenderCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "render <plan>",
		Short: "Print the keytool command lines of a plan without running them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return renderPlan(cmd, args[0])
		},
	}
}

func renderPlan(cmd *cobra.Command, planPath string) error {
	resources, err := getApplicationResources(cmd)
	if err != nil {
		return err
	}
	executionPlan, err := plan.Load(planPath)
	if err != nil {
		return err
	}
	steps, err := executionPlan.Steps()
	if err != nil {
		return err
	}

	tool := resources.keytoolTool()
	output := cmd.OutOrStdout()
	for _, step := range steps {
		commandLine, err := tool.CommandLine(step.Request)
		if err != nil {
			return fmt.Errorf("request %s: %w", step.Name, err)
		}
		annotation := ""
		switch {
		case step.Skip:
			annotation = annotationSkipped
		case step.SkipIfExists:
			annotation = annotationUnlessExists
		}
		fmt.Fprintf(output, "# %s (in %s)%s\n%s\n", step.Name, commandLine.WorkingDirectory, annotation, commandLine.String())
	}
	return nil
}
