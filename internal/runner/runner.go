package runner

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/tyemirov/ktool/internal/keytool"
	"github.com/tyemirov/ktool/internal/plan"
	"github.com/tyemirov/ktool/pkg/logging"
)

const (
	logMessageSkipped      = "request skipped"
	logMessageExecuted     = "request executed"
	logMessageIgnoredError = "request failed, continuing"
	logFieldName           = "name"
	logFieldSubcommand     = "subcommand"
	logFieldReason         = "reason"
	logFieldSkipIfExists   = "skip_if_exists"
	logFieldExitCode       = "exit_code"
	logFieldDuration       = "duration"

	reasonDisabled = "skip is set"
	reasonExists   = "alias already exists"
)

// Status reports what happened to a plan step.
type Status string

const (
	StatusExecuted Status = "executed"
	StatusSkipped  Status = "skipped"
	StatusFailed   Status = "failed"
)

// RequestExecutor runs a single keytool request.
type RequestExecutor interface {
	Execute(ctx context.Context, request keytool.Request, input io.Reader) (keytool.Result, error)
}

// Outcome records one step of a run.
type Outcome struct {
	Name       string
	Subcommand keytool.Subcommand
	Status     Status
	Reason     string
	Result     keytool.Result
}

// Summary collects the outcomes of a run in plan order.
type Summary struct {
	Outcomes []Outcome
	Duration time.Duration
}

// Count returns how many outcomes have status.
func (summary Summary) Count(status Status) int {
	count := 0
	for _, outcome := range summary.Outcomes {
		if outcome.Status == status {
			count++
		}
	}
	return count
}

// ExitError reports a step whose keytool invocation exited non-zero while failOnError was set.
type ExitError struct {
	Name     string
	ExitCode int
	Output   string
}

func (exitError *ExitError) Error() string {
	output := strings.TrimSpace(exitError.Output)
	if output == "" {
		return fmt.Sprintf("request %s: keytool exited with code %d", exitError.Name, exitError.ExitCode)
	}
	return fmt.Sprintf("request %s: keytool exited with code %d: %s", exitError.Name, exitError.ExitCode, output)
}

// Runner executes plan steps in order.
type Runner struct {
	executor       RequestExecutor
	loggingService *logging.Service
}

// NewRunner constructs a Runner.
func NewRunner(executor RequestExecutor, loggingService *logging.Service) *Runner {
	return &Runner{executor: executor, loggingService: loggingService}
}

// Run builds the steps of executionPlan and executes them.
func (runner *Runner) Run(ctx context.Context, executionPlan plan.Plan) (Summary, error) {
	steps, err := executionPlan.Steps()
	if err != nil {
		return Summary{}, err
	}
	return runner.RunSteps(ctx, steps)
}

// RunSteps executes steps sequentially. The returned Summary covers every
// step attempted, including the one that stopped the run.
func (runner *Runner) RunSteps(ctx context.Context, steps []plan.Step) (Summary, error) {
	startedAt := time.Now()
	summary := Summary{Outcomes: make([]Outcome, 0, len(steps))}

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			summary.Duration = time.Since(startedAt)
			return summary, fmt.Errorf("run interrupted before %s: %w", step.Name, err)
		}
		outcome, err := runner.runStep(ctx, step)
		summary.Outcomes = append(summary.Outcomes, outcome)
		if err != nil {
			summary.Duration = time.Since(startedAt)
			return summary, err
		}
	}
	summary.Duration = time.Since(startedAt)
	return summary, nil
}

func (runner *Runner) runStep(ctx context.Context, step plan.Step) (Outcome, error) {
	subcommand := step.Request.Subcommand()
	outcome := Outcome{Name: step.Name, Subcommand: subcommand}

	if step.Skip {
		return runner.skip(outcome, step, reasonDisabled), nil
	}
	if step.SkipIfExists {
		exists, err := runner.entryExists(ctx, step.Request)
		if err != nil {
			outcome.Status = StatusFailed
			return outcome, fmt.Errorf("request %s: probe existing entry: %w", step.Name, err)
		}
		if exists {
			return runner.skip(outcome, step, reasonExists), nil
		}
	}

	var input io.Reader
	if step.Input != "" {
		input = strings.NewReader(step.Input)
	}
	result, err := runner.executor.Execute(ctx, step.Request, input)
	outcome.Result = result
	if err != nil {
		outcome.Status = StatusFailed
		return outcome, fmt.Errorf("request %s: %w", step.Name, err)
	}
	if !result.Succeeded() {
		outcome.Status = StatusFailed
		if step.FailOnError {
			return outcome, &ExitError{Name: step.Name, ExitCode: result.ExitCode, Output: result.Output()}
		}
		runner.warn(logMessageIgnoredError, step.Name, subcommand, logging.Int(logFieldExitCode, result.ExitCode))
		return outcome, nil
	}

	outcome.Status = StatusExecuted
	runner.info(logMessageExecuted, step.Name, subcommand, logging.Duration(logFieldDuration, result.Duration))
	return outcome, nil
}

func (runner *Runner) entryExists(ctx context.Context, request keytool.Request) (bool, error) {
	probe, applicable := keytool.ExistenceProbe(request)
	if !applicable {
		return false, nil
	}
	result, err := runner.executor.Execute(ctx, probe, nil)
	if err != nil {
		return false, err
	}
	return result.Succeeded(), nil
}

func (runner *Runner) skip(outcome Outcome, step plan.Step, reason string) Outcome {
	outcome.Status = StatusSkipped
	outcome.Reason = reason
	runner.info(logMessageSkipped, outcome.Name, outcome.Subcommand,
		logging.String(logFieldReason, reason),
		logging.Bool(logFieldSkipIfExists, step.SkipIfExists),
	)
	return outcome
}

func (runner *Runner) info(message string, name string, subcommand keytool.Subcommand, extra ...logging.Field) {
	if runner.loggingService == nil {
		return
	}
	runner.loggingService.Info(message, stepFields(name, subcommand, extra)...)
}

func (runner *Runner) warn(message string, name string, subcommand keytool.Subcommand, extra ...logging.Field) {
	if runner.loggingService == nil {
		return
	}
	runner.loggingService.Warn(message, stepFields(name, subcommand, extra)...)
}

func stepFields(name string, subcommand keytool.Subcommand, extra []logging.Field) []logging.Field {
	fields := []logging.Field{
		logging.String(logFieldName, name),
		logging.String(logFieldSubcommand, string(subcommand)),
	}
	return append(fields, extra...)
}
