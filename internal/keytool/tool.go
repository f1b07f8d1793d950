package keytool

import (
	"context"
	"io"
	"time"

	"github.com/tyemirov/ktool/pkg/logging"
)

const (
	logMessageExecuting = "executing keytool"
	logMessageCompleted = "keytool completed"
	logMessageFailed    = "keytool failed"
	logFieldSubcommand  = "subcommand"
	logFieldCommandLine = "command_line"
	logFieldArguments   = "arguments"
	logFieldDirectory   = "working_directory"
	logFieldExitCode    = "exit_code"
	logFieldDuration    = "duration"
)

// ToolConfiguration selects the keytool binary and bounds each invocation.
type ToolConfiguration struct {
	ExecutablePath string
	JavaHome       string
	// Timeout bounds a single invocation; zero means no limit.
	Timeout time.Duration
}

// Tool resolves, renders and runs keytool requests.
type Tool struct {
	resolver       ExecutableResolver
	executor       Executor
	loggingService *logging.Service
	configuration  ToolConfiguration
}

// NewTool constructs a Tool.
func NewTool(resolver ExecutableResolver, executor Executor, loggingService *logging.Service, configuration ToolConfiguration) *Tool {
	return &Tool{
		resolver:       resolver,
		executor:       executor,
		loggingService: loggingService,
		configuration:  configuration,
	}
}

// CommandLine resolves the keytool executable and renders request without running it.
func (tool *Tool) CommandLine(request Request) (CommandLine, error) {
	executable, err := tool.resolver.Resolve(tool.configuration.ExecutablePath, tool.configuration.JavaHome)
	if err != nil {
		return CommandLine{}, err
	}
	return NewCommandLine(executable, request)
}

// Execute runs request once and returns its Result. input, when not nil, is
// fed to keytool's standard input.
func (tool *Tool) Execute(ctx context.Context, request Request, input io.Reader) (Result, error) {
	commandLine, err := tool.CommandLine(request)
	if err != nil {
		return Result{}, err
	}
	if tool.configuration.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, tool.configuration.Timeout)
		defer cancel()
	}

	subcommandField := logging.String(logFieldSubcommand, string(request.Subcommand()))
	if tool.loggingService != nil {
		tool.loggingService.Debug(logMessageExecuting,
			subcommandField,
			logging.String(logFieldCommandLine, commandLine.String()),
			logging.Strings(logFieldArguments, commandLine.MaskedArguments()),
			logging.String(logFieldDirectory, commandLine.WorkingDirectory),
		)
	}
	result, err := tool.executor.Execute(ctx, commandLine, input)
	if err != nil {
		if tool.loggingService != nil {
			tool.loggingService.Debug(logMessageFailed, subcommandField, logging.ErrorField(err))
		}
		return result, err
	}
	if tool.loggingService != nil {
		tool.loggingService.Debug(logMessageCompleted,
			subcommandField,
			logging.Int(logFieldExitCode, result.ExitCode),
			logging.Duration(logFieldDuration, result.Duration),
		)
	}
	return result, nil
}
