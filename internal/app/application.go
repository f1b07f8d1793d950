package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/tyemirov/ktool/internal/keytool"
	"github.com/tyemirov/ktool/pkg/logging"
)

type contextKey string

const (
	contextKeyApplicationResources contextKey = "application-resources"

	defaultConfigFileName  = "config"
	defaultConfigFileType  = "yaml"
	defaultApplicationName = "ktool"
	defaultTimeout         = "0s"

	flagNameConfigFile  = "config"
	flagNameKeytool     = "keytool"
	flagNameJavaHome    = "java-home"
	flagNameLoggingType = "logging-type"
	flagNameDebug       = "debug"
	flagNameTimeout     = "timeout"
	flagNameReport      = "report"

	configKeyKeytoolExecutable = "keytool.executable"
	configKeyKeytoolJavaHome   = "keytool.java_home"
	configKeyKeytoolTimeout    = "keytool.timeout"
	configKeyRunReport         = "run.report"
	configKeyLoggingType       = "logging.type"
	configKeyLoggingDebug      = "logging.debug"

	logMessageFailedInitializeLogger = "failed to initialize logger"
	logMessageResolveUserConfigDir   = "resolve user config directory"
	logMessageCommandExecutionFailed = "command execution failed"
)

type applicationResources struct {
	configurationManager *viper.Viper
	loggingService       *logging.Service
	defaultConfigDirPath string
	resolver             keytool.ExecutableResolver
	executor             keytool.Executor
}

func (resources *applicationResources) updateLogger(loggingType string) error {
	normalizedType, err := logging.NormalizeType(loggingType)
	if err != nil {
		return err
	}
	if resources.loggingService != nil && resources.loggingService.Type() == normalizedType {
		return nil
	}
	service, err := logging.NewService(normalizedType)
	if err != nil {
		return err
	}
	if resources.loggingService != nil {
		_ = resources.loggingService.Sync()
	}
	resources.loggingService = service
	return nil
}

// keytoolTool assembles a Tool from the current configuration.
func (resources *applicationResources) keytoolTool() *keytool.Tool {
	return resources.keytoolToolWith(resources.executor)
}

func (resources *applicationResources) keytoolToolWith(executor keytool.Executor) *keytool.Tool {
	configurationManager := resources.configurationManager
	return keytool.NewTool(resources.resolver, executor, resources.loggingService, keytool.ToolConfiguration{
		ExecutablePath: strings.TrimSpace(configurationManager.GetString(configKeyKeytoolExecutable)),
		JavaHome:       strings.TrimSpace(configurationManager.GetString(configKeyKeytoolJavaHome)),
		Timeout:        configurationManager.GetDuration(configKeyKeytoolTimeout),
	})
}

func newConfigurationManager() *viper.Viper {
	configurationManager := viper.New()
	configurationManager.SetEnvPrefix(strings.ToUpper(defaultApplicationName))
	configurationManager.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	configurationManager.AutomaticEnv()

	configurationManager.SetDefault(configKeyKeytoolExecutable, "")
	configurationManager.SetDefault(configKeyKeytoolJavaHome, "")
	configurationManager.SetDefault(configKeyKeytoolTimeout, defaultTimeout)
	configurationManager.SetDefault(configKeyRunReport, "")
	configurationManager.SetDefault(configKeyLoggingType, logging.TypeConsole)
	configurationManager.SetDefault(configKeyLoggingDebug, false)
	return configurationManager
}

// Execute runs the CLI using the provided context and arguments, returning an exit code.
func Execute(ctx context.Context, arguments []string) int {
	initialService, err := logging.NewService(logging.TypeConsole)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", logMessageFailedInitializeLogger, err)
		return 1
	}

	userConfigDir, userConfigErr := os.UserConfigDir()
	if userConfigErr != nil {
		initialService.Error(logMessageResolveUserConfigDir, userConfigErr)
		return 1
	}

	resources := &applicationResources{
		configurationManager: newConfigurationManager(),
		loggingService:       initialService,
		defaultConfigDirPath: filepath.Join(userConfigDir, defaultApplicationName),
		resolver:             keytool.NewLocator(),
		executor:             keytool.NewProcessExecutor(),
	}
	return executeWithResources(ctx, resources, arguments)
}

func executeWithResources(ctx context.Context, resources *applicationResources, arguments []string) int {
	if err := resources.updateLogger(resources.configurationManager.GetString(configKeyLoggingType)); err != nil {
		resources.loggingService.Error(logMessageFailedInitializeLogger, err)
		return 1
	}
	defer func() {
		if resources.loggingService != nil {
			_ = resources.loggingService.Sync()
		}
	}()

	rootCommand := newRootCommand(resources)
	baseContext := context.WithValue(ctx, contextKeyApplicationResources, resources)
	rootCommand.SetContext(baseContext)
	rootCommand.SetArgs(arguments)

	if executionErr := rootCommand.Execute(); executionErr != nil {
		var exitStatus *exitStatusError
		if errors.As(executionErr, &exitStatus) && exitStatus.exitCode > 0 {
			return exitStatus.exitCode
		}
		resources.loggingService.Error(logMessageCommandExecutionFailed, executionErr)
		return 1
	}

	return 0
}

// exitStatusError carries a keytool exit code through cobra to the process exit status.
type exitStatusError struct {
	exitCode int
}

func (exitStatus *exitStatusError) Error() string {
	return fmt.Sprintf("keytool exited with code %d", exitStatus.exitCode)
}
