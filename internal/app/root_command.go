package app

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func newRootCommand(resources *applicationResources) *cobra.Command {
	rootCommand := &cobra.Command{
		Use:           defaultApplicationName,
		Short:         "Build and run keytool command lines",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfigurationFile(cmd); err != nil {
				return err
			}
			return configureLogging(cmd)
		},
	}

	keytoolFlags := pflag.NewFlagSet("keytool", pflag.ContinueOnError)
	configureKeytoolFlags(keytoolFlags, resources.configurationManager)
	rootCommand.PersistentFlags().AddFlagSet(keytoolFlags)
	rootCommand.PersistentFlags().String(flagNameConfigFile, "", "Path to configuration file")

	rootCommand.AddCommand(newRunCommand(resources))
	rootCommand.AddCommand(newRenderCommand())
	rootCommand.AddCommand(newExecCommand())

	return rootCommand
}

func configureKeytoolFlags(flagSet *pflag.FlagSet, configurationManager *viper.Viper) {
	flagSet.String(flagNameKeytool, configurationManager.GetString(configKeyKeytoolExecutable), "Path or name of the keytool executable")
	flagSet.String(flagNameJavaHome, configurationManager.GetString(configKeyKeytoolJavaHome), "JDK home whose bin/keytool is used")
	flagSet.Duration(flagNameTimeout, configurationManager.GetDuration(configKeyKeytoolTimeout), "Limit for a single keytool invocation (0 disables)")
	flagSet.String(flagNameLoggingType, configurationManager.GetString(configKeyLoggingType), "Logging type (CONSOLE or JSON)")
	flagSet.Bool(flagNameDebug, configurationManager.GetBool(configKeyLoggingDebug), "Log every keytool command line")
	_ = configurationManager.BindPFlag(configKeyKeytoolExecutable, flagSet.Lookup(flagNameKeytool))
	_ = configurationManager.BindPFlag(configKeyKeytoolJavaHome, flagSet.Lookup(flagNameJavaHome))
	_ = configurationManager.BindPFlag(configKeyKeytoolTimeout, flagSet.Lookup(flagNameTimeout))
	_ = configurationManager.BindPFlag(configKeyLoggingType, flagSet.Lookup(flagNameLoggingType))
	_ = configurationManager.BindPFlag(configKeyLoggingDebug, flagSet.Lookup(flagNameDebug))
}

func configureLogging(cmd *cobra.Command) error {
	resources, err := getApplicationResources(cmd)
	if err != nil {
		return err
	}
	if err := resources.updateLogger(resources.configurationManager.GetString(configKeyLoggingType)); err != nil {
		return err
	}
	resources.loggingService.SetDebug(resources.configurationManager.GetBool(configKeyLoggingDebug))
	return nil
}

func loadConfigurationFile(cmd *cobra.Command) error {
	resources, err := getApplicationResources(cmd)
	if err != nil {
		return err
	}
	configurationManager := resources.configurationManager
	configFilePath, flagErr := cmd.Flags().GetString(flagNameConfigFile)
	if flagErr != nil {
		return fmt.Errorf("read config flag: %w", flagErr)
	}
	if configFilePath != "" {
		configurationManager.SetConfigFile(configFilePath)
	} else {
		configurationManager.AddConfigPath(resources.defaultConfigDirPath)
		configurationManager.SetConfigName(defaultConfigFileName)
		configurationManager.SetConfigType(defaultConfigFileType)
	}
	if readErr := configurationManager.ReadInConfig(); readErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFound) {
			return fmt.Errorf("read configuration: %w", readErr)
		}
	}
	return nil
}

func getApplicationResources(cmd *cobra.Command) (*applicationResources, error) {
	resourceValue := cmd.Context().Value(contextKeyApplicationResources)
	if resourceValue == nil {
		return nil, errors.New("application resources not configured")
	}
	resources, ok := resourceValue.(*applicationResources)
	if !ok {
		return nil, errors.New("invalid application resources type")
	}
	return resources, nil
}
