package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tyemirov/ktool/internal/keytool"
	"github.com/tyemirov/ktool/internal/plan"
)

type execOptions struct {
	alias            string
	keystore         string
	storePassword    string
	storeType        string
	file             string
	rfc              bool
	workingDirectory string
	verbose          bool
}

func newExecCommand() *cobra.Command {
	options := &execOptions{}
	execCommand := &cobra.Command{
		Use:   "exec <subcommand> [-- keytool arguments]",
		Short: "Run a single keytool subcommand",
		Example: "  ktool exec list --keystore keystore.jks --storepass changeit\n" +
			"  ktool exec printcert --file server.crt -- -J-Duser.language=en",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeSubcommand(cmd, options, args[0], args[1:])
		},
	}
	flagSet := execCommand.Flags()
	flagSet.StringVar(&options.alias, "alias", "", "Entry alias")
	flagSet.StringVar(&options.keystore, "keystore", "", "Keystore path")
	flagSet.StringVar(&options.storePassword, "storepass", "", "Keystore password")
	flagSet.StringVar(&options.storeType, "storetype", "", "Keystore type")
	flagSet.StringVar(&options.file, "file", "", "Input or output file")
	flagSet.BoolVar(&options.rfc, "rfc", false, "Use PEM output")
	flagSet.StringVar(&options.workingDirectory, "working-dir", "", "Directory keytool runs in (defaults to the current directory)")
	flagSet.BoolVarP(&options.verbose, "verbose", "v", false, "Pass -v to keytool")
	return execCommand
}

func executeSubcommand(cmd *cobra.Command, options *execOptions, command string, extraArguments []string) error {
	resources, err := getApplicationResources(cmd)
	if err != nil {
		return err
	}
	currentDirectory, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolve current directory: %w", err)
	}

	entry := plan.Entry{
		Command:          command,
		WorkingDirectory: options.workingDirectory,
		Verbose:          &options.verbose,
		Arguments:        extraArguments,
		Keystore:         options.keystore,
		StorePassword:    options.storePassword,
		StoreType:        options.storeType,
		Alias:            options.alias,
		File:             options.file,
		RFC:              options.rfc,
	}
	request, err := entry.Request(currentDirectory)
	if err != nil {
		return err
	}

	executor := resources.executor
	stderrStreamed := false
	if echoer, ok := executor.(keytool.StderrEchoer); ok {
		executor = echoer.WithStderrEcho(cmd.ErrOrStderr())
		stderrStreamed = true
	}
	result, err := resources.keytoolToolWith(executor).Execute(cmd.Context(), request, cmd.InOrStdin())
	fmt.Fprint(cmd.OutOrStdout(), result.Stdout)
	if !stderrStreamed {
		fmt.Fprint(cmd.ErrOrStderr(), result.Stderr)
	}
	if err != nil {
		return err
	}
	if !result.Succeeded() {
		return &exitStatusError{exitCode: result.ExitCode}
	}
	return nil
}
