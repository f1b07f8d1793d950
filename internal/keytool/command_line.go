package keytool

import (
	"strings"
)

const maskedValue = "*****"

var passwordFlags = map[string]struct{}{
	flagStorePassword:            {},
	flagKeyPassword:              {},
	flagNewPassword:              {},
	flagSourceStorePassword:      {},
	flagDestinationStorePassword: {},
	flagSourceKeyPassword:        {},
	flagDestinationKeyPassword:   {},
}

// CommandLine is a fully rendered keytool invocation.
type CommandLine struct {
	Executable       string
	Arguments        []string
	WorkingDirectory string
}

// NewCommandLine renders request for the given keytool executable.
func NewCommandLine(executable string, request Request) (CommandLine, error) {
	if request == nil {
		return CommandLine{}, &ConfigurationError{Reason: "request is required"}
	}
	trimmedExecutable := strings.TrimSpace(executable)
	if trimmedExecutable == "" {
		return CommandLine{}, &ConfigurationError{Reason: "keytool executable is not resolved"}
	}
	workingDirectory := strings.TrimSpace(request.CommonOptions().WorkingDirectory)
	if workingDirectory == "" {
		return CommandLine{}, &ConfigurationError{Reason: "working directory is not set"}
	}
	return CommandLine{
		Executable:       trimmedExecutable,
		Arguments:        BuildArguments(request),
		WorkingDirectory: workingDirectory,
	}, nil
}

// MaskedArguments returns a copy of the arguments with password values hidden.
func (commandLine CommandLine) MaskedArguments() []string {
	masked := make([]string, len(commandLine.Arguments))
	copy(masked, commandLine.Arguments)
	for index := 0; index < len(masked)-1; index++ {
		if _, sensitive := passwordFlags[masked[index]]; sensitive {
			masked[index+1] = maskedValue
			index++
		}
	}
	return masked
}

// String renders the executable and masked arguments separated by spaces.
func (commandLine CommandLine) String() string {
	tokens := append([]string{commandLine.Executable}, commandLine.MaskedArguments()...)
	return strings.Join(tokens, " ")
}
