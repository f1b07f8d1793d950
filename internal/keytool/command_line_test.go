package keytool

import (
	"errors"
	"reflect"
	"testing"
)

func TestNewCommandLine(testingInstance *testing.T) {
	validRequest := DeleteRequest{
		Options:         Options{WorkingDirectory: " /work "},
		KeystoreOptions: KeystoreOptions{Keystore: "P"},
		Alias:           testAlias,
	}
	testCases := []struct {
		name            string
		executable      string
		request         Request
		expectConfigErr bool
		expectedLine    CommandLine
	}{
		{
			name:       "renders executable, directory and arguments",
			executable: "/opt/jdk/bin/keytool",
			request:    validRequest,
			expectedLine: CommandLine{
				Executable:       "/opt/jdk/bin/keytool",
				Arguments:        []string{"-delete", "-keystore", "P", "-alias", testAlias},
				WorkingDirectory: "/work",
			},
		},
		{
			name:            "unresolved executable",
			executable:      "  ",
			request:         validRequest,
			expectConfigErr: true,
		},
		{
			name:            "missing working directory",
			executable:      "keytool",
			request:         DeleteRequest{Alias: testAlias},
			expectConfigErr: true,
		},
		{
			name:            "missing request",
			executable:      "keytool",
			request:         nil,
			expectConfigErr: true,
		},
	}

	for _, testCase := range testCases {
		testingInstance.Run(testCase.name, func(testingInstance *testing.T) {
			commandLine, err := NewCommandLine(testCase.executable, testCase.request)
			if testCase.expectConfigErr {
				var configurationError *ConfigurationError
				if !errors.As(err, &configurationError) {
					testingInstance.Fatalf("expected configuration error, got %v", err)
				}
				return
			}
			if err != nil {
				testingInstance.Fatalf("new command line: %v", err)
			}
			if !reflect.DeepEqual(commandLine, testCase.expectedLine) {
				testingInstance.Fatalf("expected %+v, got %+v", testCase.expectedLine, commandLine)
			}
		})
	}
}

func TestCommandLineMasksPasswords(t *testing.T) {
	commandLine := CommandLine{
		Executable: "keytool",
		Arguments: []string{
			"-importkeystore", "-srcstorepass", "one", "-deststorepass", "two",
			"-srckeypass", "three", "-destkeypass", "four", "-srcalias", "src",
		},
		WorkingDirectory: "/work",
	}
	expected := []string{
		"-importkeystore", "-srcstorepass", "*****", "-deststorepass", "*****",
		"-srckeypass", "*****", "-destkeypass", "*****", "-srcalias", "src",
	}
	if masked := commandLine.MaskedArguments(); !reflect.DeepEqual(masked, expected) {
		t.Fatalf("expected %v, got %v", expected, masked)
	}
	if commandLine.Arguments[2] != "one" {
		t.Fatalf("masking modified the command line: %v", commandLine.Arguments)
	}

	rendered := CommandLine{
		Executable: "keytool",
		Arguments:  []string{"-keypasswd", "-storepass", "changeit", "-keypass", "old", "-new", "new", "-storepass"},
	}.String()
	expectedRendered := "keytool -keypasswd -storepass ***** -keypass ***** -new ***** -storepass"
	if rendered != expectedRendered {
		t.Fatalf("expected %q, got %q", expectedRendered, rendered)
	}
}
