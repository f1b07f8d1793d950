package app

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/tyemirov/ktool/internal/keytool"
	"github.com/tyemirov/ktool/internal/runner"
	"github.com/tyemirov/ktool/pkg/logging"
)

const (
	testKeytoolPath = "/opt/jdk/bin/keytool"
	testPlan        = `
defaults:
  keystore: keystore.jks
  storepass: changeit
requests:
  - name: server key
    command: genkeypair
    alias: server
    dname: CN=localhost
    skipIfExists: true
  - name: inventory
    command: list
`
)

type fixedResolver struct {
	path string
}

func (resolver fixedResolver) Resolve(explicitPath string, javaHome string) (string, error) {
	if explicitPath != "" {
		return explicitPath, nil
	}
	return resolver.path, nil
}

type recordingExecutor struct {
	commandLines []keytool.CommandLine
	exitCodeFor  func(commandLine keytool.CommandLine) int
	stdout       string
}

func (executor *recordingExecutor) Execute(ctx context.Context, commandLine keytool.CommandLine, input io.Reader) (keytool.Result, error) {
	executor.commandLines = append(executor.commandLines, commandLine)
	result := keytool.Result{CommandLine: commandLine, Stdout: executor.stdout}
	if executor.exitCodeFor != nil {
		result.ExitCode = executor.exitCodeFor(commandLine)
	}
	return result, nil
}

func hasArgument(commandLine keytool.CommandLine, argument string) bool {
	for _, candidate := range commandLine.Arguments {
		if candidate == argument {
			return true
		}
	}
	return false
}

func newTestResources(t *testing.T, executor keytool.Executor) *applicationResources {
	t.Helper()
	return &applicationResources{
		configurationManager: newConfigurationManager(),
		loggingService:       logging.NewTestService(logging.TypeConsole),
		defaultConfigDirPath: t.TempDir(),
		resolver:             fixedResolver{path: testKeytoolPath},
		executor:             executor,
	}
}

func runRootCommand(resources *applicationResources, arguments ...string) (string, error) {
	rootCommand := newRootCommand(resources)
	rootCommand.SetContext(context.WithValue(context.Background(), contextKeyApplicationResources, resources))
	rootCommand.SetArgs(arguments)
	var output bytes.Buffer
	rootCommand.SetOut(&output)
	rootCommand.SetErr(&output)
	rootCommand.SetIn(strings.NewReader(""))
	err := rootCommand.Execute()
	return output.String(), err
}

func writePlan(t *testing.T, content string) (string, string) {
	t.Helper()
	directory := t.TempDir()
	planPath := filepath.Join(directory, "keystore.yaml")
	if err := os.WriteFile(planPath, []byte(content), 0o600); err != nil {
		t.Fatalf("write plan: %v", err)
	}
	absoluteDirectory, err := filepath.Abs(directory)
	if err != nil {
		t.Fatalf("resolve plan directory: %v", err)
	}
	return planPath, absoluteDirectory
}

func TestRunCommandExecutesPlanAndWritesReport(t *testing.T) {
	planPath, planDirectory := writePlan(t, testPlan)
	reportPath := filepath.Join(t.TempDir(), "report.md")
	executor := &recordingExecutor{
		stdout: "Keystore type: JKS\n",
		exitCodeFor: func(commandLine keytool.CommandLine) int {
			if commandLine.Arguments[0] == "-list" && hasArgument(commandLine, "-alias") {
				return 1
			}
			return 0
		},
	}
	resources := newTestResources(t, executor)

	output, err := runRootCommand(resources, "run", planPath, "--report", reportPath)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	expectedArguments := [][]string{
		{"-list", "-keystore", "keystore.jks", "-storepass", "changeit", "-alias", "server"},
		{"-genkeypair", "-keystore", "keystore.jks", "-storepass", "changeit", "-alias", "server", "-dname", "CN=localhost"},
		{"-list", "-keystore", "keystore.jks", "-storepass", "changeit"},
	}
	if len(executor.commandLines) != len(expectedArguments) {
		t.Fatalf("expected %d invocations, got %d", len(expectedArguments), len(executor.commandLines))
	}
	for index, commandLine := range executor.commandLines {
		if !reflect.DeepEqual(commandLine.Arguments, expectedArguments[index]) {
			t.Fatalf("invocation %d: expected %v, got %v", index, expectedArguments[index], commandLine.Arguments)
		}
		if commandLine.WorkingDirectory != planDirectory {
			t.Fatalf("invocation %d ran in %s, expected %s", index, commandLine.WorkingDirectory, planDirectory)
		}
		if commandLine.Executable != testKeytoolPath {
			t.Fatalf("invocation %d used %s", index, commandLine.Executable)
		}
	}
	if strings.Count(output, "Keystore type: JKS") != 2 {
		t.Fatalf("expected keytool output for both executed requests, got %q", output)
	}

	reportContent, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(reportContent), "2 executed, 0 skipped, 0 failed") {
		t.Fatalf("unexpected report:\n%s", reportContent)
	}
}

func TestRunCommandStopsOnKeytoolFailure(t *testing.T) {
	planPath, _ := writePlan(t, testPlan)
	executor := &recordingExecutor{exitCodeFor: func(commandLine keytool.CommandLine) int {
		if commandLine.Arguments[0] == "-genkeypair" || hasArgument(commandLine, "-alias") {
			return 1
		}
		return 0
	}}

	_, err := runRootCommand(newTestResources(t, executor), "run", planPath)
	var exitError *runner.ExitError
	if !errors.As(err, &exitError) {
		t.Fatalf("expected exit error, got %v", err)
	}
	if exitError.Name != "server key" {
		t.Fatalf("unexpected failing request %s", exitError.Name)
	}
	if len(executor.commandLines) != 2 {
		t.Fatalf("expected the run to stop after the failed generation, got %d invocations", len(executor.commandLines))
	}
}

func TestRenderCommandPrintsMaskedCommandLines(t *testing.T) {
	planPath, planDirectory := writePlan(t, testPlan)
	executor := &recordingExecutor{}

	output, err := runRootCommand(newTestResources(t, executor), "render", planPath, "--keytool", "/flag/keytool")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(executor.commandLines) != 0 {
		t.Fatalf("render must not run keytool")
	}
	expectedLines := []string{
		"# server key (in " + planDirectory + ") [unless the alias exists]",
		"/flag/keytool -genkeypair -keystore keystore.jks -storepass ***** -alias server -dname CN=localhost",
		"# inventory (in " + planDirectory + ")",
		"/flag/keytool -list -keystore keystore.jks -storepass *****",
	}
	if rendered := strings.Split(strings.TrimSpace(output), "\n"); !reflect.DeepEqual(rendered, expectedLines) {
		t.Fatalf("expected %q, got %q", expectedLines, rendered)
	}
}

func TestConfigurationFileSelectsKeytool(t *testing.T) {
	planPath, _ := writePlan(t, testPlan)
	resources := newTestResources(t, &recordingExecutor{})
	configuration := "keytool:\n  executable: /config/keytool\n  timeout: 30s\n"
	if err := os.WriteFile(filepath.Join(resources.defaultConfigDirPath, "config.yaml"), []byte(configuration), 0o600); err != nil {
		t.Fatalf("write configuration: %v", err)
	}

	output, err := runRootCommand(resources, "render", planPath)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(output, "/config/keytool -list") {
		t.Fatalf("expected configured executable, got %q", output)
	}
	if timeout := resources.configurationManager.GetDuration(configKeyKeytoolTimeout); timeout.String() != "30s" {
		t.Fatalf("expected configured timeout, got %s", timeout)
	}
}

func TestExecCommandBuildsRequestFromFlags(t *testing.T) {
	executor := &recordingExecutor{stdout: "Certificate stored in file <server.crt>\n"}
	workingDirectory := t.TempDir()

	output, err := runRootCommand(newTestResources(t, executor),
		"exec", "exportcert", "--keystore", "keystore.jks", "--storepass", "changeit", "--alias", "server",
		"--file", "server.crt", "--rfc", "--working-dir", workingDirectory, "-v", "--", "-J-Duser.language=en")
	if err != nil {
		t.Fatalf("exec: %v", err)
	}
	expected := keytool.CommandLine{
		Executable: testKeytoolPath,
		Arguments: []string{
			"-exportcert", "-v", "-keystore", "keystore.jks", "-storepass", "changeit",
			"-alias", "server", "-file", "server.crt", "-rfc", "-J-Duser.language=en",
		},
		WorkingDirectory: workingDirectory,
	}
	if len(executor.commandLines) != 1 || !reflect.DeepEqual(executor.commandLines[0], expected) {
		t.Fatalf("expected %+v, got %+v", expected, executor.commandLines)
	}
	if output != "Certificate stored in file <server.crt>\n" {
		t.Fatalf("unexpected output %q", output)
	}
}

func TestExecuteWithResourcesMapsExitCodes(testingInstance *testing.T) {
	testCases := []struct {
		name             string
		arguments        []string
		keytoolExitCode  int
		expectedExitCode int
	}{
		{name: "success", arguments: []string{"exec", "list", "--keystore", "keystore.jks"}, expectedExitCode: 0},
		{name: "keytool exit code is propagated", arguments: []string{"exec", "delete", "--alias", "missing"}, keytoolExitCode: 5, expectedExitCode: 5},
		{name: "unknown subcommand", arguments: []string{"exec", "importpass"}, expectedExitCode: 1},
		{name: "unknown logging type", arguments: []string{"--logging-type", "XML", "exec", "list"}, expectedExitCode: 1},
		{name: "missing plan", arguments: []string{"run", filepath.Join(testingInstance.TempDir(), "absent.yaml")}, expectedExitCode: 1},
	}

	for _, testCase := range testCases {
		testingInstance.Run(testCase.name, func(testingInstance *testing.T) {
			executor := &recordingExecutor{exitCodeFor: func(keytool.CommandLine) int { return testCase.keytoolExitCode }}
			exitCode := executeWithResources(context.Background(), newTestResources(testingInstance, executor), testCase.arguments)
			if exitCode != testCase.expectedExitCode {
				testingInstance.Fatalf("expected exit code %d, got %d", testCase.expectedExitCode, exitCode)
			}
		})
	}
}

// promptingExecutor writes a password prompt to the echo writer while it runs.
type promptingExecutor struct {
	echo  io.Writer
	input string
}

func (executor *promptingExecutor) WithStderrEcho(writer io.Writer) keytool.Executor {
	executor.echo = writer
	return executor
}

func (executor *promptingExecutor) Execute(ctx context.Context, commandLine keytool.CommandLine, input io.Reader) (keytool.Result, error) {
	const prompt = "Enter keystore password:  "
	if executor.echo != nil {
		_, _ = io.WriteString(executor.echo, prompt)
	}
	content, _ := io.ReadAll(input)
	executor.input = string(content)
	return keytool.Result{CommandLine: commandLine, Stdout: "Keystore type: PKCS12\n", Stderr: prompt}, nil
}

func TestExecCommandStreamsPromptsWhileKeytoolRuns(t *testing.T) {
	executor := &promptingExecutor{}
	resources := newTestResources(t, executor)
	rootCommand := newRootCommand(resources)
	rootCommand.SetContext(context.WithValue(context.Background(), contextKeyApplicationResources, resources))
	rootCommand.SetArgs([]string{"exec", "list", "--keystore", "keystore.p12", "--working-dir", t.TempDir()})
	var standardOutput, standardError bytes.Buffer
	rootCommand.SetOut(&standardOutput)
	rootCommand.SetErr(&standardError)
	rootCommand.SetIn(strings.NewReader("changeit\n"))

	if err := rootCommand.Execute(); err != nil {
		t.Fatalf("exec: %v", err)
	}
	if standardError.String() != "Enter keystore password:  " {
		t.Fatalf("expected the prompt exactly once on stderr, got %q", standardError.String())
	}
	if standardOutput.String() != "Keystore type: PKCS12\n" {
		t.Fatalf("unexpected stdout %q", standardOutput.String())
	}
	if executor.input != "changeit\n" {
		t.Fatalf("expected stdin to reach keytool, got %q", executor.input)
	}
}
