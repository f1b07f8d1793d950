package plan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tyemirov/ktool/internal/keytool"
)

const yamlPlan = `
defaults:
  keystore: build/keystore.jks
  storepass: changeit
  storetype: jks
  workingDirectory: work
requests:
  - name: server key
    command: genkeypair
    alias: server
    dname: CN=localhost
    keyalg: RSA
    keysize: "2048"
    validity: "365"
    ext: [san=dns:localhost]
    skipIfExists: true
  - command: -exportcert
    alias: server
    file: server.crt
    rfc: true
    failOnError: false
  - name: inspect
    command: printcert
    workingDirectory: /abs
    file: server.crt
    stdin: ignored
    args: ["-J-Duser.language=en"]
`

const tomlPlan = `
[defaults]
keystore = "build/keystore.jks"
storepass = "changeit"
verbose = true

[[requests]]
name = "trust root"
command = "import"
alias = "root"
file = "root.crt"
noprompt = true
trustcacerts = true

[[requests]]
command = "list"
skip = true
`

func TestDecodeYAMLPlanBuildsSteps(t *testing.T) {
	decoded, err := Decode([]byte(yamlPlan), FormatYAML)
	require.NoError(t, err)
	decoded.BaseDirectory = "/plans"

	steps, err := decoded.Steps()
	require.NoError(t, err)
	require.Len(t, steps, 3)

	keystoreOptions := keytool.KeystoreOptions{Keystore: "build/keystore.jks", StorePassword: "changeit", StoreType: "jks"}

	assert.Equal(t, "server key", steps[0].Name)
	assert.True(t, steps[0].SkipIfExists)
	assert.True(t, steps[0].FailOnError)
	assert.Equal(t, keytool.GenerateKeyPairRequest{
		Options:           keytool.Options{WorkingDirectory: filepath.Join("/plans", "work")},
		KeystoreOptions:   keystoreOptions,
		Alias:             "server",
		KeyAlgorithm:      "RSA",
		KeySize:           "2048",
		DistinguishedName: "CN=localhost",
		Extensions:        []string{"san=dns:localhost"},
		Validity:          "365",
	}, steps[0].Request)

	assert.Equal(t, "#2 -exportcert", steps[1].Name)
	assert.False(t, steps[1].FailOnError)
	assert.Equal(t, keytool.ExportCertificateRequest{
		Options:         keytool.Options{WorkingDirectory: filepath.Join("/plans", "work")},
		KeystoreOptions: keystoreOptions,
		Alias:           "server",
		File:            "server.crt",
		RFC:             true,
	}, steps[1].Request)

	assert.Equal(t, "ignored", steps[2].Input)
	assert.Equal(t, keytool.PrintCertificateRequest{
		Options: keytool.Options{WorkingDirectory: "/abs", Arguments: []string{"-J-Duser.language=en"}},
		File:    "server.crt",
	}, steps[2].Request)
}

func TestDecodeTOMLPlanBuildsSteps(t *testing.T) {
	decoded, err := Decode([]byte(tomlPlan), FormatTOML)
	require.NoError(t, err)
	decoded.BaseDirectory = "/plans"

	steps, err := decoded.Steps()
	require.NoError(t, err)
	require.Len(t, steps, 2)

	assert.Equal(t, keytool.ImportCertificateRequest{
		Options:             keytool.Options{WorkingDirectory: "/plans", Verbose: true},
		KeystoreOptions:     keytool.KeystoreOptions{Keystore: "build/keystore.jks", StorePassword: "changeit"},
		Alias:               "root",
		File:                "root.crt",
		NoPrompt:            true,
		TrustCACertificates: true,
	}, steps[0].Request)
	assert.True(t, steps[1].Skip)
	assert.Equal(t, keytool.SubcommandList, steps[1].Request.Subcommand())
}

func TestDecodeRejectsInvalidPlans(testingInstance *testing.T) {
	testCases := []struct {
		name   string
		data   string
		format Format
	}{
		{name: "unknown yaml key", data: "requests:\n  - command: list\n    storpass: typo\n", format: FormatYAML},
		{name: "unknown toml key", data: "[[requests]]\ncommand = \"list\"\nstorpass = \"typo\"\n", format: FormatTOML},
		{name: "empty yaml document", data: "", format: FormatYAML},
		{name: "no requests", data: "defaults:\n  keystore: a.jks\n", format: FormatYAML},
		{name: "unsupported format", data: "requests: []", format: Format("json")},
	}

	for _, testCase := range testCases {
		testingInstance.Run(testCase.name, func(testingInstance *testing.T) {
			_, err := Decode([]byte(testCase.data), testCase.format)
			assert.Error(testingInstance, err)
		})
	}
}

func TestParseSubcommand(testingInstance *testing.T) {
	testCases := []struct {
		command   string
		expected  keytool.Subcommand
		expectErr bool
	}{
		{command: "genkeypair", expected: keytool.SubcommandGenerateKeyPair},
		{command: "-changealias", expected: keytool.SubcommandChangeAlias},
		{command: " PrintCertReq ", expected: keytool.SubcommandPrintCSR},
		{command: "genkey", expected: keytool.SubcommandGenerateKeyPair},
		{command: "-import", expected: keytool.SubcommandImportCertificate},
		{command: "export", expected: keytool.SubcommandExportCertificate},
		{command: "importpass", expectErr: true},
		{command: "", expectErr: true},
	}

	for _, testCase := range testCases {
		testingInstance.Run(testCase.command, func(testingInstance *testing.T) {
			subcommand, err := ParseSubcommand(testCase.command)
			if testCase.expectErr {
				assert.Error(testingInstance, err)
				return
			}
			require.NoError(testingInstance, err)
			assert.Equal(testingInstance, testCase.expected, subcommand)
		})
	}
}

func TestEveryCommandMapsToItsRequest(t *testing.T) {
	for _, subcommand := range keytool.Subcommands {
		request, err := Entry{Command: string(subcommand)}.Request("/work")
		require.NoError(t, err, subcommand)
		assert.Equal(t, subcommand, request.Subcommand())
		assert.Equal(t, "/work", request.CommonOptions().WorkingDirectory)
	}
}

func TestImportKeystoreUsesKeystoreDefaultsAsDestination(t *testing.T) {
	entry := Entry{
		Command:             "importkeystore",
		Keystore:            "dest.p12",
		StorePassword:       "dest-pass",
		StoreType:           "pkcs12",
		SourceKeystore:      "src.jks",
		SourceStorePassword: "src-pass",
		SourceProtected:     true,
	}
	request, err := entry.Request("/work")
	require.NoError(t, err)
	assert.Equal(t, keytool.ImportKeystoreRequest{
		Options:                  keytool.Options{WorkingDirectory: "/work"},
		SourceKeystore:           "src.jks",
		DestinationKeystore:      "dest.p12",
		DestinationStoreType:     "pkcs12",
		SourceStorePassword:      "src-pass",
		DestinationStorePassword: "dest-pass",
		SourceProtected:          true,
	}, request)
}

func TestStepsReportsEveryInvalidEntry(t *testing.T) {
	decoded := Plan{Entries: []Entry{
		{Name: "first", Command: "bogus"},
		{Command: "list"},
		{Name: "third", Command: ""},
	}}
	_, err := decoded.Steps()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request first")
	assert.Contains(t, err.Error(), "request third")
}

func TestLoadResolvesAgainstPlanDirectory(t *testing.T) {
	directory := t.TempDir()
	planPath := filepath.Join(directory, "keystore.yml")
	require.NoError(t, os.WriteFile(planPath, []byte(yamlPlan), 0o600))

	loaded, err := Load(planPath)
	require.NoError(t, err)
	absoluteDirectory, err := filepath.Abs(directory)
	require.NoError(t, err)
	assert.Equal(t, absoluteDirectory, loaded.BaseDirectory)

	steps, err := loaded.Steps()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(absoluteDirectory, "work"), steps[0].Request.CommonOptions().WorkingDirectory)

	_, err = Load(filepath.Join(directory, "keystore.json"))
	assert.Error(t, err)
	_, err = Load(filepath.Join(directory, "missing.toml"))
	assert.Error(t, err)
}
