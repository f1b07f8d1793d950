package plan

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tyemirov/ktool/internal/keytool"
)

var legacyCommandNames = map[string]keytool.Subcommand{
	"genkey": keytool.SubcommandGenerateKeyPair,
	"import": keytool.SubcommandImportCertificate,
	"export": keytool.SubcommandExportCertificate,
}

// Entry is one declared keytool invocation. Keys follow keytool's own flag names.
type Entry struct {
	Name    string `yaml:"name" toml:"name"`
	Command string `yaml:"command" toml:"command"`

	Skip         bool   `yaml:"skip" toml:"skip"`
	SkipIfExists bool   `yaml:"skipIfExists" toml:"skipIfExists"`
	FailOnError  *bool  `yaml:"failOnError" toml:"failOnError"`
	Stdin        string `yaml:"stdin" toml:"stdin"`

	WorkingDirectory string   `yaml:"workingDirectory" toml:"workingDirectory"`
	Verbose          *bool    `yaml:"verbose" toml:"verbose"`
	Arguments        []string `yaml:"args" toml:"args"`

	Keystore         string `yaml:"keystore" toml:"keystore"`
	StorePassword    string `yaml:"storepass" toml:"storepass"`
	StoreType        string `yaml:"storetype" toml:"storetype"`
	ProviderName     string `yaml:"providername" toml:"providername"`
	ProviderClass    string `yaml:"providerclass" toml:"providerclass"`
	ProviderArgument string `yaml:"providerarg" toml:"providerarg"`
	ProviderPath     string `yaml:"providerpath" toml:"providerpath"`
	Protected        bool   `yaml:"protected" toml:"protected"`

	Alias               string   `yaml:"alias" toml:"alias"`
	DestinationAlias    string   `yaml:"destalias" toml:"destalias"`
	KeyPassword         string   `yaml:"keypass" toml:"keypass"`
	NewPassword         string   `yaml:"new" toml:"new"`
	File                string   `yaml:"file" toml:"file"`
	RFC                 bool     `yaml:"rfc" toml:"rfc"`
	InputFile           string   `yaml:"infile" toml:"infile"`
	OutputFile          string   `yaml:"outfile" toml:"outfile"`
	SignatureAlgorithm  string   `yaml:"sigalg" toml:"sigalg"`
	DistinguishedName   string   `yaml:"dname" toml:"dname"`
	StartDate           string   `yaml:"startdate" toml:"startdate"`
	Extensions          []string `yaml:"ext" toml:"ext"`
	Validity            string   `yaml:"validity" toml:"validity"`
	KeyAlgorithm        string   `yaml:"keyalg" toml:"keyalg"`
	KeySize             string   `yaml:"keysize" toml:"keysize"`
	NoPrompt            bool     `yaml:"noprompt" toml:"noprompt"`
	TrustCACertificates bool     `yaml:"trustcacerts" toml:"trustcacerts"`
	SSLServer           string   `yaml:"sslserver" toml:"sslserver"`
	JarFile             string   `yaml:"jarfile" toml:"jarfile"`

	SourceKeystore           string `yaml:"srckeystore" toml:"srckeystore"`
	DestinationKeystore      string `yaml:"destkeystore" toml:"destkeystore"`
	SourceStoreType          string `yaml:"srcstoretype" toml:"srcstoretype"`
	DestinationStoreType     string `yaml:"deststoretype" toml:"deststoretype"`
	SourceStorePassword      string `yaml:"srcstorepass" toml:"srcstorepass"`
	DestinationStorePassword string `yaml:"deststorepass" toml:"deststorepass"`
	SourceProtected          bool   `yaml:"srcprotected" toml:"srcprotected"`
	SourceProviderName       string `yaml:"srcprovidername" toml:"srcprovidername"`
	DestinationProviderName  string `yaml:"destprovidername" toml:"destprovidername"`
	SourceAlias              string `yaml:"srcalias" toml:"srcalias"`
	SourceKeyPassword        string `yaml:"srckeypass" toml:"srckeypass"`
	DestinationKeyPassword   string `yaml:"destkeypass" toml:"destkeypass"`
}

// ParseSubcommand maps a command name such as "genkeypair" or "-list" to a subcommand.
func ParseSubcommand(command string) (keytool.Subcommand, error) {
	normalized := strings.ToLower(strings.TrimLeft(strings.TrimSpace(command), "-"))
	if normalized == "" {
		return "", fmt.Errorf("command is required")
	}
	if subcommand, legacy := legacyCommandNames[normalized]; legacy {
		return subcommand, nil
	}
	for _, subcommand := range keytool.Subcommands {
		if string(subcommand) == normalized {
			return subcommand, nil
		}
	}
	return "", fmt.Errorf("unsupported keytool command %q", command)
}

// withDefaults fills the shared fields the entry leaves unset from defaults.
func (entry Entry) withDefaults(defaults Entry) Entry {
	merged := entry
	merged.WorkingDirectory = firstNonEmpty(entry.WorkingDirectory, defaults.WorkingDirectory)
	merged.Keystore = firstNonEmpty(entry.Keystore, defaults.Keystore)
	merged.StorePassword = firstNonEmpty(entry.StorePassword, defaults.StorePassword)
	merged.StoreType = firstNonEmpty(entry.StoreType, defaults.StoreType)
	merged.ProviderName = firstNonEmpty(entry.ProviderName, defaults.ProviderName)
	merged.ProviderClass = firstNonEmpty(entry.ProviderClass, defaults.ProviderClass)
	merged.ProviderArgument = firstNonEmpty(entry.ProviderArgument, defaults.ProviderArgument)
	merged.ProviderPath = firstNonEmpty(entry.ProviderPath, defaults.ProviderPath)
	if merged.Verbose == nil {
		merged.Verbose = defaults.Verbose
	}
	if merged.FailOnError == nil {
		merged.FailOnError = defaults.FailOnError
	}
	return merged
}

// Request converts the entry into the keytool request its command names.
// A relative working directory is resolved against baseDirectory.
func (entry Entry) Request(baseDirectory string) (keytool.Request, error) {
	subcommand, err := ParseSubcommand(entry.Command)
	if err != nil {
		return nil, err
	}
	options := keytool.Options{
		WorkingDirectory: resolveDirectory(entry.WorkingDirectory, baseDirectory),
		Verbose:          entry.Verbose != nil && *entry.Verbose,
		Arguments:        append([]string(nil), entry.Arguments...),
	}
	keystoreOptions := keytool.KeystoreOptions{
		Keystore:         entry.Keystore,
		StorePassword:    entry.StorePassword,
		StoreType:        entry.StoreType,
		ProviderName:     entry.ProviderName,
		ProviderClass:    entry.ProviderClass,
		ProviderArgument: entry.ProviderArgument,
		ProviderPath:     entry.ProviderPath,
	}
	extensions := append([]string(nil), entry.Extensions...)

	switch subcommand {
	case keytool.SubcommandChangeAlias:
		return keytool.ChangeAliasRequest{
			Options: options, KeystoreOptions: keystoreOptions, Protected: entry.Protected,
			Alias: entry.Alias, DestinationAlias: entry.DestinationAlias, KeyPassword: entry.KeyPassword,
		}, nil
	case keytool.SubcommandChangeKeyPassword:
		return keytool.ChangeKeyPasswordRequest{
			Options: options, KeystoreOptions: keystoreOptions, Protected: entry.Protected,
			Alias: entry.Alias, KeyPassword: entry.KeyPassword, NewPassword: entry.NewPassword,
		}, nil
	case keytool.SubcommandChangeStorePassword:
		return keytool.ChangeStorePasswordRequest{
			Options: options, KeystoreOptions: keystoreOptions, NewPassword: entry.NewPassword,
		}, nil
	case keytool.SubcommandDelete:
		return keytool.DeleteRequest{
			Options: options, KeystoreOptions: keystoreOptions, Protected: entry.Protected, Alias: entry.Alias,
		}, nil
	case keytool.SubcommandExportCertificate:
		return keytool.ExportCertificateRequest{
			Options: options, KeystoreOptions: keystoreOptions, Protected: entry.Protected,
			Alias: entry.Alias, File: entry.File, RFC: entry.RFC,
		}, nil
	case keytool.SubcommandGenerateCertificate:
		return keytool.GenerateCertificateRequest{
			Options: options, KeystoreOptions: keystoreOptions, Protected: entry.Protected,
			Alias: entry.Alias, RFC: entry.RFC, InputFile: entry.InputFile, OutputFile: entry.OutputFile,
			SignatureAlgorithm: entry.SignatureAlgorithm, DistinguishedName: entry.DistinguishedName,
			StartDate: entry.StartDate, Extensions: extensions, Validity: entry.Validity, KeyPassword: entry.KeyPassword,
		}, nil
	case keytool.SubcommandGenerateCSR:
		return keytool.GenerateCSRRequest{
			Options: options, KeystoreOptions: keystoreOptions, Protected: entry.Protected,
			Alias: entry.Alias, SignatureAlgorithm: entry.SignatureAlgorithm, File: entry.File,
			KeyPassword: entry.KeyPassword, DistinguishedName: entry.DistinguishedName, Extensions: extensions,
		}, nil
	case keytool.SubcommandGenerateKeyPair:
		return keytool.GenerateKeyPairRequest{
			Options: options, KeystoreOptions: keystoreOptions, Protected: entry.Protected,
			Alias: entry.Alias, KeyAlgorithm: entry.KeyAlgorithm, KeySize: entry.KeySize,
			SignatureAlgorithm: entry.SignatureAlgorithm, DistinguishedName: entry.DistinguishedName,
			StartDate: entry.StartDate, Extensions: extensions, Validity: entry.Validity, KeyPassword: entry.KeyPassword,
		}, nil
	case keytool.SubcommandGenerateSecretKey:
		return keytool.GenerateSecretKeyRequest{
			Options: options, KeystoreOptions: keystoreOptions, Protected: entry.Protected,
			Alias: entry.Alias, KeyPassword: entry.KeyPassword, KeyAlgorithm: entry.KeyAlgorithm, KeySize: entry.KeySize,
		}, nil
	case keytool.SubcommandImportCertificate:
		return keytool.ImportCertificateRequest{
			Options: options, KeystoreOptions: keystoreOptions, Protected: entry.Protected,
			Alias: entry.Alias, File: entry.File, KeyPassword: entry.KeyPassword,
			NoPrompt: entry.NoPrompt, TrustCACertificates: entry.TrustCACertificates,
		}, nil
	case keytool.SubcommandImportKeystore:
		return keytool.ImportKeystoreRequest{
			Options:                  options,
			SourceKeystore:           entry.SourceKeystore,
			DestinationKeystore:      firstNonEmpty(entry.DestinationKeystore, entry.Keystore),
			SourceStoreType:          entry.SourceStoreType,
			DestinationStoreType:     firstNonEmpty(entry.DestinationStoreType, entry.StoreType),
			SourceStorePassword:      entry.SourceStorePassword,
			DestinationStorePassword: firstNonEmpty(entry.DestinationStorePassword, entry.StorePassword),
			SourceProtected:          entry.SourceProtected,
			SourceProviderName:       entry.SourceProviderName,
			DestinationProviderName:  entry.DestinationProviderName,
			SourceAlias:              entry.SourceAlias,
			DestinationAlias:         entry.DestinationAlias,
			SourceKeyPassword:        entry.SourceKeyPassword,
			DestinationKeyPassword:   entry.DestinationKeyPassword,
			NoPrompt:                 entry.NoPrompt,
			ProviderClass:            entry.ProviderClass,
			ProviderArgument:         entry.ProviderArgument,
			ProviderPath:             entry.ProviderPath,
		}, nil
	case keytool.SubcommandList:
		return keytool.ListRequest{
			Options: options, KeystoreOptions: keystoreOptions, Protected: entry.Protected,
			Alias: entry.Alias, RFC: entry.RFC,
		}, nil
	case keytool.SubcommandPrintCertificate:
		return keytool.PrintCertificateRequest{
			Options: options, File: entry.File, SSLServer: entry.SSLServer, JarFile: entry.JarFile, RFC: entry.RFC,
		}, nil
	case keytool.SubcommandPrintCSR:
		return keytool.PrintCSRRequest{Options: options, File: entry.File}, nil
	case keytool.SubcommandPrintCRL:
		return keytool.PrintCRLRequest{Options: options, File: entry.File}, nil
	}
	return nil, fmt.Errorf("unsupported keytool command %q", entry.Command)
}

func resolveDirectory(directory string, baseDirectory string) string {
	trimmed := strings.TrimSpace(directory)
	if trimmed == "" {
		return baseDirectory
	}
	if filepath.IsAbs(trimmed) || baseDirectory == "" {
		return trimmed
	}
	return filepath.Join(baseDirectory, trimmed)
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
