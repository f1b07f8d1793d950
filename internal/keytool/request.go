package keytool

import "strings"

// Subcommand names a keytool mode, without the leading dash.
type Subcommand string

const (
	SubcommandChangeAlias         Subcommand = "changealias"
	SubcommandChangeKeyPassword   Subcommand = "keypasswd"
	SubcommandChangeStorePassword Subcommand = "storepasswd"
	SubcommandDelete              Subcommand = "delete"
	SubcommandExportCertificate   Subcommand = "exportcert"
	SubcommandGenerateCertificate Subcommand = "gencert"
	SubcommandGenerateCSR         Subcommand = "certreq"
	SubcommandGenerateKeyPair     Subcommand = "genkeypair"
	SubcommandGenerateSecretKey   Subcommand = "genseckey"
	SubcommandImportCertificate   Subcommand = "importcert"
	SubcommandImportKeystore      Subcommand = "importkeystore"
	SubcommandList                Subcommand = "list"
	SubcommandPrintCertificate    Subcommand = "printcert"
	SubcommandPrintCSR            Subcommand = "printcertreq"
	SubcommandPrintCRL            Subcommand = "printcrl"
)

// Subcommands lists every supported subcommand in keytool's documentation order.
var Subcommands = []Subcommand{
	SubcommandChangeAlias,
	SubcommandChangeKeyPassword,
	SubcommandChangeStorePassword,
	SubcommandDelete,
	SubcommandExportCertificate,
	SubcommandGenerateCertificate,
	SubcommandGenerateCSR,
	SubcommandGenerateKeyPair,
	SubcommandGenerateSecretKey,
	SubcommandImportCertificate,
	SubcommandImportKeystore,
	SubcommandList,
	SubcommandPrintCertificate,
	SubcommandPrintCSR,
	SubcommandPrintCRL,
}

// Flag returns the token that selects the subcommand on the keytool command line.
func (subcommand Subcommand) Flag() string {
	return "-" + string(subcommand)
}

// Request describes the parameters of a single keytool invocation.
//
// The set of implementations is closed: every request type renders its own
// arguments, so a new subcommand cannot be added without its rendering rule.
type Request interface {
	Subcommand() Subcommand
	CommonOptions() Options
	appendArguments(arguments *argumentList)
}

// Options holds the attributes shared by every request.
type Options struct {
	// WorkingDirectory is the directory keytool runs in. It is not rendered as a token.
	WorkingDirectory string
	Verbose          bool
	// Arguments are appended verbatim after all other tokens.
	Arguments []string
}

// CommonOptions returns the shared request attributes.
func (options Options) CommonOptions() Options {
	return options
}

// KeystoreOptions identifies the keystore a request operates on.
type KeystoreOptions struct {
	Keystore         string
	StorePassword    string
	StoreType        string
	ProviderName     string
	ProviderClass    string
	ProviderArgument string
	ProviderPath     string
}

// ChangeAliasRequest renames a keystore entry.
type ChangeAliasRequest struct {
	Options
	KeystoreOptions
	Protected        bool
	Alias            string
	DestinationAlias string
	KeyPassword      string
}

// ChangeKeyPasswordRequest changes the password of a private key entry.
type ChangeKeyPasswordRequest struct {
	Options
	KeystoreOptions
	Protected   bool
	Alias       string
	KeyPassword string
	NewPassword string
}

// ChangeStorePasswordRequest changes the keystore integrity password.
type ChangeStorePasswordRequest struct {
	Options
	KeystoreOptions
	NewPassword string
}

// DeleteRequest removes an entry from a keystore.
type DeleteRequest struct {
	Options
	KeystoreOptions
	Protected bool
	Alias     string
}

// ExportCertificateRequest writes the certificate of an entry to a file.
type ExportCertificateRequest struct {
	Options
	KeystoreOptions
	Protected bool
	Alias     string
	File      string
	RFC       bool
}

// GenerateCertificateRequest issues a certificate for a certificate request.
type GenerateCertificateRequest struct {
	Options
	KeystoreOptions
	Protected          bool
	Alias              string
	RFC                bool
	InputFile          string
	OutputFile         string
	SignatureAlgorithm string
	DistinguishedName  string
	StartDate          string
	Extensions         []string
	Validity           string
	KeyPassword        string
}

// GenerateCSRRequest produces a PKCS#10 certificate request for an entry.
type GenerateCSRRequest struct {
	Options
	KeystoreOptions
	Protected          bool
	Alias              string
	SignatureAlgorithm string
	File               string
	KeyPassword        string
	DistinguishedName  string
	Extensions         []string
}

// GenerateKeyPairRequest creates a key pair wrapped in a self-signed certificate.
type GenerateKeyPairRequest struct {
	Options
	KeystoreOptions
	Protected          bool
	Alias              string
	KeyAlgorithm       string
	KeySize            string
	SignatureAlgorithm string
	DistinguishedName  string
	StartDate          string
	Extensions         []string
	Validity           string
	KeyPassword        string
}

// GenerateSecretKeyRequest creates a secret key entry.
type GenerateSecretKeyRequest struct {
	Options
	KeystoreOptions
	Protected    bool
	Alias        string
	KeyPassword  string
	KeyAlgorithm string
	KeySize      string
}

// ImportCertificateRequest imports a certificate or certificate chain.
type ImportCertificateRequest struct {
	Options
	KeystoreOptions
	Protected           bool
	Alias               string
	File                string
	KeyPassword         string
	NoPrompt            bool
	TrustCACertificates bool
}

// ImportKeystoreRequest copies entries from a source keystore into a destination keystore.
type ImportKeystoreRequest struct {
	Options
	SourceKeystore           string
	DestinationKeystore      string
	SourceStoreType          string
	DestinationStoreType     string
	SourceStorePassword      string
	DestinationStorePassword string
	SourceProtected          bool
	SourceProviderName       string
	DestinationProviderName  string
	SourceAlias              string
	DestinationAlias         string
	SourceKeyPassword        string
	DestinationKeyPassword   string
	NoPrompt                 bool
	ProviderClass            string
	ProviderArgument         string
	ProviderPath             string
}

// ListRequest prints keystore entries.
type ListRequest struct {
	Options
	KeystoreOptions
	Protected bool
	Alias     string
	RFC       bool
}

// PrintCertificateRequest prints a certificate read from a file, a TLS server or a signed JAR.
type PrintCertificateRequest struct {
	Options
	File      string
	SSLServer string
	JarFile   string
	RFC       bool
}

// PrintCSRRequest prints a certificate request file.
type PrintCSRRequest struct {
	Options
	File string
}

// PrintCRLRequest prints a certificate revocation list file.
type PrintCRLRequest struct {
	Options
	File string
}

func (ChangeAliasRequest) Subcommand() Subcommand         { return SubcommandChangeAlias }
func (ChangeKeyPasswordRequest) Subcommand() Subcommand   { return SubcommandChangeKeyPassword }
func (ChangeStorePasswordRequest) Subcommand() Subcommand { return SubcommandChangeStorePassword }
func (DeleteRequest) Subcommand() Subcommand              { return SubcommandDelete }
func (ExportCertificateRequest) Subcommand() Subcommand   { return SubcommandExportCertificate }
func (GenerateCertificateRequest) Subcommand() Subcommand { return SubcommandGenerateCertificate }
func (GenerateCSRRequest) Subcommand() Subcommand         { return SubcommandGenerateCSR }
func (GenerateKeyPairRequest) Subcommand() Subcommand     { return SubcommandGenerateKeyPair }
func (GenerateSecretKeyRequest) Subcommand() Subcommand   { return SubcommandGenerateSecretKey }
func (ImportCertificateRequest) Subcommand() Subcommand   { return SubcommandImportCertificate }
func (ImportKeystoreRequest) Subcommand() Subcommand      { return SubcommandImportKeystore }
func (ListRequest) Subcommand() Subcommand                { return SubcommandList }
func (PrintCertificateRequest) Subcommand() Subcommand    { return SubcommandPrintCertificate }
func (PrintCSRRequest) Subcommand() Subcommand            { return SubcommandPrintCSR }
func (PrintCRLRequest) Subcommand() Subcommand            { return SubcommandPrintCRL }

// ExistenceProbe returns a list request that succeeds only when the entry a
// request would create already exists. Requests that do not create a named
// entry report false. Extra arguments that carry JVM options or the store
// password (-J..., -storepass, -storepass:env, -storepass:file) are passed on;
// other extra arguments belong to the creating subcommand and are dropped.
func ExistenceProbe(request Request) (ListRequest, bool) {
	var keystoreOptions KeystoreOptions
	var alias string
	var protected bool
	switch typed := request.(type) {
	case GenerateKeyPairRequest:
		keystoreOptions, alias, protected = typed.KeystoreOptions, typed.Alias, typed.Protected
	case GenerateSecretKeyRequest:
		keystoreOptions, alias, protected = typed.KeystoreOptions, typed.Alias, typed.Protected
	case ImportCertificateRequest:
		keystoreOptions, alias, protected = typed.KeystoreOptions, typed.Alias, typed.Protected
	default:
		return ListRequest{}, false
	}
	if alias == "" || keystoreOptions.Keystore == "" {
		return ListRequest{}, false
	}
	return ListRequest{
		Options: Options{
			WorkingDirectory: request.CommonOptions().WorkingDirectory,
			Arguments:        probeArguments(request.CommonOptions().Arguments),
		},
		KeystoreOptions: keystoreOptions,
		Protected:       protected,
		Alias:           alias,
	}, true
}

var probeValueFlags = map[string]struct{}{
	flagStorePassword:           {},
	flagStorePassword + ":env":  {},
	flagStorePassword + ":file": {},
}

func probeArguments(arguments []string) []string {
	var kept []string
	for index := 0; index < len(arguments); index++ {
		argument := arguments[index]
		if strings.HasPrefix(argument, "-J") {
			kept = append(kept, argument)
			continue
		}
		if _, takesValue := probeValueFlags[argument]; takesValue {
			kept = append(kept, argument)
			if index+1 < len(arguments) {
				index++
				kept = append(kept, arguments[index])
			}
		}
	}
	return kept
}
