package keytool

const (
	flagVerbose                  = "-v"
	flagKeystore                 = "-keystore"
	flagStorePassword            = "-storepass"
	flagStoreType                = "-storetype"
	flagProviderName             = "-providername"
	flagProviderClass            = "-providerclass"
	flagProviderArgument         = "-providerarg"
	flagProviderPath             = "-providerpath"
	flagProtected                = "-protected"
	flagAlias                    = "-alias"
	flagDestinationAlias         = "-destalias"
	flagKeyPassword              = "-keypass"
	flagNewPassword              = "-new"
	flagFile                     = "-file"
	flagRFC                      = "-rfc"
	flagInputFile                = "-infile"
	flagOutputFile               = "-outfile"
	flagSignatureAlgorithm       = "-sigalg"
	flagDistinguishedName        = "-dname"
	flagStartDate                = "-startdate"
	flagExtension                = "-ext"
	flagValidity                 = "-validity"
	flagKeyAlgorithm             = "-keyalg"
	flagKeySize                  = "-keysize"
	flagNoPrompt                 = "-noprompt"
	flagTrustCACertificates      = "-trustcacerts"
	flagSourceKeystore           = "-srckeystore"
	flagDestinationKeystore      = "-destkeystore"
	flagSourceStoreType          = "-srcstoretype"
	flagDestinationStoreType     = "-deststoretype"
	flagSourceStorePassword      = "-srcstorepass"
	flagDestinationStorePassword = "-deststorepass"
	flagSourceProtected          = "-srcprotected"
	flagSourceProviderName       = "-srcprovidername"
	flagDestinationProviderName  = "-destprovidername"
	flagSourceAlias              = "-srcalias"
	flagSourceKeyPassword        = "-srckeypass"
	flagDestinationKeyPassword   = "-destkeypass"
	flagSSLServer                = "-sslserver"
	flagJarFile                  = "-jarfile"

	protectedValue = "true"
)

// BuildArguments renders a request as keytool command-line tokens: the
// subcommand flag, -v when verbose, the request fields in their fixed order,
// and finally the caller-supplied extra arguments.
func BuildArguments(request Request) []string {
	common := request.CommonOptions()
	arguments := &argumentList{tokens: []string{request.Subcommand().Flag()}}
	arguments.flag(flagVerbose, common.Verbose)
	request.appendArguments(arguments)
	arguments.tokens = append(arguments.tokens, common.Arguments...)
	return arguments.tokens
}

type argumentList struct {
	tokens []string
}

func (arguments *argumentList) flag(name string, enabled bool) {
	if enabled {
		arguments.tokens = append(arguments.tokens, name)
	}
}

func (arguments *argumentList) value(name string, value string) {
	if value != "" {
		arguments.tokens = append(arguments.tokens, name, value)
	}
}

func (arguments *argumentList) values(name string, values []string) {
	for _, value := range values {
		arguments.value(name, value)
	}
}

// protected renders -protected with an explicit value, unlike every other boolean flag.
func (arguments *argumentList) protected(enabled bool) {
	if enabled {
		arguments.value(flagProtected, protectedValue)
	}
}

func (arguments *argumentList) keystore(options KeystoreOptions) {
	arguments.value(flagKeystore, options.Keystore)
	arguments.value(flagStorePassword, options.StorePassword)
	arguments.value(flagStoreType, options.StoreType)
	arguments.value(flagProviderName, options.ProviderName)
	arguments.value(flagProviderClass, options.ProviderClass)
	arguments.value(flagProviderArgument, options.ProviderArgument)
	arguments.value(flagProviderPath, options.ProviderPath)
}

func (request ChangeAliasRequest) appendArguments(arguments *argumentList) {
	arguments.keystore(request.KeystoreOptions)
	arguments.protected(request.Protected)
	arguments.value(flagAlias, request.Alias)
	arguments.value(flagDestinationAlias, request.DestinationAlias)
	arguments.value(flagKeyPassword, request.KeyPassword)
}

func (request ChangeKeyPasswordRequest) appendArguments(arguments *argumentList) {
	arguments.keystore(request.KeystoreOptions)
	arguments.protected(request.Protected)
	arguments.value(flagAlias, request.Alias)
	arguments.value(flagKeyPassword, request.KeyPassword)
	arguments.value(flagNewPassword, request.NewPassword)
}

func (request ChangeStorePasswordRequest) appendArguments(arguments *argumentList) {
	arguments.keystore(request.KeystoreOptions)
	arguments.value(flagNewPassword, request.NewPassword)
}

func (request DeleteRequest) appendArguments(arguments *argumentList) {
	arguments.keystore(request.KeystoreOptions)
	arguments.protected(request.Protected)
	arguments.value(flagAlias, request.Alias)
}

func (request ExportCertificateRequest) appendArguments(arguments *argumentList) {
	arguments.keystore(request.KeystoreOptions)
	arguments.protected(request.Protected)
	arguments.value(flagAlias, request.Alias)
	arguments.value(flagFile, request.File)
	arguments.flag(flagRFC, request.RFC)
}

func (request GenerateCertificateRequest) appendArguments(arguments *argumentList) {
	arguments.keystore(request.KeystoreOptions)
	arguments.protected(request.Protected)
	arguments.value(flagAlias, request.Alias)
	arguments.flag(flagRFC, request.RFC)
	arguments.value(flagInputFile, request.InputFile)
	arguments.value(flagOutputFile, request.OutputFile)
	arguments.value(flagSignatureAlgorithm, request.SignatureAlgorithm)
	arguments.value(flagDistinguishedName, request.DistinguishedName)
	arguments.value(flagStartDate, request.StartDate)
	arguments.values(flagExtension, request.Extensions)
	arguments.value(flagValidity, request.Validity)
	arguments.value(flagKeyPassword, request.KeyPassword)
}

func (request GenerateCSRRequest) appendArguments(arguments *argumentList) {
	arguments.keystore(request.KeystoreOptions)
	arguments.protected(request.Protected)
	arguments.value(flagAlias, request.Alias)
	arguments.value(flagSignatureAlgorithm, request.SignatureAlgorithm)
	arguments.value(flagFile, request.File)
	arguments.value(flagKeyPassword, request.KeyPassword)
	arguments.value(flagDistinguishedName, request.DistinguishedName)
	arguments.values(flagExtension, request.Extensions)
}

func (request GenerateKeyPairRequest) appendArguments(arguments *argumentList) {
	arguments.keystore(request.KeystoreOptions)
	arguments.protected(request.Protected)
	arguments.value(flagAlias, request.Alias)
	arguments.value(flagKeyAlgorithm, request.KeyAlgorithm)
	arguments.value(flagKeySize, request.KeySize)
	arguments.value(flagSignatureAlgorithm, request.SignatureAlgorithm)
	arguments.value(flagDistinguishedName, request.DistinguishedName)
	arguments.value(flagStartDate, request.StartDate)
	arguments.values(flagExtension, request.Extensions)
	arguments.value(flagValidity, request.Validity)
	arguments.value(flagKeyPassword, request.KeyPassword)
}

func (request GenerateSecretKeyRequest) appendArguments(arguments *argumentList) {
	arguments.keystore(request.KeystoreOptions)
	arguments.protected(request.Protected)
	arguments.value(flagAlias, request.Alias)
	arguments.value(flagKeyPassword, request.KeyPassword)
	arguments.value(flagKeyAlgorithm, request.KeyAlgorithm)
	arguments.value(flagKeySize, request.KeySize)
}

func (request ImportCertificateRequest) appendArguments(arguments *argumentList) {
	arguments.keystore(request.KeystoreOptions)
	arguments.protected(request.Protected)
	arguments.value(flagAlias, request.Alias)
	arguments.value(flagFile, request.File)
	arguments.value(flagKeyPassword, request.KeyPassword)
	arguments.flag(flagNoPrompt, request.NoPrompt)
	arguments.flag(flagTrustCACertificates, request.TrustCACertificates)
}

func (request ImportKeystoreRequest) appendArguments(arguments *argumentList) {
	arguments.value(flagSourceKeystore, request.SourceKeystore)
	arguments.value(flagDestinationKeystore, request.DestinationKeystore)
	arguments.value(flagSourceStoreType, request.SourceStoreType)
	arguments.value(flagDestinationStoreType, request.DestinationStoreType)
	arguments.value(flagSourceStorePassword, request.SourceStorePassword)
	arguments.value(flagDestinationStorePassword, request.DestinationStorePassword)
	arguments.flag(flagSourceProtected, request.SourceProtected)
	arguments.value(flagSourceProviderName, request.SourceProviderName)
	arguments.value(flagDestinationProviderName, request.DestinationProviderName)
	arguments.value(flagSourceAlias, request.SourceAlias)
	arguments.value(flagDestinationAlias, request.DestinationAlias)
	arguments.value(flagSourceKeyPassword, request.SourceKeyPassword)
	arguments.value(flagDestinationKeyPassword, request.DestinationKeyPassword)
	arguments.flag(flagNoPrompt, request.NoPrompt)
	arguments.value(flagProviderClass, request.ProviderClass)
	arguments.value(flagProviderArgument, request.ProviderArgument)
	arguments.value(flagProviderPath, request.ProviderPath)
}

func (request ListRequest) appendArguments(arguments *argumentList) {
	arguments.keystore(request.KeystoreOptions)
	arguments.protected(request.Protected)
	arguments.value(flagAlias, request.Alias)
	arguments.flag(flagRFC, request.RFC)
}

func (request PrintCertificateRequest) appendArguments(arguments *argumentList) {
	arguments.value(flagFile, request.File)
	arguments.value(flagSSLServer, request.SSLServer)
	arguments.value(flagJarFile, request.JarFile)
	arguments.flag(flagRFC, request.RFC)
}

func (request PrintCSRRequest) appendArguments(arguments *argumentList) {
	arguments.value(flagFile, request.File)
}

func (request PrintCRLRequest) appendArguments(arguments *argumentList) {
	arguments.value(flagFile, request.File)
}
