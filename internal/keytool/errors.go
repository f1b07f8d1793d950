package keytool

import "fmt"

// ConfigurationError reports a problem detected before any process is started.
type ConfigurationError struct {
	Reason string
	Err    error
}

func (configurationError *ConfigurationError) Error() string {
	if configurationError.Err != nil {
		return fmt.Sprintf("keytool configuration: %s: %v", configurationError.Reason, configurationError.Err)
	}
	return fmt.Sprintf("keytool configuration: %s", configurationError.Reason)
}

func (configurationError *ConfigurationError) Unwrap() error {
	return configurationError.Err
}

// LaunchError reports that the keytool process could not be started.
type LaunchError struct {
	Executable       string
	WorkingDirectory string
	Err              error
}

func (launchError *LaunchError) Error() string {
	return fmt.Sprintf("launch %s in %s: %v", launchError.Executable, launchError.WorkingDirectory, launchError.Err)
}

func (launchError *LaunchError) Unwrap() error {
	return launchError.Err
}
