package keytool

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

const (
	executableName        = "keytool"
	windowsExecutableName = "keytool.exe"
	javaHomeVariable      = "JAVA_HOME"
)

// FileSystem answers the file existence checks the Locator needs.
type FileSystem interface {
	FileExists(path string) (bool, error)
}

// OperatingSystemFileSystem checks files on the local disk.
type OperatingSystemFileSystem struct{}

// NewOperatingSystemFileSystem constructs an OperatingSystemFileSystem.
func NewOperatingSystemFileSystem() OperatingSystemFileSystem {
	return OperatingSystemFileSystem{}
}

// FileExists reports whether path names an existing regular file.
func (OperatingSystemFileSystem) FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}

// ExecutableResolver finds the keytool binary to run.
type ExecutableResolver interface {
	Resolve(explicitPath string, javaHome string) (string, error)
}

// Locator resolves keytool from an explicit path, a Java home, or the PATH, in that order.
type Locator struct {
	fileSystem      FileSystem
	lookPath        func(file string) (string, error)
	getenv          func(key string) string
	operatingSystem string
}

// NewLocator constructs a Locator bound to the running process environment.
func NewLocator() Locator {
	return NewLocatorWith(NewOperatingSystemFileSystem(), exec.LookPath, os.Getenv, runtime.GOOS)
}

// NewLocatorWith constructs a Locator from explicit collaborators.
func NewLocatorWith(fileSystem FileSystem, lookPath func(file string) (string, error), getenv func(key string) string, operatingSystem string) Locator {
	return Locator{
		fileSystem:      fileSystem,
		lookPath:        lookPath,
		getenv:          getenv,
		operatingSystem: operatingSystem,
	}
}

// Resolve returns the keytool executable path. javaHome falls back to the
// JAVA_HOME environment variable when empty.
func (locator Locator) Resolve(explicitPath string, javaHome string) (string, error) {
	trimmedExplicit := strings.TrimSpace(explicitPath)
	if trimmedExplicit != "" {
		return locator.resolveExplicit(trimmedExplicit)
	}

	attempted := []string{}
	homeDirectory := strings.TrimSpace(javaHome)
	if homeDirectory == "" {
		homeDirectory = strings.TrimSpace(locator.getenv(javaHomeVariable))
	}
	if homeDirectory != "" {
		candidate := filepath.Join(homeDirectory, "bin", locator.executableName())
		exists, err := locator.fileSystem.FileExists(candidate)
		if err != nil {
			return "", &ConfigurationError{Reason: fmt.Sprintf("check %s", candidate), Err: err}
		}
		if exists {
			return candidate, nil
		}
		attempted = append(attempted, candidate)
	}

	resolved, lookErr := locator.lookPath(locator.executableName())
	if lookErr == nil {
		return resolved, nil
	}
	attempted = append(attempted, "PATH")
	return "", &ConfigurationError{
		Reason: fmt.Sprintf("keytool not found (tried %s)", strings.Join(attempted, ", ")),
		Err:    lookErr,
	}
}

func (locator Locator) resolveExplicit(explicitPath string) (string, error) {
	if !strings.ContainsAny(explicitPath, `/\`) {
		resolved, err := locator.lookPath(explicitPath)
		if err != nil {
			return "", &ConfigurationError{Reason: fmt.Sprintf("keytool executable %s not found on PATH", explicitPath), Err: err}
		}
		return resolved, nil
	}
	exists, err := locator.fileSystem.FileExists(explicitPath)
	if err != nil {
		return "", &ConfigurationError{Reason: fmt.Sprintf("check %s", explicitPath), Err: err}
	}
	if !exists {
		return "", &ConfigurationError{Reason: fmt.Sprintf("keytool executable %s does not exist", explicitPath)}
	}
	return explicitPath, nil
}

func (locator Locator) executableName() string {
	if locator.operatingSystem == "windows" {
		return windowsExecutableName
	}
	return executableName
}
