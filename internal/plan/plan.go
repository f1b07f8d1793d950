package plan

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/tyemirov/ktool/internal/keytool"
)

// Format selects the plan file syntax.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Plan is an ordered list of keytool requests sharing a set of defaults.
type Plan struct {
	Defaults Entry   `yaml:"defaults" toml:"defaults"`
	Entries  []Entry `yaml:"requests" toml:"requests"`
	// BaseDirectory anchors relative working directories. Load sets it to the plan file directory.
	BaseDirectory string `yaml:"-" toml:"-"`
}

// Step is a plan entry merged with the defaults and converted into a request.
type Step struct {
	Name         string
	Request      keytool.Request
	Input        string
	Skip         bool
	SkipIfExists bool
	FailOnError  bool
}

// FormatForPath picks the plan format from a file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unsupported plan file extension %q", filepath.Ext(path))
	}
}

// Load reads and decodes the plan file at path.
func Load(path string) (Plan, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return Plan{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Plan{}, fmt.Errorf("read plan: %w", err)
	}
	decoded, err := Decode(data, format)
	if err != nil {
		return Plan{}, fmt.Errorf("decode plan %s: %w", path, err)
	}
	absolutePath, err := filepath.Abs(path)
	if err != nil {
		return Plan{}, fmt.Errorf("resolve plan path: %w", err)
	}
	decoded.BaseDirectory = filepath.Dir(absolutePath)
	return decoded, nil
}

// Decode parses plan data. Unknown keys are rejected.
func Decode(data []byte, format Format) (Plan, error) {
	var decoded Plan
	switch format {
	case FormatYAML:
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(&decoded); err != nil && !errors.Is(err, io.EOF) {
			return Plan{}, err
		}
	case FormatTOML:
		decoder := toml.NewDecoder(bytes.NewReader(data))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&decoded); err != nil {
			return Plan{}, err
		}
	default:
		return Plan{}, fmt.Errorf("unsupported plan format %q", format)
	}
	if len(decoded.Entries) == 0 {
		return Plan{}, errors.New("plan declares no requests")
	}
	return decoded, nil
}

// Steps merges every entry with the plan defaults and builds its request.
// Errors from all entries are reported together.
func (plan Plan) Steps() ([]Step, error) {
	steps := make([]Step, 0, len(plan.Entries))
	var entryErrors []error
	for index, entry := range plan.Entries {
		merged := entry.withDefaults(plan.Defaults)
		name := strings.TrimSpace(merged.Name)
		if name == "" {
			name = fmt.Sprintf("#%d %s", index+1, strings.TrimSpace(merged.Command))
		}
		request, err := merged.Request(plan.BaseDirectory)
		if err != nil {
			entryErrors = append(entryErrors, fmt.Errorf("request %s: %w", name, err))
			continue
		}
		steps = append(steps, Step{
			Name:         name,
			Request:      request,
			Input:        merged.Stdin,
			Skip:         merged.Skip,
			SkipIfExists: merged.SkipIfExists,
			FailOnError:  merged.FailOnError == nil || *merged.FailOnError,
		})
	}
	if len(entryErrors) > 0 {
		return nil, errors.Join(entryErrors...)
	}
	return steps, nil
}
