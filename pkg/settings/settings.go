package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/limaJavier/touist/pkg/errors"
	"github.com/limaJavier/touist/pkg/sat"
	"github.com/limaJavier/touist/pkg/solve"
	"github.com/mitchellh/mapstructure"
	"github.com/pelletier/go-toml/v2"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

const EnvConfigPath = "TOUIST_CONFIG"

// Keys accepted by Set.
const (
	KeyDefaultDirectory = "default_directory"
	KeySolver           = "solver"
	KeyBackend          = "backend"
	KeyLogic            = "logic"
	KeySolverPathPrefix = "solver_paths."
)

// FileFormat is the encoding of a settings file, chosen by its extension.
type FileFormat string

const (
	YAML FileFormat = "yaml"
	JSON FileFormat = "json"
	TOML FileFormat = "toml"
)

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

type Settings struct {
	DefaultDirectory string            `yaml:"default_directory" json:"default_directory" toml:"default_directory"`
	Solver           string            `yaml:"solver" json:"solver" toml:"solver"`
	Backend          string            `yaml:"backend" json:"backend" toml:"backend"`
	Logic            string            `yaml:"logic,omitempty" json:"logic,omitempty" toml:"logic,omitempty"`
	SolverPaths      map[string]string `yaml:"solver_paths,omitempty" json:"solver_paths,omitempty" toml:"solver_paths,omitempty"`
}

func Default() *Settings {
	home, _ := os.UserHomeDir()
	return &Settings{
		DefaultDirectory: home,
		Solver:           solve.SAT.Name(),
		Backend:          solve.DefaultBackend,
		SolverPaths:      map[string]string{},
	}
}

// DefaultPath returns $TOUIST_CONFIG, else the XDG settings file.
func DefaultPath() string {
	if path := os.Getenv(EnvConfigPath); path != "" {
		return path
	}
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "touist", "settings.yml")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "touist", "settings.yml")
	}
	return "settings.yml"
}

// Load reads the settings file at path. A missing file yields the defaults.
// Values may reference environment variables as ${VAR} or ${VAR:-default}.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to read settings file").
			WithDetail("path", path)
	}
	settings, err := LoadFromBytes(data, FormatOf(path))
	if err != nil {
		return nil, err
	}
	return settings, nil
}

// LoadFromBytes decodes settings over the defaults and validates them.
func LoadFromBytes(data []byte, format FileFormat) (*Settings, error) {
	expanded := []byte(expandEnvVars(string(data)))

	raw := map[string]any{}
	var err error
	switch format {
	case JSON:
		err = json.Unmarshal(expanded, &raw)
	case TOML:
		err = toml.Unmarshal(expanded, &raw)
	default:
		err = yaml.Unmarshal(expanded, &raw)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse settings")
	}

	settings := Default()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           settings,
		TagName:          "yaml",
		ErrorUnused:      true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to create settings decoder")
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to decode settings")
	}
	if settings.SolverPaths == nil {
		settings.SolverPaths = map[string]string{}
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// Save writes the settings to path in the format its extension names.
func (s *Settings) Save(path string) error {
	if err := s.Validate(); err != nil {
		return err
	}

	var data []byte
	var err error
	switch FormatOf(path) {
	case JSON:
		data, err = json.MarshalIndent(s, "", "  ")
	case TOML:
		data, err = toml.Marshal(s)
	default:
		data, err = yaml.Marshal(s)
	}
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to encode settings")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to create settings directory").
			WithDetail("path", path)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to write settings file").
			WithDetail("path", path)
	}
	return nil
}

func (s *Settings) Validate() error {
	solver, err := solve.ParseSolver(s.Solver)
	if err != nil {
		return errors.ConfigInvalid(fmt.Sprintf("unknown solver %q", s.Solver))
	}

	if solver == solve.SMT {
		if _, err := solve.ParseLogic(s.Logic); err != nil {
			return errors.ConfigInvalid(fmt.Sprintf("unknown logic %q", s.Logic)).
				WithDetail("logics", solve.Logics())
		}
	} else {
		if s.Logic != "" {
			return errors.ConfigInvalid("logic is only accepted by the smt solver")
		}
		if !solve.IsBackend(s.Backend) {
			return errors.ConfigInvalid(fmt.Sprintf("unknown backend %q", s.Backend)).
				WithDetail("backends", solve.Backends())
		}
	}

	for name := range s.SolverPaths {
		if !slices.Contains(sat.BinarySolvers(), name) {
			return errors.ConfigInvalid(fmt.Sprintf("solver path given for unknown backend %q", name))
		}
	}
	return nil
}

// Set updates one key and validates the result. On failure the settings are
// left unchanged.
func (s *Settings) Set(key, value string) error {
	updated := *s
	updated.SolverPaths = lo.Assign(s.SolverPaths)

	switch {
	case key == KeyDefaultDirectory:
		return s.SetDefaultDirectory(value)
	case key == KeySolver:
		updated.Solver = strings.ToLower(value)
		if updated.Solver == solve.SMT.Name() && updated.Logic == "" {
			updated.Logic = string(solve.QF_LRA)
		} else if updated.Solver == solve.SAT.Name() {
			updated.Logic = ""
		}
	case key == KeyBackend:
		updated.Backend = value
	case key == KeyLogic:
		updated.Logic = strings.ToUpper(value)
	case strings.HasPrefix(key, KeySolverPathPrefix):
		name := strings.TrimPrefix(key, KeySolverPathPrefix)
		if value == "" {
			delete(updated.SolverPaths, name)
		} else {
			updated.SolverPaths[name] = value
		}
	default:
		return errors.ConfigInvalid(fmt.Sprintf("unknown setting %q", key))
	}

	if err := updated.Validate(); err != nil {
		return err
	}
	*s = updated
	return nil
}

// SetDefaultDirectory changes the directory files are opened from. The
// directory must exist.
func (s *Settings) SetDefaultDirectory(directory string) error {
	info, err := os.Stat(directory)
	if err != nil || !info.IsDir() {
		return errors.ConfigInvalid(fmt.Sprintf("%s is not a directory", directory)).
			WithDetail("path", directory)
	}
	absolute, err := filepath.Abs(directory)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to resolve directory")
	}
	s.DefaultDirectory = absolute
	return nil
}

// SolveOptions turns the settings into session options.
func (s *Settings) SolveOptions() (solve.Options, error) {
	if err := s.Validate(); err != nil {
		return solve.Options{}, err
	}
	solver, _ := solve.ParseSolver(s.Solver)
	options := solve.Options{
		Solver:  solver,
		Backend: s.Backend,
		Paths:   lo.Assign(s.SolverPaths),
	}
	if solver == solve.SMT {
		options.Logic, _ = solve.ParseLogic(s.Logic)
	}
	return options, nil
}

// FormatOf picks the format of a settings file: .json and .toml files are
// read as such, anything else as YAML.
func FormatOf(path string) FileFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSON
	case ".toml":
		return TOML
	default:
		return YAML
	}
}

// expandEnvVars replaces ${VAR} with environment variable values
func expandEnvVars(content string) string {
	return envVarRegex.ReplaceAllStringFunc(content, func(match string) string {
		varName := envVarRegex.FindStringSubmatch(match)[1]

		parts := strings.SplitN(varName, ":-", 2)
		varName = parts[0]
		defaultValue := ""
		if len(parts) > 1 {
			defaultValue = parts[1]
		}

		if value := os.Getenv(varName); value != "" {
			return value
		}
		return defaultValue
	})
}
