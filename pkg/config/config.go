// Package config loads pkgcheck configuration from a TOML file, environment
// variables and command-line flags.
//
// Precedence, highest first: flags bound with [viper.Viper.BindPFlag],
// PKGCHECK_* environment variables, the config file, then [Default]. The
// config file is pkgcheck.toml in the working directory or in
// $XDG_CONFIG_HOME/pkgcheck, unless a path is given explicitly.
//
// Relative asset paths are resolved against the data directory.
package config

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/matzehuels/pkgcheck/pkg/catalog"
	"github.com/matzehuels/pkgcheck/pkg/component"
	"github.com/matzehuels/pkgcheck/pkg/errors"
)

const (
	appName   = "pkgcheck"
	envPrefix = "PKGCHECK"
	// FileName is the config file name searched for without an explicit path.
	FileName = appName + ".toml"
)

// Config is the resolved configuration of one invocation.
type Config struct {
	// DataDir holds the persisted artifacts and, by default, the assets.
	DataDir string `mapstructure:"data_dir" toml:"data_dir"`
	// Workers bounds parser parallelism. Zero uses one worker per CPU.
	Workers int `mapstructure:"workers" toml:"workers"`
	// Variants selects variant values; empty keeps every tagged dependency.
	Variants map[string]string `mapstructure:"variants" toml:"variants"`
	// Phases lists the component dependency phases added to the graph.
	Phases []string `mapstructure:"phases" toml:"phases"`
	// MetricsFile, when set, receives a Prometheus textfile after data run.
	MetricsFile string `mapstructure:"metrics_file" toml:"metrics_file"`
	Assets      Assets `mapstructure:"assets" toml:"assets"`
}

// Assets locates the analysis inputs.
type Assets struct {
	Catalogs []catalog.Asset `mapstructure:"catalogs" toml:"catalogs"`
	// Components is the oi-userland components directory.
	Components string `mapstructure:"components" toml:"components"`
}

// Default returns the built-in configuration.
func Default() Config {
	var phases []string
	for _, p := range component.Phases {
		phases = append(phases, p.String())
	}
	return Config{
		DataDir:  DataDir(),
		Variants: map[string]string{},
		Phases:   phases,
		Assets: Assets{
			Catalogs: []catalog.Asset{
				{Path: "assets/catalog.dependency.C", Publisher: "openindiana.org"},
				{Path: "assets/catalog.encumbered.dependency.C", Publisher: "hipster-encumbered"},
			},
			Components: "assets/oi-userland/components",
		},
	}
}

// New returns a viper instance reading from fs with defaults and
// environment bindings installed. Callers bind flags to it before [Load].
func New(fs afero.Fs) *viper.Viper {
	v := viper.New()
	v.SetFs(fs)
	v.SetConfigType("toml")

	d := Default()
	v.SetDefault("data_dir", d.DataDir)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("variants", d.Variants)
	v.SetDefault("phases", d.Phases)
	v.SetDefault("metrics_file", d.MetricsFile)
	catalogs := make([]map[string]any, 0, len(d.Assets.Catalogs))
	for _, a := range d.Assets.Catalogs {
		catalogs = append(catalogs, map[string]any{"path": a.Path, "publisher": a.Publisher})
	}
	v.SetDefault("assets.catalogs", catalogs)
	v.SetDefault("assets.components", d.Assets.Components)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file into v and returns the validated result. An
// empty file searches the default locations, where a missing file is not
// an error; an explicit file must exist.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(strings.TrimSuffix(FileName, ".toml"))
		v.AddConfigPath(".")
		if dir := configDir(); dir != "" {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config")
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) validate() error {
	if c.DataDir == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "data_dir is required")
	}
	if c.Workers < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "workers must not be negative, got %d", c.Workers)
	}
	if _, err := c.PhaseList(); err != nil {
		return err
	}
	for i, a := range c.Assets.Catalogs {
		if a.Path == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "assets.catalogs[%d]: path is required", i)
		}
	}
	return nil
}

// PhaseList parses Phases.
func (c *Config) PhaseList() ([]component.Phase, error) {
	var out []component.Phase
	for _, name := range c.Phases {
		p, ok := component.ParsePhase(name)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown phase %q", name)
		}
		out = append(out, p)
	}
	return out, nil
}

// CatalogAssets returns the catalog assets with paths resolved against
// DataDir.
func (c *Config) CatalogAssets() []catalog.Asset {
	out := make([]catalog.Asset, len(c.Assets.Catalogs))
	for i, a := range c.Assets.Catalogs {
		out[i] = catalog.Asset{Path: c.resolve(a.Path), Publisher: a.Publisher}
	}
	return out
}

// ComponentsDir returns the components directory resolved against DataDir.
func (c *Config) ComponentsDir() string { return c.resolve(c.Assets.Components) }

func (c *Config) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.DataDir, path)
}

// Encode writes c as TOML.
func (c Config) Encode(w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(c); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode config")
	}
	return nil
}

// WriteDefault writes the default configuration to path, refusing to
// replace an existing file.
func WriteDefault(fs afero.Fs, path string) error {
	if exists, _ := afero.Exists(fs, path); exists {
		return errors.New(errors.ErrCodeInvalidConfig, "%s already exists", path)
	}
	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "create %s", filepath.Dir(path))
	}
	f, err := fs.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "create %s", path)
	}
	if err := Default().Encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// =============================================================================
// Paths
// =============================================================================

// DataDir returns the default data directory using the XDG standard
// (~/.local/share/pkgcheck/).
func DataDir() string {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "."+appName)
	}
	return filepath.Join(home, ".local", "share", appName)
}

// configDir returns $XDG_CONFIG_HOME/pkgcheck, or "" when no home exists.
func configDir() string {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName)
}

// DefaultFile returns where config init writes without an explicit path.
func DefaultFile() string {
	if dir := configDir(); dir != "" {
		return filepath.Join(dir, FileName)
	}
	return FileName
}
