package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/matzehuels/pkgcheck/pkg/buildinfo"
	"github.com/matzehuels/pkgcheck/pkg/config"
	"github.com/matzehuels/pkgcheck/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "pkgcheck"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	// Fs is where configuration, assets and artifacts are read and written.
	Fs afero.Fs

	viper      *viper.Viper
	configFile string
	verbose    bool
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger on the OS
// filesystem.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Fs:     afero.NewOsFs(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	c.viper = config.New(c.Fs)

	root := &cobra.Command{
		Use:   appName,
		Short: "pkgcheck finds problems in an IPS package repository",
		Long: `pkgcheck analyzes the published catalogs and the oi-userland component tree of an
IPS package repository and reports missing dependencies, dependency cycles, stale
references to renamed or obsolete packages, and components out of step with what
is actually published.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}
	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	pf.StringVar(&c.configFile, "config", "", "config file (default: ./"+config.FileName+" or $XDG_CONFIG_HOME/pkgcheck/"+config.FileName+")")
	pf.String("data-dir", "", "directory holding data.bin and problems.bin")
	pf.Int("workers", 0, "parser workers (default: one per CPU)")
	_ = c.viper.BindPFlag("data_dir", pf.Lookup("data-dir"))
	_ = c.viper.BindPFlag("workers", pf.Lookup("workers"))

	// Register all subcommands
	root.AddCommand(c.dataCommand())
	root.AddCommand(c.printProblemsCommand())
	root.AddCommand(c.checkFMRICommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.configCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// config loads the configuration once per invocation.
func (c *CLI) config() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.Load(c.viper, c.configFile)
	if err != nil {
		return nil, err
	}
	c.cfg = cfg
	if used := c.viper.ConfigFileUsed(); used != "" {
		c.Logger.Debug("loaded config", "file", used)
	}
	return cfg, nil
}

// newRunner creates a pipeline runner from the loaded configuration.
func (c *CLI) newRunner(logger *log.Logger) (*pipeline.Runner, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	phases, err := cfg.PhaseList()
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(pipeline.Options{
		Fs:            c.Fs,
		Logger:        logger,
		DataDir:       cfg.DataDir,
		Catalogs:      cfg.CatalogAssets(),
		ComponentsDir: cfg.ComponentsDir(),
		Workers:       cfg.Workers,
		Variants:      cfg.Variants,
		Phases:        phases,
	}), nil
}
