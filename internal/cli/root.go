package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/byakoron/internal/config"
	"github.com/roach88/byakoron/internal/engine"
	"github.com/roach88/byakoron/internal/logging"
	"github.com/roach88/byakoron/internal/rules"
	"github.com/roach88/byakoron/internal/translit"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string
	Rules      string // rule document path; overrides the config file

	// Populated by the root command before a subcommand runs. Subcommands
	// built on their own (as in tests) fall back to defaults.
	settings *config.Config
	logger   *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the byakoron CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:     "byakoron",
		Short:   "byakoron - phonetic Bengali transliteration",
		Long:    "Convert romanized Bengali to Bengali script and back with an Avro-style rule table.",
		Version: engine.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return opts.setup(cmd.ErrOrStderr())
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (TOML, YAML or JSON)")
	cmd.PersistentFlags().StringVar(&opts.Rules, "rules", "", "rule document (YAML or CUE); defaults to the built-in table")

	// Add subcommands
	cmd.AddCommand(NewConvertCommand(opts))
	cmd.AddCommand(NewTypeCommand(opts))
	cmd.AddCommand(NewCompileCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewRulesCommand(opts))
	cmd.AddCommand(NewReplayCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// setup loads configuration and builds the logger. Logs go to w so they
// never mix with command output.
func (o *RootOptions) setup(w io.Writer) error {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}
	if o.Rules != "" {
		cfg.Rules = o.Rules
	}

	logCfg := cfg.Logging()
	if o.Verbose {
		logCfg.Level = logging.LevelDebug
	}
	o.settings = cfg
	o.logger = logging.New(w, logCfg)
	return nil
}

// Settings returns the effective configuration.
func (o *RootOptions) Settings() *config.Config {
	if o.settings == nil {
		cfg := config.Default()
		if o.Rules != "" {
			cfg.Rules = o.Rules
		}
		o.settings = cfg
	}
	return o.settings
}

// Logger returns the command logger.
func (o *RootOptions) Logger() *slog.Logger {
	if o.logger == nil {
		o.logger = logging.Discard()
	}
	return o.logger
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   o.Verbose,
	}
}

// loadTable returns the configured rule table. Warnings are logged; error
// diagnostics fail the load.
func (o *RootOptions) loadTable() (*rules.Table, error) {
	path := o.Settings().Rules
	if path == "" {
		return rules.Default(), nil
	}
	table, diags, err := rules.LoadFile(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, fmt.Sprintf("%s: failed to load rules", ErrCodeNotFound), err)
	}
	for _, d := range diags {
		o.Logger().Warn("rule diagnostic", "path", path, "code", d.Code, "index", d.Index, "message", d.Message)
	}
	if rules.HasErrors(diags) {
		return nil, NewExitError(ExitFailure, fmt.Sprintf("%s: %s has %d diagnostic(s), run validate for details", ErrCodeRulesInvalid, path, len(diags)))
	}
	o.Logger().Debug("rules loaded", "path", path, "rules", table.Len(), "digest", table.Digest())
	return table, nil
}

// translitOptions returns the transliterator options from config plus the
// command logger. nfc forces NFC on when set by a flag.
func (o *RootOptions) translitOptions(nfc bool) []translit.Option {
	opts := append(o.Settings().TranslitOptions(), translit.WithLogger(o.Logger()))
	if nfc {
		opts = append(opts, translit.WithNFC())
	}
	return opts
}

// modeFlag resolves the --mode flag against the configured default.
func (o *RootOptions) modeFlag(cmd *cobra.Command, flag string) (string, error) {
	id := flag
	if !cmd.Flags().Changed("mode") {
		id = o.Settings().Mode
	}
	if _, ok := translit.ParseMode(id); !ok {
		return "", NewExitError(ExitCommandError, fmt.Sprintf("unsupported mode %q", id))
	}
	return id, nil
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
