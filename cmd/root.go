package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/ascreports/api"
	"github.com/s0up4200/ascreports/config"
	"github.com/s0up4200/ascreports/filter"
	"github.com/s0up4200/ascreports/format"
	"github.com/s0up4200/ascreports/report"
)

var (
	cfgFile  string
	logLevel string
	cfg      *config.Config
	logger   = zerolog.Nop()
	handle   *api.API

	version   = "dev"
	buildTime = "unknown"

	// Output flags shared by the report commands
	outputFormat    string
	originalColumns bool
	whereExpr       string
	namedFilter     string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "ascreports",
	Short: "Download App Store Connect finance and sales reports",
	Long: `ascreports downloads finance and sales reports from the App Store Connect
reporting API, parses the tab-separated payloads into typed rows and prints
them as a table, JSON or CSV.`,
	SilenceUsage: true,
}

// SetVersion records build information reported by --version and used by update.
func SetVersion(v, built string) {
	version = v
	buildTime = built
	rootCmd.Version = fmt.Sprintf("%s (built %s)", v, built)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override logging.level (trace, debug, info, warn, error)")
}

// addOutputFlags registers the flags every report command shares
func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&outputFormat, "output", "o", "", "output format: table, json or csv (default from reports.output)")
	cmd.Flags().BoolVar(&originalColumns, "original-columns", false, "label columns with the headers as received")
	cmd.Flags().StringVarP(&whereExpr, "where", "w", "", "row filter expression, e.g. 'units > 0'")
	cmd.Flags().StringVarP(&namedFilter, "filter", "f", "", "use a named filter from config")
}

// initializeApp loads the configuration and creates the API handle
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	logger = setupLogger(cfg.Logging)

	handle, err = api.New(cfg.API.BaseURL, cfg.API.Token,
		api.WithTimeout(cfg.API.Timeout),
		api.WithUserAgent(cfg.API.UserAgent+"/"+version),
		api.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("failed to create API client: %w", err)
	}

	logger.Debug().Str("base_url", handle.BaseURL()).Msg("API client ready")
	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "trace":
		level = zerolog.TraceLevel
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format, no color when stderr is redirected
	fd := os.Stderr.Fd()
	terminal := isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !terminal,
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

// loggingFromFlags is the logging setup for commands that run without a
// config file
func loggingFromFlags() config.LoggingConfig {
	return config.LoggingConfig{
		Level:  logLevel,
		Format: "console",
		Color:  true,
	}
}

// getFilterExpression determines the row filter to use. An empty result
// means no filtering.
func getFilterExpression() (string, error) {
	// Priority: command line expression > named filter from config
	if whereExpr != "" {
		return whereExpr, nil
	}

	if namedFilter != "" {
		if expr, ok := cfg.Filter[namedFilter]; ok {
			return expr, nil
		}
		return "", fmt.Errorf("filter '%s' not found in config", namedFilter)
	}

	return "", nil
}

// render filters table and writes it to stdout
func render(table *report.Table, title string) error {
	expr, err := getFilterExpression()
	if err != nil {
		return err
	}

	if expr != "" {
		rowFilter, err := filter.CompileFilter(expr)
		if err != nil {
			return fmt.Errorf("invalid filter expression: %w", err)
		}
		total := table.Len()
		table, err = rowFilter.Apply(table)
		if err != nil {
			return err
		}
		logger.Info().Str("filter", expr).Int("matched", table.Len()).Int("total", total).Msg("Filtered rows")
	}

	name := outputFormat
	if name == "" {
		name = cfg.Reports.Output
	}
	out, err := format.ParseFormat(name)
	if err != nil {
		return err
	}

	return format.Write(os.Stdout, table, out, format.Options{
		OriginalColumns: originalColumns,
		Title:           title,
	})
}
