package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/sirupsen/logrus"
	"github.com/smithgotsurf/retirement-planner/internal/calculation"
	"github.com/smithgotsurf/retirement-planner/internal/config"
	"github.com/smithgotsurf/retirement-planner/internal/output"
	"github.com/smithgotsurf/retirement-planner/internal/policy"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// logrusAdapter implements calculation.Logger on top of logrus.
type logrusAdapter struct {
	log *logrus.Logger
}

func (l logrusAdapter) Debugf(format string, args ...any) { l.log.Debugf(format, args...) }
func (l logrusAdapter) Infof(format string, args ...any)  { l.log.Infof(format, args...) }
func (l logrusAdapter) Warnf(format string, args ...any)  { l.log.Warnf(format, args...) }
func (l logrusAdapter) Errorf(format string, args ...any) { l.log.Errorf(format, args...) }

func newLogger(verbose bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.WarnLevel)
	}
	return log
}

var rootCmd = &cobra.Command{
	Use:   "rplan",
	Short: "Retirement drawdown planner CLI",
	Long:  "Projects retirement account accumulation and simulates a tax-optimized year-by-year withdrawal strategy under US or Canadian tax rules",
}

var calculateCmd = &cobra.Command{
	Use:   "calculate [input-file]",
	Short: "Run the accumulation projection and drawdown simulation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		country, _ := cmd.Flags().GetString("country")
		verbose, _ := cmd.Flags().GetBool("verbose")
		log := newLogger(verbose)

		cfg, pol, err := loadInput(args[0], country)
		if err != nil {
			return err
		}

		engine := calculation.NewEngine(pol)
		engine.Logger = logrusAdapter{log: log}

		log.Infof("running %s policy plan for ages %d-%d", pol.Name(),
			cfg.Profile.RetirementAge, cfg.Profile.LifeExpectancy)

		result := engine.RunPlan(cfg.Accounts, &cfg.Profile, &cfg.Assumptions, cfg.Streams)
		return output.WriteReport(os.Stdout, result, format)
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate [input-file]",
	Short: "Validate an input file without running the simulation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		country, _ := cmd.Flags().GetString("country")
		if _, _, err := loadInput(args[0], country); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "%s: OK\n", args[0])
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(os.Stdout, "rplan %s (commit %s, built %s)\n", version, commit, date)
		if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
			fmt.Fprintln(os.Stdout, bi.Main.Path)
		}
	},
}

// loadInput resolves the country policy, then parses and validates the input
// file against it. A --country flag overrides the file's country field.
func loadInput(filename, countryOverride string) (*config.Configuration, policy.CountryPolicy, error) {
	registry := policy.NewRegistry()

	// The country decides which policy validates the file, so peek at the
	// file's country field first unless the flag overrides it.
	country := countryOverride
	if country == "" {
		peeked, err := config.PeekCountry(filename)
		if err != nil {
			return nil, nil, err
		}
		country = peeked
	}

	pol, err := registry.Get(country)
	if err != nil {
		return nil, nil, err
	}

	parser := config.NewInputParser()
	cfg, err := parser.LoadFromFile(filename, pol)
	if err != nil {
		return nil, nil, err
	}
	return cfg, pol, nil
}

func main() {
	calculateCmd.Flags().String("format", "console", "Output format: console, csv, json")
	calculateCmd.Flags().String("country", "", "Override the input file's country policy (us, canada)")
	calculateCmd.Flags().Bool("verbose", false, "Enable debug logging")
	validateCmd.Flags().String("country", "", "Override the input file's country policy (us, canada)")

	rootCmd.AddCommand(calculateCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
