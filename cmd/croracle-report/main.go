package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"croracle/internal/core"
	"croracle/internal/log"
	"croracle/internal/report"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// settings are the resolved flag, environment and config file values.
type settings struct {
	Format      string `mapstructure:"format"`
	Places      int    `mapstructure:"places"`
	Concurrency int    `mapstructure:"concurrency"`
	LogLevel    string `mapstructure:"log_level"`
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "croracle-report [files...]",
		Short: "Print purchase and earnings stats of Crypto.com CSV exports",
		Long: `croracle-report reads one or more transaction history exports from the
Crypto.com app and prints their purchase totals and earnings breakdown.

Flags can also be set with CRORACLE_* environment variables (for example
CRORACLE_FORMAT=json) or in a config file passed with --config.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(v, cmd)
			if err != nil {
				return err
			}

			level, err := log.ParseLevel(s.LogLevel)
			if err != nil {
				return err
			}
			logger := log.New(log.Config{
				Level:     level,
				Component: log.ComponentReport,
				Output:    stderr,
			})

			reports, err := report.Run(cmd.Context(), args, report.Options{
				Places:      int32(s.Places),
				Concurrency: s.Concurrency,
				Logger:      logger,
			})
			if err != nil {
				return err
			}
			if err := report.Write(stdout, s.Format, int32(s.Places), reports); err != nil {
				return err
			}
			if n := report.Failed(reports); n > 0 {
				return fmt.Errorf("%d of %d files failed", n, len(reports))
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.String("config", "", "config file (yaml, toml or json)")
	flags.String("format", report.FormatText, "output format: text or json")
	flags.Int("places", int(core.DefaultPlaces), "decimal places of totals")
	flags.Int("concurrency", 4, "files processed in parallel")
	flags.String("log-level", "warn", "log level: debug, info, warn or error")

	return cmd
}

func loadSettings(v *viper.Viper, cmd *cobra.Command) (settings, error) {
	v.SetEnvPrefix("CRORACLE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	flags := cmd.Flags()
	for key, flag := range map[string]string{
		"format":      "format",
		"places":      "places",
		"concurrency": "concurrency",
		"log_level":   "log-level",
	} {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			return settings{}, fmt.Errorf("bind flag %s: %w", flag, err)
		}
	}

	if path, _ := flags.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return settings{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var s settings
	if err := v.Unmarshal(&s); err != nil {
		return settings{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	s.Format = strings.ToLower(s.Format)
	if s.Format != report.FormatText && s.Format != report.FormatJSON {
		return settings{}, fmt.Errorf("invalid format %q: must be %s or %s", s.Format, report.FormatText, report.FormatJSON)
	}
	if s.Places < 0 || s.Places > 8 {
		return settings{}, fmt.Errorf("invalid places %d: must be between 0 and 8", s.Places)
	}
	if s.Concurrency < 1 {
		return settings{}, fmt.Errorf("invalid concurrency %d: must be at least 1", s.Concurrency)
	}
	return s, nil
}
