// Package cli implements the vsme-emissions command line.
package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rshade/vsme-emissions/internal/carbon"
	"github.com/rshade/vsme-emissions/internal/config"
)

// Output formats.
const (
	OutputText = "text"
	OutputJSON = "json"
)

// app is the state shared by subcommands once PersistentPreRunE has run.
type app struct {
	cfg    config.Config
	logger zerolog.Logger
	calc   *carbon.Calculator
	output string
}

// NewRootCmd creates the root command reading configuration from the process
// environment.
func NewRootCmd(ver string) *cobra.Command {
	return NewRootCmdWithEnv(ver, os.LookupEnv)
}

// NewRootCmdWithEnv creates the root command with an explicit env lookup for
// tests.
func NewRootCmdWithEnv(ver string, lookupEnv func(string) (string, bool)) *cobra.Command {
	a := &app{}
	var (
		debug              bool
		factorsFile        string
		vehicleFactorsFile string
	)

	cmd := &cobra.Command{
		Use:           "vsme-emissions",
		Short:         "GHG emissions calculator for VSME sustainability reports",
		Long:          "vsme-emissions converts activity data into Scope 1, 2 and 3 emissions (kgCO2e) using IPCC, DEFRA and ISPRA factors.",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if a.output != OutputText && a.output != OutputJSON {
				return fmt.Errorf("invalid output format %q (want %s or %s)", a.output, OutputText, OutputJSON)
			}

			bootstrap := zerolog.New(cmd.ErrOrStderr()).With().Timestamp().Logger()
			a.cfg = config.Load(lookupEnv, bootstrap)
			if debug {
				a.cfg.LogLevel = zerolog.LevelDebugValue
			}
			if factorsFile != "" {
				a.cfg.FactorsFile = factorsFile
			}
			if vehicleFactorsFile != "" {
				a.cfg.VehicleFactorsFile = vehicleFactorsFile
			}

			a.logger = a.cfg.NewLogger(cmd.ErrOrStderr())
			carbon.SetLogger(a.logger)

			calc, err := newCalculator(a.cfg)
			if err != nil {
				return err
			}
			a.calc = calc
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&a.output, "output", "o", OutputText, "output format: text or json")
	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&factorsFile, "factors-file", "",
		"reference dataset YAML replacing the embedded factors (env "+config.EnvFactorsFile+")")
	cmd.PersistentFlags().StringVar(&vehicleFactorsFile, "vehicle-factors-file", "",
		"vehicle factor CSV replacing the embedded table (env "+config.EnvVehicleFactorsFile+")")

	cmd.AddCommand(
		newScope1Cmd(a),
		newScope2Cmd(a),
		newScope3Cmd(a),
		newVehicleCmd(a),
		newFactorsCmd(a),
		newUnitsCmd(a),
		newServeCmd(a),
	)

	return cmd
}

// newCalculator loads the override datasets named in cfg, if any.
func newCalculator(cfg config.Config) (*carbon.Calculator, error) {
	var (
		reg      *carbon.Registry
		vehicles *carbon.VehicleTable
		err      error
	)
	if cfg.FactorsFile != "" {
		if reg, err = carbon.LoadRegistryFile(cfg.FactorsFile); err != nil {
			return nil, fmt.Errorf("loading factors: %w", err)
		}
	}
	if cfg.VehicleFactorsFile != "" {
		if vehicles, err = carbon.LoadVehicleTableFile(cfg.VehicleFactorsFile); err != nil {
			return nil, fmt.Errorf("loading vehicle factors: %w", err)
		}
	}
	return carbon.NewCalculator(reg, vehicles), nil
}

const rootCmdExample = `  # Diesel burned by the company fleet
  vsme-emissions scope1 DIESEL 1200 L

  # Italian grid electricity with a 30% renewable contract
  vsme-emissions scope2 ELECTRICITY_IT 45 MWh --renewable 0.3

  # 2 tonnes shipped 500 km by road
  vsme-emissions scope3 FREIGHT_ROAD 500 km --weight 2 --weight-unit t

  # A Euro 6 diesel van, JSON output
  vsme-emissions vehicle van_small euro6 DIESEL 320 -o json

  # Serve the HTTP API
  vsme-emissions serve --addr :8080`
