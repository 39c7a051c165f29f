package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rshade/vsme-emissions/internal/carbon"
	"github.com/rshade/vsme-emissions/internal/report"
)

func newScope1Cmd(a *app) *cobra.Command {
	var period string

	cmd := &cobra.Command{
		Use:   "scope1 FUEL QUANTITY UNIT",
		Short: "Direct emissions from fuel combustion",
		Example: `  vsme-emissions scope1 DIESEL 1200 L
  vsme-emissions scope1 NATURAL_GAS 3.5 kL`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			quantity, err := parseQuantity(args[1])
			if err != nil {
				return err
			}
			res, err := a.calc.Scope1(args[0], quantity, args[2])
			if err != nil {
				return err
			}
			return a.writeResult(cmd, res, report.Input{Quantity: quantity, Unit: args[2]}, period)
		},
	}
	addPeriodFlag(cmd, &period)
	return cmd
}

func newScope2Cmd(a *app) *cobra.Command {
	var (
		period    string
		renewable float64
	)

	cmd := &cobra.Command{
		Use:   "scope2 ENERGY QUANTITY UNIT",
		Short: "Indirect emissions from purchased energy",
		Example: `  vsme-emissions scope2 ELECTRICITY_IT 45000 kWh
  vsme-emissions scope2 ELECTRICITY_IT 45 MWh --renewable 0.3`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			quantity, err := parseQuantity(args[1])
			if err != nil {
				return err
			}
			var pct *float64
			if cmd.Flags().Changed("renewable") {
				pct = &renewable
			}
			res, err := a.calc.Scope2(args[0], quantity, args[2], pct)
			if err != nil {
				return err
			}
			return a.writeResult(cmd, res, report.Input{
				Quantity:            quantity,
				Unit:                args[2],
				RenewablePercentage: pct,
			}, period)
		},
	}
	cmd.Flags().Float64Var(&renewable, "renewable", 0,
		"renewable share of the supply contract, 0..1 (grid mix electricity only)")
	addPeriodFlag(cmd, &period)
	return cmd
}

func newScope3Cmd(a *app) *cobra.Command {
	var (
		period     string
		weight     float64
		weightUnit string
	)

	cmd := &cobra.Command{
		Use:   "scope3 ACTIVITY QUANTITY UNIT",
		Short: "Value-chain emissions from freight, business travel and waste",
		Example: `  vsme-emissions scope3 FREIGHT_ROAD 500 km --weight 2
  vsme-emissions scope3 BUSINESS_TRAVEL_TRAIN 1200 km
  vsme-emissions scope3 WASTE_LANDFILL 850 kg`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			quantity, err := parseQuantity(args[1])
			if err != nil {
				return err
			}
			var secondary *carbon.Secondary
			if cmd.Flags().Changed("weight") {
				secondary = &carbon.Secondary{Quantity: weight, Unit: weightUnit}
			}
			res, err := a.calc.Scope3(args[0], quantity, args[2], secondary)
			if err != nil {
				return err
			}
			return a.writeResult(cmd, res, report.Input{
				Quantity:  quantity,
				Unit:      args[2],
				Secondary: secondary,
			}, period)
		},
	}
	cmd.Flags().Float64Var(&weight, "weight", 0, "cargo weight for freight activities")
	cmd.Flags().StringVar(&weightUnit, "weight-unit", "t", "unit of --weight (t, kg, lb)")
	addPeriodFlag(cmd, &period)
	return cmd
}

func newVehicleCmd(a *app) *cobra.Command {
	var (
		period string
		unit   string
	)

	cmd := &cobra.Command{
		Use:   "vehicle TYPE EURO_CLASS FUEL DISTANCE",
		Short: "Direct emissions of a company vehicle trip",
		Example: `  vsme-emissions vehicle car_small euro6 HYBRID 1500
  vsme-emissions vehicle truck_large euro5 DIESEL 800 --unit mi`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			distance, err := parseQuantity(args[3])
			if err != nil {
				return err
			}
			trip := carbon.VehicleTrip{
				VehicleType:  args[0],
				EuroClass:    args[1],
				FuelType:     args[2],
				Distance:     distance,
				DistanceUnit: unit,
			}
			res, err := a.calc.Vehicle(trip)
			if err != nil {
				return err
			}
			return a.writeResult(cmd, res, report.Input{Trip: &trip}, period)
		},
	}
	cmd.Flags().StringVar(&unit, "unit", "km", "distance unit (km, m, mi, nmi)")
	addPeriodFlag(cmd, &period)
	return cmd
}

func addPeriodFlag(cmd *cobra.Command, period *string) {
	cmd.Flags().StringVar(period, "period", string(report.PeriodAnnual),
		"reporting period recorded in JSON output: monthly, quarterly or annual")
}

func parseQuantity(s string) (float64, error) {
	q, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid quantity %q: %w", s, err)
	}
	return q, nil
}

// writeResult prints res as text or as a JSON record.
func (a *app) writeResult(cmd *cobra.Command, res carbon.Result, in report.Input, period string) error {
	p, err := report.ParsePeriodType(period)
	if err != nil {
		return err
	}
	in.PeriodType = p

	if a.output == OutputJSON {
		rec := report.NewBuilder(a.calc.Registry()).Build(res, in)
		return writeJSON(cmd.OutOrStdout(), rec)
	}
	return renderResult(cmd.OutOrStdout(), res)
}
