package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rshade/vsme-emissions/internal/carbon"
)

func newFactorsCmd(a *app) *cobra.Command {
	var scope string

	cmd := &cobra.Command{
		Use:   "factors",
		Short: "List the registered emission factors",
		Example: `  vsme-emissions factors
  vsme-emissions factors --scope SCOPE3 -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			want := carbon.Scope(strings.ToUpper(scope))
			if scope != "" && !want.Valid() {
				return fmt.Errorf("unknown scope %q", scope)
			}

			reg := a.calc.Registry()
			factors := make([]carbon.EmissionFactor, 0, reg.Len())
			for _, key := range reg.Keys() {
				f, ok := reg.Lookup(key)
				if !ok || (scope != "" && f.Scope != want) {
					continue
				}
				factors = append(factors, f)
			}

			if a.output == OutputJSON {
				return writeJSON(cmd.OutOrStdout(), factors)
			}
			return renderFactors(cmd.OutOrStdout(), factors)
		},
	}
	cmd.Flags().StringVar(&scope, "scope", "", "only list SCOPE1, SCOPE2 or SCOPE3 factors")
	return cmd
}

func newUnitsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "units CATEGORY",
		Short:     "List the units of a conversion table (FUEL, ENERGY, TRANSPORT, WASTE)",
		Example:   `  vsme-emissions units ENERGY`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"FUEL", "ENERGY", "TRANSPORT", "WASTE"},
		RunE: func(cmd *cobra.Command, args []string) error {
			category := carbon.UnitCategory(strings.ToUpper(args[0]))
			if !category.Valid() {
				return fmt.Errorf("unknown unit category %q", args[0])
			}
			units := a.calc.Registry().AvailableUnits(category)
			if a.output == OutputJSON {
				return writeJSON(cmd.OutOrStdout(), units)
			}
			return renderOptions(cmd.OutOrStdout(), "UNIT", units)
		},
	}
}
