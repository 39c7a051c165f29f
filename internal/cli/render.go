package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rshade/vsme-emissions/internal/carbon"
)

// printer formats numbers the way Italian reports print them (1.234,56).
//
//nolint:gochecknoglobals // Global printer is idiomatic for x/text/message usage.
var printer = message.NewPrinter(language.Italian)

const tabPadding = 2

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	return nil
}

func renderResult(w io.Writer, res carbon.Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)

	fmt.Fprintf(tw, "Scope:\t%s\n", res.Scope)
	fmt.Fprintf(tw, "Attività:\t%s\n", res.ActivityType)
	if res.Factor.Key != "" {
		fmt.Fprintf(tw, "Fattore:\t%s %s\n", printer.Sprintf("%.4f", res.AppliedFactor), res.Factor.Unit)
		fmt.Fprintf(tw, "Quantità normalizzata:\t%s\n", printer.Sprintf("%.3f", res.NormalizedQuantity))
	}
	if res.Vehicle != nil {
		fmt.Fprintf(tw, "Fonte veicolo:\t%s (%s)\n", res.Vehicle.Source, res.Vehicle.Tier)
	}
	fmt.Fprintf(tw, "Emissioni:\t%s kg CO2e (%s t CO2e)\n",
		printer.Sprintf("%.2f", res.EmissionsKg),
		printer.Sprintf("%.4f", res.EmissionsTonnes()))
	for _, warning := range res.Warnings {
		fmt.Fprintf(tw, "Avviso:\t[%s] %s\n", warning.Code, warning.Message)
	}

	return tw.Flush()
}

func renderFactors(w io.Writer, factors []carbon.EmissionFactor) error {
	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
	fmt.Fprintln(tw, "KEY\tSCOPE\tVALUE\tUNIT\tSOURCE\tDESCRIPTION")
	for _, f := range factors {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			f.Key, f.Scope, printer.Sprintf("%.4f", f.Value), f.Unit, f.Source, f.Description)
	}
	return tw.Flush()
}

func renderOptions(w io.Writer, header string, opts []carbon.Option) error {
	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
	fmt.Fprintf(tw, "%s\tLABEL\n", header)
	for _, o := range opts {
		fmt.Fprintf(tw, "%s\t%s\n", o.Value, o.Label)
	}
	return tw.Flush()
}
