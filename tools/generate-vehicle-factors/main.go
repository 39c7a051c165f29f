// Package main generates the vehicle emission factor table embedded by the
// carbon package.
//
// Euro 6 values per vehicle and fuel come from the ISPRA 2021 national
// inventory (COPERT 5 for heavy goods vehicles). Older Euro classes are
// derived with the average ISPRA degradation ratios, rounded half to even to
// whole grams.
//
// Usage:
//
//	go run ./tools/generate-vehicle-factors [--out-dir DIR] [--validate]
//
// Flags:
//
//	--out-dir   Output directory (default: ./internal/carbon/data)
//	--validate  Parse the generated CSV back with the carbon package
package main

import (
	"bytes"
	"encoding/csv"
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rshade/vsme-emissions/internal/carbon"
)

const (
	// outputFileName is the name of the generated CSV file.
	outputFileName = "vehicle_factors.csv"

	sourceLight       = "ISPRA 2021"
	sourceHeavy       = "COPERT 5 / ISPRA 2021"
	sourceWellToWheel = "ISPRA 2021 (well-to-wheel)"

	newestEuroClass = 6
)

// baseFactor is the Euro 6 value of one vehicle and fuel, in gCO2e/km.
type baseFactor struct {
	vehicleType string
	fuelType    string
	euro6       float64
}

var baseFactors = []baseFactor{
	{"car_small", carbon.FuelGasoline, 120},
	{"car_small", carbon.FuelDiesel, 110},
	{"car_small", carbon.FuelLPG, 105},
	{"car_small", carbon.FuelNaturalGas, 95},
	{"car_small", carbon.FuelHybrid, 65},
	{"car_small", carbon.FuelElectric, 45},
	{"car_medium", carbon.FuelGasoline, 150},
	{"car_medium", carbon.FuelDiesel, 135},
	{"car_medium", carbon.FuelLPG, 130},
	{"car_medium", carbon.FuelNaturalGas, 120},
	{"car_medium", carbon.FuelHybrid, 95},
	{"car_medium", carbon.FuelElectric, 55},
	{"car_large", carbon.FuelGasoline, 200},
	{"car_large", carbon.FuelDiesel, 170},
	{"car_large", carbon.FuelLPG, 175},
	{"car_large", carbon.FuelNaturalGas, 160},
	{"car_large", carbon.FuelHybrid, 125},
	{"car_large", carbon.FuelElectric, 70},
	{"van_small", carbon.FuelGasoline, 160},
	{"van_small", carbon.FuelDiesel, 150},
	{"van_small", carbon.FuelNaturalGas, 145},
	{"van_small", carbon.FuelElectric, 65},
	{"van_medium", carbon.FuelGasoline, 220},
	{"van_medium", carbon.FuelDiesel, 200},
	{"van_medium", carbon.FuelNaturalGas, 190},
	{"van_medium", carbon.FuelElectric, 90},
	{"truck_small", carbon.FuelDiesel, 350},
	{"truck_small", carbon.FuelNaturalGas, 320},
	{"truck_medium", carbon.FuelDiesel, 550},
	{"truck_medium", carbon.FuelNaturalGas, 500},
	{"truck_large", carbon.FuelDiesel, 800},
	{"truck_large", carbon.FuelNaturalGas, 740},
	{"truck_articulated", carbon.FuelDiesel, 950},
	{"truck_articulated", carbon.FuelNaturalGas, 880},
}

// degradation is the emission ratio of a Euro class relative to Euro 6.
var degradation = [newestEuroClass + 1]float64{1.35, 1.28, 1.20, 1.14, 1.08, 1.04, 1.0}

// hybridEuro5 replaces degradation[5] for hybrids.
const hybridEuro5 = 1.10

func main() {
	outDir := flag.String("out-dir", "./internal/carbon/data", "Output directory for the CSV file")
	validate := flag.Bool("validate", true, "Parse the generated CSV with the carbon package")
	flag.Parse()

	data, err := generate()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating vehicle factors: %v\n", err)
		os.Exit(1)
	}

	if *validate {
		if err := validateCSV(data); err != nil {
			fmt.Fprintf(os.Stderr, "Validation error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Validation passed")
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	outPath := filepath.Join(*outDir, outputFileName)
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Successfully wrote %s (%d bytes)\n", outPath, len(data))
}

// generate renders the full table, one row per vehicle, fuel and supported
// Euro class.
func generate() ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"vehicle_type", "euro_class", "fuel_type", "g_co2e_per_km", "source"}); err != nil {
		return nil, err
	}
	for _, b := range baseFactors {
		for class := oldestEuroClass(b); class <= newestEuroClass; class++ {
			value := math.RoundToEven(b.euro6 * ratio(b.fuelType, class))
			row := []string{
				b.vehicleType,
				"euro" + strconv.Itoa(class),
				b.fuelType,
				strconv.FormatFloat(value, 'f', -1, 64),
				source(b),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// oldestEuroClass is the first Euro class type-approved for the fuel.
func oldestEuroClass(b baseFactor) int {
	switch b.fuelType {
	case carbon.FuelLPG:
		return 2
	case carbon.FuelNaturalGas:
		if isHeavy(b.vehicleType) {
			return 5
		}
		return 3
	case carbon.FuelHybrid:
		return 5
	case carbon.FuelElectric:
		return newestEuroClass
	default:
		return 0
	}
}

func ratio(fuelType string, class int) float64 {
	if fuelType == carbon.FuelHybrid && class == 5 {
		return hybridEuro5
	}
	return degradation[class]
}

func source(b baseFactor) string {
	switch {
	case isHeavy(b.vehicleType):
		return sourceHeavy
	case b.fuelType == carbon.FuelHybrid || b.fuelType == carbon.FuelElectric:
		return sourceWellToWheel
	default:
		return sourceLight
	}
}

func isHeavy(vehicleType string) bool {
	return strings.HasPrefix(vehicleType, "truck_")
}

// validateCSV parses data the way the carbon package will and checks that
// no row was dropped.
func validateCSV(data []byte) error {
	table, err := carbon.ParseVehicleTable(bytes.NewReader(data))
	if err != nil {
		return err
	}

	want := bytes.Count(data, []byte("\n")) - 1
	if table.Len() != want {
		return fmt.Errorf("parsed %d rows, generated %d", table.Len(), want)
	}
	for _, e := range table.Entries() {
		if e.EmissionFactor <= 0 {
			return fmt.Errorf("non-positive factor for %s/%s/%s", e.VehicleType, e.EuroClass, e.FuelType)
		}
	}

	fmt.Printf("CSV stats: %d vehicle factors\n", table.Len())
	return nil
}
