package carbon

import (
	"sync"
	"testing"
	"time"
)

// maxLatencyMs is the latency ceiling for a single calculation, including
// first-use parsing of the embedded datasets.
const maxLatencyMs = 100

func BenchmarkScope1(b *testing.B) {
	calc := DefaultCalculator()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = calc.Scope1(FuelDiesel, 1200, "L")
	}
}

func BenchmarkScope2_Renewable(b *testing.B) {
	calc := DefaultCalculator()
	pct := 0.3

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = calc.Scope2(ElectricityIT, 45, "MWh", &pct)
	}
}

func BenchmarkScope3_Freight(b *testing.B) {
	calc := DefaultCalculator()
	weight := &Secondary{Quantity: 2, Unit: "t"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = calc.Scope3(FreightRoad, 500, "km", weight)
	}
}

func BenchmarkVehicle_Fallback(b *testing.B) {
	calc := DefaultCalculator()
	trip := VehicleTrip{VehicleType: "car_small", EuroClass: "euro2", FuelType: FuelHybrid, Distance: 100}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = calc.Vehicle(trip)
	}
}

func BenchmarkLoadRegistry(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if _, err := LoadRegistry(referenceYAML); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkConcurrentCalculations measures throughput with callers sharing
// the default calculator.
func BenchmarkConcurrentCalculations(b *testing.B) {
	calc := DefaultCalculator()

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_, _ = calc.Scope1(FuelNaturalGas, 350, "Sm3")
		}
	})
}

func TestLatencyRequirement_AllScopes(t *testing.T) {
	calc := DefaultCalculator()
	pct := 0.5

	tests := []struct {
		name string
		fn   func()
	}{
		{"scope1", func() { _, _ = calc.Scope1(FuelDiesel, 1200, "L") }},
		{"scope2", func() { _, _ = calc.Scope2(ElectricityIT, 45, "MWh", &pct) }},
		{"scope3", func() { _, _ = calc.Scope3(WasteLandfill, 850, "kg", nil) }},
		{"vehicle", func() {
			_, _ = calc.Vehicle(VehicleTrip{VehicleType: "truck_large", EuroClass: "euro4", FuelType: FuelDiesel, Distance: 800})
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := time.Now()
			tt.fn()
			elapsed := time.Since(start)

			if elapsed.Milliseconds() > maxLatencyMs {
				t.Errorf("%s calculation took %v, exceeds %dms limit", tt.name, elapsed, maxLatencyMs)
			}
		})
	}
}

func TestLatencyRequirement_Concurrent(t *testing.T) {
	calc := DefaultCalculator()
	const goroutines = 50

	var wg sync.WaitGroup
	start := time.Now()
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = calc.Vehicle(VehicleTrip{VehicleType: "van_medium", EuroClass: "euro3", FuelType: FuelElectric, Distance: 40})
		}()
	}
	wg.Wait()
	elapsed := time.Since(start)

	if elapsed.Milliseconds() > maxLatencyMs {
		t.Errorf("%d concurrent calculations took %v, exceeds %dms limit", goroutines, elapsed, maxLatencyMs)
	}
}
