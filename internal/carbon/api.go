package carbon

// The functions below keep the plain-number contract of the reporting
// front end: they run on DefaultCalculator, never fail, and return 0 for
// invalid input. Callers that need to see degraded paths use Calculator.

// CalculateScope1Emissions returns kgCO2e for a fuel quantity.
func CalculateScope1Emissions(fuelType string, quantity float64, unit string) float64 {
	res, err := DefaultCalculator().Scope1(fuelType, quantity, unit)
	if err != nil {
		logger.Warn().Err(err).Msg("scope 1 calculation rejected")
		return 0
	}
	return res.EmissionsKg
}

// CalculateScope2Emissions returns kgCO2e for purchased energy. A nil
// renewablePercentage keeps the published grid factor.
func CalculateScope2Emissions(energyType string, quantity float64, unit string, renewablePercentage *float64) float64 {
	res, err := DefaultCalculator().Scope2(energyType, quantity, unit, renewablePercentage)
	if err != nil {
		logger.Warn().Err(err).Msg("scope 2 calculation rejected")
		return 0
	}
	return res.EmissionsKg
}

// CalculateScope3Emissions returns kgCO2e for a transport or waste activity.
func CalculateScope3Emissions(activityType string, quantity float64, unit string, secondary *Secondary) float64 {
	res, err := DefaultCalculator().Scope3(activityType, quantity, unit, secondary)
	if err != nil {
		logger.Warn().Err(err).Msg("scope 3 calculation rejected")
		return 0
	}
	return res.EmissionsKg
}

// GetEmissionFactorSource returns the publication metadata of a factor.
func GetEmissionFactorSource(factorKey string) (SourceInfo, bool) {
	return DefaultRegistry().SourceInfo(factorKey)
}

// GetAvailableFuelTypes lists the Scope 1 factors.
func GetAvailableFuelTypes() []Option {
	return DefaultRegistry().ListByScope(Scope1)
}

// GetAvailableEnergyTypes lists the Scope 2 factors.
func GetAvailableEnergyTypes() []Option {
	return DefaultRegistry().ListByScope(Scope2)
}

// GetAvailableScope3Types lists the Scope 3 factors.
func GetAvailableScope3Types() []Option {
	return DefaultRegistry().ListByScope(Scope3)
}

// GetAvailableUnits lists the units of a conversion table.
func GetAvailableUnits(category UnitCategory) []Option {
	return DefaultRegistry().AvailableUnits(category)
}

// GetVehicleEmissionFactor returns gCO2e/km for a vehicle, falling back to
// the highest Euro class of the same vehicle and fuel, then to
// DefaultVehicleFactorGPerKm.
func GetVehicleEmissionFactor(vehicleType, euroClass, fuelType string) float64 {
	return DefaultVehicleTable().Factor(vehicleType, euroClass, fuelType)
}

// GetVehicleEmissionFactorSource returns the source of an exact vehicle row,
// or DefaultVehicleFactorSource otherwise.
func GetVehicleEmissionFactorSource(vehicleType, euroClass, fuelType string) string {
	return DefaultVehicleTable().Source(vehicleType, euroClass, fuelType)
}
