// Package carbon converts activity data (fuel volumes, electricity, transport
// distances, waste tonnage, vehicle trips) into kilograms of CO2-equivalent
// for Scope 1, 2 and 3 reporting under the V-SME standard.
package carbon

const (
	// DefaultVehicleFactorGPerKm is the emission factor used when neither the
	// exact vehicle combination nor the same vehicle and fuel exist in the
	// vehicle table. Approximate average passenger car, gCO2e/km.
	DefaultVehicleFactorGPerKm = 170.0

	// DefaultVehicleFactorSource is the source label reported for vehicle
	// factors that are not an exact table match.
	DefaultVehicleFactorSource = "Valore predefinito"

	// GramsPerKg converts grams to kilograms.
	GramsPerKg = 1000.0

	// KgPerTonne converts kilograms to metric tonnes.
	KgPerTonne = 1000.0

	// mixTolerance is the allowed rounding error when checking that energy mix
	// shares sum to 1.
	mixTolerance = 1e-9
)

// Scope 1 fuel identifiers.
const (
	FuelDiesel        = "DIESEL"
	FuelGasoline      = "GASOLINE"
	FuelNaturalGas    = "NATURAL_GAS"
	FuelLPG           = "LPG"
	FuelBiomassPellet = "BIOMASS_PELLET"
	FuelBiomassWood   = "BIOMASS_WOOD"
	FuelBiofuel       = "BIOFUEL"
	FuelCoal          = "COAL"
	FuelOil           = "FUEL_OIL"

	// FuelHybrid and FuelElectric only appear in the vehicle table.
	FuelHybrid   = "HYBRID"
	FuelElectric = "ELECTRIC"
)

// Scope 2 energy identifiers.
const (
	ElectricityIT           = "ELECTRICITY_IT"
	ElectricityEU           = "ELECTRICITY_EU"
	ElectricityRenewable    = "ELECTRICITY_RENEWABLE"
	ElectricityCogeneration = "ELECTRICITY_COGENERATION"
)

// Scope 3 transport and waste identifiers.
const (
	FreightRoad               = "FREIGHT_ROAD"
	FreightRail               = "FREIGHT_RAIL"
	FreightSea                = "FREIGHT_SEA"
	FreightAir                = "FREIGHT_AIR"
	BusinessTravelCar         = "BUSINESS_TRAVEL_CAR"
	BusinessTravelTrain       = "BUSINESS_TRAVEL_TRAIN"
	BusinessTravelFlightShort = "BUSINESS_TRAVEL_FLIGHT_SHORT"
	BusinessTravelFlightLong  = "BUSINESS_TRAVEL_FLIGHT_LONG"
	WasteLandfill             = "WASTE_LANDFILL"
	WasteRecycled             = "WASTE_RECYCLED"
	WasteIncineration         = "WASTE_INCINERATION"
)
