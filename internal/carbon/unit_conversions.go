package carbon

// Multiplier returns the factor converting one unit of symbol into the base
// unit of category. It returns (0, false) when the pair is not in the table.
func (r *Registry) Multiplier(category UnitCategory, symbol string) (float64, bool) {
	m, ok := r.unitIndex[category][symbol]
	return m, ok
}

// MultiplierOrIdentity returns the conversion multiplier for (category,
// symbol), or 1 when the pair is unknown. The unknown case is logged so that
// unnormalized quantities stay observable.
func (r *Registry) MultiplierOrIdentity(category UnitCategory, symbol string) (float64, bool) {
	if m, ok := r.Multiplier(category, symbol); ok {
		return m, true
	}
	logger.Warn().
		Str("category", string(category)).
		Str("unit", symbol).
		Msg("unknown unit, treating quantity as already normalized")
	return 1, false
}

// AvailableUnits returns the units of a conversion table in dataset order.
func (r *Registry) AvailableUnits(category UnitCategory) []Option {
	entries := r.units[category]
	opts := make([]Option, 0, len(entries))
	for _, e := range entries {
		opts = append(opts, Option{Value: e.symbol, Label: e.label})
	}
	return opts
}

// normalize converts quantity into the base unit of category and reports a
// warning when unit is unknown.
func (r *Registry) normalize(category UnitCategory, quantity float64, unit string) (float64, []Warning) {
	m, ok := r.MultiplierOrIdentity(category, unit)
	if !ok {
		return quantity * m, []Warning{newWarning(WarningUnknownUnit,
			"unit %q not in %s table; quantity used as-is", unit, category)}
	}
	return quantity * m, nil
}
