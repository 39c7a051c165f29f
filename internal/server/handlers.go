package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/rshade/vsme-emissions/internal/carbon"
	"github.com/rshade/vsme-emissions/internal/report"
)

type errorResponse struct {
	Error string `json:"error"`
}

type scope1Request struct {
	FuelType   string  `json:"fuel_type"`
	Quantity   float64 `json:"quantity"`
	Unit       string  `json:"unit"`
	PeriodType string  `json:"period_type"`
}

type scope2Request struct {
	EnergyType          string   `json:"energy_type"`
	Quantity            float64  `json:"quantity"`
	Unit                string   `json:"unit"`
	RenewablePercentage *float64 `json:"renewable_percentage"`
	PeriodType          string   `json:"period_type"`
}

type scope3Request struct {
	ActivityType      string   `json:"activity_type"`
	Quantity          float64  `json:"quantity"`
	Unit              string   `json:"unit"`
	SecondaryQuantity *float64 `json:"secondary_quantity"`
	SecondaryUnit     string   `json:"secondary_unit"`
	PeriodType        string   `json:"period_type"`
}

type vehicleRequest struct {
	VehicleType  string  `json:"vehicle_type"`
	EuroClass    string  `json:"euro_class"`
	FuelType     string  `json:"fuel_type"`
	Distance     float64 `json:"distance"`
	DistanceUnit string  `json:"distance_unit"`
	PeriodType   string  `json:"period_type"`
}

type sourceResponse struct {
	Key string `json:"key"`
	carbon.SourceInfo
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleFactors(w http.ResponseWriter, r *http.Request) {
	reg := s.calc.Registry()

	var scope carbon.Scope
	if q := r.URL.Query().Get("scope"); q != "" {
		scope = carbon.Scope(strings.ToUpper(q))
		if !scope.Valid() {
			s.writeError(w, http.StatusBadRequest, fmt.Errorf("unknown scope %q", q))
			return
		}
	}

	factors := make([]carbon.EmissionFactor, 0, reg.Len())
	for _, key := range reg.Keys() {
		f, ok := reg.Lookup(key)
		if !ok || (scope != "" && f.Scope != scope) {
			continue
		}
		factors = append(factors, f)
	}
	s.writeJSON(w, http.StatusOK, factors)
}

func (s *Server) handleFactorSource(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	info, ok := s.calc.Registry().SourceInfo(key)
	if !ok {
		s.writeError(w, http.StatusNotFound, fmt.Errorf("no source for factor %q", key))
		return
	}
	s.writeJSON(w, http.StatusOK, sourceResponse{Key: key, SourceInfo: info})
}

func (s *Server) handleUnits(w http.ResponseWriter, r *http.Request) {
	category := carbon.UnitCategory(strings.ToUpper(chi.URLParam(r, "category")))
	if !category.Valid() {
		s.writeError(w, http.StatusNotFound, fmt.Errorf("unknown unit category %q", chi.URLParam(r, "category")))
		return
	}
	s.writeJSON(w, http.StatusOK, s.calc.Registry().AvailableUnits(category))
}

func (s *Server) handleScope1(w http.ResponseWriter, r *http.Request) {
	var req scope1Request
	if !s.decode(w, r, &req) {
		return
	}
	res, err := s.calc.Scope1(req.FuelType, req.Quantity, req.Unit)
	s.finish(w, r, res, err, report.Input{
		Quantity: req.Quantity,
		Unit:     req.Unit,
	}, req.PeriodType)
}

func (s *Server) handleScope2(w http.ResponseWriter, r *http.Request) {
	var req scope2Request
	if !s.decode(w, r, &req) {
		return
	}
	res, err := s.calc.Scope2(req.EnergyType, req.Quantity, req.Unit, req.RenewablePercentage)
	s.finish(w, r, res, err, report.Input{
		Quantity:            req.Quantity,
		Unit:                req.Unit,
		RenewablePercentage: req.RenewablePercentage,
	}, req.PeriodType)
}

func (s *Server) handleScope3(w http.ResponseWriter, r *http.Request) {
	var req scope3Request
	if !s.decode(w, r, &req) {
		return
	}
	var secondary *carbon.Secondary
	if req.SecondaryQuantity != nil {
		secondary = &carbon.Secondary{Quantity: *req.SecondaryQuantity, Unit: req.SecondaryUnit}
	}
	res, err := s.calc.Scope3(req.ActivityType, req.Quantity, req.Unit, secondary)
	s.finish(w, r, res, err, report.Input{
		Quantity:  req.Quantity,
		Unit:      req.Unit,
		Secondary: secondary,
	}, req.PeriodType)
}

func (s *Server) handleVehicle(w http.ResponseWriter, r *http.Request) {
	var req vehicleRequest
	if !s.decode(w, r, &req) {
		return
	}
	trip := carbon.VehicleTrip{
		VehicleType:  req.VehicleType,
		EuroClass:    req.EuroClass,
		FuelType:     req.FuelType,
		Distance:     req.Distance,
		DistanceUnit: req.DistanceUnit,
	}
	res, err := s.calc.Vehicle(trip)
	s.finish(w, r, res, err, report.Input{Trip: &trip}, req.PeriodType)
}

func (s *Server) handleListCalculations(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleGetCalculation(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, report.ErrNotFound):
		s.writeError(w, http.StatusNotFound, err)
	case err != nil:
		s.writeError(w, http.StatusInternalServerError, err)
	default:
		s.writeJSON(w, http.StatusOK, rec)
	}
}

func (s *Server) handleTotals(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, report.Aggregate(records))
}

// finish validates the period, stores the record of res and writes it back.
func (s *Server) finish(w http.ResponseWriter, r *http.Request, res carbon.Result, calcErr error, in report.Input, period string) {
	if calcErr != nil {
		status := http.StatusInternalServerError
		if errors.Is(calcErr, carbon.ErrInvalidQuantity) {
			status = http.StatusBadRequest
		}
		s.writeError(w, status, calcErr)
		return
	}

	p, err := report.ParsePeriodType(period)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	in.PeriodType = p

	s.metrics.Observe(res)

	rec := s.builder.Build(res, in)
	if err := s.store.Save(r.Context(), rec); err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to encode response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		s.logger.Error().Err(err).Msg("failed to write response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error().Err(err).Msg("request failed")
	}
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}
