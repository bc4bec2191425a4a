package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"maps"
	"net/http"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/toyinlola/housingrisk/pkg/interfaces"
)

// PredictRequest is the physical-measurement body of POST /predict.
type PredictRequest struct {
	FaultDistanceKM           *float64 `json:"fault_distance_km" binding:"required,gte=0"`
	BasicWindSpeedMPS         *float64 `json:"basic_wind_speed_mps" binding:"required,gte=0"`
	SlopeDeg                  *float64 `json:"slope_deg" binding:"required,gte=0"`
	ElevationM                *float64 `json:"elevation_m" binding:"required,gte=0"`
	PotentialLiquefaction     *bool    `json:"potential_liquefaction" binding:"required"`
	DistanceToRiversAndSeasKM *float64 `json:"distance_to_rivers_and_seas_km" binding:"required,gte=0"`
	SurfaceRunoff             string   `json:"surface_runoff" binding:"required,oneof=low medium high"`
	VerticalIrregularity      *bool    `json:"vertical_irregularity" binding:"required"`
	BuildingProximityM        *float64 `json:"building_proximity_m" binding:"required,gte=0"`
	NumberOfBays              *float64 `json:"number_of_bays" binding:"required,gte=0"`
	ColumnSpacingM            *float64 `json:"column_spacing_m" binding:"required,gt=0"`
	MaximumCrackMM            *float64 `json:"maximum_crack_mm" binding:"required,gte=0"`
	RoofSlopeDeg              *float64 `json:"roof_slope_deg" binding:"required,gte=0"`
	RoofDesign                string   `json:"roof_design" binding:"required,oneof=gable hip flat other"`
	RoofFastenerDistanceCM    *float64 `json:"roof_fastener_distance_cm" binding:"required,gte=0"`
}

// Building converts a bound request into the domain record.
func (r *PredictRequest) Building() *interfaces.Building {
	return &interfaces.Building{
		FaultDistanceKM:           *r.FaultDistanceKM,
		BasicWindSpeedMPS:         *r.BasicWindSpeedMPS,
		SlopeDeg:                  *r.SlopeDeg,
		ElevationM:                *r.ElevationM,
		PotentialLiquefaction:     *r.PotentialLiquefaction,
		DistanceToRiversAndSeasKM: *r.DistanceToRiversAndSeasKM,
		SurfaceRunoff:             r.SurfaceRunoff,
		VerticalIrregularity:      *r.VerticalIrregularity,
		BuildingProximityM:        *r.BuildingProximityM,
		NumberOfBays:              *r.NumberOfBays,
		ColumnSpacingM:            *r.ColumnSpacingM,
		MaximumCrackMM:            *r.MaximumCrackMM,
		RoofSlopeDeg:              *r.RoofSlopeDeg,
		RoofDesign:                r.RoofDesign,
		RoofFastenerDistanceCM:    *r.RoofFastenerDistanceCM,
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "model_version": s.service.Version()})
}

func (s *Server) predict(c *gin.Context) {
	var req PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.bindError(c, interfaces.VariantPhysical, err)
		return
	}
	s.score(c, &interfaces.Record{Variant: interfaces.VariantPhysical, Building: req.Building()})
}

func (s *Server) assess(c *gin.Context) {
	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		s.bindError(c, interfaces.VariantQuestionnaire, err)
		return
	}

	answers := make(map[string]float64, len(raw))
	for _, name := range slices.Sorted(maps.Keys(raw)) {
		v, ok := raw[name].(float64)
		if !ok {
			s.rejectField(c, interfaces.VariantQuestionnaire, name, "must be a number")
			return
		}
		answers[name] = v
	}
	s.score(c, &interfaces.Record{Variant: interfaces.VariantQuestionnaire, Answers: answers})
}

func (s *Server) score(c *gin.Context, rec *interfaces.Record) {
	a, err := s.service.Assess(c.Request.Context(), rec)
	if err != nil {
		var ie *interfaces.InputError
		if errors.As(err, &ie) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": ie.Error(), "field": ie.Field})
			return
		}
		slog.Error("server: scoring failed", "variant", rec.Variant, "error", err, "request_id", c.GetString(requestIDKey))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, a)
}

// bindError maps decoding and validation failures onto the error contract:
// field-level problems are 422 naming the field, unreadable bodies are 400.
func (s *Server) bindError(c *gin.Context, variant interfaces.Variant, err error) {
	var (
		verrs   validator.ValidationErrors
		typeErr *json.UnmarshalTypeError
	)
	switch {
	case errors.As(err, &verrs) && len(verrs) > 0:
		field := verrs[0].Field()
		s.rejectField(c, variant, field, "failed "+verrs[0].Tag()+" validation")
	case errors.As(err, &typeErr):
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		s.rejectField(c, variant, field, "must be a "+typeErr.Type.String())
	default:
		if s.metrics != nil {
			s.metrics.ObserveInvalid(variant)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
	}
}

func (s *Server) rejectField(c *gin.Context, variant interfaces.Variant, field, reason string) {
	if s.metrics != nil {
		s.metrics.ObserveInvalid(variant)
	}
	ie := interfaces.Invalid(field, "%s", reason)
	c.JSON(http.StatusUnprocessableEntity, gin.H{"error": ie.Error(), "field": field})
}

var tagNamesOnce sync.Once

// registerTagNames makes validation errors report JSON field names.
func registerTagNames() {
	tagNamesOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
}
