package main

import (
	"math"

	"github.com/pthm-cable/fieldsim/config"
)

// Param is one tuned cloth coefficient and its search range.
type Param struct {
	Name     string // tune_log.csv column
	Min, Max float64

	field func(c *config.ClothConfig) *float64
}

// ParamVector maps between config values and the unit cube CMA-ES searches.
type ParamVector struct {
	Params []Param
}

// NewParamVector returns stiffness, damping and node mass, in that order.
func NewParamVector() *ParamVector {
	return &ParamVector{Params: []Param{
		{Name: "stiffness", Min: 200, Max: 8000, field: func(c *config.ClothConfig) *float64 { return &c.Stiffness }},
		{Name: "damping", Min: 0.1, Max: 20, field: func(c *config.ClothConfig) *float64 { return &c.Damping }},
		{Name: "mass", Min: 0.2, Max: 5, field: func(c *config.ClothConfig) *float64 { return &c.Mass }},
	}}
}

// Dim returns the search dimension.
func (pv *ParamVector) Dim() int {
	return len(pv.Params)
}

// DefaultVector returns the embedded defaults.
func (pv *ParamVector) DefaultVector() []float64 {
	return pv.ExtractFromConfig(config.Default())
}

// Normalize maps raw values onto [0,1] per parameter range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	out := make([]float64, len(pv.Params))
	for i, p := range pv.Params {
		out[i] = (raw[i] - p.Min) / (p.Max - p.Min)
	}
	return out
}

// Denormalize is the inverse of Normalize. Results may lie outside the range.
func (pv *ParamVector) Denormalize(unit []float64) []float64 {
	out := make([]float64, len(pv.Params))
	for i, p := range pv.Params {
		out[i] = p.Min + unit[i]*(p.Max-p.Min)
	}
	return out
}

// Clamp returns a copy of v with every value inside its range.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	out := make([]float64, len(pv.Params))
	for i, p := range pv.Params {
		out[i] = math.Min(math.Max(v[i], p.Min), p.Max)
	}
	return out
}

// ApplyToConfig writes the clamped values into cfg.Cloth.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	for i, v := range pv.Clamp(values) {
		*pv.Params[i].field(&cfg.Cloth) = v
	}
}

// ExtractFromConfig reads the tuned values out of cfg.Cloth.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	out := make([]float64, len(pv.Params))
	for i, p := range pv.Params {
		out[i] = *p.field(&cfg.Cloth)
	}
	return out
}
