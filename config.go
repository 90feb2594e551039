package nurbs

import (
	"strconv"
	"strings"

	"github.com/npillmayer/schuko"
	"github.com/npillmayer/schuko/tracing"
)

// Parameterization selects how parameter values are assigned to poles.
type Parameterization int

// Parameterization methods.
const (
	Chordal     Parameterization = iota // spacing proportional to chord length
	Centripetal                         // spacing proportional to sqrt(chord length)
)

func (p Parameterization) String() string {
	switch p {
	case Centripetal:
		return "centripetal"
	}
	return "chordal"
}

// ParameterizationFromString finds a method from its name. Unknown names
// yield Chordal.
func ParameterizationFromString(s string) Parameterization {
	if strings.EqualFold(strings.TrimSpace(s), "centripetal") {
		return Centripetal
	}
	return Chordal
}

// Configuration keys recognized by ConfigFrom.
const (
	KeyParameterization = "nurbs.parameterization"
	KeyClosestSamples   = "nurbs.closest.samples"
	KeyNewtonIterations = "nurbs.newton.iterations"
	KeyNewtonTolerance  = "nurbs.newton.tolerance"
	KeyTraceLevel       = "nurbs.tracelevel"
)

// Config holds tunables for interpolation and parametric queries.
type Config struct {
	Parameterization Parameterization // how poles are spaced in parameter space
	ClosestSamples   int              // uniform samples for the closest-point start guess
	NewtonIterations int              // cap on Newton steps
	NewtonTolerance  float64          // convergence threshold for Newton steps
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Parameterization: Chordal,
		ClosestSamples:   40,
		NewtonIterations: 20,
		NewtonTolerance:  1e-9,
	}
}

// ConfigFrom reads a configuration from an application configuration.
// Keys not set keep their default values; invalid values are traced and
// ignored. If conf is nil, the default configuration is returned.
func ConfigFrom(conf schuko.Configuration) Config {
	c := DefaultConfig()
	if conf == nil {
		return c
	}
	if conf.IsSet(KeyTraceLevel) {
		tracer().SetTraceLevel(tracing.TraceLevelFromString(conf.GetString(KeyTraceLevel)))
	}
	if conf.IsSet(KeyParameterization) {
		c.Parameterization = ParameterizationFromString(conf.GetString(KeyParameterization))
	}
	if conf.IsSet(KeyClosestSamples) {
		if n := conf.GetInt(KeyClosestSamples); n >= 2 {
			c.ClosestSamples = n
		} else {
			tracer().Errorf("config %s: expected integer >= 2, ignored", KeyClosestSamples)
		}
	}
	if conf.IsSet(KeyNewtonIterations) {
		if n := conf.GetInt(KeyNewtonIterations); n >= 1 {
			c.NewtonIterations = n
		} else {
			tracer().Errorf("config %s: expected integer >= 1, ignored", KeyNewtonIterations)
		}
	}
	if conf.IsSet(KeyNewtonTolerance) {
		s := conf.GetString(KeyNewtonTolerance)
		if tol, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil && tol > 0 {
			c.NewtonTolerance = tol
		} else {
			tracer().Errorf("config %s: cannot use %q, ignored", KeyNewtonTolerance, s)
		}
	}
	tracer().P("config", "nurbs").Debugf("%s, %d samples, %d iterations, tol=%g",
		c.Parameterization, c.ClosestSamples, c.NewtonIterations, c.NewtonTolerance)
	return c
}
