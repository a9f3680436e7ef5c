package config

// Numerical defaults. These used to be literals scattered over the solver and
// the sensitivity code; they are named here so callers can see and override them.
const (
	// DefaultRidgeLambda is added to every diagonal entry of AᵀA. It keeps the
	// normal equations strictly positive definite when two hedging instruments
	// have (nearly) identical key-rate profiles, at the cost of a tiny bias
	// towards smaller weights. Zero is allowed but gives no singularity protection.
	DefaultRidgeLambda = 1e-8

	// DefaultPivotTolerance is the smallest |pivot| accepted during elimination.
	DefaultPivotTolerance = 1e-15

	// DefaultSkipTolerance is the |factor| below which a row is not eliminated.
	DefaultSkipTolerance = 1e-18

	// DefaultBumpBP is the key-rate shock size in basis points.
	DefaultBumpBP = 1.0

	// MaxBumpBP bounds the shock; beyond it exp(±δt) overflows long before
	// the result means anything.
	MaxBumpBP = 1000.0

	// DefaultDayCount converts cashflow dates to year fractions.
	DefaultDayCount = "ACT/365.25"

	// DefaultLogLevel is used by the CLI when neither flag nor file sets one.
	DefaultLogLevel = "info"
)

// DefaultKeyGridYears is the key maturity grid used when none is supplied.
func DefaultKeyGridYears() []float64 {
	return []float64{2, 5, 7, 10, 20, 30}
}

// Config holds solver, sensitivity, archive and logging parameters.
type Config struct {
	Solver  SolverConfig  `yaml:"solver"`
	Risk    RiskConfig    `yaml:"risk"`
	Archive ArchiveConfig `yaml:"archive"`
	Log     LogConfig     `yaml:"log"`
}

// SolverConfig configures the ridge least-squares solve.
type SolverConfig struct {
	// RidgeLambda is added to the diagonal of the normal equations.
	RidgeLambda float64 `yaml:"ridge_lambda"`

	// PivotTolerance: a pivot column whose largest |entry| is below this
	// is reported as an ill-conditioned system.
	PivotTolerance float64 `yaml:"pivot_tolerance"`

	// SkipTolerance: rows whose column entry is below this are not eliminated.
	SkipTolerance float64 `yaml:"skip_tolerance"`
}

// RiskConfig configures key-rate sensitivity computation.
type RiskConfig struct {
	BumpBP       float64   `yaml:"bump_bp"`
	KeyGridYears []float64 `yaml:"key_grid_years"`
	DayCount     string    `yaml:"day_count"`

	// GuardNonFinite rejects sensitivity vectors containing NaN or ±Inf.
	// Off by default: a misbehaving discount function is the curve's problem.
	GuardNonFinite bool `yaml:"guard_non_finite"`
}

// ArchiveConfig selects where hedge runs are persisted.
type ArchiveConfig struct {
	// Driver is "", "bolt" or "postgres". Empty disables the archive.
	Driver string `yaml:"driver"`
	// Path is the bbolt database file.
	Path string `yaml:"path"`
	// DSN is the Postgres connection string.
	DSN string `yaml:"dsn"`
}

// LogConfig configures the CLI logger.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Archive drivers.
const (
	DriverNone     = ""
	DriverBolt     = "bolt"
	DriverPostgres = "postgres"
)

// Default returns a Config populated with the package defaults. Each call
// returns a fresh value, so callers may modify it freely.
func Default() Config {
	return Config{
		Solver: SolverConfig{
			RidgeLambda:    DefaultRidgeLambda,
			PivotTolerance: DefaultPivotTolerance,
			SkipTolerance:  DefaultSkipTolerance,
		},
		Risk: RiskConfig{
			BumpBP:       DefaultBumpBP,
			KeyGridYears: DefaultKeyGridYears(),
			DayCount:     DefaultDayCount,
		},
		Log: LogConfig{Level: DefaultLogLevel},
	}
}
