package surveillance

// Config tunes the outbreak and trend checks. Values come from environment
// configuration with conservative defaults suited to a single-campus clinic.
type Config struct {
	// DefaultCasesPerWeek seeds auto-provisioned thresholds for diseases
	// without an explicit one.
	DefaultCasesPerWeek int
	// WindowDays is the rolling case-count window for outbreak checks.
	WindowDays int
	// TrendMinCases is the minimum current-week case count before a trend
	// alert can fire. Keeps 1-to-2-case jumps from alerting.
	TrendMinCases int
	// TrendMinIncreasePct is the week-over-week percentage increase a trend
	// must exceed.
	TrendMinIncreasePct float64
}

func DefaultConfig() Config {
	return Config{
		DefaultCasesPerWeek: 5,
		WindowDays:          7,
		TrendMinCases:       3,
		TrendMinIncreasePct: 100,
	}
}
