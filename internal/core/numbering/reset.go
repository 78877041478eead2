package numbering

import "time"

// ShouldReset reports whether the counter must return to 1 before the next
// number is issued. Comparison is by calendar component, not elapsed time:
// two instants 23 hours apart that straddle midnight count as different days.
//
// The predicate has no side effects. Applying the reset (counter=1,
// lastReset=now) is the caller's job and happens only inside the
// transactional generate path.
func ShouldReset(cfg FormatConfig, now time.Time) bool {
	switch cfg.ResetPeriod {
	case ResetDaily:
		ly, lm, ld := cfg.LastReset.Date()
		ny, nm, nd := now.Date()
		return ly != ny || lm != nm || ld != nd
	case ResetMonthly:
		return cfg.LastReset.Year() != now.Year() || cfg.LastReset.Month() != now.Month()
	case ResetYearly:
		return cfg.LastReset.Year() != now.Year()
	default:
		return false
	}
}
