package port

// Logger is the append-only warning/error sink for non-fatal per-item
// failures. The orchestrator never logs through anything wider.
type Logger interface {
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}
