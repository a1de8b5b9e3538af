package di

// Strategy determines how a wired key produces its object.
type Strategy int

const (
	StrategyValue     Strategy = iota // Shared value returned as-is
	StrategySingleton                 // Constructed on first lookup, then cached
	StrategyClass                     // Constructed on every lookup
	StrategyView                      // Constructor bound to the owning context's messenger
)

// String returns the lowercase strategy name.
func (s Strategy) String() string {
	switch s {
	case StrategyValue:
		return "value"
	case StrategySingleton:
		return "singleton"
	case StrategyClass:
		return "class"
	case StrategyView:
		return "view"
	default:
		return "unknown"
	}
}

// Configurable reports whether a wiring of this strategy accepts a payload.
func (s Strategy) Configurable() bool {
	return s == StrategySingleton || s == StrategyClass
}
