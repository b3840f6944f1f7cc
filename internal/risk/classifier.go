// Package risk maps the change signals of one function to an ordered risk
// level.
package risk

// Policy holds the caller-configurable parts of classification.
type Policy struct {
	// AddedParamsBreak treats a newly added parameter as a prototype change,
	// which raises the function to High. Removed parameters and return type
	// changes always do.
	AddedParamsBreak bool `yaml:"added_params_break" mapstructure:"added_params_break"`
}

// DefaultPolicy elevates added parameters.
func DefaultPolicy() Policy {
	return Policy{AddedParamsBreak: true}
}

// Classify is the decision table, evaluated top to bottom:
//
//	removed            -> Severe
//	prototype changed  -> High
//	body changed       -> Medium
//	otherwise          -> Low
func Classify(removed, prototypeChanged, bodyChanged bool) Level {
	switch {
	case removed:
		return LevelSevere
	case prototypeChanged:
		return LevelHigh
	case bodyChanged:
		return LevelMedium
	default:
		return LevelLow
	}
}
