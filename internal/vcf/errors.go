package vcf

import "fmt"

// FatalError is returned for conditions the format permissiveness contract
// does not cover: an unreachable state, a FORMAT dispatch pointer with no
// backing sub-parser, or any other internal contract violation. Parsing
// aborts immediately when one of these occurs, unlike a Warning.
type FatalError struct {
	VariantIndex int64
	State        State
	Message      string
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("vcf: fatal error at variant %d, state %s: %s", e.VariantIndex, e.State, e.Message)
}

// Warning is a recoverable parse anomaly: an empty or unparseable numeric
// value, an overlong string, more values than the declared cardinality, an
// unknown INFO/FORMAT key, an empty FILTER token, and so on. Warnings never
// implement error; they are data collected alongside a successful parse,
// not a control-flow signal a caller can mistake for one.
type Warning struct {
	VariantIndex int64
	Field        string
	Message      string
}

func (w Warning) String() string {
	return fmt.Sprintf("vcf: variant %d, field %s: %s", w.VariantIndex, w.Field, w.Message)
}
