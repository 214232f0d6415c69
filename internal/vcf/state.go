package vcf

// State identifies which field of the current record the driver is
// positioned at. The state machine always advances CHROM -> POS -> ID ->
// REF -> ALT -> QUAL -> FILTER -> INFO -> FORMAT -> CALLDATA -> CHROM, and
// a record missing trailing fields (end-of-stream, or a short line) simply
// stops advancing early; it never skips or reorders states.
type State int

const (
	StateCHROM State = iota
	StatePOS
	StateID
	StateREF
	StateALT
	StateQUAL
	StateFILTER
	StateINFO
	StateFORMAT
	StateCALLDATA
)

func (s State) String() string {
	switch s {
	case StateCHROM:
		return "CHROM"
	case StatePOS:
		return "POS"
	case StateID:
		return "ID"
	case StateREF:
		return "REF"
	case StateALT:
		return "ALT"
	case StateQUAL:
		return "QUAL"
	case StateFILTER:
		return "FILTER"
	case StateINFO:
		return "INFO"
	case StateFORMAT:
		return "FORMAT"
	case StateCALLDATA:
		return "CALLDATA"
	default:
		return "UNKNOWN"
	}
}
