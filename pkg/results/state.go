package results

// State classifies the cursor position within the model sequence. The
// presentation layer uses it to enable or disable its "previous" and
// "next" controls.
type State int

const (
	NoResult     State = iota // No model could be produced
	SingleResult              // Exactly one model exists
	FirstResult               // At the first model, more are available
	InterResult               // Between the first and the last model
	LastResult                // At the last model, earlier ones exist
)

var stateNames = map[State]string{
	NoResult:     "NoResult",
	SingleResult: "SingleResult",
	FirstResult:  "FirstResult",
	InterResult:  "InterResult",
	LastResult:   "LastResult",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "UnknownState"
}

// CanAdvance reports whether Advance is permitted in s.
func (s State) CanAdvance() bool {
	return s == FirstResult || s == InterResult
}

// CanRetreat reports whether Retreat is permitted in s.
func (s State) CanRetreat() bool {
	return s == InterResult || s == LastResult
}

// stateOf derives the navigation state from the cursor's neighbourhood.
func stateOf(empty, hasPrevious, hasNext bool) State {
	switch {
	case empty:
		return NoResult
	case !hasPrevious && !hasNext:
		return SingleResult
	case !hasPrevious:
		return FirstResult
	case !hasNext:
		return LastResult
	default:
		return InterResult
	}
}
