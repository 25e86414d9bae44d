package rxform

// SubmitState is the state of a form's submission pipeline.
type SubmitState int32

const (
	// SubmitIdle is the initial state. A failed submission stays here.
	SubmitIdle SubmitState = iota

	// SubmitSubmitted is entered on the first successful submission and is
	// terminal for the instance.
	SubmitSubmitted
)

// String returns the string representation of the state.
func (s SubmitState) String() string {
	switch s {
	case SubmitIdle:
		return "idle"
	case SubmitSubmitted:
		return "submitted"
	default:
		return "unknown"
	}
}

// RegistryState represents the current state of a Registry.
type RegistryState int32

const (
	// RegistryLoading indicates no document has been processed yet.
	RegistryLoading RegistryState = iota

	// RegistryHealthy indicates a valid document is active.
	RegistryHealthy

	// RegistryDegraded indicates the last document was rejected. The
	// previous valid document remains active.
	RegistryDegraded

	// RegistryEmpty indicates the initial document was rejected and no valid
	// document has been obtained since.
	RegistryEmpty
)

// String returns the string representation of the state.
func (s RegistryState) String() string {
	switch s {
	case RegistryLoading:
		return "loading"
	case RegistryHealthy:
		return "healthy"
	case RegistryDegraded:
		return "degraded"
	case RegistryEmpty:
		return "empty"
	default:
		return "unknown"
	}
}
