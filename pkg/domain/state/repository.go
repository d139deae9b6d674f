package state

// Repository persists the durable record of a workspace.
type Repository interface {
	Initialize() error
	IsInitialized() bool
	// LoadState returns the stored snapshot merged over Default. A missing
	// or unreadable snapshot yields defaults together with a non-nil error
	// describing why; callers may treat the error as a warning.
	LoadState() (*State, error)
	SaveState(s *State) error
}
