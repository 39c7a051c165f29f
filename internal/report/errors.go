package report

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Sentinel errors, comparable with errors.Is.
var (
	// ErrInvalidPeriod indicates an unknown reporting period.
	ErrInvalidPeriod = constError("invalid period type")

	// ErrNotFound indicates a record ID unknown to the store.
	ErrNotFound = constError("record not found")
)
