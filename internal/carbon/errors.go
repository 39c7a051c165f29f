package carbon

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Sentinel errors, comparable with errors.Is.
var (
	// ErrInvalidQuantity indicates a NaN, infinite or negative quantity.
	ErrInvalidQuantity = constError("invalid quantity")

	// ErrInvalidDataset indicates a reference dataset that fails validation.
	ErrInvalidDataset = constError("invalid reference dataset")

	// ErrInvalidVehicleTable indicates a vehicle factor table that cannot be read.
	ErrInvalidVehicleTable = constError("invalid vehicle factor table")
)
