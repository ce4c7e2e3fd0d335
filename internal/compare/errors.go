package compare

import "errors"

// UnsupportedModelMessage is the client facing text for ErrUnsupportedModel.
const UnsupportedModelMessage = "Unsupported model selected"

var (
	ErrUnsupportedModel = errors.New("unsupported model selected")
	ErrEmptyText        = errors.New("text1 and text2 must not be empty")
)

// ComputationError reports a failure while embedding or scoring. Its message
// is safe to return to clients.
type ComputationError struct {
	Model string
	Err   error
}

func (e *ComputationError) Error() string {
	return "Error computing embeddings: " + e.Err.Error()
}

func (e *ComputationError) Unwrap() error { return e.Err }
