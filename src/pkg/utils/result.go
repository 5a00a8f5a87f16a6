package utils

// Result is the envelope every usecase method returns: either Data or Error
// is set, never both.
type Result struct {
	Data  interface{}
	Error error
}
