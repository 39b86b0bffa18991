package service

// ValidationError reports a user-facing input problem; handlers map it to a
// 400 response.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }
