package service

// ValidationError is a client-facing constraint violation raised at the
// service layer. Handlers pass its message through unmodified.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }
