package errs

import "errors"

var (
	// ErrTicketNotFound is returned when a status update targets an unknown uid.
	ErrTicketNotFound = errors.New("ticket not found")
	// ErrUIDExhausted is returned when every uid candidate collided with an existing ticket.
	ErrUIDExhausted = errors.New("ticket uid generation exhausted")
	// ErrInit wraps any failure while loading or creating the ticket database.
	ErrInit = errors.New("ticket store initialization failed")
	// ErrPersist wraps a failed snapshot write. The in-memory change is kept but not durable.
	ErrPersist = errors.New("ticket store snapshot failed")
)
