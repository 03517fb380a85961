package bustimes

import (
	"errors"
)

var (
	// The stop code isn't a well formed ATCO code. Nothing was fetched.
	ErrInvalidStopCode = errors.New("invalid ATCO stop code format")

	// Date and time must be given together, as YYYY-MM-DD and HH:MM.
	ErrInvalidQuery = errors.New("invalid departures query")

	// The departures page for the stop doesn't exist upstream.
	ErrStopNotFound = errors.New("bus stop not found")

	// Anything else going wrong while fetching departures.
	ErrFetchFailed = errors.New("failed to fetch bus departures")

	// The stops API returned something not shaped like stop metadata.
	ErrInvalidMetadata = errors.New("invalid stop metadata")
)
