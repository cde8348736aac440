package boxpull

import "errors"

// Sentinel errors for reference parsing and pull operations.
var (
	// ErrInvalidReference is returned when an image reference string is malformed.
	ErrInvalidReference = errors.New("boxpull: invalid image reference")

	// ErrMissingRegistry is returned when the registry segment is empty.
	ErrMissingRegistry = errors.New("image registry must be provided")

	// ErrMissingRepository is returned when the repository segment is empty.
	ErrMissingRepository = errors.New("image repository must be provided")

	// ErrMissingTag is returned when a ':' suffix carries no tag.
	ErrMissingTag = errors.New("image tag must be provided")

	// ErrMissingDigest is returned when an '@' suffix carries no digest.
	ErrMissingDigest = errors.New("image digest must be provided")

	// ErrOutputIsFile is returned when the output path exists and is a regular file.
	ErrOutputIsFile = errors.New("boxpull: output path is a regular file")

	// ErrDigestMismatch is returned when a downloaded blob does not match its
	// declared digest and verification was requested.
	ErrDigestMismatch = errors.New("boxpull: digest mismatch")
)
