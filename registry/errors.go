package registry

import (
	"errors"
	"fmt"
	"net/http"

	"oras.land/oras-go/v2/errdef"
	"oras.land/oras-go/v2/registry/remote/errcode"
)

// Sentinel errors for registry operations.
var (
	// ErrNotFound is returned when the image or blob does not exist.
	ErrNotFound = errors.New("registry: not found")

	// ErrUnauthorized is returned when the registry rejects the credentials.
	ErrUnauthorized = errors.New("registry: unauthorized")

	// ErrForbidden is returned when the credentials lack access.
	ErrForbidden = errors.New("registry: forbidden")

	// ErrInvalidReference is returned when a reference string is malformed
	// or lacks a tag/digest.
	ErrInvalidReference = errors.New("registry: invalid reference")

	// ErrUnsupportedMediaType is returned when the resolved manifest is
	// neither an OCI/Docker image manifest nor an index.
	ErrUnsupportedMediaType = errors.New("registry: unsupported media type")

	// ErrNoMatchingPlatform is returned when a multi-platform index has no
	// usable manifest entry.
	ErrNoMatchingPlatform = errors.New("registry: no matching platform in index")
)

// mapError maps ORAS errors to our sentinel errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, errdef.ErrNotFound) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	// ORAS wraps HTTP errors, check for specific error types
	var errResp *errcode.ErrorResponse
	if errors.As(err, &errResp) {
		switch errResp.StatusCode {
		case http.StatusNotFound:
			return fmt.Errorf("%w: %v", ErrNotFound, err)
		case http.StatusUnauthorized:
			return fmt.Errorf("%w: %v", ErrUnauthorized, err)
		case http.StatusForbidden:
			return fmt.Errorf("%w: %v", ErrForbidden, err)
		}
	}
	return err
}
