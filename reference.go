package boxpull

import (
	"fmt"
	"strings"
)

// Default values applied when an image reference omits them.
const (
	// DefaultRegistry is used when the reference has no registry segment.
	DefaultRegistry = "docker.io"

	// DefaultTag is used when the reference has neither a tag nor a digest.
	DefaultTag = "latest"
)

// ImageRef is a parsed container-image reference.
//
// Exactly one of Tag or Digest is set. An ImageRef is immutable once
// constructed; build one with ParseRef.
type ImageRef struct {
	// Registry is the host the image can be pulled from.
	Registry string

	// Repository is the image's repository within the registry.
	Repository string

	// Tag is the named version, e.g. "latest" or "v1.0".
	Tag string

	// Digest is the content-addressed version, e.g. "sha256:abcd...".
	Digest string
}

// ParseRef parses a reference of the form [registry/]repository[:tag|@digest].
//
// The registry defaults to DefaultRegistry when the reference contains no
// '/' separator, and the tag defaults to DefaultTag when neither a ':tag'
// nor an '@digest' suffix is present. A trailing ':tag' takes precedence
// over '@digest' when both separators appear.
//
// Parse failures wrap ErrInvalidReference together with one of the
// ErrMissing* sentinels identifying the empty segment.
func ParseRef(s string) (ImageRef, error) {
	registry := DefaultRegistry
	rest := s
	if reg, remainder, ok := strings.Cut(s, "/"); ok {
		registry = reg
		rest = remainder
	}
	if registry == "" {
		return ImageRef{}, fmt.Errorf("%w: %w", ErrInvalidReference, ErrMissingRegistry)
	}

	if repo, tag, ok := rsplit(rest, ':'); ok {
		if repo == "" {
			return ImageRef{}, fmt.Errorf("%w: %w", ErrInvalidReference, ErrMissingRepository)
		}
		if tag == "" {
			return ImageRef{}, fmt.Errorf("%w: %w", ErrInvalidReference, ErrMissingTag)
		}
		return ImageRef{Registry: registry, Repository: repo, Tag: tag}, nil
	}

	if repo, dgst, ok := rsplit(rest, '@'); ok {
		if repo == "" {
			return ImageRef{}, fmt.Errorf("%w: %w", ErrInvalidReference, ErrMissingRepository)
		}
		if dgst == "" {
			return ImageRef{}, fmt.Errorf("%w: %w", ErrInvalidReference, ErrMissingDigest)
		}
		return ImageRef{Registry: registry, Repository: repo, Digest: dgst}, nil
	}

	if rest == "" {
		return ImageRef{}, fmt.Errorf("%w: %w", ErrInvalidReference, ErrMissingRepository)
	}
	return ImageRef{Registry: registry, Repository: rest, Tag: DefaultTag}, nil
}

// rsplit splits s around the last occurrence of sep.
func rsplit(s string, sep byte) (before, after string, found bool) {
	if i := strings.LastIndexByte(s, sep); i >= 0 {
		return s[:i], s[i+1:], true
	}
	return s, "", false
}

// IsDigest reports whether the reference pins a digest rather than a tag.
func (r ImageRef) IsDigest() bool {
	return r.Digest != ""
}

// Version returns the tag or digest, whichever is set.
func (r ImageRef) Version() string {
	if r.IsDigest() {
		return r.Digest
	}
	return r.Tag
}

// String returns the canonical form of the reference, always including the
// registry and version. Parsing the result yields an equal ImageRef.
func (r ImageRef) String() string {
	if r.IsDigest() {
		return r.Registry + "/" + r.Repository + "@" + r.Digest
	}
	return r.Registry + "/" + r.Repository + ":" + r.Tag
}

// Name returns a short display form without the registry, e.g. "nginx:latest".
func (r ImageRef) Name() string {
	if r.IsDigest() {
		return r.Repository + "@" + r.Digest
	}
	return r.Repository + ":" + r.Tag
}
