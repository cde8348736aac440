// Package registry wraps ORAS to provide the registry operations boxpull
// needs: resolving an image reference to its manifest (selecting a
// platform when the reference points at a multi-platform index) and
// opening layer blob streams.
//
// Authentication, token exchange, and transport retry all live here;
// callers above this package see a single request/response per operation.
package registry
