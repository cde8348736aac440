package boxpull

import (
	"context"
	"io"
	"log/slog"

	ocispec "github.com/opencontainers/image-spec/specs-go/v1"

	"github.com/boxpull/boxpull/registry"
)

// RegistryClient defines the registry operations a pull depends on.
//
// This interface abstracts the wire protocol, allowing different
// implementations (the ORAS-backed registry.Client, mocks for testing).
// Retry, token exchange, and transport concerns all live behind it.
type RegistryClient interface {
	// ResolveManifest fetches the image manifest for a reference and
	// returns it together with the resolved content digest.
	ResolveManifest(ctx context.Context, ref string) (ocispec.Manifest, string, error)

	// OpenBlob opens a byte stream for one layer blob. The second return
	// is the content length, or -1 when unknown. The caller is
	// responsible for closing the stream.
	OpenBlob(ctx context.Context, ref string, desc ocispec.Descriptor) (io.ReadCloser, int64, error)
}

// Puller downloads image layer blobs to local files.
type Puller struct {
	oci    RegistryClient
	logger *slog.Logger
}

// Option configures a Puller.
type Option func(*Puller)

// WithRegistryClient sets the registry client used to resolve manifests
// and open blob streams.
func WithRegistryClient(rc RegistryClient) Option {
	return func(p *Puller) {
		p.oci = rc
	}
}

// WithLogger sets the logger for pull operations. Without one, logging
// is discarded.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Puller) {
		p.logger = logger
	}
}

// NewPuller creates a Puller with the given options.
//
// If no registry client is provided via WithRegistryClient, a default
// anonymous registry.Client is created.
func NewPuller(opts ...Option) *Puller {
	p := &Puller{}
	for _, opt := range opts {
		opt(p)
	}

	if p.oci == nil {
		var rcOpts []registry.Option
		if p.logger != nil {
			rcOpts = append(rcOpts, registry.WithLogger(p.logger))
		}
		p.oci = registry.New(rcOpts...)
	}

	return p
}

// log returns the logger, falling back to a discard logger if nil.
func (p *Puller) log() *slog.Logger {
	if p.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return p.logger
}
