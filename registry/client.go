package registry

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	orasregistry "oras.land/oras-go/v2/registry"
	"oras.land/oras-go/v2/registry/remote"
	"oras.land/oras-go/v2/registry/remote/auth"
	"oras.land/oras-go/v2/registry/remote/retry"
)

// Client performs registry operations for a fixed credential mode.
//
// The zero-option client is anonymous over HTTPS. A single auth.Client
// with a token cache is shared across requests so bearer tokens are
// reused between the manifest fetch and the blob fetches.
type Client struct {
	plainHTTP bool
	userAgent string

	// basic is set when basic credentials were provided; either field may
	// be empty, since some registries accept half-empty basic auth.
	basic    bool
	username string
	password string

	authClient *auth.Client
	logger     *slog.Logger
}

// New creates a Client with the given options.
func New(opts ...Option) *Client {
	c := &Client{
		userAgent: "boxpull/1.0",
	}
	for _, opt := range opts {
		opt(c)
	}

	c.authClient = &auth.Client{
		Client: retry.DefaultClient,
		Cache:  auth.NewCache(),
		Credential: func(ctx context.Context, hostport string) (auth.Credential, error) {
			if !c.basic {
				return auth.EmptyCredential, nil
			}
			return auth.Credential{Username: c.username, Password: c.password}, nil
		},
		Header: http.Header{
			"User-Agent": []string{c.userAgent},
		},
	}

	return c
}

// log returns the logger, falling back to a discard logger if nil.
func (c *Client) log() *slog.Logger {
	if c.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.logger
}

// repository creates a Repository for the given reference.
// Uses the shared auth client to reuse tokens across requests.
func (c *Client) repository(ref orasregistry.Reference) (*remote.Repository, error) {
	repo, err := remote.NewRepository(ref.Registry + "/" + ref.Repository)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidReference, err)
	}

	repo.PlainHTTP = c.plainHTTP
	repo.Client = c.authClient

	return repo, nil
}

// parseRef parses a full reference into registry, repository, and tag/digest.
func parseRef(ref string) (orasregistry.Reference, error) {
	r, err := orasregistry.ParseReference(ref)
	if err != nil {
		return orasregistry.Reference{}, fmt.Errorf("%w: %v", ErrInvalidReference, err)
	}
	if r.Reference == "" {
		return orasregistry.Reference{}, fmt.Errorf("%w: reference must include a tag or digest", ErrInvalidReference)
	}
	return r, nil
}
