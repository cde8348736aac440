package registry

import (
	"context"
	"io"

	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
)

// OpenBlob opens a byte stream for one layer blob.
//
// The second return is the content length taken from the descriptor, or
// -1 when the manifest did not declare a size. The caller is responsible
// for closing the stream.
func (c *Client) OpenBlob(ctx context.Context, ref string, desc ocispec.Descriptor) (io.ReadCloser, int64, error) {
	parsed, err := parseRef(ref)
	if err != nil {
		return nil, 0, err
	}

	repo, err := c.repository(parsed)
	if err != nil {
		return nil, 0, err
	}

	rc, err := repo.Blobs().Fetch(ctx, desc)
	if err != nil {
		return nil, 0, mapError(err)
	}

	size := desc.Size
	if size <= 0 {
		size = -1
	}
	c.log().Debug("opened blob stream", "digest", desc.Digest.String(), "size", size)
	return rc, size, nil
}
