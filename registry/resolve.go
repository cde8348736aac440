package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime"

	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"oras.land/oras-go/v2/content"
)

// ResolveManifest fetches the image manifest for ref and returns it with
// the resolved content digest.
//
// The reference must include a tag or digest. When it resolves to a
// multi-platform index or Docker manifest list, the entry matching the
// running host is selected (exact OS/architecture first, then linux with
// the host architecture, then the first image manifest in the index); the
// returned digest is that of the selected image manifest. The operation
// is a single request/response chain with no retry beyond the transport's.
func (c *Client) ResolveManifest(ctx context.Context, ref string) (ocispec.Manifest, string, error) {
	parsed, err := parseRef(ref)
	if err != nil {
		return ocispec.Manifest{}, "", err
	}

	repo, err := c.repository(parsed)
	if err != nil {
		return ocispec.Manifest{}, "", err
	}

	desc, rc, err := repo.FetchReference(ctx, parsed.Reference)
	if err != nil {
		return ocispec.Manifest{}, "", mapError(err)
	}
	defer rc.Close()

	data, err := content.ReadAll(rc, desc)
	if err != nil {
		return ocispec.Manifest{}, "", fmt.Errorf("read manifest %s: %w", desc.Digest, err)
	}

	switch desc.MediaType {
	case ocispec.MediaTypeImageManifest, mediaTypeDockerManifest:
		manifest, err := decodeManifest(data)
		if err != nil {
			return ocispec.Manifest{}, "", err
		}
		return manifest, desc.Digest.String(), nil

	case ocispec.MediaTypeImageIndex, mediaTypeDockerManifestList:
		c.log().Debug("reference is a multi-platform index", "digest", desc.Digest.String())
		return c.resolveFromIndex(ctx, repo, data)

	default:
		return ocispec.Manifest{}, "", fmt.Errorf("%w: %s", ErrUnsupportedMediaType, desc.MediaType)
	}
}

// resolveFromIndex selects a platform entry from index data and fetches
// the image manifest it points to.
func (c *Client) resolveFromIndex(ctx context.Context, fetcher content.Fetcher, data []byte) (ocispec.Manifest, string, error) {
	var index ocispec.Index
	if err := json.Unmarshal(data, &index); err != nil {
		return ocispec.Manifest{}, "", fmt.Errorf("decode index: %w", err)
	}

	picked, ok := selectPlatform(index.Manifests, runtime.GOOS, runtime.GOARCH)
	if !ok {
		return ocispec.Manifest{}, "", ErrNoMatchingPlatform
	}
	c.log().Debug("selected platform manifest",
		"digest", picked.Digest.String(),
		"os", runtime.GOOS,
		"arch", runtime.GOARCH,
	)

	manifestData, err := content.FetchAll(ctx, fetcher, picked)
	if err != nil {
		return ocispec.Manifest{}, "", mapError(err)
	}

	manifest, err := decodeManifest(manifestData)
	if err != nil {
		return ocispec.Manifest{}, "", err
	}
	return manifest, picked.Digest.String(), nil
}

// selectPlatform picks the most reasonable manifest entry for the host.
//
// Preference order: exact os/arch match, then linux with the host
// architecture, then the first image manifest in the index. Entries that
// are not image manifests are never picked.
func selectPlatform(entries []ocispec.Descriptor, os, arch string) (ocispec.Descriptor, bool) {
	var linuxMatch, first *ocispec.Descriptor

	for i := range entries {
		e := &entries[i]
		if !isImageManifest(e.MediaType) {
			continue
		}
		if first == nil {
			first = e
		}
		if e.Platform == nil {
			continue
		}
		if e.Platform.OS == os && e.Platform.Architecture == arch {
			return *e, true
		}
		if linuxMatch == nil && e.Platform.OS == "linux" && e.Platform.Architecture == arch {
			linuxMatch = e
		}
	}

	if linuxMatch != nil {
		return *linuxMatch, true
	}
	if first != nil {
		return *first, true
	}
	return ocispec.Descriptor{}, false
}

func isImageManifest(mediaType string) bool {
	return mediaType == ocispec.MediaTypeImageManifest || mediaType == mediaTypeDockerManifest
}

func decodeManifest(data []byte) (ocispec.Manifest, error) {
	var manifest ocispec.Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return ocispec.Manifest{}, fmt.Errorf("decode manifest: %w", err)
	}
	return manifest, nil
}
