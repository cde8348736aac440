//go:build integration

package integration

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/opencontainers/go-digest"
	specs "github.com/opencontainers/image-spec/specs-go"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"oras.land/oras-go/v2/registry/remote"

	"github.com/boxpull/boxpull"
	"github.com/boxpull/boxpull/registry"
)

// --- Registry Container Setup ---

var (
	registryOnce sync.Once
	registryAddr string
	registryErr  error
)

// getRegistry returns the shared registry address, starting the container if needed.
// The container is shared across all tests for performance.
func getRegistry(tb testing.TB) string {
	tb.Helper()

	if os.Getenv("SKIP_DOCKER_TESTS") == "1" {
		tb.Skip("SKIP_DOCKER_TESTS is set")
	}

	registryOnce.Do(func() {
		ctx := context.Background()
		registryAddr, registryErr = startRegistryContainer(ctx)
	})

	if registryErr != nil {
		tb.Fatalf("start registry container: %v", registryErr)
	}

	return registryAddr
}

// startRegistryContainer starts a registry:2 container and returns the host:port address.
func startRegistryContainer(ctx context.Context) (string, error) {
	req := testcontainers.ContainerRequest{
		Image:        "registry:2",
		ExposedPorts: []string{"5000/tcp"},
		WaitingFor:   wait.ForHTTP("/v2/").WithPort("5000/tcp").WithStatusCodeMatcher(isOKStatus),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return "", fmt.Errorf("start registry container: %w", err)
	}

	// Note: Container cleanup is handled by testcontainers Reaper.

	host, err := container.Host(ctx)
	if err != nil {
		return "", fmt.Errorf("resolve registry host: %w", err)
	}

	port, err := container.MappedPort(ctx, "5000/tcp")
	if err != nil {
		return "", fmt.Errorf("resolve registry port: %w", err)
	}

	return fmt.Sprintf("%s:%s", host, port.Port()), nil
}

func isOKStatus(status int) bool {
	return status >= 200 && status < 300
}

// --- Test Puller Factory ---

// newTestPuller creates a Puller configured for the local plain-HTTP registry.
func newTestPuller(tb testing.TB, opts ...registry.Option) *boxpull.Puller {
	tb.Helper()

	allOpts := append([]registry.Option{registry.WithPlainHTTP(true)}, opts...)
	return boxpull.NewPuller(boxpull.WithRegistryClient(registry.New(allOpts...)))
}

// --- Image Seeding ---

// pushImage pushes a minimal image (empty config plus the given layers)
// to the test registry and returns the manifest digest.
func pushImage(tb testing.TB, registryAddr, name, tag string, layers [][]byte) string {
	tb.Helper()
	ctx := context.Background()

	repo, err := remote.NewRepository(registryAddr + "/test/" + name)
	require.NoError(tb, err, "create repository")
	repo.PlainHTTP = true

	config := []byte("{}")
	configDesc := ocispec.Descriptor{
		MediaType: ocispec.MediaTypeImageConfig,
		Digest:    digest.FromBytes(config),
		Size:      int64(len(config)),
	}
	require.NoError(tb, repo.Blobs().Push(ctx, configDesc, bytes.NewReader(config)), "push config blob")

	layerDescs := make([]ocispec.Descriptor, 0, len(layers))
	for _, content := range layers {
		desc := ocispec.Descriptor{
			MediaType: ocispec.MediaTypeImageLayer,
			Digest:    digest.FromBytes(content),
			Size:      int64(len(content)),
		}
		require.NoError(tb, repo.Blobs().Push(ctx, desc, bytes.NewReader(content)), "push layer blob")
		layerDescs = append(layerDescs, desc)
	}

	manifest := ocispec.Manifest{
		Versioned: specs.Versioned{SchemaVersion: 2},
		MediaType: ocispec.MediaTypeImageManifest,
		Config:    configDesc,
		Layers:    layerDescs,
	}
	data, err := json.Marshal(manifest)
	require.NoError(tb, err, "marshal manifest")

	manifestDesc := ocispec.Descriptor{
		MediaType: ocispec.MediaTypeImageManifest,
		Digest:    digest.FromBytes(data),
		Size:      int64(len(data)),
	}
	require.NoError(tb, repo.PushReference(ctx, manifestDesc, bytes.NewReader(data), tag), "push manifest")

	return manifestDesc.Digest.String()
}

// --- Test Reference Helpers ---

// testRef generates a unique reference for a test to avoid collisions.
func testRef(tb testing.TB, registryAddr, testName, tag string) boxpull.ImageRef {
	tb.Helper()
	ref, err := boxpull.ParseRef(fmt.Sprintf("%s/test/%s:%s", registryAddr, testName, tag))
	require.NoError(tb, err, "parse test reference")
	return ref
}

// --- Test Data Helpers ---

// makeRandomContent creates random binary content.
func makeRandomContent(size int) []byte {
	data := make([]byte, size)
	_, _ = rand.Read(data)
	return data
}

// layerPath is the expected destination file for a layer's content.
func layerPath(dir string, content []byte) string {
	name := strings.ReplaceAll(digest.FromBytes(content).String(), ":", "_")
	return filepath.Join(dir, name)
}
