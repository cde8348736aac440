package boxpull

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/opencontainers/go-digest"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"golang.org/x/sync/errgroup"
)

// LayerFile describes one downloaded layer blob.
type LayerFile struct {
	// Index is the layer's 0-based position in the manifest.
	Index int

	// Digest is the layer's content digest.
	Digest digest.Digest

	// Path is the file the blob was written to.
	Path string

	// Size is the number of bytes written.
	Size int64
}

// PullResult is the outcome of a successful pull.
type PullResult struct {
	// ManifestDigest is the resolved content digest of the image manifest.
	ManifestDigest string

	// Layers lists the downloaded files in manifest order.
	Layers []LayerFile
}

// downloadTask associates one layer with its destination and progress slot.
type downloadTask struct {
	index     int // 0-based manifest position
	task      int // 1-based display index
	taskTotal int
	desc      ocispec.Descriptor
	blob      io.ReadCloser
	size      int64 // content length, -1 when unknown
}

type layerResult struct {
	path string
	size int64
	err  error
}

// Resolve fetches the image manifest for ref and returns it with the
// resolved content digest. The digest is surfaced for display and audit.
func (p *Puller) Resolve(ctx context.Context, ref ImageRef) (ocispec.Manifest, string, error) {
	p.log().Info("resolving manifest", "ref", ref.String())
	manifest, manifestDigest, err := p.oci.ResolveManifest(ctx, ref.String())
	if err != nil {
		return ocispec.Manifest{}, "", fmt.Errorf("resolve image manifest: %w", err)
	}
	p.log().Info("resolved manifest", "digest", manifestDigest, "layers", len(manifest.Layers))
	return manifest, manifestDigest, nil
}

// Pull resolves the manifest for ref and downloads every layer blob into
// destDir. It is Resolve followed by PullLayers.
func (p *Puller) Pull(ctx context.Context, ref ImageRef, destDir string, opts ...PullOption) (*PullResult, error) {
	manifest, manifestDigest, err := p.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}

	files, err := p.PullLayers(ctx, ref, manifest.Layers, destDir, opts...)
	if err != nil {
		return nil, err
	}
	return &PullResult{ManifestDigest: manifestDigest, Layers: files}, nil
}

// PullLayers downloads the given layer blobs into destDir, one file per
// layer named by digest with ':' replaced by '_'.
//
// Blob streams are opened sequentially in manifest order; each stream's
// copy to disk runs concurrently once opened. The join waits for every
// started copy. On failure the surfaced error is the failing layer with
// the lowest manifest index, regardless of completion order; sibling
// downloads are not cancelled and their completed files remain on disk,
// as do any partially written files. Cancellation comes only from ctx.
//
// Layers sharing a digest write the same path, last writer wins; since
// equal digests imply equal bytes the file still ends up complete.
func (p *Puller) PullLayers(ctx context.Context, ref ImageRef, layers []ocispec.Descriptor, destDir string, opts ...PullOption) ([]LayerFile, error) {
	cfg := pullConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	// Each layer counts as a download step plus an apply step in the
	// displayed task total.
	taskTotal := len(layers) * 2

	results := make([]layerResult, len(layers))
	var g errgroup.Group
	if cfg.maxParallel > 0 {
		g.SetLimit(cfg.maxParallel)
	}

	for i, layer := range layers {
		blob, size, err := p.oci.OpenBlob(ctx, ref.String(), layer)
		if err != nil {
			// Stop opening further streams; copies already in flight
			// run to completion and are joined below.
			results[i] = layerResult{err: fmt.Errorf("pull layer %s: %w", layer.Digest, err)}
			break
		}

		t := downloadTask{
			index:     i,
			task:      i + 1,
			taskTotal: taskTotal,
			desc:      layer,
			blob:      blob,
			size:      size,
		}
		g.Go(func() error {
			path, n, err := p.downloadLayer(t, destDir, &cfg)
			results[t.index] = layerResult{path: path, size: n, err: err}
			return err
		})
	}

	// The group's own error is join-order dependent; failure selection
	// happens below, deterministically by manifest index.
	_ = g.Wait() //nolint:errcheck

	files := make([]LayerFile, 0, len(layers))
	for i, res := range results {
		if res.err != nil {
			return nil, res.err
		}
		files = append(files, LayerFile{
			Index:  i,
			Digest: layers[i].Digest,
			Path:   res.path,
			Size:   res.size,
		})
	}
	return files, nil
}

// downloadLayer copies one opened blob stream to its destination file.
// It owns the stream and closes it before returning.
func (p *Puller) downloadLayer(t downloadTask, destDir string, cfg *pullConfig) (string, int64, error) {
	defer t.blob.Close()

	pr := &progressReader{fn: cfg.progress, task: t}
	// The final event fires on every exit so the task's indicator is
	// removed from display even when the download fails.
	defer func() { reportProgress(cfg.progress, t, pr.done, true) }()

	name := strings.ReplaceAll(t.desc.Digest.String(), ":", "_")
	path := filepath.Join(destDir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", 0, fmt.Errorf("pull layer %s: create file: %w", t.desc.Digest, err)
	}

	var src io.Reader = bufio.NewReader(t.blob)

	var verifier digest.Verifier
	if cfg.verify {
		if err := t.desc.Digest.Validate(); err != nil {
			f.Close()
			return "", 0, fmt.Errorf("pull layer %s: invalid digest: %w", t.desc.Digest, err)
		}
		verifier = t.desc.Digest.Verifier()
		src = io.TeeReader(src, verifier)
	}

	pr.r = src
	n, err := io.Copy(f, pr)
	if err != nil {
		f.Close()
		return "", 0, fmt.Errorf("pull layer %s: download blob: %w", t.desc.Digest, err)
	}

	if err := f.Sync(); err != nil {
		f.Close()
		return "", 0, fmt.Errorf("pull layer %s: flush downloaded blob: %w", t.desc.Digest, err)
	}
	if err := f.Close(); err != nil {
		return "", 0, fmt.Errorf("pull layer %s: close downloaded blob: %w", t.desc.Digest, err)
	}

	if verifier != nil && !verifier.Verified() {
		return "", 0, fmt.Errorf("pull layer %s: %w", t.desc.Digest, ErrDigestMismatch)
	}

	p.log().Debug("layer downloaded", "digest", t.desc.Digest.String(), "bytes", n, "path", path)
	return path, n, nil
}

// progressReader counts bytes as they pass through and reports them.
type progressReader struct {
	r    io.Reader
	fn   ProgressFunc
	task downloadTask
	done int64
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.r.Read(p)
	if n > 0 {
		pr.done += int64(n)
		reportProgress(pr.fn, pr.task, pr.done, false)
	}
	return n, err
}

// reportProgress sends a progress event if a callback is configured.
func reportProgress(fn ProgressFunc, t downloadTask, bytesDone int64, done bool) {
	if fn == nil {
		return
	}
	fn(ProgressEvent{
		Task:       t.task,
		TaskTotal:  t.taskTotal,
		Digest:     t.desc.Digest,
		BytesDone:  bytesDone,
		BytesTotal: t.size,
		Done:       done,
	})
}
