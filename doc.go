// Package boxpull pulls container-image layer blobs out of OCI registries
// and onto the local file system.
//
// The package resolves an image reference against a registry, fetches the
// image manifest, and downloads every layer blob concurrently to files
// named by digest (with the ':' separator replaced by '_'). Layer contents
// are written exactly as served by the registry; nothing is decompressed
// or unpacked.
//
// # Quick Start
//
// Pull all layers of an image into a directory:
//
//	ref, err := boxpull.ParseRef("ghcr.io/myorg/myimage:v1")
//	if err != nil {
//	    return err
//	}
//	p := boxpull.NewPuller()
//	result, err := p.Pull(ctx, ref, "/tmp/layers")
//
// Authentication and registry transport options live in the [registry]
// subpackage; pass a configured client via [WithRegistryClient]:
//
//	rc := registry.New(registry.WithBasicAuth(user, pass))
//	p := boxpull.NewPuller(boxpull.WithRegistryClient(rc))
//
// Progress is reported through a [ProgressFunc] callback, one stream of
// events per layer task. The callback is purely observational and never
// affects control flow.
package boxpull
