package registry

// Docker media types predating the OCI image spec. Registries still serve
// these for images pushed with older toolchains, so resolution accepts
// them alongside their OCI equivalents.
const (
	mediaTypeDockerManifest     = "application/vnd.docker.distribution.manifest.v2+json"
	mediaTypeDockerManifestList = "application/vnd.docker.distribution.manifest.list.v2+json"
)
