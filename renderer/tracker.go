package renderer

import "github.com/richinsley/goshaderwave/scene"

// buildTracker remembers which meshes have GPU state and, for meshes whose
// first build failed, the material version that failed.
type buildTracker struct {
	built  map[*scene.Mesh]bool
	failed map[*scene.Mesh]uint64
}

func newBuildTracker() *buildTracker {
	return &buildTracker{
		built:  make(map[*scene.Mesh]bool),
		failed: make(map[*scene.Mesh]uint64),
	}
}

// due reports whether mesh should be built now. A failed mesh is retried
// once its material has been rebuilt past the failing version.
func (t *buildTracker) due(mesh *scene.Mesh) bool {
	if t.built[mesh] || !mesh.Ready() {
		return false
	}
	v, failed := t.failed[mesh]
	return !failed || mesh.Material.Version() != v
}

func (t *buildTracker) succeed(mesh *scene.Mesh) {
	t.built[mesh] = true
	delete(t.failed, mesh)
}

func (t *buildTracker) fail(mesh *scene.Mesh, version uint64) {
	t.failed[mesh] = version
}
