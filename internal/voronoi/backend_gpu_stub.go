//go:build !gpu

package voronoi

// newGPUKernel reports that this binary was built without GPU support.
// Build with '-tags gpu' to select the GPU backend.
func newGPUKernel() (Kernel, func(), error) {
	return nil, noopCleanup, ErrBackendUnavailable
}
