//go:build gpu

package voronoi

import (
	"fmt"

	"github.com/voronoimosaic/engine/internal/voronoi/gpu"
)

// newGPUKernel is reachable when this binary is built with '-tags gpu', but
// the GPU kernel itself has never been implemented: it reports back a clear
// error rather than silently falling back to the CPU path.
func newGPUKernel() (Kernel, func(), error) {
	rt, err := gpu.Init()
	if err != nil {
		return nil, noopCleanup, fmt.Errorf("%w: %v", ErrBackendNotImplemented, err)
	}
	return nil, func() { rt.Close() }, ErrBackendNotImplemented
}
