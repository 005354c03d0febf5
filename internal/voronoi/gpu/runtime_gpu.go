//go:build gpu

package gpu

import "errors"

// Runtime would own the device context and command queue for a GPU-backed
// kernel. Device enumeration and compute dispatch are not implemented; the
// 'gpu' build tag exists so callers can select the backend without a build
// failure, and get a clear runtime error instead.
type Runtime struct {
	deviceName string
}

// ErrNotImplemented is returned by every GPU entry point.
var ErrNotImplemented = errors.New("voronoi gpu backend is not implemented")

// Init enumerates no devices and always fails. A real implementation would
// query the platform here and build a compute context.
func Init() (*Runtime, error) {
	return nil, ErrNotImplemented
}

// Close is a no-op; no device resources are ever acquired.
func (r *Runtime) Close() {}
