//go:build !gpu

package gpu

import "fmt"

// Runtime is a placeholder when GPU support is not compiled in.
type Runtime struct{}

// ErrNotBuilt indicates the binary was built without GPU support.
var ErrNotBuilt = fmt.Errorf("voronoi gpu backend requires building with '-tags gpu'")

// Init returns an error when GPU support is not compiled in.
func Init() (*Runtime, error) {
	return nil, ErrNotBuilt
}

// Close is a no-op without GPU support.
func (r *Runtime) Close() {}
