package voronoi

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoSites is returned when Compute is called with an empty site list.
var ErrNoSites = errors.New("voronoi: no sites provided")

// ErrUnknownBackend is returned when a backend name does not match a known backend.
var ErrUnknownBackend = errors.New("voronoi: unknown backend")

// ErrBackendUnavailable indicates the requested backend is not available in this build.
var ErrBackendUnavailable = errors.New("voronoi: backend unavailable")

// ErrBackendNotImplemented indicates the backend is known but not yet implemented.
var ErrBackendNotImplemented = errors.New("voronoi: backend not implemented")

// Backend identifies a kernel implementation.
type Backend string

const (
	BackendCPU Backend = "cpu"
	BackendGPU Backend = "gpu"
)

// NormalizeBackend maps arbitrary user input to a canonical backend identifier.
func NormalizeBackend(name string) Backend {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "cpu":
		return BackendCPU
	case "gpu", "opencl", "cl":
		return BackendGPU
	default:
		return Backend(name)
	}
}

// SupportedBackends returns the backends understood by NewKernel.
func SupportedBackends() []Backend {
	return []Backend{BackendCPU, BackendGPU}
}

var noopCleanup = func() {}

// NewKernel constructs the requested Kernel and returns an optional cleanup hook.
func NewKernel(name string) (Kernel, func(), error) {
	switch NormalizeBackend(name) {
	case BackendCPU:
		return NewCPUKernel(), noopCleanup, nil
	case BackendGPU:
		return newGPUKernel()
	default:
		return nil, noopCleanup, fmt.Errorf("%w: %s", ErrUnknownBackend, name)
	}
}
