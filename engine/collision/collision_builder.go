package collision

import "github.com/Carmen-Shannon/oxy-ifpv/engine/host"

type ResolverBuilderOption func(*resolverImpl)

// WithLayers replaces the accepted collision layers.
//
// Parameters:
//   - layers: the layers that block the camera
//
// Returns:
//   - ResolverBuilderOption: option function to apply
func WithLayers(layers ...host.Layer) ResolverBuilderOption {
	return func(r *resolverImpl) {
		r.mask = MaskOf(layers...)
	}
}
