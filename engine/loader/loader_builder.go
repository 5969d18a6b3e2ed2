package loader

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithAxisConvention sets the up axis of the files being loaded.
//
// Parameters:
//   - axis: AxisYUp (default) or AxisZUp
//
// Returns:
//   - LoaderBuilderOption: a function that applies the option to a loader
func WithAxisConvention(axis AxisConvention) LoaderBuilderOption {
	return func(l *loader) {
		l.axis = axis
	}
}

// WithUnitScale multiplies every node translation by scale. Values <= 0 are ignored.
//
// Parameters:
//   - scale: game units per file unit
//
// Returns:
//   - LoaderBuilderOption: a function that applies the option to a loader
func WithUnitScale(scale float64) LoaderBuilderOption {
	return func(l *loader) {
		if scale > 0 {
			l.unitScale = scale
		}
	}
}
