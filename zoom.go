package shotform

// ZoomState is the visual transform applied to the render surface.  The
// origin is expressed as a percentage of the surface dimensions so the same
// state applies to the live preview and the export surface regardless of
// their pixel sizes.
type ZoomState struct {
	Scale   float64
	OriginX float64
	OriginY float64
}

// NeutralZoom returns the identity transform, scale 1 centred on the
// surface.  This is both the initial state and the stage 1 default.
func NeutralZoom() ZoomState {
	return ZoomState{Scale: 1, OriginX: 50, OriginY: 50}
}

// IsNeutral reports whether the state is the identity transform
func (z ZoomState) IsNeutral() bool {
	return z.Scale == 1 && z.OriginX == 50 && z.OriginY == 50
}

// Toggles controls which overlay layers are drawn on a frame
type Toggles struct {
	Skeleton    bool
	Joints      bool
	Ball        bool
	Annotations bool
}

// DefaultToggles returns the toggle set with every layer enabled
func DefaultToggles() Toggles {
	return Toggles{Skeleton: true, Joints: true, Ball: true, Annotations: true}
}
