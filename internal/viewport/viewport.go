// Package viewport keeps the scale and translation of a zoomable surface and
// turns wheel, pinch and pan gestures into updates of that transform.
package viewport

import (
	"math"

	apperrors "ordertrack/internal/errors"
)

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type State struct {
	Scale      float64 `json:"scale"`
	TranslateX float64 `json:"translateX"`
	TranslateY float64 `json:"translateY"`
}

type Config struct {
	Name               string
	MinScale           float64
	MaxScale           float64
	PanAllowedBelowOne bool
	FitMargin          float64
	FitMaxScale        float64
	WheelSensitivity   float64
}

// PageConfig is the whole-page zoom: narrow range, no panning until zoomed in.
func PageConfig() Config {
	return Config{
		Name:               "page",
		MinScale:           0.5,
		MaxScale:           2.0,
		PanAllowedBelowOne: false,
		FitMargin:          0.9,
		FitMaxScale:        3.0,
		WheelSensitivity:   0.002,
	}
}

// TableConfig is the data grid viewport, which can always be panned.
func TableConfig() Config {
	return Config{
		Name:               "table",
		MinScale:           0.3,
		MaxScale:           5.0,
		PanAllowedBelowOne: true,
		FitMargin:          0.9,
		FitMaxScale:        3.0,
		WheelSensitivity:   0.002,
	}
}

// Guard reports whether gestures are currently suppressed and why.
type Guard func() (suppressed bool, reason string)

type pinchGesture struct {
	startDistance float64
	startScale    float64
}

type panGesture struct {
	origin  Point
	startTX float64
	startTY float64
}

// Controller is not safe for concurrent use.
type Controller struct {
	cfg   Config
	state State
	guard Guard
	pinch *pinchGesture
	pan   *panGesture
}

func New(cfg Config, guard Guard) *Controller {
	if guard == nil {
		guard = func() (bool, string) { return false, "" }
	}
	return &Controller{
		cfg:   cfg,
		state: State{Scale: 1},
		guard: guard,
	}
}

func (c *Controller) Name() string {
	return c.cfg.Name
}

func (c *Controller) Config() Config {
	return c.cfg
}

func (c *Controller) State() State {
	return c.state
}

// ContentPoint maps a screen coordinate back to content coordinates.
func (c *Controller) ContentPoint(screen Point) Point {
	return Point{
		X: (screen.X - c.state.TranslateX) / c.state.Scale,
		Y: (screen.Y - c.state.TranslateY) / c.state.Scale,
	}
}

// AnchoredZoom changes the scale, clamped to the configured range, keeping
// the content under anchor in place.
func (c *Controller) AnchoredZoom(newScale float64, anchor Point) (State, error) {
	if err := c.check("zoom"); err != nil {
		return c.state, err
	}
	if newScale <= 0 || math.IsNaN(newScale) || math.IsInf(newScale, 0) {
		return c.state, apperrors.NewValidationError("invalid scale", apperrors.ValidationDetail{
			Field:   "scale",
			Message: "scale must be a positive number",
		})
	}

	c.zoomTo(newScale, anchor)
	return c.state, nil
}

// Wheel zooms around the cursor only while the modifier key is held. Without
// it the wheel scrolls and the transform is left alone.
func (c *Controller) Wheel(deltaY float64, modifier bool, cursor Point) (State, error) {
	if !modifier {
		return c.state, nil
	}
	if err := c.check("wheel"); err != nil {
		return c.state, err
	}

	factor := math.Exp(-deltaY * c.cfg.WheelSensitivity)
	c.zoomTo(c.state.Scale*factor, cursor)
	return c.state, nil
}

func (c *Controller) PinchStart(p1, p2 Point) (State, error) {
	if err := c.check("pinch"); err != nil {
		return c.state, err
	}

	d := distance(p1, p2)
	if d == 0 {
		return c.state, apperrors.NewValidationError("invalid pinch", apperrors.ValidationDetail{
			Field:   "points",
			Message: "pinch points must be distinct",
		})
	}

	c.pan = nil
	c.pinch = &pinchGesture{startDistance: d, startScale: c.state.Scale}
	return c.state, nil
}

// PinchMove rescales relative to the gesture start, anchored at the current
// midpoint of the two pointers.
func (c *Controller) PinchMove(p1, p2 Point) (State, error) {
	if c.pinch == nil {
		return c.state, apperrors.NewConflictError("no pinch gesture in progress")
	}
	if err := c.check("pinch"); err != nil {
		return c.state, err
	}

	ratio := distance(p1, p2) / c.pinch.startDistance
	c.zoomTo(c.pinch.startScale*ratio, midpoint(p1, p2))
	return c.state, nil
}

func (c *Controller) PinchEnd() State {
	c.pinch = nil
	return c.state
}

func (c *Controller) PanStart(p Point) (State, error) {
	if err := c.check("pan"); err != nil {
		return c.state, err
	}
	if c.pinch != nil {
		return c.state, apperrors.NewGestureConflictError("pan", "pinch in progress")
	}
	if !c.panAllowed() {
		return c.state, apperrors.NewGestureConflictError("pan", "panning is disabled at scale 1 or below")
	}

	c.pan = &panGesture{origin: p, startTX: c.state.TranslateX, startTY: c.state.TranslateY}
	return c.state, nil
}

// PanMove applies the pointer's displacement since PanStart.
func (c *Controller) PanMove(p Point) (State, error) {
	if c.pan == nil {
		return c.state, apperrors.NewConflictError("no pan gesture in progress")
	}
	if err := c.check("pan"); err != nil {
		return c.state, err
	}

	c.state.TranslateX = c.pan.startTX + (p.X - c.pan.origin.X)
	c.state.TranslateY = c.pan.startTY + (p.Y - c.pan.origin.Y)
	return c.state, nil
}

func (c *Controller) PanEnd() State {
	c.pan = nil
	return c.state
}

func (c *Controller) Reset() State {
	c.pinch = nil
	c.pan = nil
	c.state = State{Scale: 1}
	return c.state
}

// FitToContainer scales content to fit within the margin fraction of the
// container on both axes and centres it.
func (c *Controller) FitToContainer(content, container Size) (State, error) {
	if content.Width <= 0 || content.Height <= 0 || container.Width <= 0 || container.Height <= 0 {
		return c.state, apperrors.NewValidationError("invalid fit dimensions", apperrors.ValidationDetail{
			Field:   "size",
			Message: "content and container sizes must be positive",
		})
	}

	scale := math.Min(
		container.Width*c.cfg.FitMargin/content.Width,
		container.Height*c.cfg.FitMargin/content.Height,
	)
	scale = math.Min(scale, c.cfg.FitMaxScale)
	scale = c.clamp(scale)

	c.pinch = nil
	c.pan = nil
	c.state = State{
		Scale:      scale,
		TranslateX: (container.Width - content.Width*scale) / 2,
		TranslateY: (container.Height - content.Height*scale) / 2,
	}
	return c.state, nil
}

func (c *Controller) zoomTo(newScale float64, anchor Point) {
	newScale = c.clamp(newScale)
	ratio := newScale / c.state.Scale

	c.state.TranslateX = anchor.X - (anchor.X-c.state.TranslateX)*ratio
	c.state.TranslateY = anchor.Y - (anchor.Y-c.state.TranslateY)*ratio
	c.state.Scale = newScale
}

func (c *Controller) clamp(s float64) float64 {
	return math.Max(c.cfg.MinScale, math.Min(c.cfg.MaxScale, s))
}

func (c *Controller) panAllowed() bool {
	return c.cfg.PanAllowedBelowOne || c.state.Scale > 1
}

func (c *Controller) check(gesture string) error {
	if suppressed, reason := c.guard(); suppressed {
		return apperrors.NewGestureConflictError(gesture, reason)
	}
	return nil
}

func distance(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

func midpoint(a, b Point) Point {
	return Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}
