package forcefield

import (
	"fmt"
	"math"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/fieldsim/config"
)

// NoHandle marks an Interaction with no active drag handle.
const NoHandle = -1

// Interaction is the per-field pointer state.
type Interaction struct {
	Selected bool
	Handle   int  // NoHandle, or the dragged axis 0..2
	Enabled  bool // false while fields are hidden
}

// State is the interaction state of a single field.
type State uint8

const (
	Idle State = iota
	Selected
	Dragging
)

func (s State) String() string {
	switch s {
	case Selected:
		return "selected"
	case Dragging:
		return "dragging"
	default:
		return "idle"
	}
}

// HandleConfig positions the three axis drag handles around a selected field.
type HandleConfig struct {
	Length    float64 // distance from the shape surface to the handle center
	HitRadius float64 // radius of each handle's hit sphere
}

// Registry owns every force field as an ECS entity and the single
// selection lock shared across them.
type Registry struct {
	world *ecs.World

	fieldMapper *ecs.Map2[Field, Interaction]
	fieldFilter *ecs.Filter2[Field, Interaction]
	fields      *ecs.Map[Field]
	interaction *ecs.Map[Interaction]

	// Insertion order, for stable listing and nearest-hit tie breaking
	order []ecs.Entity

	counts   [numKinds]int
	capacity int
	handles  HandleConfig
	visible  bool

	// Selection lock
	selectedEntity ecs.Entity
	hasSelection   bool
}

// NewRegistry creates an empty registry. capacity is the per-kind limit and is
// clamped to config.MaxFieldsPerKind.
func NewRegistry(capacity int, handles HandleConfig) *Registry {
	if capacity <= 0 || capacity > config.MaxFieldsPerKind {
		capacity = config.MaxFieldsPerKind
	}

	world := ecs.NewWorld()
	return &Registry{
		world:       world,
		fieldMapper: ecs.NewMap2[Field, Interaction](world),
		fieldFilter: ecs.NewFilter2[Field, Interaction](world),
		fields:      ecs.NewMap[Field](world),
		interaction: ecs.NewMap[Interaction](world),
		capacity:    capacity,
		handles:     handles,
		visible:     true,
	}
}

// NewRegistryFromConfig creates a registry using the force_fields config section.
func NewRegistryFromConfig(cfg *config.Config) *Registry {
	return NewRegistry(cfg.Derived.CapacityPerKind, HandleConfig{
		Length:    cfg.ForceFields.HandleLength,
		HitRadius: cfg.ForceFields.HandleHitRadius,
	})
}

// Add registers f in the Idle state. New fields inherit the current visibility.
func (r *Registry) Add(f Field) (ecs.Entity, error) {
	if err := f.Validate(); err != nil {
		return ecs.Entity{}, fmt.Errorf("adding %s field: %w", f.Kind, err)
	}
	if r.counts[f.Kind] >= r.capacity {
		return ecs.Entity{}, fmt.Errorf("adding %s field (limit %d): %w", f.Kind, r.capacity, ErrCapacityExceeded)
	}

	in := Interaction{Handle: NoHandle, Enabled: r.visible}
	e := r.fieldMapper.NewEntity(&f, &in)
	r.order = append(r.order, e)
	r.counts[f.Kind]++
	return e, nil
}

// RemoveSelected removes the field that is Selected or Dragging.
// It reports false and does nothing when no field is selected.
func (r *Registry) RemoveSelected() bool {
	if !r.hasSelection {
		return false
	}
	e := r.selectedEntity
	r.hasSelection = false

	if !r.world.Alive(e) {
		return false
	}
	r.counts[r.fields.Get(e).Kind]--
	for i, o := range r.order {
		if o == e {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.world.RemoveEntity(e)
	return true
}

// Select forces e into the Selected state. It fails if another field holds
// the selection lock or e is unknown.
func (r *Registry) Select(e ecs.Entity) bool {
	if !r.world.Alive(e) {
		return false
	}
	if r.hasSelection {
		return r.selectedEntity == e
	}
	r.acquire(e)
	return true
}

// SetVisible enables or disables pointer handling for every field.
// The selection survives hiding but hidden fields ignore events.
func (r *Registry) SetVisible(visible bool) {
	r.visible = visible
	for _, e := range r.order {
		r.interaction.Get(e).Enabled = visible
	}
}

// Visible reports whether fields currently respond to pointer events.
func (r *Registry) Visible() bool {
	return r.visible
}

// Len returns the number of registered fields.
func (r *Registry) Len() int {
	return len(r.order)
}

// Count returns the number of registered fields of kind k.
func (r *Registry) Count(k Kind) int {
	if k >= numKinds {
		return 0
	}
	return r.counts[k]
}

// Capacity returns the per-kind limit.
func (r *Registry) Capacity() int {
	return r.capacity
}

// Get returns the field stored for e.
func (r *Registry) Get(e ecs.Entity) (Field, bool) {
	if !r.world.Alive(e) {
		return Field{}, false
	}
	return *r.fields.Get(e), true
}

// Selected returns the field holding the selection lock, if any.
func (r *Registry) Selected() (ecs.Entity, bool) {
	return r.selectedEntity, r.hasSelection
}

// State returns the interaction state of e and, when Dragging, the handle axis.
func (r *Registry) State(e ecs.Entity) (State, int) {
	if !r.world.Alive(e) {
		return Idle, NoHandle
	}
	in := r.interaction.Get(e)
	switch {
	case !in.Selected:
		return Idle, NoHandle
	case in.Handle != NoHandle:
		return Dragging, in.Handle
	default:
		return Selected, NoHandle
	}
}

// Each calls fn for every field in insertion order.
func (r *Registry) Each(fn func(e ecs.Entity, f Field, in Interaction)) {
	for _, e := range r.order {
		fn(e, *r.fields.Get(e), *r.interaction.Get(e))
	}
}

// HandleCenter returns the center of f's drag handle on axis.
func (r *Registry) HandleCenter(f Field, axis int) r3.Vec {
	offset := f.Shape.Extent(axis) + r.handles.Length
	return r3.Add(f.Position, r3.Scale(offset, axisUnit(axis)))
}

// HandleRadius returns the hit radius of the drag handles.
func (r *Registry) HandleRadius() float64 {
	return r.handles.HitRadius
}

// PointerDown dispatches a button press. While a field is selected only that
// field reacts; otherwise the nearest enabled field hit by ray is selected.
func (r *Registry) PointerDown(ray Ray) {
	if r.hasSelection {
		r.pointerDownSelected(ray)
		return
	}

	var closest ecs.Entity
	closestDist := math.Inf(1)
	found := false

	for _, e := range r.order {
		if !r.interaction.Get(e).Enabled {
			continue
		}
		if t, ok := r.fields.Get(e).Intersect(ray); ok && t < closestDist {
			closest = e
			closestDist = t
			found = true
		}
	}

	if found {
		r.acquire(closest)
	}
}

func (r *Registry) pointerDownSelected(ray Ray) {
	e := r.selectedEntity
	in := r.interaction.Get(e)
	if !in.Enabled {
		return
	}
	f := r.fields.Get(e)

	// Later axes win when handles overlap
	in.Handle = NoHandle
	for axis := 0; axis < 3; axis++ {
		if _, ok := intersectSphere(ray, r.HandleCenter(*f, axis), r.handles.HitRadius); ok {
			in.Handle = axis
		}
	}
	if in.Handle != NoHandle {
		return
	}

	if _, ok := f.Intersect(ray); ok {
		return
	}
	r.release()
}

// PointerDrag moves the dragged field along its active handle axis.
func (r *Registry) PointerDrag(ray Ray) {
	if !r.hasSelection {
		return
	}
	e := r.selectedEntity
	in := r.interaction.Get(e)
	if !in.Enabled || in.Handle == NoHandle {
		return
	}
	f := r.fields.Get(e)

	normal := r3.Vec{Z: 1}
	if in.Handle == 2 {
		normal = r3.Vec{Y: 1}
	}
	t, ok := intersectPlane(ray, f.Position, normal)
	if !ok {
		return
	}

	hit := ray.At(t)
	offset := f.Shape.Extent(in.Handle) + r.handles.Length
	f.Position = withComponent(f.Position, in.Handle, component(hit, in.Handle)-offset)
}

// PointerUp ends a drag; the field stays selected.
func (r *Registry) PointerUp() {
	if !r.hasSelection {
		return
	}
	r.interaction.Get(r.selectedEntity).Handle = NoHandle
}

func (r *Registry) acquire(e ecs.Entity) {
	in := r.interaction.Get(e)
	in.Selected = true
	in.Handle = NoHandle
	r.selectedEntity = e
	r.hasSelection = true
}

func (r *Registry) release() {
	if r.world.Alive(r.selectedEntity) {
		in := r.interaction.Get(r.selectedEntity)
		in.Selected = false
		in.Handle = NoHandle
	}
	r.hasSelection = false
}
