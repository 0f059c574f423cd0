package signals

// Point is a position in viewport pixels.
type Point struct {
	X float64
	Y float64
}

// Pointer is a pointer update. Present is false when the pointer left the
// viewport and no interaction should be applied.
type Pointer struct {
	Point
	Present bool
}

// Size is a viewport size in pixels.
type Size struct {
	Width  int
	Height int
}

type entry[F any] struct {
	id int
	fn F
}

type registry[F any] struct {
	entries []entry[F]
}

func (r *registry[F]) add(id int, fn F) {
	r.entries = append(r.entries, entry[F]{id: id, fn: fn})
}

func (r *registry[F]) remove(id int) {
	for i, e := range r.entries {
		if e.id == id {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return
		}
	}
}

// snapshot lets handlers unsubscribe while a signal is being delivered.
func (r *registry[F]) snapshot() []F {
	out := make([]F, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.fn
	}
	return out
}

// Bus routes host signals to registered handlers in registration order.
// It is only used from the host's update loop; producers running on other
// goroutines hand values over through Latest.
type Bus struct {
	nextID  int
	resize  registry[func(Size)]
	pointer registry[func(Pointer)]
	before  registry[func()]
	after   registry[func()]
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

func (b *Bus) id() int {
	b.nextID++
	return b.nextID
}

// OnResize registers fn for viewport resizes. The returned function removes
// the registration and may be called any number of times.
func (b *Bus) OnResize(fn func(Size)) (unsubscribe func()) {
	id := b.id()
	b.resize.add(id, fn)
	return func() { b.resize.remove(id) }
}

// OnPointer registers fn for pointer moves and pointer leaves.
func (b *Bus) OnPointer(fn func(Pointer)) (unsubscribe func()) {
	id := b.id()
	b.pointer.add(id, fn)
	return func() { b.pointer.remove(id) }
}

// OnBeforeReplace registers fn to run right before the host replaces its
// page content.
func (b *Bus) OnBeforeReplace(fn func()) (unsubscribe func()) {
	id := b.id()
	b.before.add(id, fn)
	return func() { b.before.remove(id) }
}

// OnAfterReplace registers fn to run once new page content is in place.
func (b *Bus) OnAfterReplace(fn func()) (unsubscribe func()) {
	id := b.id()
	b.after.add(id, fn)
	return func() { b.after.remove(id) }
}

func (b *Bus) EmitResize(s Size) {
	for _, fn := range b.resize.snapshot() {
		fn(s)
	}
}

func (b *Bus) EmitPointer(p Pointer) {
	for _, fn := range b.pointer.snapshot() {
		fn(p)
	}
}

func (b *Bus) EmitBeforeReplace() {
	for _, fn := range b.before.snapshot() {
		fn()
	}
}

func (b *Bus) EmitAfterReplace() {
	for _, fn := range b.after.snapshot() {
		fn()
	}
}

// Handlers returns the number of live registrations across all signals.
func (b *Bus) Handlers() int {
	return len(b.resize.entries) + len(b.pointer.entries) + len(b.before.entries) + len(b.after.entries)
}
