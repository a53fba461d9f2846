package editor

// MarkerInserted is published once per marker an insert operation adds.
type MarkerInserted struct {
	// Index is the position of the new marker in the resulting sequence.
	Index   int
	Content string
}

// MarkerDeleted is published when a marker is removed.
type MarkerDeleted struct {
	// Index is the position the marker held before removal.
	Index   int
	Content string
}

// MarkerMoved is published when a marker changes position.
type MarkerMoved struct {
	From    int
	To      int
	Content string
}

// observers holds the registered callbacks per event kind. It is not
// synchronized; use one Manager per editing session.
type observers struct {
	inserted []func(MarkerInserted)
	deleted  []func(MarkerDeleted)
	moved    []func(MarkerMoved)
}

// OnMarkerInserted registers fn to run after every inserted marker.
func (m *Manager) OnMarkerInserted(fn func(MarkerInserted)) {
	m.obs.inserted = append(m.obs.inserted, fn)
}

// OnMarkerDeleted registers fn to run after every deleted marker.
func (m *Manager) OnMarkerDeleted(fn func(MarkerDeleted)) {
	m.obs.deleted = append(m.obs.deleted, fn)
}

// OnMarkerMoved registers fn to run after every moved marker.
func (m *Manager) OnMarkerMoved(fn func(MarkerMoved)) {
	m.obs.moved = append(m.obs.moved, fn)
}

func (m *Manager) publishInserted(ev MarkerInserted) {
	for _, fn := range m.obs.inserted {
		fn(ev)
	}
}

func (m *Manager) publishDeleted(ev MarkerDeleted) {
	for _, fn := range m.obs.deleted {
		fn(ev)
	}
}

func (m *Manager) publishMoved(ev MarkerMoved) {
	for _, fn := range m.obs.moved {
		fn(ev)
	}
}
