// Package dashboard implements the six-widget analytics dashboard: the
// named output regions, one render operation per widget, and the
// controller that fans fetches out across all widgets and settles the
// results back in. A widget failure stays inside its own region; only a
// failure to launch the refresh wave itself is surfaced globally.
package dashboard

import "sync"

// Status describes what a region is currently showing.
type Status int

const (
	StatusEmpty   Status = iota // nothing rendered yet
	StatusLoading               // refresh placeholder up
	StatusReady                 // drawn from a payload
	StatusNoData                // payload failed the presentability gate
	StatusError                 // fetch or render failed
)

func (s Status) String() string {
	switch s {
	case StatusEmpty:
		return "empty"
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusNoData:
		return "nodata"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

const (
	defaultRegionWidth = 72

	loadingText = "Loading…"
	noDataText  = "No data for this view yet."
)

// RegionState is the immutable copy of a region handed to the view layer.
type RegionState struct {
	ID      string
	Status  Status
	Content string
	Width   int
}

// region is one widget's output area. The payload of the last successful
// render is retained solely so a width change can re-run the render op;
// it is never a substitute for fetching.
type region struct {
	id      string
	status  Status
	content string
	width   int
	payload any
}

// RegionSet holds the dashboard's output regions keyed by id. Render
// operations run inside fetch goroutines, so every access goes through
// the mutex. Writes targeting an unknown id are silent no-ops.
type RegionSet struct {
	mu      sync.RWMutex
	regions map[string]*region
	order   []string
}

// NewRegionSet creates the named regions in the given order. Empty and
// duplicate ids are dropped.
func NewRegionSet(ids ...string) *RegionSet {
	rs := &RegionSet{regions: make(map[string]*region, len(ids))}
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, dup := rs.regions[id]; dup {
			continue
		}
		rs.regions[id] = &region{id: id, width: defaultRegionWidth}
		rs.order = append(rs.order, id)
	}
	return rs
}

// Len returns the number of regions.
func (rs *RegionSet) Len() int {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return len(rs.order)
}

// IDs returns the region ids in creation order.
func (rs *RegionSet) IDs() []string {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	out := make([]string, len(rs.order))
	copy(out, rs.order)
	return out
}

// State returns a copy of one region for painting.
func (rs *RegionSet) State(id string) (RegionState, bool) {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	r, ok := rs.regions[id]
	if !ok {
		return RegionState{}, false
	}
	return RegionState{ID: r.id, Status: r.status, Content: r.content, Width: r.width}, true
}

// States returns copies of every region in creation order.
func (rs *RegionSet) States() []RegionState {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	out := make([]RegionState, 0, len(rs.order))
	for _, id := range rs.order {
		r := rs.regions[id]
		out = append(out, RegionState{ID: r.id, Status: r.status, Content: r.content, Width: r.width})
	}
	return out
}

// SetWidth records the width the layout granted a region. The next render
// (or RedrawAll) draws to it.
func (rs *RegionSet) SetWidth(id string, w int) {
	if w < 1 {
		return
	}
	rs.mu.Lock()
	defer rs.mu.Unlock()
	if r, ok := rs.regions[id]; ok {
		r.width = w
	}
}

func (rs *RegionSet) has(id string) bool {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	_, ok := rs.regions[id]
	return ok
}

func (rs *RegionSet) widthOf(id string) int {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	if r, ok := rs.regions[id]; ok {
		return r.width
	}
	return defaultRegionWidth
}

// payloadOf returns the payload retained by the last successful render.
func (rs *RegionSet) payloadOf(id string) (any, bool) {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	r, ok := rs.regions[id]
	if !ok || r.payload == nil {
		return nil, false
	}
	return r.payload, true
}

// setLoading puts the refresh placeholder up. The retained payload is
// dropped: whichever outcome the in-flight task reaches replaces it.
func (rs *RegionSet) setLoading(id string) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	if r, ok := rs.regions[id]; ok {
		r.status = StatusLoading
		r.content = loadingText
		r.payload = nil
	}
}

// setNoData writes the static placeholder shown when a payload is valid
// but empty. This is a display branch, not a failure.
func (rs *RegionSet) setNoData(id string) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	if r, ok := rs.regions[id]; ok {
		r.status = StatusNoData
		r.content = noDataText
		r.payload = nil
	}
}

// setError writes a widget-scoped human-readable failure message.
func (rs *RegionSet) setError(id, msg string) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	if r, ok := rs.regions[id]; ok {
		r.status = StatusError
		r.content = msg
		r.payload = nil
	}
}

// setContent replaces the region's content wholesale with a fresh render.
func (rs *RegionSet) setContent(id, content string, payload any) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	if r, ok := rs.regions[id]; ok {
		r.status = StatusReady
		r.content = content
		r.payload = payload
	}
}
