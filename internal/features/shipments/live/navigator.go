package live

import (
	"net/url"
	"sync"

	"shipment-dashboard/internal/features/shipments/domain"
)

// Navigator is the address bar the controller keeps in sync with the
// active filters. Replace must not call back into the controller.
type Navigator interface {
	Path() string
	Query() url.Values
	// Replace swaps the current location without adding history.
	Replace(location string)
}

// MemoryNavigator is an in-process location, used by the console.
type MemoryNavigator struct {
	mu       sync.Mutex
	path     string
	query    url.Values
	replaces int
}

// NewMemoryNavigator parses location (path plus optional query).
func NewMemoryNavigator(location string) (*MemoryNavigator, error) {
	u, err := url.Parse(location)
	if err != nil {
		return nil, err
	}
	return &MemoryNavigator{path: u.Path, query: u.Query()}, nil
}

// Path returns the current path.
func (n *MemoryNavigator) Path() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.path
}

// Query returns a copy of the current query.
func (n *MemoryNavigator) Query() url.Values {
	n.mu.Lock()
	defer n.mu.Unlock()
	q := make(url.Values, len(n.query))
	for k, vs := range n.query {
		q[k] = append([]string(nil), vs...)
	}
	return q
}

// Replace implements Navigator. Unparsable locations are ignored.
func (n *MemoryNavigator) Replace(location string) {
	u, err := url.Parse(location)
	if err != nil {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.path = u.Path
	n.query = u.Query()
	n.replaces++
}

// Replaces counts Replace calls.
func (n *MemoryNavigator) Replaces() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.replaces
}

// String returns the location as path?query.
func (n *MemoryNavigator) String() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return domain.Location(n.path, n.query)
}
