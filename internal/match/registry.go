package match

import (
	"sync"

	"github.com/gridpoint/tictactoe-server/internal/entity"
)

// Label is the discoverable (mode, timeLimit) metadata attached to an
// open session for matchmaking search. The time limit is normalized to
// zero outside timed mode so absent and explicit-unset values compare
// equal.
type Label struct {
	Mode      string `json:"mode"`
	TimeLimit int    `json:"timeLimit,omitempty"`
}

func NewLabel(mode string, timeLimit int) Label {
	if mode == "" {
		mode = entity.ModeStandard
	}
	if mode != entity.ModeTimed {
		timeLimit = 0
	}

	return Label{Mode: mode, TimeLimit: timeLimit}
}

// Registry is the injectable store of live sessions, keyed by session
// id, with an index for open-session discovery.
type Registry interface {
	Add(hub *Hub)
	Get(id string) (*Hub, bool)
	Remove(id string)
	FindOpen(label Label) (*Hub, bool)
}

type inMemoryRegistry struct {
	mu   sync.RWMutex
	hubs map[string]*Hub
}

func NewRegistry() Registry {
	return &inMemoryRegistry{
		hubs: make(map[string]*Hub),
	}
}

func (that *inMemoryRegistry) Add(hub *Hub) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.hubs[hub.ID()] = hub
}

func (that *inMemoryRegistry) Get(id string) (*Hub, bool) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	hub, ok := that.hubs[id]
	return hub, ok
}

func (that *inMemoryRegistry) Remove(id string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.hubs, id)
}

// FindOpen returns any open session whose label matches.
func (that *inMemoryRegistry) FindOpen(label Label) (*Hub, bool) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	for _, hub := range that.hubs {
		if hub.IsOpen() && hub.Label() == label {
			return hub, true
		}
	}

	return nil, false
}
