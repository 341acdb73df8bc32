package roomrepo

import (
	"sort"
	"sync"

	"github.com/qlpt/rental-portal/gateway"
	"github.com/qlpt/rental-portal/internal/errors"
)

var _ Repo = (*InMemoryRepo)(nil)

// InMemoryRepo is a thread-safe in-memory implementation of the Repo interface
type InMemoryRepo struct {
	mu     sync.RWMutex
	rooms  map[int]gateway.Room
	nextID int
}

// NewInMemoryRepo creates a new in-memory room repository
func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{
		rooms:  make(map[int]gateway.Room),
		nextID: 1,
	}
}

// Create stores room under a fresh ID, or under room.ID when it is set
func (r *InMemoryRepo) Create(room gateway.Room) (gateway.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if room.ID == 0 {
		room.ID = r.nextID
	}
	if _, exists := r.rooms[room.ID]; exists {
		return gateway.Room{}, errors.Wrapf(errors.ErrConflict, "room %d already exists", room.ID)
	}
	if room.ID >= r.nextID {
		r.nextID = room.ID + 1
	}
	r.rooms[room.ID] = room
	return room, nil
}

func (r *InMemoryRepo) Update(room gateway.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rooms[room.ID]; !exists {
		return errors.Wrapf(errors.ErrNotFound, "room %d", room.ID)
	}
	r.rooms[room.ID] = room
	return nil
}

func (r *InMemoryRepo) Get(id int) (gateway.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room, exists := r.rooms[id]
	if !exists {
		return gateway.Room{}, errors.Wrapf(errors.ErrNotFound, "room %d", id)
	}
	return room, nil
}

func (r *InMemoryRepo) Delete(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rooms[id]; !exists {
		return errors.Wrapf(errors.ErrNotFound, "room %d", id)
	}
	delete(r.rooms, id)
	return nil
}

// List returns every room ordered by ID
func (r *InMemoryRepo) List() ([]gateway.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]gateway.Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		out = append(out, room)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
