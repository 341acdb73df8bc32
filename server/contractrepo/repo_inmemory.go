package contractrepo

import (
	"sort"
	"sync"

	"github.com/qlpt/rental-portal/gateway"
	"github.com/qlpt/rental-portal/internal/errors"
)

var _ Repo = (*InMemoryRepo)(nil)

// InMemoryRepo is an in-memory implementation of Repo
type InMemoryRepo struct {
	mu        sync.RWMutex
	contracts map[int]gateway.Contract
	nextID    int
}

func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{
		contracts: make(map[int]gateway.Contract),
		nextID:    1,
	}
}

func (r *InMemoryRepo) Create(contract gateway.Contract) (gateway.Contract, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if contract.ID == 0 {
		contract.ID = r.nextID
	}
	if _, exists := r.contracts[contract.ID]; exists {
		return gateway.Contract{}, errors.Wrapf(errors.ErrConflict, "contract %d already exists", contract.ID)
	}
	if contract.ID >= r.nextID {
		r.nextID = contract.ID + 1
	}
	r.contracts[contract.ID] = contract
	return contract, nil
}

func (r *InMemoryRepo) Update(contract gateway.Contract) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.contracts[contract.ID]; !exists {
		return errors.Wrapf(errors.ErrNotFound, "contract %d", contract.ID)
	}
	r.contracts[contract.ID] = contract
	return nil
}

func (r *InMemoryRepo) Get(id int) (gateway.Contract, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	contract, exists := r.contracts[id]
	if !exists {
		return gateway.Contract{}, errors.Wrapf(errors.ErrNotFound, "contract %d", id)
	}
	return contract, nil
}

func (r *InMemoryRepo) Delete(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.contracts[id]; !exists {
		return errors.Wrapf(errors.ErrNotFound, "contract %d", id)
	}
	delete(r.contracts, id)
	return nil
}

func (r *InMemoryRepo) List() ([]gateway.Contract, error) {
	return r.filter(func(gateway.Contract) bool { return true }), nil
}

func (r *InMemoryRepo) ListByTenant(tenantID int) ([]gateway.Contract, error) {
	return r.filter(func(c gateway.Contract) bool { return c.Tenant == tenantID }), nil
}

func (r *InMemoryRepo) filter(keep func(gateway.Contract) bool) []gateway.Contract {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]gateway.Contract, 0, len(r.contracts))
	for _, c := range r.contracts {
		if keep(c) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
