package contractrepo

import "github.com/qlpt/rental-portal/gateway"

// Repo stores rental contracts. Create assigns the ID.
type Repo interface {
	Create(contract gateway.Contract) (gateway.Contract, error)
	Update(contract gateway.Contract) error
	Get(id int) (gateway.Contract, error)
	Delete(id int) error
	List() ([]gateway.Contract, error)
	ListByTenant(tenantID int) ([]gateway.Contract, error)
}
