package roomrepo

import "github.com/qlpt/rental-portal/gateway"

// Repo stores the rooms served by the demo backend. Create assigns the ID.
type Repo interface {
	Create(room gateway.Room) (gateway.Room, error)
	Update(room gateway.Room) error
	Get(id int) (gateway.Room, error)
	Delete(id int) error
	List() ([]gateway.Room, error)
}
