package users

type UserRepo interface {
	Upsert(user *User) error
	Delete(email string) error
	GetByEmail(email string) (*User, error)
	GetByID(id int) (*User, error)
	List(offset, limit int) ([]*User, error)
}
