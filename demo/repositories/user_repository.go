// Package repositories holds the demo data access layer. The in-memory
// implementations stand in for a real database.
package repositories

import "log"

// User is a demo user record.
type User struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserRepository provides access to user records.
type UserRepository interface {
	GetByID(id int) (User, bool)
	All() []User
}

type memoryUserRepository struct {
	users []User
}

// NewUserRepository returns an in-memory UserRepository seeded with
// demo data. One instance lives per request scope.
func NewUserRepository() UserRepository {
	return &memoryUserRepository{
		users: []User{
			{ID: 1, Name: "Alice", Email: "alice@example.com"},
			{ID: 2, Name: "Bob", Email: "bob@example.com"},
		},
	}
}

func (r *memoryUserRepository) GetByID(id int) (User, bool) {
	for _, u := range r.users {
		if u.ID == id {
			return u, true
		}
	}
	return User{}, false
}

func (r *memoryUserRepository) All() []User {
	return r.users
}

// Close releases the repository. A real implementation would return its
// connection to the pool here.
func (r *memoryUserRepository) Close() {
	log.Printf("demo: user repository released")
}
