// Package services holds the demo application services.
package services

import "github.com/km-arc/go-inject/demo/repositories"

// UserService exposes user lookups to the controllers.
type UserService interface {
	GetUser(id int) (repositories.User, bool)
	ListUsers() []repositories.User
}

type userService struct {
	repo repositories.UserRepository
}

// NewUserService constructs the user service. The repository is
// injected by the container.
func NewUserService(repo repositories.UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) GetUser(id int) (repositories.User, bool) {
	return s.repo.GetByID(id)
}

func (s *userService) ListUsers() []repositories.User {
	return s.repo.All()
}
