package container_test

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

// Shared service fixtures used across the container test suites.

// ── Greeting ─────────────────────────────────────────────────────────────────

type GreetingService interface {
	Greet(name string) string
}

type greetingService struct{}

func NewGreetingService() GreetingService {
	return &greetingService{}
}

func (g *greetingService) Greet(name string) string {
	return "Hello, " + name + "!"
}

// ── Users ────────────────────────────────────────────────────────────────────

type UserRepository interface {
	GetByID(id int) string
	Close() error
	Closed() bool
}

type userRepository struct {
	mu     sync.Mutex
	closed bool
}

func NewUserRepository() UserRepository {
	return &userRepository{}
}

func (r *userRepository) GetByID(id int) string {
	return fmt.Sprintf("user-%d", id)
}

func (r *userRepository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func (r *userRepository) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

type UserService interface {
	GetUser(id int) string
	Repo() UserRepository
}

type userService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) GetUser(id int) string {
	return s.repo.GetByID(id)
}

func (s *userService) Repo() UserRepository {
	return s.repo
}

// ── Counter ──────────────────────────────────────────────────────────────────

// CounterService carries mutable per-instance state so tests can tell
// instances apart and observe sharing.
type CounterService struct {
	n int32
}

func NewCounterService() *CounterService {
	return &CounterService{}
}

func (c *CounterService) Increment() int32 {
	return atomic.AddInt32(&c.n, 1)
}

func (c *CounterService) Value() int32 {
	return atomic.LoadInt32(&c.n)
}

// ── Circular pair ────────────────────────────────────────────────────────────

type ServiceA struct {
	B *ServiceB
}

type ServiceB struct {
	A *ServiceA
}

func NewServiceA(b *ServiceB) *ServiceA { return &ServiceA{B: b} }
func NewServiceB(a *ServiceA) *ServiceB { return &ServiceB{A: a} }

// ── Disposable session ───────────────────────────────────────────────────────

type Session struct {
	mu       sync.Mutex
	closes   int
	closeErr error
}

func NewSession() *Session {
	return &Session{}
}

func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closes++
	return s.closeErr
}

func (s *Session) CloseCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closes
}

var errSessionClose = errors.New("session close failed")
