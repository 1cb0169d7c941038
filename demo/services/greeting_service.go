package services

import (
	"fmt"
	"sync/atomic"
)

// GreetingService formats greetings. Registered as a singleton: one
// instance serves every request for the life of the process.
type GreetingService struct {
	served atomic.Int64
}

// NewGreetingService constructs the greeting service.
func NewGreetingService() *GreetingService {
	return &GreetingService{}
}

// Greet formats a greeting for name.
func (s *GreetingService) Greet(name string) string {
	s.served.Add(1)
	return fmt.Sprintf("Hello, %s!", name)
}

// Served reports how many greetings this instance has produced.
func (s *GreetingService) Served() int64 {
	return s.served.Load()
}
