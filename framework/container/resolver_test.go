package container_test

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-inject/framework/container"
)

func TestSingletonResolution(t *testing.T) {
	t.Parallel()

	t.Run("returns the same instance every time", func(t *testing.T) {
		t.Parallel()
		c := container.New()
		c.AddSingleton(NewGreetingService)

		first, err := container.Resolve[GreetingService](c)
		require.NoError(t, err)
		second, err := container.Resolve[GreetingService](c)
		require.NoError(t, err)

		assert.Same(t, first, second)
	})

	t.Run("constructor runs exactly once", func(t *testing.T) {
		t.Parallel()
		var constructions int32
		c := container.New()
		c.AddSingleton(func() *CounterService {
			atomic.AddInt32(&constructions, 1)
			return NewCounterService()
		})

		for i := 0; i < 5; i++ {
			_, err := container.Resolve[*CounterService](c)
			require.NoError(t, err)
		}
		assert.Equal(t, int32(1), atomic.LoadInt32(&constructions))
	})

	t.Run("state is shared across call sites", func(t *testing.T) {
		t.Parallel()
		c := container.New()
		c.AddSingleton(NewCounterService)

		first, err := container.Resolve[*CounterService](c)
		require.NoError(t, err)
		assert.Equal(t, int32(1), first.Increment())

		second, err := container.Resolve[*CounterService](c)
		require.NoError(t, err)
		assert.Equal(t, int32(2), second.Increment())
		assert.Same(t, first, second)
	})

	t.Run("concurrent first access constructs at most once", func(t *testing.T) {
		t.Parallel()
		var constructions int32
		c := container.New()
		c.AddSingleton(func() *CounterService {
			atomic.AddInt32(&constructions, 1)
			return NewCounterService()
		})

		const goroutines = 32
		instances := make([]*CounterService, goroutines)
		var wg sync.WaitGroup
		for i := 0; i < goroutines; i++ {
			i := i
			wg.Add(1)
			go func() {
				defer wg.Done()
				svc, err := container.Resolve[*CounterService](c)
				assert.NoError(t, err)
				instances[i] = svc
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(1), atomic.LoadInt32(&constructions))
		for _, svc := range instances {
			assert.Same(t, instances[0], svc)
		}
	})
}

func TestTransientResolution(t *testing.T) {
	t.Parallel()

	t.Run("returns distinct instances", func(t *testing.T) {
		t.Parallel()
		c := container.New()
		c.AddTransient(NewCounterService)

		first, err := container.Resolve[*CounterService](c)
		require.NoError(t, err)
		second, err := container.Resolve[*CounterService](c)
		require.NoError(t, err)

		assert.NotSame(t, first, second)
		assert.Equal(t, int32(1), first.Increment())
		assert.Equal(t, int32(1), second.Increment())
	})

	t.Run("constructor runs on every resolution", func(t *testing.T) {
		t.Parallel()
		var constructions int32
		c := container.New()
		c.AddTransient(func() *CounterService {
			atomic.AddInt32(&constructions, 1)
			return NewCounterService()
		})

		_, err := container.Resolve[*CounterService](c)
		require.NoError(t, err)
		_, err = container.Resolve[*CounterService](c)
		require.NoError(t, err)

		assert.Equal(t, int32(2), atomic.LoadInt32(&constructions))
	})
}

func TestDependencyResolution(t *testing.T) {
	t.Parallel()

	t.Run("resolves nested constructor dependencies", func(t *testing.T) {
		t.Parallel()
		c := container.New()
		c.AddSingleton(NewUserRepository).AddSingleton(NewUserService)

		svc, err := container.Resolve[UserService](c)
		require.NoError(t, err)
		assert.Equal(t, "user-7", svc.GetUser(7))

		repo, err := container.Resolve[UserRepository](c)
		require.NoError(t, err)
		assert.Same(t, repo, svc.Repo())
	})

	t.Run("constructor may take the container itself", func(t *testing.T) {
		t.Parallel()
		type holder struct{ c *container.Container }
		c := container.New()
		c.AddSingleton(func(c *container.Container) *holder { return &holder{c: c} })

		h, err := container.Resolve[*holder](c)
		require.NoError(t, err)
		assert.Same(t, c, h.c)
	})

	t.Run("unregistered key fails naming the type", func(t *testing.T) {
		t.Parallel()
		c := container.New()

		_, err := container.Resolve[GreetingService](c)
		require.Error(t, err)

		var notRegistered *container.NotRegisteredError
		require.ErrorAs(t, err, &notRegistered)
		assert.Contains(t, err.Error(), "GreetingService")
	})

	t.Run("unregistered nested dependency surfaces the missing key", func(t *testing.T) {
		t.Parallel()
		c := container.New()
		c.AddSingleton(NewUserService) // UserRepository not registered

		_, err := container.Resolve[UserService](c)
		require.Error(t, err)

		var notRegistered *container.NotRegisteredError
		require.ErrorAs(t, err, &notRegistered)
		assert.Contains(t, err.Error(), "UserRepository")
	})

	t.Run("scoped key without a scope fails deterministically", func(t *testing.T) {
		t.Parallel()
		c := container.New()
		c.AddScoped(NewUserRepository)

		_, err := container.Resolve[UserRepository](c)
		require.Error(t, err)

		var scopeRequired *container.ScopeRequiredError
		require.ErrorAs(t, err, &scopeRequired)
		assert.Contains(t, err.Error(), "UserRepository")
	})

	t.Run("constructor failure propagates wrapped", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("boom")
		c := container.New()
		c.AddSingleton(func() (GreetingService, error) { return nil, boom })

		_, err := container.Resolve[GreetingService](c)
		require.Error(t, err)

		var construction *container.ConstructionError
		require.ErrorAs(t, err, &construction)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("failed singleton construction is retried on next resolve", func(t *testing.T) {
		t.Parallel()
		var calls int32
		c := container.New()
		c.AddSingleton(func() (*CounterService, error) {
			if atomic.AddInt32(&calls, 1) == 1 {
				return nil, errors.New("transient outage")
			}
			return NewCounterService(), nil
		})

		_, err := container.Resolve[*CounterService](c)
		require.Error(t, err)

		svc, err := container.Resolve[*CounterService](c)
		require.NoError(t, err)
		assert.NotNil(t, svc)
	})
}

func TestCircularResolution(t *testing.T) {
	t.Parallel()

	t.Run("direct cycle fails with the full chain", func(t *testing.T) {
		t.Parallel()
		c := container.New()
		c.AddSingleton(NewServiceA).AddSingleton(NewServiceB)

		_, err := container.Resolve[*ServiceA](c)
		require.Error(t, err)

		var circular *container.CircularDependencyError
		require.ErrorAs(t, err, &circular)
		assert.Contains(t, err.Error(), "circular dependency")
		assert.Contains(t, err.Error(), "ServiceA")
		assert.Contains(t, err.Error(), "ServiceB")
		require.GreaterOrEqual(t, len(circular.Chain), 3)
		assert.Equal(t, circular.Chain[0], circular.Chain[len(circular.Chain)-1])
	})

	t.Run("self-dependency fails", func(t *testing.T) {
		t.Parallel()
		type selfRef struct{}
		c := container.New()
		c.AddTransient(func(s *selfRef) *selfRef { return s })

		_, err := container.Resolve[*selfRef](c)

		var circular *container.CircularDependencyError
		require.ErrorAs(t, err, &circular)
	})

	t.Run("diamond dependencies are not cycles", func(t *testing.T) {
		t.Parallel()
		type leaf struct{}
		type left struct{ l *leaf }
		type right struct{ l *leaf }
		type root struct {
			a *left
			b *right
		}

		c := container.New()
		c.AddSingleton(func() *leaf { return &leaf{} })
		c.AddSingleton(func(l *leaf) *left { return &left{l: l} })
		c.AddSingleton(func(l *leaf) *right { return &right{l: l} })
		c.AddSingleton(func(a *left, b *right) *root { return &root{a: a, b: b} })

		got, err := container.Resolve[*root](c)
		require.NoError(t, err)
		assert.Same(t, got.a.l, got.b.l)
	})
}

func TestFactoryResolution(t *testing.T) {
	t.Parallel()

	t.Run("singleton factory runs once", func(t *testing.T) {
		t.Parallel()
		var calls int32
		c := container.New()
		c.AddSingletonFactory(func() GreetingService {
			atomic.AddInt32(&calls, 1)
			return NewGreetingService()
		})

		first, err := container.Resolve[GreetingService](c)
		require.NoError(t, err)
		second, err := container.Resolve[GreetingService](c)
		require.NoError(t, err)

		assert.Same(t, first, second)
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})

	t.Run("transient factory runs every time", func(t *testing.T) {
		t.Parallel()
		var calls int32
		c := container.New()
		c.AddTransientFactory(func() *CounterService {
			atomic.AddInt32(&calls, 1)
			return NewCounterService()
		})

		first, err := container.Resolve[*CounterService](c)
		require.NoError(t, err)
		second, err := container.Resolve[*CounterService](c)
		require.NoError(t, err)

		assert.NotSame(t, first, second)
		assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	})

	t.Run("factory resolves nested dependencies explicitly", func(t *testing.T) {
		t.Parallel()
		c := container.New()
		c.AddSingleton(NewUserRepository)
		c.AddSingletonFactory(func(c *container.Container) (UserService, error) {
			repo, err := container.Resolve[UserRepository](c)
			if err != nil {
				return nil, err
			}
			return NewUserService(repo), nil
		})

		svc, err := container.Resolve[UserService](c)
		require.NoError(t, err)
		assert.Equal(t, "user-3", svc.GetUser(3))
	})
}

func TestMustResolve(t *testing.T) {
	t.Parallel()

	t.Run("returns the instance", func(t *testing.T) {
		t.Parallel()
		c := container.New()
		c.AddSingleton(NewGreetingService)
		svc := container.MustResolve[GreetingService](c)
		assert.Equal(t, "Hello, Go!", svc.Greet("Go"))
	})

	t.Run("panics on failure", func(t *testing.T) {
		t.Parallel()
		c := container.New()
		assert.Panics(t, func() { container.MustResolve[GreetingService](c) })
	})
}
