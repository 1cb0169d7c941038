package container

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Validate statically analyzes the registry's declared dependency graph —
// the same constructor parameter edges the resolver follows, without
// instantiating anything. It returns one message per missing dependency and
// per reachable cycle, or an empty slice when the graph is fully satisfiable
// and acyclic. Catching configuration mistakes here turns per-request
// failures into a single build-time abort.
func (c *Container) Validate() []string {
	c.mu.RLock()
	graph := make(map[reflect.Type][]reflect.Type, len(c.descriptors))
	for key, desc := range c.descriptors {
		graph[key] = desc.deps
	}
	c.mu.RUnlock()

	keys := sortedKeys(graph)
	var messages []string

	for _, key := range keys {
		for _, dep := range graph[key] {
			if _, ok := graph[dep]; !ok {
				messages = append(messages, fmt.Sprintf(
					"dependency %v of service %v is not registered", dep, key))
			}
		}
	}

	messages = append(messages, findCycles(graph, keys)...)
	return messages
}

// findCycles runs a three-color depth-first search over the registered
// edges. Each distinct cycle is reported once.
func findCycles(graph map[reflect.Type][]reflect.Type, keys []reflect.Type) []string {
	const (
		white = iota // unvisited
		gray         // on the current path
		black        // fully explored
	)
	color := make(map[reflect.Type]int, len(graph))
	seen := make(map[string]bool)
	var messages []string
	var path []reflect.Type

	var visit func(key reflect.Type)
	visit = func(key reflect.Type) {
		color[key] = gray
		path = append(path, key)
		for _, dep := range graph[key] {
			if _, registered := graph[dep]; !registered {
				continue // already reported as missing
			}
			switch color[dep] {
			case white:
				visit(dep)
			case gray:
				cycle := extractCycle(path, dep)
				if id := cycleID(cycle); !seen[id] {
					seen[id] = true
					messages = append(messages,
						"circular dependency detected: "+formatChain(cycle))
				}
			}
		}
		path = path[:len(path)-1]
		color[key] = black
	}

	for _, key := range keys {
		if color[key] == white {
			visit(key)
		}
	}
	return messages
}

// extractCycle slices the DFS path from the repeated key onward and closes
// the loop, e.g. A -> B -> A.
func extractCycle(path []reflect.Type, repeated reflect.Type) []reflect.Type {
	start := 0
	for i, key := range path {
		if key == repeated {
			start = i
			break
		}
	}
	cycle := append([]reflect.Type{}, path[start:]...)
	return append(cycle, repeated)
}

// cycleID is rotation-invariant so A -> B -> A and B -> A -> B collapse.
func cycleID(cycle []reflect.Type) string {
	names := make([]string, 0, len(cycle)-1)
	for _, key := range cycle[:len(cycle)-1] {
		names = append(names, key.String())
	}
	sort.Strings(names)
	return strings.Join(names, "|")
}

func sortedKeys(graph map[reflect.Type][]reflect.Type) []reflect.Type {
	keys := make([]reflect.Type, 0, len(graph))
	for key := range graph {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].String() < keys[j].String()
	})
	return keys
}

// ── Endpoint validation ───────────────────────────────────────────────────────

// ValidateEndpoint checks a callable's parameter list against the registry.
// Only parameters recognizable as service keys — interfaces and pointers to
// structs — are reported when unregistered; ordinary data parameters (path
// and query values, request plumbing, contexts) are the caller's concern and
// are ignored.
func (c *Container) ValidateEndpoint(fn any) []string {
	t := reflect.TypeOf(fn)
	if t == nil || t.Kind() != reflect.Func {
		return []string{fmt.Sprintf("endpoint %T is not a function", fn)}
	}

	var messages []string
	for i := 0; i < t.NumIn(); i++ {
		param := t.In(i)
		if !isServiceParam(param) {
			continue
		}
		if !c.IsRegistered(param) {
			messages = append(messages, fmt.Sprintf(
				"parameter %d (%v) of endpoint is not registered", i, param))
		}
	}
	return messages
}

// isServiceParam reports whether a parameter type plausibly names a service.
// Interfaces and struct pointers qualify; primitives, plain structs (request
// payloads), and HTTP/context plumbing types do not.
func isServiceParam(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Interface:
		if t == errorType || t.NumMethod() == 0 {
			return false
		}
		return t.PkgPath() != "context" && t.PkgPath() != "net/http"
	case reflect.Ptr:
		elem := t.Elem()
		if elem.Kind() != reflect.Struct {
			return false
		}
		return elem.PkgPath() != "net/http"
	default:
		return false
	}
}
