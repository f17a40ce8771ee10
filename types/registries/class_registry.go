package registries

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"compute-worker-launcher/types/interfaces"
)

var ErrDuplicateClass = errors.New("a class with this name is already registered")

var (
	pendingMutex   sync.Mutex
	pendingClasses []pendingClass
)

type pendingClass struct {
	name        string
	constructor interfaces.ClassConstructor
}

// QueueClass records a constructor until the next registry refresh.
// Dynamically loaded modules call this from their init code - at that
// point no registry instance is reachable for them yet.
func QueueClass(name string, constructor interfaces.ClassConstructor) {
	pendingMutex.Lock()
	defer pendingMutex.Unlock()

	pendingClasses = append(pendingClasses, pendingClass{
		name:        name,
		constructor: constructor,
	})
}

func drainPendingClasses() []pendingClass {
	pendingMutex.Lock()
	defer pendingMutex.Unlock()

	drained := pendingClasses
	pendingClasses = nil
	return drained
}

// ClassRegistry makes types constructible by name. It is an explicit
// object handed to whoever needs it rather than process-global state;
// only the pending queue above is shared, as the rendezvous point with
// module init code.
type ClassRegistry struct {
	sync.Mutex

	classes map[string]interfaces.ClassConstructor
}

func NewClassRegistry() *ClassRegistry {
	registry := &ClassRegistry{
		classes: make(map[string]interfaces.ClassConstructor),
	}

	registry.Refresh()

	return registry
}

func (cr *ClassRegistry) Register(name string, constructor interfaces.ClassConstructor) error {
	cr.Lock()
	defer cr.Unlock()

	if _, exists := cr.classes[name]; exists {
		return fmt.Errorf("cannot register class '%s': %w", name, ErrDuplicateClass)
	}

	cr.classes[name] = constructor
	return nil
}

func (cr *ClassRegistry) Get(name string) (interfaces.ClassConstructor, bool) {
	cr.Lock()
	defer cr.Unlock()

	constructor, found := cr.classes[name]
	return constructor, found
}

func (cr *ClassRegistry) GetClassNames() []string {
	cr.Lock()
	defer cr.Unlock()

	names := make([]string, 0, len(cr.classes))
	for name := range cr.classes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Refresh drains the pending queue into the registry. Called once per
// successful module load; the first registration of a name wins.
func (cr *ClassRegistry) Refresh() {
	for _, pending := range drainPendingClasses() {
		cr.Register(pending.name, pending.constructor)
	}
}
