package repolock

import "sync"

// Registry provides named read/write mutual exclusion for repository operations.
//
// The HTTP transport handles requests concurrently, so at most one mutating
// git invocation may run against a repository at a time; read-only status
// probes share a read lock and are excluded only while a writer holds the
// name. Locks are created lazily and retained for the process lifetime; the
// set of repository names is small and bounded by the root directory.
type Registry struct {
	guard sync.Mutex
	locks map[string]*sync.RWMutex
}

// NewRegistry constructs an empty lock registry.
func NewRegistry() *Registry {
	return &Registry{locks: make(map[string]*sync.RWMutex)}
}

// Lock acquires the exclusive lock for the repository name.
func (registry *Registry) Lock(repositoryName string) {
	registry.lockFor(repositoryName).Lock()
}

// Unlock releases the exclusive lock for the repository name.
func (registry *Registry) Unlock(repositoryName string) {
	registry.lockFor(repositoryName).Unlock()
}

// RLock acquires the shared lock for the repository name.
func (registry *Registry) RLock(repositoryName string) {
	registry.lockFor(repositoryName).RLock()
}

// RUnlock releases the shared lock for the repository name.
func (registry *Registry) RUnlock(repositoryName string) {
	registry.lockFor(repositoryName).RUnlock()
}

func (registry *Registry) lockFor(repositoryName string) *sync.RWMutex {
	registry.guard.Lock()
	defer registry.guard.Unlock()

	repositoryLock, lockExists := registry.locks[repositoryName]
	if !lockExists {
		repositoryLock = &sync.RWMutex{}
		registry.locks[repositoryName] = repositoryLock
	}
	return repositoryLock
}
