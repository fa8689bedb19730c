package store

// Locker guards a load-mutate-save cycle across processes.
type Locker interface {
	// Lock blocks until the lock is held and returns its release func.
	Lock() (unlock func(), err error)
}

// NopLocker is used where the backend serializes writers itself.
type NopLocker struct{}

func (NopLocker) Lock() (func(), error) { return func() {}, nil }
