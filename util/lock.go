package util

import (
	"sync"
)

type Locked[T any] struct {
	value T
	sync.RWMutex
}

func NewLocked[T any](v T) *Locked[T] {
	return &Locked[T]{value: v}
}

func (l *Locked[T]) Value() T {
	l.RLock()
	defer l.RUnlock()

	return l.value
}

func (l *Locked[T]) SetValue(v T) *Locked[T] {
	l.Lock()
	defer l.Unlock()

	l.value = v

	return l
}

func (l *Locked[T]) Set(f func(T) (T, error)) (T, error) {
	l.Lock()
	defer l.Unlock()

	switch v, err := f(l.value); {
	case err != nil:
		return l.value, err
	default:
		l.value = v

		return v, nil
	}
}

type LockedMap[K comparable, V any] struct {
	m map[K]V
	sync.RWMutex
}

func NewLockedMap[K comparable, V any]() *LockedMap[K, V] {
	return &LockedMap[K, V]{m: map[K]V{}}
}

func (l *LockedMap[K, V]) Exists(k K) bool {
	l.RLock()
	defer l.RUnlock()

	_, found := l.m[k]

	return found
}

func (l *LockedMap[K, V]) Value(k K) (V, bool) {
	l.RLock()
	defer l.RUnlock()

	v, found := l.m[k]

	return v, found
}

func (l *LockedMap[K, V]) SetValue(k K, v V) (added bool) {
	l.Lock()
	defer l.Unlock()

	_, found := l.m[k]
	l.m[k] = v

	return !found
}

func (l *LockedMap[K, V]) Len() int {
	l.RLock()
	defer l.RUnlock()

	return len(l.m)
}

// Traverse calls f for every pair until f returns false; the lock is held for
// the whole traversal, so f must not call back into the map.
func (l *LockedMap[K, V]) Traverse(f func(K, V) bool) {
	l.RLock()
	defer l.RUnlock()

	for k, v := range l.m {
		if !f(k, v) {
			return
		}
	}
}
