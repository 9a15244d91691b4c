package store

import (
	"bytes"

	"github.com/iov-one/lockbox/errors"
)

// sides of a mergeIterator holding the current key
const (
	fromCache = 1 << iota
	fromParent
)

// mergeIterator walks a snapshot of cached entries and the parent iterator
// side by side. On equal keys the cached entry wins.
type mergeIterator struct {
	cached []*entry
	pos    int
	parent Iterator
	desc   bool
}

var _ Iterator = (*mergeIterator)(nil)

func newMergeIterator(cached []*entry, parent Iterator, desc bool) (Iterator, error) {
	it := &mergeIterator{cached: cached, parent: parent, desc: desc}
	if err := it.skipDeleted(); err != nil {
		it.Close()
		return nil, err
	}
	return it, nil
}

// current returns which sides hold the next key, zero once both are done.
func (m *mergeIterator) current() int {
	inCache := m.pos < len(m.cached)
	inParent := m.parent != nil && m.parent.Valid()
	switch {
	case inCache && inParent:
		cmp := bytes.Compare(m.cached[m.pos].key, m.parent.Key())
		if m.desc {
			cmp = -cmp
		}
		if cmp < 0 {
			return fromCache
		}
		if cmp > 0 {
			return fromParent
		}
		return fromCache | fromParent
	case inCache:
		return fromCache
	case inParent:
		return fromParent
	}
	return 0
}

func (m *mergeIterator) step(sides int) error {
	if sides&fromCache != 0 {
		m.pos++
	}
	if sides&fromParent != 0 {
		return m.parent.Next()
	}
	return nil
}

// skipDeleted moves past deleted entries together with the parent keys
// they hide.
func (m *mergeIterator) skipDeleted() error {
	for {
		sides := m.current()
		if sides&fromCache == 0 || !m.cached[m.pos].deleted {
			return nil
		}
		if err := m.step(sides); err != nil {
			return err
		}
	}
}

// Valid returns true while a key can be read.
func (m *mergeIterator) Valid() bool {
	return m.current() != 0
}

// Next moves to the following key in iteration order.
func (m *mergeIterator) Next() error {
	sides := m.current()
	if sides == 0 {
		return errors.Wrap(errors.ErrIteratorDone, "cache iterator")
	}
	if err := m.step(sides); err != nil {
		return err
	}
	return m.skipDeleted()
}

// Key returns the current key. It panics past the end.
func (m *mergeIterator) Key() []byte {
	sides := m.current()
	switch {
	case sides&fromCache != 0:
		return m.cached[m.pos].key
	case sides == fromParent:
		return m.parent.Key()
	}
	panic("cache iterator is done")
}

// Value returns the current value. It panics past the end.
func (m *mergeIterator) Value() []byte {
	sides := m.current()
	switch {
	case sides&fromCache != 0:
		return m.cached[m.pos].value
	case sides == fromParent:
		return m.parent.Value()
	}
	panic("cache iterator is done")
}

// Close releases the parent iterator.
func (m *mergeIterator) Close() {
	if m.parent != nil {
		m.parent.Close()
	}
	m.cached = nil
}
