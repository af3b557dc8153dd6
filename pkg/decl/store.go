// Package decl is the declaration store: a class or one of its members may
// carry a declaration record, retrievable later by kind and key. Consumers
// (command and event loaders) define the record types and the kinds they use.
package decl

// Key is the stable identity of a declared class.
type Key string

// Kind names a family of declaration records (command, option, event, ...).
type Kind string

// Class couples a key with the constructor of the handler type it names.
type Class struct {
	Key Key
	New func() any
}

// ClassOf returns a class whose constructor yields a fresh *T.
func ClassOf[T any](key Key) Class {
	return Class{Key: key, New: func() any { return new(T) }}
}

// String returns the class key.
func (c Class) String() string { return string(c.Key) }

// Member is a record attached to a named member (property or method) of a class.
type Member struct {
	Name   string
	Record any
}

type memberList struct {
	index map[string]int
	items []Member
}

// Store holds declaration records. It is filled during setup and read by
// loaders; it is not safe for concurrent writes.
type Store struct {
	records map[Kind]map[Key]any
	members map[Kind]map[Key]*memberList
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		records: make(map[Kind]map[Key]any),
		members: make(map[Kind]map[Key]*memberList),
	}
}

// Define attaches record to key under kind, replacing any previous record.
func (s *Store) Define(kind Kind, key Key, record any) {
	byKey, ok := s.records[kind]
	if !ok {
		byKey = make(map[Key]any)
		s.records[kind] = byKey
	}
	byKey[key] = record
}

// Lookup returns the record attached to key under kind.
func (s *Store) Lookup(kind Kind, key Key) (any, bool) {
	rec, ok := s.records[kind][key]
	return rec, ok
}

// DefineMember attaches record to a member of key. Members keep the order of
// their first definition; defining the same member again replaces its record
// in place.
func (s *Store) DefineMember(kind Kind, key Key, member string, record any) {
	byKey, ok := s.members[kind]
	if !ok {
		byKey = make(map[Key]*memberList)
		s.members[kind] = byKey
	}
	list, ok := byKey[key]
	if !ok {
		list = &memberList{index: make(map[string]int)}
		byKey[key] = list
	}
	if i, exists := list.index[member]; exists {
		list.items[i].Record = record
		return
	}
	list.index[member] = len(list.items)
	list.items = append(list.items, Member{Name: member, Record: record})
}

// Members returns the member records of key under kind in declaration order.
func (s *Store) Members(kind Kind, key Key) []Member {
	list, ok := s.members[kind][key]
	if !ok {
		return nil
	}
	out := make([]Member, len(list.items))
	copy(out, list.items)
	return out
}
