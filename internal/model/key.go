package model

import (
	"github.com/google/uuid"
)

// ID is an identifier assigned by the server. It is opaque: the client
// never looks inside it.
type ID string

// Key identifies an entity in the client. A key is either persisted (it
// wraps a server ID) or pending (it wraps a client-only list key used while
// the server has not handed out an ID). Only persisted keys yield an ID, so
// a pending key can never be sent to the server.
type Key struct {
	id     ID
	client string
}

// Persisted returns the key for a server-assigned ID.
func Persisted(id ID) Key {
	return Key{id: id}
}

// Pending returns a fresh client-only key.
func Pending() Key {
	return Key{client: "tmp-" + uuid.New().String()}
}

// keyFor returns a persisted key when the server sent an ID and a pending
// one otherwise.
func keyFor(id string) Key {
	if id == "" {
		return Pending()
	}
	return Persisted(ID(id))
}

// ID returns the server ID and true when the key is persisted.
func (k Key) ID() (ID, bool) {
	return k.id, k.id != ""
}

// IsPersisted reports whether the key wraps a server ID.
func (k Key) IsPersisted() bool {
	return k.id != ""
}

// IsZero reports whether the key was never set.
func (k Key) IsZero() bool {
	return k.id == "" && k.client == ""
}

// String returns a value usable as a list key: the server ID when there is
// one, the client key otherwise.
func (k Key) String() string {
	if k.id != "" {
		return string(k.id)
	}
	return k.client
}

// Matches reports whether ref names this key, either by server ID or by
// client key.
func (k Key) Matches(ref string) bool {
	if ref == "" {
		return false
	}
	return string(k.id) == ref || k.client == ref
}
