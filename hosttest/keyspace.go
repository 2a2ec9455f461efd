package hosttest

import (
	"time"

	"github.com/wippyai/redismod/abi"
)

// entry is one keyspace slot. kind selects which value field is live.
type entry struct {
	kind abi.KeyType

	str  string
	list []string
	hash map[string]string
	zset map[string]float64

	expireAt time.Time
}

func (e *entry) expired() bool {
	return !e.expireAt.IsZero() && !now().Before(e.expireAt)
}

// live returns the entry for name, lazily dropping it if its expiry has
// passed. Callers hold h.mu.
func (h *Host) live(name string) *entry {
	e, ok := h.keys[name]
	if !ok {
		return nil
	}
	if e.expired() {
		delete(h.keys, name)
		return nil
	}
	return e
}

// ensure returns the live entry for name, creating an empty slot of the
// given kind when absent. Callers hold h.mu.
func (h *Host) ensure(name string, kind abi.KeyType) *entry {
	e := h.live(name)
	if e == nil {
		e = &entry{kind: kind}
		if kind == abi.KeyTypeHash {
			e.hash = make(map[string]string)
		}
		if kind == abi.KeyTypeZset {
			e.zset = make(map[string]float64)
		}
		h.keys[name] = e
	}
	return e
}

// Set seeds or overwrites a plain string key.
func (h *Host) Set(name, value string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.keys[name] = &entry{kind: abi.KeyTypeString, str: value}
}

// SeedList seeds a list key, replacing any previous value. The elements
// run head to tail.
func (h *Host) SeedList(name string, elems ...string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.keys[name] = &entry{kind: abi.KeyTypeList, list: append([]string(nil), elems...)}
}

// SeedHash seeds a hash key, replacing any previous value.
func (h *Host) SeedHash(name string, fields map[string]string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	m := make(map[string]string, len(fields))
	for k, v := range fields {
		m[k] = v
	}
	h.keys[name] = &entry{kind: abi.KeyTypeHash, hash: m}
}

// SeedZset seeds a sorted-set key, replacing any previous value.
func (h *Host) SeedZset(name string, members map[string]float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	m := make(map[string]float64, len(members))
	for k, v := range members {
		m[k] = v
	}
	h.keys[name] = &entry{kind: abi.KeyTypeZset, zset: m}
}

// Value reads a string key back out for assertions.
func (h *Host) Value(name string) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	e := h.live(name)
	if e == nil || e.kind != abi.KeyTypeString {
		return "", false
	}
	return e.str, true
}

// List reads a list key back out, head to tail.
func (h *Host) List(name string) ([]string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	e := h.live(name)
	if e == nil || e.kind != abi.KeyTypeList {
		return nil, false
	}
	return append([]string(nil), e.list...), true
}

// HashValue reads one hash field back out.
func (h *Host) HashValue(name, field string) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	e := h.live(name)
	if e == nil || e.kind != abi.KeyTypeHash {
		return "", false
	}
	v, ok := e.hash[field]
	return v, ok
}

// ZsetScore reads one sorted-set member's score back out.
func (h *Host) ZsetScore(name, member string) (float64, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	e := h.live(name)
	if e == nil || e.kind != abi.KeyTypeZset {
		return 0, false
	}
	v, ok := e.zset[member]
	return v, ok
}

// TTL returns the remaining lifetime of a key, or false when the key is
// absent or has no expiry.
func (h *Host) TTL(name string) (time.Duration, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	e := h.live(name)
	if e == nil || e.expireAt.IsZero() {
		return 0, false
	}
	return e.expireAt.Sub(now()), true
}

// Exists reports whether a key is present and unexpired.
func (h *Host) Exists(name string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.live(name) != nil
}
