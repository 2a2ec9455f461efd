package session

import "github.com/wippyai/redismod/abi"

// Key is a read-only view of a native key. Write operations are absent
// from this type by construction; use KeyWritable when mutation is
// needed.
type Key struct {
	key abi.Key

	// The naming string is held so its release happens together with
	// the key's in Close.
	name *String
}

// OpenKey opens name for read access. The host returns a null key
// pointer for an absent key; the wrapper is still valid and Exists
// reports the distinction.
func (s *Session) OpenKey(name string) *Key {
	nameStr := newString(s.ctx, name)
	return &Key{
		key:  abi.OpenKey(s.ctx, nameStr.h, abi.ModeRead),
		name: nameStr,
	}
}

// Exists reports whether the host returned a non-null key pointer.
func (k *Key) Exists() bool {
	return k.key != nil
}

// Read returns the key's string value via the host's zero-copy access.
// ok is false when the key is absent.
func (k *Key) Read() (val string, ok bool, err error) {
	if !k.Exists() {
		return "", false, nil
	}
	val, err = readKey(k.key)
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

// Close releases the native key and its naming string. Safe to call
// more than once.
func (k *Key) Close() {
	if k.key != nil {
		abi.CloseKey(k.key)
		k.key = nil
	}
	k.name.Close()
}

func readKey(key abi.Key) (string, error) {
	var length uintptr
	p := abi.StringDMA(key, &length, abi.ModeRead)
	return decodeBytes(p, length, "key value")
}
