package session

import (
	"time"

	"github.com/wippyai/redismod/abi"
	"github.com/wippyai/redismod/errors"
)

// KeyWritable is a read-write view of a native key.
type KeyWritable struct {
	ctx  abi.Ctx
	key  abi.Key
	name *String
}

// OpenKeyWritable opens name for read and write access. The host
// guarantees a usable handle even for an absent key, so absence is
// observed through IsEmpty rather than a null pointer.
func (s *Session) OpenKeyWritable(name string) *KeyWritable {
	nameStr := newString(s.ctx, name)
	return &KeyWritable{
		ctx:  s.ctx,
		key:  abi.OpenKey(s.ctx, nameStr.h, abi.ModeRead|abi.ModeWrite),
		name: nameStr,
	}
}

// Read returns the key's current string value.
func (k *KeyWritable) Read() (string, error) {
	return readKey(k.key)
}

// IsEmpty detects an absent or empty key by reading the value and
// checking for the empty string.
func (k *KeyWritable) IsEmpty() (bool, error) {
	val, err := k.Read()
	if err != nil {
		return false, err
	}
	return val == "", nil
}

// Write replaces the key's string value.
func (k *KeyWritable) Write(val string) error {
	valStr := newString(k.ctx, val)
	defer valStr.Close()
	if abi.StringSet(k.key, valStr.h) != abi.StatusOK {
		return errors.Generic("could not set key value")
	}
	return nil
}

// Erase deletes the key from the keyspace.
func (k *KeyWritable) Erase() error {
	if abi.DeleteKey(k.key) != abi.StatusOK {
		return errors.Generic("could not delete key")
	}
	return nil
}

// SetExpire sets the key's time to live. The host fails the call when
// the key was not opened writable or is empty.
func (k *KeyWritable) SetExpire(expire time.Duration) error {
	if abi.SetExpire(k.key, expire.Milliseconds()) != abi.StatusOK {
		return errors.Generic("could not set key expiry")
	}
	return nil
}

// RPush appends ele to the list stored at the key, creating the list
// when the key is empty. Fails when the key holds a non-list value.
func (k *KeyWritable) RPush(ele string) error {
	return k.listPush(abi.ListTail, ele)
}

// LPush prepends ele to the list stored at the key, creating the list
// when the key is empty. Fails when the key holds a non-list value.
func (k *KeyWritable) LPush(ele string) error {
	return k.listPush(abi.ListHead, ele)
}

func (k *KeyWritable) listPush(where int32, ele string) error {
	eleStr := newString(k.ctx, ele)
	defer eleStr.Close()
	if abi.ListPush(k.key, where, eleStr.h) != abi.StatusOK {
		return errors.Generic("could not push to key holding a non-list value")
	}
	return nil
}

// RPop pops from the tail of the list stored at the key. ok is false
// when the key is empty or absent; a non-list value is an error.
func (k *KeyWritable) RPop() (val string, ok bool, err error) {
	return k.listPop(abi.ListTail)
}

// LPop pops from the head of the list stored at the key. ok is false
// when the key is empty or absent; a non-list value is an error.
func (k *KeyWritable) LPop() (val string, ok bool, err error) {
	return k.listPop(abi.ListHead)
}

func (k *KeyWritable) listPop(where int32) (string, bool, error) {
	switch abi.KeyTypeOf(k.key) {
	case abi.KeyTypeEmpty:
		return "", false, nil
	case abi.KeyTypeList:
	default:
		return "", false, errors.Generic("could not pop from key holding a non-list value")
	}
	val, err := decodeHandle(abi.ListPop(k.key, where), "popped element")
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

// HashGet looks up a field of the hash stored at the key. ok is false
// when the field or the key is absent.
func (k *KeyWritable) HashGet(field string) (val string, ok bool) {
	fieldStr := newString(k.ctx, field)
	defer fieldStr.Close()
	h := abi.HashGet(k.key, fieldStr.h)
	if h == nil {
		return "", false
	}
	val, err := decodeHandle(h, "hash value")
	if err != nil {
		return "", false
	}
	return val, true
}

// HashSet sets a field of the hash stored at the key.
func (k *KeyWritable) HashSet(field, val string) error {
	fieldStr := newString(k.ctx, field)
	defer fieldStr.Close()
	valStr := newString(k.ctx, val)
	defer valStr.Close()
	if abi.HashSet(k.key, fieldStr.h, valStr.h) != abi.StatusOK {
		return errors.Generic("could not set hash field")
	}
	return nil
}

// ZAdd adds ele to the sorted set stored at the key with the given
// score.
func (k *KeyWritable) ZAdd(score float64, ele string) error {
	eleStr := newString(k.ctx, ele)
	defer eleStr.Close()
	var flags int32
	if abi.ZsetAdd(k.key, score, eleStr.h, &flags) != abi.StatusOK {
		return errors.Generic("could not add to key holding a non-zset value")
	}
	return nil
}

// ZIncrBy increments ele's score in the sorted set stored at the key
// and returns the new score.
func (k *KeyWritable) ZIncrBy(incr float64, ele string) (float64, error) {
	eleStr := newString(k.ctx, ele)
	defer eleStr.Close()
	var flags int32
	var newScore float64
	if abi.ZsetIncrby(k.key, incr, eleStr.h, &flags, &newScore) != abi.StatusOK {
		return 0, errors.Generic("could not increment score in key holding a non-zset value")
	}
	return newScore, nil
}

// ZScore returns ele's score in the sorted set stored at the key.
func (k *KeyWritable) ZScore(ele string) (float64, error) {
	eleStr := newString(k.ctx, ele)
	defer eleStr.Close()
	var score float64
	if abi.ZsetScore(k.key, eleStr.h, &score) != abi.StatusOK {
		return 0, errors.Generic("no score for element in key")
	}
	return score, nil
}

// Close releases the native key and its naming string. Safe to call
// more than once.
func (k *KeyWritable) Close() {
	if k.key != nil {
		abi.CloseKey(k.key)
		k.key = nil
	}
	k.name.Close()
}
