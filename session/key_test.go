package session_test

import (
	"testing"
	"time"

	"github.com/wippyai/redismod/abi"
	"github.com/wippyai/redismod/errors"
)

func TestOpenKeyAbsent(t *testing.T) {
	h, s := newSession(t)

	k := s.OpenKey("missing")
	if k.Exists() {
		t.Fatal("absent key reported as existing")
	}
	if _, ok, err := k.Read(); ok || err != nil {
		t.Fatalf("read of absent key: ok=%v err=%v, want false, nil", ok, err)
	}
	k.Close()

	opens := h.Opens()
	if len(opens) != 1 || opens[0].Mode != abi.ModeRead {
		t.Fatalf("open records: got %+v, want one read-mode open", opens)
	}
	checkClean(t, h)
}

func TestOpenKeyRead(t *testing.T) {
	h, s := newSession(t)
	h.Set("greeting", "hello")

	k := s.OpenKey("greeting")
	defer k.Close()

	if !k.Exists() {
		t.Fatal("seeded key reported as absent")
	}
	val, ok, err := k.Read()
	if err != nil || !ok {
		t.Fatalf("read: ok=%v err=%v", ok, err)
	}
	if val != "hello" {
		t.Fatalf("read value: got %q, want %q", val, "hello")
	}

	k.Close()
	checkClean(t, h)
}

func TestWritableRoundTrip(t *testing.T) {
	h, s := newSession(t)

	k := s.OpenKeyWritable("counter")
	defer k.Close()

	empty, err := k.IsEmpty()
	if err != nil || !empty {
		t.Fatalf("fresh key IsEmpty: got %v, %v", empty, err)
	}

	if err := k.Write("41"); err != nil {
		t.Fatalf("write: %v", err)
	}
	val, err := k.Read()
	if err != nil || val != "41" {
		t.Fatalf("read back: got %q, %v", val, err)
	}

	if got, _ := h.Value("counter"); got != "41" {
		t.Fatalf("host value: got %q, want %q", got, "41")
	}

	opens := h.Opens()
	if len(opens) != 1 || opens[0].Mode != abi.ModeRead|abi.ModeWrite {
		t.Fatalf("open records: got %+v, want one read-write open", opens)
	}

	k.Close()
	checkClean(t, h)
}

func TestWritableErase(t *testing.T) {
	h, s := newSession(t)
	h.Set("gone", "soon")

	k := s.OpenKeyWritable("gone")
	defer k.Close()

	if err := k.Erase(); err != nil {
		t.Fatalf("erase: %v", err)
	}
	if h.Exists("gone") {
		t.Fatal("key still present after erase")
	}
}

func TestSetExpire(t *testing.T) {
	h, s := newSession(t)
	h.Set("volatile", "v")

	k := s.OpenKeyWritable("volatile")
	defer k.Close()

	if err := k.SetExpire(5 * time.Second); err != nil {
		t.Fatalf("set expire: %v", err)
	}
	ttl, ok := h.TTL("volatile")
	if !ok {
		t.Fatal("no ttl recorded")
	}
	if ttl <= 0 || ttl > 5*time.Second {
		t.Fatalf("ttl out of range: %v", ttl)
	}
}

func TestSetExpireOnAbsentKey(t *testing.T) {
	_, s := newSession(t)

	k := s.OpenKeyWritable("nothing")
	defer k.Close()

	if err := k.SetExpire(time.Second); err == nil {
		t.Fatal("expected error setting expiry on absent key")
	}
}

func TestListPushPop(t *testing.T) {
	h, s := newSession(t)

	k := s.OpenKeyWritable("queue")
	defer k.Close()

	for _, v := range []string{"a", "b", "c"} {
		if err := k.RPush(v); err != nil {
			t.Fatalf("rpush %q: %v", v, err)
		}
	}
	if err := k.LPush("z"); err != nil {
		t.Fatalf("lpush: %v", err)
	}

	if got, _ := h.List("queue"); len(got) != 4 || got[0] != "z" || got[3] != "c" {
		t.Fatalf("list contents: got %v", got)
	}

	val, ok, err := k.LPop()
	if err != nil || !ok || val != "z" {
		t.Fatalf("lpop: got %q, %v, %v", val, ok, err)
	}
	val, ok, err = k.RPop()
	if err != nil || !ok || val != "c" {
		t.Fatalf("rpop: got %q, %v, %v", val, ok, err)
	}

	k.Close()
	checkClean(t, h)
}

func TestListPopEmpty(t *testing.T) {
	_, s := newSession(t)

	k := s.OpenKeyWritable("empty")
	defer k.Close()

	if _, ok, err := k.LPop(); ok || err != nil {
		t.Fatalf("pop on empty key: ok=%v err=%v, want false, nil", ok, err)
	}
}

func TestListPopWrongType(t *testing.T) {
	h, s := newSession(t)
	h.Set("scalar", "not a list")

	k := s.OpenKeyWritable("scalar")
	defer k.Close()

	_, _, err := k.RPop()
	if err == nil {
		t.Fatal("expected error popping a string key")
	}
	if !errors.IsKind(err, errors.KindGeneric) {
		t.Fatalf("error kind: got %v", err)
	}
}

func TestHashGetSet(t *testing.T) {
	h, s := newSession(t)

	k := s.OpenKeyWritable("profile")
	defer k.Close()

	if _, ok := k.HashGet("name"); ok {
		t.Fatal("absent field reported as present")
	}
	if err := k.HashSet("name", "ada"); err != nil {
		t.Fatalf("hash set: %v", err)
	}
	val, ok := k.HashGet("name")
	if !ok || val != "ada" {
		t.Fatalf("hash get: got %q, %v", val, ok)
	}

	if got, _ := h.HashValue("profile", "name"); got != "ada" {
		t.Fatalf("host hash value: got %q", got)
	}

	k.Close()
	checkClean(t, h)
}

func TestZset(t *testing.T) {
	h, s := newSession(t)

	k := s.OpenKeyWritable("board")
	defer k.Close()

	if err := k.ZAdd(1.5, "ada"); err != nil {
		t.Fatalf("zadd: %v", err)
	}
	score, err := k.ZIncrBy(2.0, "ada")
	if err != nil || score != 3.5 {
		t.Fatalf("zincrby: got %v, %v", score, err)
	}
	score, err = k.ZScore("ada")
	if err != nil || score != 3.5 {
		t.Fatalf("zscore: got %v, %v", score, err)
	}
	if _, err := k.ZScore("ghost"); err == nil {
		t.Fatal("expected error scoring absent member")
	}

	if got, _ := h.ZsetScore("board", "ada"); got != 3.5 {
		t.Fatalf("host score: got %v", got)
	}

	k.Close()
	checkClean(t, h)
}
