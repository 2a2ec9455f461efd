package session_test

import (
	"strings"
	"testing"

	"github.com/wippyai/redismod/abi"
	"github.com/wippyai/redismod/session"
)

func TestCallIntegerHelpers(t *testing.T) {
	h, s := newSession(t)
	h.Set("hits", "10")

	n, err := s.Call1Integer("strlen", "hits")
	if err != nil || n != 2 {
		t.Fatalf("strlen: got %d, %v", n, err)
	}

	n, err = s.Call2Integer("incrby", "hits", "5")
	if err != nil || n != 15 {
		t.Fatalf("incrby: got %d, %v", n, err)
	}

	n, err = s.Call3Integer("hset", "h", "f", "v")
	if err != nil || n != 1 {
		t.Fatalf("hset: got %d, %v", n, err)
	}

	checkClean(t, h)
}

func TestCallTextHelpers(t *testing.T) {
	h, s := newSession(t)
	h.Set("greeting", "hello")

	text, err := s.Call1Text("get", "greeting")
	if err != nil || text != "hello" {
		t.Fatalf("get: got %q, %v", text, err)
	}

	text, err = s.Call2Text("set", "other", "world")
	if err != nil || text != "OK" {
		t.Fatalf("set: got %q, %v", text, err)
	}
	if got, _ := h.Value("other"); got != "world" {
		t.Fatalf("value after set: got %q", got)
	}

	text, err = s.Call3Text("hset", "h", "f", "v")
	if err == nil {
		t.Fatalf("hset as text: got %q, want type error", text)
	}

	checkClean(t, h)
}

func TestCallTypeMismatch(t *testing.T) {
	h, s := newSession(t)
	h.Set("k", "v")

	if _, err := s.Call1Integer("get", "k"); err == nil {
		t.Fatal("expected integer extraction of string reply to fail")
	}
	if _, err := s.Call1Text("exists", "k"); err == nil {
		t.Fatal("expected text extraction of integer reply to fail")
	}
	checkClean(t, h)
}

func TestCallKeys(t *testing.T) {
	h, s := newSession(t)
	h.Set("user:1", "a")
	h.Set("user:2", "b")
	h.Set("other", "c")

	keys, err := s.CallKeys("user:*")
	if err != nil {
		t.Fatalf("call keys: %v", err)
	}
	if len(keys) != 2 || keys[0] != "user:1" || keys[1] != "user:2" {
		t.Fatalf("keys: got %v", keys)
	}
	checkClean(t, h)
}

func TestCallKeysUndecodableElement(t *testing.T) {
	h, s := newSession(t)
	h.Set("ok", "a")
	h.Set("\xff\xfe", "b")

	keys, err := s.CallKeys("*")
	if err != nil {
		t.Fatalf("call keys: %v", err)
	}
	if len(keys) != 2 {
		t.Fatalf("keys: got %v, want 2 entries", keys)
	}
	// The undecodable name contributes its failure message in place.
	found := false
	for _, k := range keys {
		if strings.Contains(k, "not valid UTF-8") {
			found = true
		}
	}
	if !found {
		t.Fatalf("no placeholder message in %v", keys)
	}
	checkClean(t, h)
}

func TestCallReplyTree(t *testing.T) {
	h, s := newSession(t)
	h.Set("a", "1")
	h.Set("b", "2")

	reply := s.Call("keys", "*")
	defer reply.Close()

	if reply.Type() != abi.ReplyArray {
		t.Fatalf("reply type: got %d, want array", reply.Type())
	}
	if n := reply.Len(); n != 2 {
		t.Fatalf("reply length: got %d, want 2", n)
	}
	ele, err := reply.Element(0)
	if err != nil {
		t.Fatalf("element: %v", err)
	}
	text, err := ele.Text()
	ele.Close()
	if err != nil || text != "a" {
		t.Fatalf("element text: got %q, %v", text, err)
	}

	// Elements only come off array replies.
	scalar := s.Call("get", "a")
	defer scalar.Close()
	if _, err := scalar.Element(0); err == nil {
		t.Fatal("expected element extraction of scalar reply to fail")
	}

	v, err := scalar.Value()
	if err != nil || v.Type != abi.ReplyString || v.Text != "1" {
		t.Fatalf("value: got %+v, %v", v, err)
	}

	reply.Close()
	scalar.Close()
	checkClean(t, h)
}

func TestCoerceInteger(t *testing.T) {
	cases := []struct {
		name string
		in   session.Reply
		want session.Reply
	}{
		{
			name: "numeric text",
			in:   session.Reply{Type: abi.ReplyString, Text: "42"},
			want: session.Reply{Type: abi.ReplyInteger, Integer: 42},
		},
		{
			name: "non-numeric text",
			in:   session.Reply{Type: abi.ReplyString, Text: "forty-two"},
			want: session.Reply{Type: abi.ReplyString, Text: "forty-two"},
		},
		{
			name: "integer passes through",
			in:   session.Reply{Type: abi.ReplyInteger, Integer: 7},
			want: session.Reply{Type: abi.ReplyInteger, Integer: 7},
		},
		{
			name: "nil passes through",
			in:   session.Reply{Type: abi.ReplyNil},
			want: session.Reply{Type: abi.ReplyNil},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := session.CoerceInteger(tc.in); got != tc.want {
				t.Fatalf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}
