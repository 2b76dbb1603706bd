package value

import "testing"

func TestTypedReadMismatch(t *testing.T) {
	v := String("hello")
	if _, err := v.AsInt(); err == nil {
		t.Fatal("expected type error reading int from string value")
	}
}

func TestSetPromotesNone(t *testing.T) {
	var v Value
	if err := v.SetInt(42); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := v.AsInt()
	if err != nil || got != 42 {
		t.Fatalf("got %d, %v", got, err)
	}
}

func TestSetRejectsKindChange(t *testing.T) {
	v := Int(1)
	if err := v.SetString("x"); err == nil {
		t.Fatal("expected type error overwriting int with string")
	}
}

func TestObjectOrderPreserved(t *testing.T) {
	o := Object()
	o.Set("b", Int(2))
	o.Set("a", Int(1))
	members := o.Members()
	if len(members) != 2 || members[0].Key != "b" || members[1].Key != "a" {
		t.Fatalf("insertion order not preserved: %+v", members)
	}
}

func TestCloneIsDeep(t *testing.T) {
	orig := Array(Int(1), Int(2))
	clone := orig.Clone()
	clone.SetAt(0, Int(99))
	got, _ := orig.At(0)
	if v, _ := got.AsInt(); v != 1 {
		t.Fatalf("clone mutation leaked into original: %d", v)
	}
}

func TestResizeArray(t *testing.T) {
	var v Value
	if err := v.Resize(3); err != nil {
		t.Fatal(err)
	}
	if v.Len() != 3 {
		t.Fatalf("want len 3, got %d", v.Len())
	}
	if err := v.Resize(1); err != nil {
		t.Fatal(err)
	}
	if v.Len() != 1 {
		t.Fatalf("want len 1, got %d", v.Len())
	}
}

func TestIndexOutOfRange(t *testing.T) {
	v := Array(Int(1))
	if _, err := v.At(5); err == nil {
		t.Fatal("expected index range error")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	src := Object()
	src.Set("id", Int(1))
	src.Set("name", String("x"))
	src.Set("items", Array(Int(1), Int(2), Int(3)))

	enc, err := ToJSON(src)
	if err != nil {
		t.Fatal(err)
	}
	back, err := FromJSON(enc)
	if err != nil {
		t.Fatal(err)
	}
	again, err := ToJSON(back)
	if err != nil {
		t.Fatal(err)
	}
	// Object member order is not guaranteed across a parse, so compare
	// member by member rather than byte for byte.
	if len(enc) != len(again) || len(back.Members()) != len(src.Members()) {
		t.Fatalf("serialize(parse(serialize(v))) != serialize(v):\n%s\n%s", enc, again)
	}
	for _, m := range src.Members() {
		got, ok := back.Get(m.Key)
		if !ok {
			t.Fatalf("member %q lost in round trip: %s", m.Key, again)
		}
		want, _ := ToJSON(m.Val)
		have, _ := ToJSON(got)
		if string(want) != string(have) {
			t.Fatalf("member %q: want %s, got %s", m.Key, want, have)
		}
	}
}

func TestInt32NarrowOverflow(t *testing.T) {
	v := Uint(1 << 32)
	if _, err := v.AsInt32Narrow(); err == nil {
		t.Fatal("expected value range error on overflow")
	}
}
