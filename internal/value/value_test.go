package value

import "testing"

func TestAccessorsRejectWrongKind(t *testing.T) {
	v := String("hi")
	if _, ok := v.AsInt(); ok {
		t.Fatalf("AsInt on a string Value should fail")
	}
	if _, ok := v.AsSequence(); ok {
		t.Fatalf("AsSequence on a string Value should fail")
	}
}

func TestGetOnNonMapping(t *testing.T) {
	v := Int(5)
	if _, ok := v.Get("anything"); ok {
		t.Fatalf("Get on a non-mapping Value should fail")
	}
}

func TestGetMissingKey(t *testing.T) {
	m := NewMapping(Mapping{"a": Int(1)})
	if _, ok := m.Get("b"); ok {
		t.Fatalf("Get for an absent key should fail")
	}
	v, ok := m.Get("a")
	if !ok {
		t.Fatalf("Get for a present key should succeed")
	}
	if i, _ := v.AsInt(); i != 1 {
		t.Fatalf("got %d, want 1", i)
	}
}

func TestCloneIsDeep(t *testing.T) {
	inner := NewMapping(Mapping{"x": Int(1)})
	outer := NewSequence(Sequence{inner})

	cloned := outer.Clone()
	clonedSeq, _ := cloned.AsSequence()
	clonedInner := clonedSeq[0]
	clonedMap, _ := clonedInner.AsMapping()
	clonedMap["x"] = Int(99)

	origSeq, _ := outer.AsSequence()
	origMap, _ := origSeq[0].AsMapping()
	if i, _ := origMap["x"].AsInt(); i != 1 {
		t.Fatalf("mutating the clone's inner mapping mutated the original: got %d, want 1", i)
	}
}

func TestToDisplayString(t *testing.T) {
	cases := []struct {
		v    Value
		want string
	}{
		{String("abc"), "abc"},
		{Int(42), "42"},
		{Boolean(true), "true"},
		{Null(), "null"},
	}
	for _, c := range cases {
		got, ok := c.v.ToDisplayString()
		if !ok {
			t.Fatalf("ToDisplayString failed for %v", c.v)
		}
		if got != c.want {
			t.Fatalf("got %q, want %q", got, c.want)
		}
	}
}

func TestToDisplayStringRejectsCompoundKinds(t *testing.T) {
	seq := NewSequence(Sequence{Int(1)})
	if _, ok := seq.ToDisplayString(); ok {
		t.Fatalf("ToDisplayString should fail for a sequence")
	}
	mp := NewMapping(Mapping{"a": Int(1)})
	if _, ok := mp.ToDisplayString(); ok {
		t.Fatalf("ToDisplayString should fail for a mapping")
	}
}

func TestZeroValueIsNull(t *testing.T) {
	var v Value
	if !v.IsNull() {
		t.Fatalf("zero Value should be null")
	}
}
