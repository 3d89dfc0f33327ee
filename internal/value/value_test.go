package value

import "testing"

func TestArrayAppendIsPersistent(t *testing.T) {
	a := EmptyArray()
	b := a.Append(NewInteger(1))
	if a.Len() != 0 {
		t.Fatalf("original array mutated: len=%d", a.Len())
	}
	if b.Len() != 1 {
		t.Fatalf("appended array len=%d, want 1", b.Len())
	}
	v, ok := b.Get(0)
	if !ok || !Equal(v, NewInteger(1)) {
		t.Fatalf("got %v", v)
	}
}

func TestArrayLargeEnoughToBranch(t *testing.T) {
	a := EmptyArray()
	for i := 0; i < 200; i++ {
		a = a.Append(NewInteger(int64(i)))
	}
	if a.Len() != 200 {
		t.Fatalf("len=%d", a.Len())
	}
	for i := 0; i < 200; i++ {
		v, ok := a.Get(i)
		if !ok || !Equal(v, NewInteger(int64(i))) {
			t.Fatalf("index %d: got %v", i, v)
		}
	}
}

func TestMapPutIsPersistentAndSorted(t *testing.T) {
	m := EmptyMapValue()
	m2 := m.Put(Keyword(":b"), NewInteger(2))
	m2 = m2.Put(Keyword(":a"), NewInteger(1))
	if m.Len() != 0 {
		t.Fatalf("original map mutated")
	}
	items := m2.SortedItems()
	if len(items) != 2 || items[0][0].(Keyword) != ":a" || items[1][0].(Keyword) != ":b" {
		t.Fatalf("got %v", items)
	}
}

func TestMapManyKeysSurviveCollisionSplits(t *testing.T) {
	m := EmptyMapValue()
	for i := 0; i < 500; i++ {
		m = m.Put(NewInteger(int64(i)), NewInteger(int64(i*i)))
	}
	if m.Len() != 500 {
		t.Fatalf("len=%d", m.Len())
	}
	for i := 0; i < 500; i++ {
		v, ok := m.Get(NewInteger(int64(i)))
		if !ok || !Equal(v, NewInteger(int64(i*i))) {
			t.Fatalf("key %d: got %v", i, v)
		}
	}
}

func TestMapEqualityIgnoresInsertionOrder(t *testing.T) {
	m1 := EmptyMapValue().Put(Keyword(":a"), NewInteger(1)).Put(Keyword(":b"), NewInteger(2))
	m2 := EmptyMapValue().Put(Keyword(":b"), NewInteger(2)).Put(Keyword(":a"), NewInteger(1))
	if !Equal(m1, m2) {
		t.Fatalf("expected maps built in different order to be equal")
	}
	if m1.String() != m2.String() {
		t.Fatalf("expected identical display form, got %q vs %q", m1.String(), m2.String())
	}
}

func TestFloatEqualityRequiresMatchingPrecision(t *testing.T) {
	a := NewFloat(1.5, 2)
	b := NewFloat(1.5, 3)
	if Equal(a, b) {
		t.Fatalf("1.5 (precision 2) and 1.5 (precision 3) must not be equal")
	}
	c := NewFloat(1.5, 2)
	if !Equal(a, c) {
		t.Fatalf("identical floats with matching precision must be equal")
	}
}

func TestEnvironmentExtendDoesNotMutateParent(t *testing.T) {
	root := NewRootEnvironment()
	e1 := root.Extend("x", NewInteger(1))
	e2 := e1.Extend("x", NewInteger(2))
	v1, _ := e1.Get("x")
	v2, _ := e2.Get("x")
	if !Equal(v1, NewInteger(1)) || !Equal(v2, NewInteger(2)) {
		t.Fatalf("shadowing leaked: e1.x=%v e2.x=%v", v1, v2)
	}
}

func TestModuleNamespacedLookup(t *testing.T) {
	root := NewRootEnvironment()
	mod := NewModule("demo", map[string]Expression{"answer": NewInteger(42)})
	root.BindModule(mod)
	v, ok := root.ResolveNamespaced("demo", "answer")
	if !ok || !Equal(v, NewInteger(42)) {
		t.Fatalf("got %v, %v", v, ok)
	}
}
