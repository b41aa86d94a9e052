package logtrace

import "testing"

func TestNewTraceID(t *testing.T) {
	id := NewTraceID("abc")

	if id.ID() != "abc" {
		t.Errorf("Expected id 'abc', got %s", id.ID())
	}
	if id.Level() != 0 || !id.IsFirstLevel() {
		t.Errorf("Expected level 0, got %d", id.Level())
	}
}

func TestTraceIDNextAndPrevious(t *testing.T) {
	root := NewTraceID("abc")
	child := root.Next()
	grandchild := child.Next()

	if child.ID() != "abc" || grandchild.ID() != "abc" {
		t.Error("Expected nested ids to keep the request id")
	}
	if child.Level() != 1 || grandchild.Level() != 2 {
		t.Errorf("Expected levels 1 and 2, got %d and %d", child.Level(), grandchild.Level())
	}
	if child.IsFirstLevel() {
		t.Error("Expected nested id not to be first level")
	}

	// Values are immutable.
	if root.Level() != 0 {
		t.Errorf("Next mutated the receiver: level %d", root.Level())
	}

	if back := grandchild.Previous(); back != child {
		t.Errorf("Expected Previous to return %+v, got %+v", child, back)
	}
	if back := root.Previous(); back != root {
		t.Errorf("Expected Previous at level 0 to stay at level 0, got %+v", back)
	}
}

func TestGenerateID(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		id := generateID()
		if len(id) != idLength {
			t.Fatalf("Expected %d-character id, got %q", idLength, id)
		}
		seen[id] = struct{}{}
	}
	// 32 random bits: a handful of collisions in 1000 would be suspicious.
	if len(seen) < 995 {
		t.Errorf("Expected nearly unique ids, got %d distinct of 1000", len(seen))
	}
}
