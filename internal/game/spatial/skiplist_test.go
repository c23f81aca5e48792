package spatial

import "testing"

func TestSkipListInsertAndRange(t *testing.T) {
	sl := NewSkipList()
	sl.Insert("alice", 50)
	sl.Insert("bob", 90)
	sl.Insert("carol", 70)

	top := sl.GetRange(1, 3)
	if len(top) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(top))
	}
	want := []string{"bob", "carol", "alice"}
	for i, e := range top {
		if e.Key != want[i] {
			t.Errorf("rank %d = %q, want %q", i+1, e.Key, want[i])
		}
	}
}

func TestSkipListUpdateMovesRank(t *testing.T) {
	sl := NewSkipList()
	sl.Insert("alice", 10)
	sl.Insert("bob", 20)

	sl.Insert("alice", 100) // alice should now outrank bob
	top := sl.GetRange(1, 2)
	if top[0].Key != "alice" {
		t.Errorf("expected alice to move to rank 1 after re-insert, got %q", top[0].Key)
	}
	if top[0].Score != 100 {
		t.Errorf("expected alice's score to update to 100, got %v", top[0].Score)
	}
}

func TestSkipListTiesBreakByKey(t *testing.T) {
	sl := NewSkipList()
	sl.Insert("zeta", 50)
	sl.Insert("alpha", 50)

	top := sl.GetRange(1, 2)
	if top[0].Key != "alpha" {
		t.Errorf("expected tied scores to break by key ascending, got order %q, %q", top[0].Key, top[1].Key)
	}
}

func TestSkipListRangeClampsToLength(t *testing.T) {
	sl := NewSkipList()
	sl.Insert("only", 5)

	top := sl.GetRange(1, 100)
	if len(top) != 1 {
		t.Errorf("expected GetRange to clamp to the actual length, got %d entries", len(top))
	}
}

func TestSkipListEmptyRange(t *testing.T) {
	sl := NewSkipList()
	if got := sl.GetRange(1, 10); got != nil {
		t.Errorf("expected nil for an empty list, got %v", got)
	}
}

func TestSkipListManyInsertsStayOrdered(t *testing.T) {
	sl := NewSkipList()
	scores := map[string]float64{}
	for i := 0; i < 200; i++ {
		key := string(rune('a' + i%26))
		score := float64((i * 37) % 500)
		key = key + string(rune('A'+i%26))
		sl.Insert(key, score)
		scores[key] = score
	}

	top := sl.GetRange(1, 200)
	for i := 1; i < len(top); i++ {
		if top[i-1].Score < top[i].Score {
			t.Fatalf("ranking not descending at index %d: %v then %v", i, top[i-1], top[i])
		}
	}
}
