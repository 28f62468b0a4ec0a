package pattern

import (
	"testing"
)

func TestDefaultCatalog_Reliability(t *testing.T) {
	catalog := DefaultCatalog()

	tests := []struct {
		id   ID
		want int
	}{
		{ThreeBlackCrows, 78},
		{ThreeWhiteSoldiers, 75},
		{MorningStar, 74},
		{EveningStar, 72},
		{Hammer, 68},
		{Doji, 60},
		{SpinningTop, 55},
		{ID("no_such_pattern"), DefaultReliability},
	}

	for _, tt := range tests {
		if got := catalog.Reliability(tt.id); got != tt.want {
			t.Errorf("Reliability(%q) = %d, want %d", tt.id, got, tt.want)
		}
	}
}

func TestDefaultCatalog_IsSupported(t *testing.T) {
	catalog := DefaultCatalog()

	if !catalog.IsSupported(MorningStar) {
		t.Error("Expected morning_star to be supported")
	}
	if !catalog.IsSupported(ConcealBabySwall) {
		t.Error("Expected conceal_baby to be supported")
	}
	if catalog.IsSupported(ID("no_such_pattern")) {
		t.Error("Expected unknown id to be unsupported")
	}
}

func TestNewCatalog_DropsDuplicates(t *testing.T) {
	catalog := NewCatalog([]Definition{
		{Doji, "Doji", DirectionNeutral, 60},
		{Hammer, "Hammer", DirectionBullish, 68},
		{Doji, "Doji Again", DirectionNeutral, 99},
	})

	ids := catalog.IDs()
	if len(ids) != 2 {
		t.Fatalf("IDs() returned %d ids, want 2", len(ids))
	}
	if ids[0] != Doji || ids[1] != Hammer {
		t.Errorf("IDs() = %v, want [doji hammer]", ids)
	}
	// First registration wins
	if got := catalog.Reliability(Doji); got != 60 {
		t.Errorf("Reliability(doji) = %d, want 60", got)
	}
}

func TestCatalog_IDsReturnsCopy(t *testing.T) {
	catalog := DefaultCatalog()

	ids := catalog.IDs()
	ids[0] = ID("mutated")

	if catalog.IDs()[0] == ID("mutated") {
		t.Error("IDs() exposed internal slice")
	}
}

func TestCatalog_Get(t *testing.T) {
	catalog := DefaultCatalog()

	d, ok := catalog.Get(ShootingStar)
	if !ok {
		t.Fatal("Get(shooting_star) not found")
	}
	if d.Name != "Shooting Star" || d.Direction != DirectionBearish {
		t.Errorf("Get(shooting_star) = %+v", d)
	}

	if _, ok := catalog.Get(ID("no_such_pattern")); ok {
		t.Error("Get() found an unregistered id")
	}
}
