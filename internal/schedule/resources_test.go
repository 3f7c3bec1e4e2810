package schedule

import (
	"testing"
)

func testHeadcount() Headcount {
	return Headcount{
		Electronics: {1: 2},
		Mechanical:  {1: 3, 2: 1},
		Assembly:    {1: 2},
	}
}

func TestNewResourceManager(t *testing.T) {
	rm := NewResourceManager(testCalendar(), testHeadcount())

	pool := rm.Pool(Mechanical, 1)
	if pool == nil {
		t.Fatal("expected a Mechanical/T1 pool")
	}
	if pool.Size() != 3 {
		t.Errorf("Mechanical/T1 size = %d, want 3", pool.Size())
	}
	_, w := pool.EarliestAvailable()
	if w.ID != "MEC-T1-1" {
		t.Errorf("first worker ID = %q, want MEC-T1-1", w.ID)
	}

	if rm.Pool(Assembly, 2) != nil {
		t.Error("unconfigured pool should be absent")
	}
}

func TestNewResourceManager_ZeroCountSkipped(t *testing.T) {
	rm := NewResourceManager(testCalendar(), Headcount{Mechanical: {1: 0}})
	if rm.Pool(Mechanical, 1) != nil {
		t.Error("zero headcount must not create a pool")
	}
}

func TestTransfer(t *testing.T) {
	rm := NewResourceManager(testCalendar(), testHeadcount())
	src := rm.Pool(Mechanical, 1)
	dst := rm.Pool(Assembly, 1)

	moved := rm.Transfer(Mechanical, Assembly, 1, 2)
	if moved != 2 {
		t.Fatalf("moved = %d, want 2", moved)
	}
	if src.IdleCount() != 1 {
		t.Errorf("source idle = %d, want 1", src.IdleCount())
	}
	if dst.IdleCount() != 4 {
		t.Errorf("destination idle = %d, want 4", dst.IdleCount())
	}

	// The moved workers keep their ID but switch department.
	for i := 0; i < 4; i++ {
		w := dst.takeIdle()
		if w.Department != Assembly {
			t.Errorf("worker %s department = %s, want Assembly", w.ID, w.Department)
		}
	}
}

func TestTransfer_BusyWorkersStay(t *testing.T) {
	rm := NewResourceManager(testCalendar(), testHeadcount())
	src := rm.Pool(Mechanical, 1)

	// Tie up two of the three Mechanical workers.
	desired := mustTime(t, "2025-06-02T00:00")
	src.Assign(desired, 465, 465)
	src.Assign(desired, 465, 465)

	moved := rm.Transfer(Mechanical, Assembly, 1, 3)
	if moved != 1 {
		t.Fatalf("moved = %d, want 1 (only the idle worker)", moved)
	}
	if src.Size() != 2 {
		t.Errorf("source pool size = %d, want the 2 busy workers", src.Size())
	}
}

func TestTransfer_MissingPool(t *testing.T) {
	rm := NewResourceManager(testCalendar(), testHeadcount())
	if moved := rm.Transfer(Mechanical, "Paintshop", 1, 1); moved != 0 {
		t.Errorf("transfer into a missing pool moved %d workers", moved)
	}
	if moved := rm.Transfer(Mechanical, Assembly, 2, 1); moved != 0 {
		t.Errorf("transfer of a type the destination lacks moved %d workers", moved)
	}
}

func TestPoolsOrdering(t *testing.T) {
	rm := NewResourceManager(testCalendar(), testHeadcount())
	pools := rm.Pools()
	if len(pools) != 4 {
		t.Fatalf("expected 4 pools, got %d", len(pools))
	}
	for i := 1; i < len(pools); i++ {
		a, b := pools[i-1], pools[i]
		if a.Department > b.Department || (a.Department == b.Department && a.Type >= b.Type) {
			t.Errorf("pools out of order at %d: %s/T%d before %s/T%d",
				i, a.Department, a.Type, b.Department, b.Type)
		}
	}
}
