package history

import "testing"

// #region record-tests

func TestRecord_ReportsNewlyAdded(t *testing.T) {
	tr := NewTracker()

	if !tr.Record("p1") {
		t.Error("expected first record to report newly added")
	}
	if tr.Record("p1") {
		t.Error("expected duplicate record to report not added")
	}
	if tr.Len() != 1 {
		t.Fatalf("expected length 1 after duplicate record, got %d", tr.Len())
	}
}

func TestRecord_FirstViewedOrderPreserved(t *testing.T) {
	tr := NewTracker()
	tr.Record("p2")
	tr.Record("p1")
	tr.Record("p2") // no-op
	tr.Record("p3")

	want := []string{"p2", "p1", "p3"}
	got := tr.IDs()
	if len(got) != len(want) {
		t.Fatalf("expected %d ids, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("id[%d]: expected %q, got %q", i, want[i], got[i])
		}
	}
}

// #endregion record-tests

// #region clear-tests

func TestClear_EmptiesAndAllowsReRecord(t *testing.T) {
	tr := NewTracker()
	tr.Record("p1")
	tr.Record("p2")

	tr.Clear()
	if tr.Len() != 0 {
		t.Fatalf("expected empty tracker after clear, got %d", tr.Len())
	}
	if tr.Contains("p1") {
		t.Error("expected p1 forgotten after clear")
	}
	if !tr.Record("p1") {
		t.Error("expected re-record after clear to report newly added")
	}
}

// #endregion clear-tests

// #region ids-tests

func TestIDs_ReturnsCopy(t *testing.T) {
	tr := NewTracker()
	tr.Record("p1")

	ids := tr.IDs()
	ids[0] = "mutated"

	if !tr.Contains("p1") {
		t.Error("mutating the returned slice must not affect the tracker")
	}
	if tr.IDs()[0] != "p1" {
		t.Error("expected internal order unchanged")
	}
}

// #endregion ids-tests
