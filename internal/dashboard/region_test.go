package dashboard

import "testing"

func TestNewRegionSetDropsBlankAndDuplicateIDs(t *testing.T) {
	rs := NewRegionSet("a", "b", "", "a")
	if got := rs.Len(); got != 2 {
		t.Fatalf("Len() = %d, want 2", got)
	}
	ids := rs.IDs()
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Errorf("IDs() = %v, want [a b]", ids)
	}
}

func TestRegionSetWidth(t *testing.T) {
	rs := NewRegionSet("a")

	if got := rs.widthOf("a"); got != defaultRegionWidth {
		t.Errorf("default width = %d, want %d", got, defaultRegionWidth)
	}

	rs.SetWidth("a", 50)
	if st, _ := rs.State("a"); st.Width != 50 {
		t.Errorf("width after SetWidth = %d, want 50", st.Width)
	}

	rs.SetWidth("a", 0) // ignored
	if st, _ := rs.State("a"); st.Width != 50 {
		t.Errorf("zero width was not ignored, got %d", st.Width)
	}

	rs.SetWidth("missing", 10) // silent no-op
}

func TestRegionSetUnknownID(t *testing.T) {
	rs := NewRegionSet("a")

	if _, ok := rs.State("missing"); ok {
		t.Error("State returned ok for an unknown id")
	}

	// Writes to unknown ids must be silent no-ops.
	rs.setLoading("missing")
	rs.setNoData("missing")
	rs.setError("missing", "boom")
	rs.setContent("missing", "body", 1)

	if got := rs.Len(); got != 1 {
		t.Errorf("Len() = %d after unknown-id writes, want 1", got)
	}
}

func TestRegionStateTransitions(t *testing.T) {
	rs := NewRegionSet("x")

	st, _ := rs.State("x")
	if st.Status != StatusEmpty {
		t.Errorf("initial status = %v, want empty", st.Status)
	}

	rs.setLoading("x")
	st, _ = rs.State("x")
	if st.Status != StatusLoading || st.Content != loadingText {
		t.Errorf("after setLoading: status %v content %q", st.Status, st.Content)
	}

	rs.setContent("x", "body", 42)
	st, _ = rs.State("x")
	if st.Status != StatusReady || st.Content != "body" {
		t.Errorf("after setContent: status %v content %q", st.Status, st.Content)
	}
	if payload, ok := rs.payloadOf("x"); !ok || payload != 42 {
		t.Errorf("payloadOf = %v, %v, want 42, true", payload, ok)
	}

	rs.setError("x", "boom")
	st, _ = rs.State("x")
	if st.Status != StatusError || st.Content != "boom" {
		t.Errorf("after setError: status %v content %q", st.Status, st.Content)
	}
	if _, ok := rs.payloadOf("x"); ok {
		t.Error("payload survived setError; a redraw would resurrect stale data")
	}

	rs.setNoData("x")
	st, _ = rs.State("x")
	if st.Status != StatusNoData || st.Content != noDataText {
		t.Errorf("after setNoData: status %v content %q", st.Status, st.Content)
	}
}

func TestStatusString(t *testing.T) {
	cases := []struct {
		status Status
		want   string
	}{
		{StatusEmpty, "empty"},
		{StatusLoading, "loading"},
		{StatusReady, "ready"},
		{StatusNoData, "nodata"},
		{StatusError, "error"},
	}
	for _, tc := range cases {
		if got := tc.status.String(); got != tc.want {
			t.Errorf("Status(%d).String() = %q, want %q", tc.status, got, tc.want)
		}
	}
}
