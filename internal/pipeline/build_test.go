package pipeline

import (
	"testing"
	"time"
)

func TestBuild_StateTransitions(t *testing.T) {
	b := newBuild(1)
	if b.Status != StatusQueued {
		t.Fatalf("expected new build to be queued, got %q", b.Status)
	}

	transitions := []struct {
		status Status
		phase  string
	}{
		{StatusReading, "reading"},
		{StatusParsing, "parsing"},
		{StatusRendering, "rendering"},
		{StatusWriting, "writing"},
		{StatusCompleted, "done"},
	}

	for _, tr := range transitions {
		before := b.UpdatedAt
		// Small sleep to ensure time difference is detectable.
		time.Sleep(time.Millisecond)
		b.SetStatus(tr.status, tr.phase)

		if b.Status != tr.status {
			t.Errorf("expected status %q, got %q", tr.status, b.Status)
		}
		if b.Phase != tr.phase {
			t.Errorf("expected phase %q, got %q", tr.phase, b.Phase)
		}
		if !b.UpdatedAt.After(before) {
			t.Errorf("expected UpdatedAt to advance after SetStatus(%q)", tr.status)
		}
	}
}

func TestBuild_AddError(t *testing.T) {
	b := newBuild(2)
	b.AddError("a.js:3: malformed signature")
	b.AddError("second")

	snap := b.Snapshot()
	if len(snap.Progress.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(snap.Progress.Errors))
	}
	if snap.Progress.Errors[0] != "a.js:3: malformed signature" {
		t.Errorf("unexpected first error %q", snap.Progress.Errors[0])
	}
}

func TestBuild_SnapshotErrorsNotNil(t *testing.T) {
	// Snapshot should always return non-nil errors slice.
	snap := newBuild(3).Snapshot()
	if snap.Progress.Errors == nil {
		t.Error("expected non-nil errors slice in snapshot")
	}
	if snap.ID != 3 {
		t.Errorf("expected build id 3, got %d", snap.ID)
	}
}

func TestBuild_SnapshotIsACopy(t *testing.T) {
	b := newBuild(4)
	b.AddError("first")
	snap := b.Snapshot()
	b.AddError("second")
	b.update(func(p *Progress) { p.Pages = 9 })

	if len(snap.Progress.Errors) != 1 || snap.Progress.Pages != 0 {
		t.Errorf("snapshot changed after the build moved on: %+v", snap.Progress)
	}
}

func TestBuild_ResultNilBeforeRender(t *testing.T) {
	if newBuild(5).Result() != nil {
		t.Error("expected no result before rendering")
	}
}
