package domain

import "testing"

func TestProgressFor_LinearStatuses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status   Status
		wantStep int
		wantPct  int
		terminal bool
	}{
		{StatusPending, 0, 20, false},
		{StatusConfirmed, 1, 40, false},
		{StatusProcessing, 2, 60, false},
		{StatusShipped, 3, 80, false},
		{StatusDelivered, 4, 100, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(string(tt.status), func(t *testing.T) {
			t.Parallel()
			got := ProgressFor(tt.status)
			if got.StepIndex != tt.wantStep || got.Percent != tt.wantPct {
				t.Fatalf("ProgressFor(%s) = %+v, want step=%d pct=%d", tt.status, got, tt.wantStep, tt.wantPct)
			}
			if tt.status.Terminal() != tt.terminal {
				t.Fatalf("Terminal(%s) = %v, want %v", tt.status, tt.status.Terminal(), tt.terminal)
			}
		})
	}
}

func TestProgressFor_Cancelled(t *testing.T) {
	t.Parallel()

	// cancelled — одношаговый бар, всегда 100%
	got := ProgressFor(StatusCancelled)
	if got.StepIndex != 0 || got.Percent != 100 {
		t.Fatalf("ProgressFor(cancelled) = %+v, want step=0 pct=100", got)
	}
	if !StatusCancelled.Terminal() {
		t.Fatalf("cancelled must be terminal")
	}
}

func TestProgressFor_Unknown(t *testing.T) {
	t.Parallel()

	got := ProgressFor(Status("garbage"))
	if got.StepIndex != 0 || got.Percent != 20 {
		t.Fatalf("unknown status must map to the first step, got %+v", got)
	}
}

func TestValidStatus(t *testing.T) {
	t.Parallel()

	for _, s := range []Status{StatusPending, StatusConfirmed, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled} {
		if !ValidStatus(s) {
			t.Fatalf("ValidStatus(%s) = false, want true", s)
		}
	}
	if ValidStatus(Status("paid")) {
		t.Fatalf("ValidStatus(paid) = true, want false")
	}
}
