package tractor

import "testing"

func TestDialogController_AutoShowPerPhase(t *testing.T) {
	tests := []struct {
		status Status
		want   Dialog
	}{
		{StatusWaiting, DialogNone},
		{StatusCalling, DialogCallDealer},
		{StatusDiscarding, DialogDiscard},
		{StatusCallingFriend, DialogCallFriend},
		{StatusPlaying, DialogNone},
		{StatusFinished, DialogNone},
	}
	for _, tt := range tests {
		d := NewDialogController()
		d.Observe(tt.status)
		if got := d.Visible(); got != tt.want {
			t.Fatalf("status %s: visible = %s, want %s", tt.status, got, tt.want)
		}
	}
}

func TestDialogController_DismissHoldsWithinPhaseInstance(t *testing.T) {
	d := NewDialogController()
	d.Observe(StatusCalling)
	d.Dismiss()
	if d.Visible() != DialogNone {
		t.Fatalf("dismissed dialog should be hidden")
	}

	// 轮询到相同 status 不得顶回
	d.Observe(StatusCalling)
	d.Observe(StatusCalling)
	if d.Visible() != DialogNone {
		t.Fatalf("repeated polls of the same status must not re-show")
	}

	d.Reopen()
	if d.Visible() != DialogCallDealer {
		t.Fatalf("reopen should restore the dialog")
	}
}

func TestDialogController_PhaseReentryResetsDismiss(t *testing.T) {
	d := NewDialogController()
	d.Observe(StatusCalling)
	d.Dismiss()

	d.Observe(StatusDiscarding)
	if d.Visible() != DialogDiscard {
		t.Fatalf("new phase instance must auto-show, got %s", d.Visible())
	}

	d.Dismiss()
	d.Observe(StatusPlaying)
	d.Observe(StatusDiscarding)
	if d.Visible() != DialogDiscard {
		t.Fatalf("re-entering discarding is a fresh instance, must auto-show")
	}
}

func TestDialogController_PureFunctionOfInputs(t *testing.T) {
	// 同样的 (status, dismissed) 组合永远推导出同样的对话框
	for status := range StatusDictionary {
		for _, dismissed := range []bool{false, true} {
			a := NewDialogController()
			a.Observe(status)
			if dismissed {
				a.Dismiss()
			}
			b := NewDialogController()
			b.Observe(status)
			if dismissed {
				b.Dismiss()
			}
			if a.Visible() != b.Visible() {
				t.Fatalf("status %s dismissed=%v: inconsistent results", status, dismissed)
			}
		}
	}
}
