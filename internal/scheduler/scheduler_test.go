package scheduler

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestSetReplacesPriorTimer(t *testing.T) {
	var fired int32
	s := New(func(a Action) error {
		atomic.AddInt32(&fired, 1)
		return nil
	}, true)

	if err := s.Set(ActionStopPlayback, time.Now().Add(50*time.Millisecond)); err != nil {
		t.Fatal(err)
	}
	if err := s.Set(ActionPausePlayback, time.Now().Add(5*time.Millisecond)); err != nil {
		t.Fatal(err)
	}

	time.Sleep(100 * time.Millisecond)
	if atomic.LoadInt32(&fired) != 1 {
		t.Fatalf("want exactly 1 firing (the replacement), got %d", fired)
	}
	if s.Armed() != nil {
		t.Fatal("expected idle after firing")
	}
}

func TestCancelDisarms(t *testing.T) {
	var fired int32
	s := New(func(a Action) error {
		atomic.AddInt32(&fired, 1)
		return nil
	}, true)
	if err := s.Set(ActionStopPlayback, time.Now().Add(30*time.Millisecond)); err != nil {
		t.Fatal(err)
	}
	s.Cancel()
	time.Sleep(60 * time.Millisecond)
	if atomic.LoadInt32(&fired) != 0 {
		t.Fatal("expected no firing after cancel")
	}
	if s.Armed() != nil {
		t.Fatal("expected idle after cancel")
	}
}

func TestSetFailsWhenDisabled(t *testing.T) {
	s := New(func(a Action) error { return nil }, false)
	if err := s.Set(ActionStopPlayback, time.Now().Add(time.Second)); err == nil {
		t.Fatal("expected error when scheduler disabled")
	}
}

func TestSetFailsForUnsupportedAction(t *testing.T) {
	s := New(func(a Action) error { return nil }, true)
	// machine_hibernate is unsupported on Linux in ProbeCapabilities.
	if ProbeCapabilities().MachineHibernate {
		t.Skip("hibernate supported on this host, nothing to assert")
	}
	if err := s.Set(ActionMachineHibernate, time.Now().Add(time.Second)); err == nil {
		t.Fatal("expected unsupported-action error")
	}
}
