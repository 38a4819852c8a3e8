package sway

import (
	"sync"
	"testing"
)

type recordingHandler struct {
	mu     sync.Mutex
	events []string
}

func (h *recordingHandler) OnEvent(ev string) {
	h.mu.Lock()
	h.events = append(h.events, ev)
	h.mu.Unlock()
}

func (h *recordingHandler) received() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.events...)
}

func TestDispatcherRoutesByEventName(t *testing.T) {
	d := NewDispatcher()

	h := &recordingHandler{}
	d.RegisterForIPC("workspacev2", h)

	d.dispatch("workspacev2>>3")
	d.dispatch("focusedmonv2>>DP-1,1")

	got := h.received()
	if len(got) != 1 || got[0] != "workspacev2>>3" {
		t.Errorf("handler got %v, want [workspacev2>>3]", got)
	}
}

func TestDispatcherUnregister(t *testing.T) {
	d := NewDispatcher()

	h := &recordingHandler{}
	d.RegisterForIPC("workspacev2", h)
	d.RegisterForIPC("focusedmonv2", h)
	d.UnregisterForIPC(h)

	d.dispatch("workspacev2>>1")
	d.dispatch("focusedmonv2>>DP-1,1")

	if got := h.received(); len(got) != 0 {
		t.Errorf("unregistered handler still received %v", got)
	}
}

func TestDispatcherStartTwice(t *testing.T) {
	d := NewDispatcher()
	defer d.Stop()

	if err := d.Start(); err != nil {
		t.Fatalf("first start failed: %v", err)
	}
	if err := d.Start(); err == nil {
		t.Fatal("expected error on second start")
	}
}
