package statusbar

import (
	"testing"

	"github.com/gotk3/gotk3/gtk"
)

type stubModule struct {
	*BaseModule
	cleaned bool
}

func newStubModule(name string) *stubModule {
	return &stubModule{BaseModule: NewBaseModule(name, UpdateModeStatic)}
}

func (m *stubModule) CreateWidget() (gtk.IWidget, error)    { return nil, nil }
func (m *stubModule) UpdateWidget(widget gtk.IWidget) error { return nil }

func (m *stubModule) Cleanup() error {
	m.cleaned = true
	return nil
}

func TestRegistryRegisterDuplicate(t *testing.T) {
	r := NewRegistry()

	if err := r.Register(newStubModule("image")); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if err := r.Register(newStubModule("image")); err == nil {
		t.Fatal("expected error registering duplicate module")
	}
}

func TestRegistryNamesSorted(t *testing.T) {
	r := NewRegistry()
	r.Register(newStubModule("image"))
	r.Register(newStubModule("cava"))

	names := r.Names()
	if len(names) != 2 || names[0] != "cava" || names[1] != "image" {
		t.Errorf("expected sorted [cava image], got %v", names)
	}
}

func TestRegistryFindExact(t *testing.T) {
	r := NewRegistry()
	r.Register(newStubModule("image"))

	module, ok := r.Find("image")
	if !ok || module.Name() != "image" {
		t.Fatalf("expected exact match for image, got %v %v", module, ok)
	}
}

func TestRegistryFindFuzzy(t *testing.T) {
	r := NewRegistry()
	r.Register(newStubModule("image"))
	r.Register(newStubModule("cava"))

	module, ok := r.Find("img")
	if !ok || module.Name() != "image" {
		t.Fatalf("expected fuzzy match img -> image, got ok=%v", ok)
	}

	module, ok = r.Find("cv")
	if !ok || module.Name() != "cava" {
		t.Fatalf("expected fuzzy match cv -> cava, got ok=%v", ok)
	}

	if _, ok := r.Find("zzz"); ok {
		t.Error("expected no match for zzz")
	}
}

func TestRegistryCleanup(t *testing.T) {
	r := NewRegistry()

	m := newStubModule("image")
	r.Register(m)

	r.Cleanup()

	if !m.cleaned {
		t.Error("expected module cleanup to run")
	}
	if len(r.Names()) != 0 {
		t.Errorf("expected empty registry after cleanup, got %v", r.Names())
	}
}
