package classcommands

import "testing"

func TestRegistryAllSortedByName(t *testing.T) {
	reg := NewRegistry()
	reg.Register(MustBind("zeta", "", &syncPingCommand{}))
	reg.Register(MustBind("alpha", "", &syncPingCommand{}))
	reg.Register(MustBind("mid", "", &syncPingCommand{}))

	all := reg.All()
	want := []string{"alpha", "mid", "zeta"}
	if len(all) != len(want) {
		t.Fatalf("got %d bindings, want %d", len(all), len(want))
	}
	for i, b := range all {
		if b.Name != want[i] {
			t.Errorf("All()[%d] = %s, want %s", i, b.Name, want[i])
		}
	}

	if reg.Get("mid") == nil {
		t.Error("Get(mid) = nil")
	}
	if reg.Get("nothere") != nil {
		t.Error("Get(nothere) != nil")
	}
}

func TestRegisterAddsToDefaultRegistry(t *testing.T) {
	b := Register("registry-test-unique", "", &syncPingCommand{})
	if DefaultRegistry.Get("registry-test-unique") != b {
		t.Fatal("Register did not add to the default registry")
	}
}
