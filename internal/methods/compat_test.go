package methods

import (
	"testing"

	"github.com/arung-agamani/aimpctl/internal/dispatch"
	"github.com/arung-agamani/aimpctl/internal/frontend/compat"
	"github.com/arung-agamani/aimpctl/internal/player"
	"github.com/arung-agamani/aimpctl/internal/value"
)

func TestCompatGetVolumeReturnsBareString(t *testing.T) {
	deps := testDeps(t)
	reg := dispatch.NewRegistry()
	registerCompatMethod(reg, deps)

	params := value.Object()
	params.Set("action", value.String("get_volume"))
	outcome, fault := invoke(t, reg, compat.SyntheticMethod, params)
	if fault != nil {
		t.Fatalf("unexpected fault %v", fault)
	}
	if outcome.Result.Kind() != value.KindString {
		t.Fatalf("want a bare string result, got kind %v", outcome.Result.Kind())
	}
	s, _ := outcome.Result.AsString()
	if s != "50" {
		t.Fatalf("want default volume \"50\", got %q", s)
	}
}

func TestCompatSetVolumeUpdatesEngine(t *testing.T) {
	deps := testDeps(t)
	reg := dispatch.NewRegistry()
	registerCompatMethod(reg, deps)

	params := value.Object()
	params.Set("action", value.String("set_volume"))
	params.Set("level", value.Int(33))
	outcome, fault := invoke(t, reg, compat.SyntheticMethod, params)
	if fault != nil {
		t.Fatalf("unexpected fault %v", fault)
	}
	s, _ := outcome.Result.AsString()
	if s != "33" {
		t.Fatalf("want \"33\", got %q", s)
	}
	if deps.Engine.Status().Volume != 33 {
		t.Fatalf("want engine volume 33, got %d", deps.Engine.Status().Volume)
	}
}

func TestCompatPlayWithNothingLoadedFaults(t *testing.T) {
	deps := testDeps(t)
	reg := dispatch.NewRegistry()
	registerCompatMethod(reg, deps)

	params := value.Object()
	params.Set("action", value.String("play"))
	_, fault := invoke(t, reg, compat.SyntheticMethod, params)
	if fault == nil || fault.Code != dispatch.FaultPlaybackFailed {
		t.Fatalf("want FaultPlaybackFailed when nothing is loaded, got %v", fault)
	}
}

func TestCompatPlayThenStopRoundtrip(t *testing.T) {
	deps := testDeps(t)
	if err := deps.Engine.Play(player.TrackDescription{PlaylistID: 1, TrackID: 1}); err != nil {
		t.Fatal(err)
	}
	reg := dispatch.NewRegistry()
	registerCompatMethod(reg, deps)

	params := value.Object()
	params.Set("action", value.String("stop"))
	outcome, fault := invoke(t, reg, compat.SyntheticMethod, params)
	if fault != nil {
		t.Fatalf("unexpected fault %v", fault)
	}
	s, _ := outcome.Result.AsString()
	if s != string(player.StateStopped) {
		t.Fatalf("want stopped, got %q", s)
	}
}

func TestCompatUnknownActionFaults(t *testing.T) {
	deps := testDeps(t)
	reg := dispatch.NewRegistry()
	registerCompatMethod(reg, deps)

	params := value.Object()
	params.Set("action", value.String("nonsense"))
	_, fault := invoke(t, reg, compat.SyntheticMethod, params)
	if fault == nil || fault.Code != dispatch.FaultMethodNotFound {
		t.Fatalf("want FaultMethodNotFound, got %v", fault)
	}
}
