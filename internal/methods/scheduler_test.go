package methods

import (
	"testing"

	"github.com/arung-agamani/aimpctl/internal/dispatch"
	"github.com/arung-agamani/aimpctl/internal/scheduler"
	"github.com/arung-agamani/aimpctl/internal/value"
)

func TestSchedulerSetThenGetReportsArmedTimer(t *testing.T) {
	deps := testDeps(t)
	deps.Scheduler = scheduler.New(func(scheduler.Action) error { return nil }, true)
	reg := dispatch.NewRegistry()
	registerSchedulerMethod(reg, deps)

	params := value.Object()
	params.Set("operation", value.String("set"))
	params.Set("action", value.String(string(scheduler.ActionStopPlayback)))
	params.Set("expires_delay", value.Int(60))

	outcome, fault := invoke(t, reg, "Scheduler", params)
	if fault != nil {
		t.Fatalf("set: unexpected fault %v", fault)
	}
	armed, _ := outcome.Result.Get("armed")
	on, _ := armed.AsBool()
	if !on {
		t.Fatal("want armed == true after set")
	}

	outcome, fault = invoke(t, reg, "Scheduler", value.Object())
	if fault != nil {
		t.Fatalf("get: unexpected fault %v", fault)
	}
	armed, _ = outcome.Result.Get("armed")
	on, _ = armed.AsBool()
	if !on {
		t.Fatal("want armed == true on a plain get after set")
	}
}

func TestSchedulerCancelDisarms(t *testing.T) {
	deps := testDeps(t)
	deps.Scheduler = scheduler.New(func(scheduler.Action) error { return nil }, true)
	reg := dispatch.NewRegistry()
	registerSchedulerMethod(reg, deps)

	setParams := value.Object()
	setParams.Set("operation", value.String("set"))
	setParams.Set("action", value.String(string(scheduler.ActionStopPlayback)))
	setParams.Set("expires_delay", value.Int(60))
	if _, fault := invoke(t, reg, "Scheduler", setParams); fault != nil {
		t.Fatalf("set: unexpected fault %v", fault)
	}

	cancelParams := value.Object()
	cancelParams.Set("operation", value.String("cancel"))
	outcome, fault := invoke(t, reg, "Scheduler", cancelParams)
	if fault != nil {
		t.Fatalf("cancel: unexpected fault %v", fault)
	}
	armed, _ := outcome.Result.Get("armed")
	on, _ := armed.AsBool()
	if on {
		t.Fatal("want armed == false after cancel")
	}
}

func TestSchedulerRejectsWhenDisabled(t *testing.T) {
	deps := testDeps(t)
	deps.Scheduler = scheduler.New(func(scheduler.Action) error { return nil }, false)
	reg := dispatch.NewRegistry()
	registerSchedulerMethod(reg, deps)

	_, fault := invoke(t, reg, "Scheduler", value.Object())
	if fault == nil || fault.Code != dispatch.FaultObjectAccess {
		t.Fatalf("want FaultObjectAccess, got %v", fault)
	}
}

func TestSchedulerRequiresDeadlineOnSet(t *testing.T) {
	deps := testDeps(t)
	deps.Scheduler = scheduler.New(func(scheduler.Action) error { return nil }, true)
	reg := dispatch.NewRegistry()
	registerSchedulerMethod(reg, deps)

	params := value.Object()
	params.Set("operation", value.String("set"))
	params.Set("action", value.String(string(scheduler.ActionStopPlayback)))

	_, fault := invoke(t, reg, "Scheduler", params)
	if fault == nil || fault.Code != dispatch.FaultWrongArgument {
		t.Fatalf("want FaultWrongArgument for missing deadline, got %v", fault)
	}
}
