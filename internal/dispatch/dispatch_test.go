package dispatch

import (
	"context"
	"errors"
	"testing"

	"github.com/arung-agamani/aimpctl/internal/value"
)

func TestInvokeUnknownMethodReturnsMethodNotFound(t *testing.T) {
	reg := NewRegistry()
	c := NewContext(context.Background(), value.Object(), nil)

	_, fault := reg.Invoke(c, "Nope", value.Object())
	if fault == nil || fault.Code != FaultMethodNotFound {
		t.Fatalf("want FaultMethodNotFound, got %v", fault)
	}
}

func TestInvokeWrapsPlainErrorAsFaultInternal(t *testing.T) {
	reg := NewRegistry()
	reg.Register("Boom", func(c *Context, params value.Value) (Outcome, error) {
		return Outcome{}, errors.New("boom")
	})
	c := NewContext(context.Background(), value.Object(), nil)

	_, fault := reg.Invoke(c, "Boom", value.Object())
	if fault == nil || fault.Code != FaultInternal {
		t.Fatalf("want FaultInternal, got %v", fault)
	}
}

func TestInvokePropagatesDeclaredFaultCode(t *testing.T) {
	reg := NewRegistry()
	reg.Register("Reject", func(c *Context, params value.Value) (Outcome, error) {
		return Outcome{}, NewFault(FaultVolumeRange, "out of range")
	})
	c := NewContext(context.Background(), value.Object(), nil)

	_, fault := reg.Invoke(c, "Reject", value.Object())
	if fault == nil || fault.Code != FaultVolumeRange {
		t.Fatalf("want FaultVolumeRange, got %v", fault)
	}
}

func TestRegisterPanicsOnDuplicate(t *testing.T) {
	reg := NewRegistry()
	reg.Register("Dup", func(c *Context, params value.Value) (Outcome, error) {
		return ImmediateResult(value.Object()), nil
	})

	defer func() {
		if recover() == nil {
			t.Fatal("want panic on duplicate registration")
		}
	}()
	reg.Register("Dup", func(c *Context, params value.Value) (Outcome, error) {
		return ImmediateResult(value.Object()), nil
	})
}

func TestTakeDelayedSenderClearsAfterFirstCall(t *testing.T) {
	c := NewContext(context.Background(), value.Object(), &noopSender{})
	if c.TakeDelayedSender() == nil {
		t.Fatal("want non-nil sender on first take")
	}
	if c.TakeDelayedSender() != nil {
		t.Fatal("want nil sender on second take")
	}
}

type noopSender struct{}

func (noopSender) SendSuccess(value.Value) {}
func (noopSender) SendFault(*Fault)        {}
