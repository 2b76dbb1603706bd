package scheduler

import "runtime"

// Capabilities reports which scheduler actions the host OS supports.
// stop_playback/pause_playback are always available (they're in-process);
// the machine power actions are gated by platform.
type Capabilities struct {
	StopPlayback      bool
	PausePlayback     bool
	MachineShutdown   bool
	MachineSleep      bool
	MachineHibernate  bool
}

// ProbeCapabilities returns the capability set for the current host OS.
func ProbeCapabilities() Capabilities {
	c := Capabilities{StopPlayback: true, PausePlayback: true}
	switch runtime.GOOS {
	case "windows":
		c.MachineShutdown = true
		c.MachineSleep = true
		c.MachineHibernate = true
	case "linux":
		c.MachineShutdown = true
		c.MachineSleep = true
		// Hibernate support varies by swap configuration; not assumed.
		c.MachineHibernate = false
	case "darwin":
		c.MachineShutdown = true
		c.MachineSleep = true
		c.MachineHibernate = false
	}
	return c
}

// Supports reports whether the capability set allows action.
func (c Capabilities) Supports(action Action) bool {
	switch action {
	case ActionStopPlayback:
		return c.StopPlayback
	case ActionPausePlayback:
		return c.PausePlayback
	case ActionMachineShutdown:
		return c.MachineShutdown
	case ActionMachineSleep:
		return c.MachineSleep
	case ActionMachineHibernate:
		return c.MachineHibernate
	default:
		return false
	}
}
