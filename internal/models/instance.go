package models

import "time"

// InstanceState is the lifecycle state of a monitored instance.
type InstanceState string

const (
	StateRunning      InstanceState = "running"
	StateStopped      InstanceState = "stopped"
	StatePending      InstanceState = "pending"
	StateStopping     InstanceState = "stopping"
	StateShuttingDown InstanceState = "shutting-down"
	StateTerminated   InstanceState = "terminated"
	StateOther        InstanceState = "other"
)

// ParseInstanceState maps a provider state name onto a known state.
// Unknown names become StateOther.
func ParseInstanceState(name string) InstanceState {
	switch s := InstanceState(name); s {
	case StateRunning, StateStopped, StatePending, StateStopping, StateShuttingDown, StateTerminated:
		return s
	default:
		return StateOther
	}
}

// Instance is a point-in-time snapshot of one virtual machine.
type Instance struct {
	ID        string        `json:"id"`
	Name      string        `json:"name,omitempty"`
	Type      string        `json:"type,omitempty"`
	State     InstanceState `json:"state"`
	StoppedAt *time.Time    `json:"stopped_at,omitempty"`
}

// IsStopped reports whether the instance is exactly in the stopped state.
// Transitional states such as stopping or pending do not count.
func (i Instance) IsStopped() bool {
	return i.State == StateStopped
}

// CountStopped returns the number of instances in the stopped state.
func CountStopped(instances []Instance) int {
	n := 0
	for _, inst := range instances {
		if inst.IsStopped() {
			n++
		}
	}
	return n
}
