package models

// Suggestion is a proposed shell command to bring a stopped instance back.
type Suggestion struct {
	InstanceID string `json:"instance_id"`
	Command    string `json:"command"`
}

// Outcome records what happened to one stopped instance during remediation.
// Succeeded is nil when nothing was executed.
type Outcome struct {
	InstanceID string `json:"instance_id"`
	Command    string `json:"command,omitempty"`
	Approved   bool   `json:"approved"`
	Executed   bool   `json:"executed"`
	Succeeded  *bool  `json:"succeeded"`
	Error      string `json:"error,omitempty"`
}

// Declined builds the outcome for a suggestion the operator rejected.
func Declined(s Suggestion) Outcome {
	return Outcome{InstanceID: s.InstanceID, Command: s.Command}
}

// Failed reports whether an execution was attempted and did not succeed.
func (o Outcome) Failed() bool {
	return o.Succeeded != nil && !*o.Succeeded
}

// Bool returns a pointer to b.
func Bool(b bool) *bool {
	return &b
}

// RunSummary aggregates the results of a single watcher run.
type RunSummary struct {
	Region       string     `json:"region"`
	Mock         bool       `json:"mock"`
	TotalChecked int        `json:"total_checked"`
	TotalStopped int        `json:"total_stopped"`
	Stopped      []Instance `json:"stopped,omitempty"`
	Outcomes     []Outcome  `json:"outcomes,omitempty"`
}

// Attempted returns the number of outcomes where a command was executed.
func (s RunSummary) Attempted() int {
	n := 0
	for _, o := range s.Outcomes {
		if o.Executed {
			n++
		}
	}
	return n
}

// Succeeded returns the number of outcomes whose command exited cleanly.
func (s RunSummary) Succeeded() int {
	n := 0
	for _, o := range s.Outcomes {
		if o.Succeeded != nil && *o.Succeeded {
			n++
		}
	}
	return n
}

// ExitCode is 0 when no stopped instances were found and 1 otherwise,
// regardless of remediation results.
func (s RunSummary) ExitCode() int {
	if s.TotalStopped == 0 {
		return 0
	}
	return 1
}
