package monitor

import "time"

type Status struct {
	Remote         bool          `json:"remote" yaml:"remote"`
	RemoteLatency  time.Duration `json:"remote_latency" yaml:"remote_latency"`
	RemoteError    string        `json:"remote_error,omitempty" yaml:"remote_error,omitempty"`
	SessionStore   bool          `json:"session_store" yaml:"session_store"`
	SessionEntries int           `json:"session_entries" yaml:"session_entries"`
	LastCheck      time.Time     `json:"last_check" yaml:"last_check"`
}
