package monitor

import "time"

type Status struct {
	Store        bool      `json:"store"`
	Cache        bool      `json:"cache"`
	CacheEnabled bool      `json:"cache_enabled"`
	LastCheck    time.Time `json:"last_check"`
}

// Healthy reports whether every configured dependency answered the last probe.
func (s Status) Healthy() bool {
	return s.Store && (!s.CacheEnabled || s.Cache)
}

// Failing lists the dependencies that did not answer the last probe.
func (s Status) Failing() []string {
	var failing []string
	if !s.Store {
		failing = append(failing, "store")
	}
	if s.CacheEnabled && !s.Cache {
		failing = append(failing, "cache")
	}
	return failing
}
