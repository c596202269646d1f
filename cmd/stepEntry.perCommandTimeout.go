package cmd

import "time"

func (s *stepEntry) perCommandTimeout(defaultTimeout time.Duration) time.Duration {
	if s.Timeout == "" {
		return defaultTimeout
	}
	d, err := time.ParseDuration(s.Timeout)
	if err != nil {
		return defaultTimeout
	}
	return d
}
