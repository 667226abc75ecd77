package api

import "time"

// SetNow pins the clock used by time-relative endpoints.
func (s *Server) SetNow(now func() time.Time) { s.now = now }
