package health

// Status holds basic health-check information.
type Status struct {
	IsHealthy bool
	Message   string
}

// String returns a human-readable description of the status.
func (s Status) String() string {
	if s.IsHealthy {
		return "Health-check passed: " + s.Message
	}

	return "Health-check failed: " + s.Message
}
