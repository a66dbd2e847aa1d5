package stage

// Health summarizes whether a stage handler can run, e.g. whether the
// external tool it shells out to is installed.
type Health struct {
	Name   string
	Ready  bool
	Detail string
}

// Healthy constructs a ready Health record.
func Healthy(name string) Health {
	return Health{Name: name, Ready: true}
}

// Unhealthy constructs a Health record explaining why the handler cannot run.
func Unhealthy(name, detail string) Health {
	return Health{Name: name, Detail: detail}
}
