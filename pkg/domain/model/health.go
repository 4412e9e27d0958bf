package model

// HealthStatus is the body of the health check response
type HealthStatus struct {
	Status      string `json:"status"`
	Service     string `json:"service"`
	Version     string `json:"version"`
	RunningJobs int    `json:"running_jobs"`
}
