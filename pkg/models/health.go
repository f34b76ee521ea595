package models

// HealthCheck is the status of one upstream service probe. An unreachable
// service is reported as Healthy=false with Status "unreachable" rather
// than an error; health aggregation never fails outright.
type HealthCheck struct {
	Healthy bool   `json:"healthy"`
	Service string `json:"service"`
	Status  string `json:"status,omitempty"`
	URL     string `json:"url,omitempty"`
}
