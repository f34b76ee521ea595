package config

import (
	"net/url"
	"os"
	"sync"
)

var (
	isDockerOnce   sync.Once
	isDockerResult bool
)

// IsRunningInDocker returns true if the application is running inside a Docker container.
// Detection is based on the presence of /.dockerenv file which exists in all Docker containers.
// The result is cached after the first call.
func IsRunningInDocker() bool {
	isDockerOnce.Do(func() {
		_, err := os.Stat("/.dockerenv")
		isDockerResult = err == nil
	})
	return isDockerResult
}

// ResolveHostForDocker returns the appropriate host address for connecting to
// external services. If running in Docker and the host is "localhost" or
// "127.0.0.1", it returns "host.docker.internal" to allow connections to
// services running on the host machine. Otherwise, returns the host unchanged.
func ResolveHostForDocker(host string) string {
	if !IsRunningInDocker() {
		return host
	}
	if host == "localhost" || host == "127.0.0.1" {
		return "host.docker.internal"
	}
	return host
}

// resolveDockerHosts rewrites localhost service URLs for container use.
// The default port layout (8001-8005) assumes the decision services run on
// the host machine during local development.
func (s *ServicesConfig) resolveDockerHosts() {
	s.IngestURL = resolveURLForDocker(s.IngestURL)
	s.DecisionURL = resolveURLForDocker(s.DecisionURL)
	s.LearnerURL = resolveURLForDocker(s.LearnerURL)
	s.ExecutorURL = resolveURLForDocker(s.ExecutorURL)
	s.ExplainURL = resolveURLForDocker(s.ExplainURL)
}

func resolveURLForDocker(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}

	host := u.Hostname()
	resolved := ResolveHostForDocker(host)
	if resolved == host {
		return raw
	}

	if port := u.Port(); port != "" {
		u.Host = resolved + ":" + port
	} else {
		u.Host = resolved
	}
	return u.String()
}
