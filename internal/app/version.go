package app

import "log/slog"

const ServiceName = "event-service"

// Stamped at build time:
//
//	go build -ldflags="-X 'event-service/internal/app.Version=1.4.0' -X 'event-service/internal/app.GitCommit=$(git rev-parse --short HEAD)'" ./cmd/server
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// buildAttrs tags the startup log line with the build that is running
func buildAttrs() []any {
	return []any{
		slog.String("commit", GitCommit),
		slog.String("build_time", BuildTime),
	}
}
