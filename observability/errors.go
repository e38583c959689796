package observability

import "errors"

// Configuration errors returned by Config.Validate and NewProvider.
var (
	ErrNilConfig             = errors.New("telemetry: nil config")
	ErrMissingServiceName    = errors.New("telemetry: service name required when enabled")
	ErrInvalidSampleRate     = errors.New("telemetry: sample rate outside [0, 1]")
	ErrInvalidProtocol       = errors.New("telemetry: protocol must be http or grpc")
	ErrInvalidEndpointFormat = errors.New("telemetry: endpoint does not match protocol")
)
