package ir

// Version constants recorded with every persisted run.
const (
	// DigestVersion is bumped whenever the canonical encoding of a digest input changes.
	DigestVersion = "1"

	// PipelineVersion is the visadata pipeline version.
	PipelineVersion = "0.1.0"
)
