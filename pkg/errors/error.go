package errors

// ErrorCode represents a specific error code in the system.
type ErrorCode string

const (
	// MalformedRecordError represents an input record whose fields cannot be
	// parsed into their expected types. A malformed record aborts the run so
	// that book state is never built from corrupt data.
	MalformedRecordError ErrorCode = "malformed_record_error"
	// InputOpenError represents a failure to open the input file.
	InputOpenError ErrorCode = "input_open_error"
	// InputReadError represents a failure while reading the input file.
	InputReadError ErrorCode = "input_read_error"
	// OutputCreateError represents a failure to create the output file.
	OutputCreateError ErrorCode = "output_create_error"
	// OutputWriteError represents a failure while writing an output row.
	OutputWriteError ErrorCode = "output_write_error"
	// SnapshotPublishError represents a failure to publish a snapshot downstream.
	SnapshotPublishError ErrorCode = "snapshot_publish_error"
	// ConfigError represents an invalid or incomplete configuration.
	ConfigError ErrorCode = "config_error"
)
