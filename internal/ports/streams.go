package ports

// StreamSink owns the ad hoc instrumentation streams used outside the
// per-cycle snapshot path. Streams live for the rest of the process once
// opened; there is no close in the port on purpose.
type StreamSink interface {
	OpenFloat64(name, unit string) (Float64Stream, error)
	OpenString(name string) (StringStream, error)
}

// Float64Stream is an append-only scalar stream with a fixed unit label.
type Float64Stream interface {
	Append(v float64) error
}

// StringStream is an append-only string stream.
type StringStream interface {
	Append(s string) error
}
