package ovba

// Options configures project parsing.
type Options struct {
	// CodePage overrides the code page recorded in the dir stream when
	// decoding MBCS strings. Zero means use the recorded value.
	CodePage uint16
	// AllowTrailing: if true, bytes left after the dir stream terminator are
	// ignored instead of failing with ErrTrailingData.
	AllowTrailing bool
}

// DefaultOptions returns options for default behavior: recorded code page,
// strict trailing-data handling.
func DefaultOptions() *Options {
	return &Options{}
}

// LenientOptions returns options that tolerate trailing bytes after the dir
// stream records, for documents written by sloppy producers.
func LenientOptions() *Options {
	return &Options{AllowTrailing: true}
}
