package codec

const (
	DefaultMaxLineBytes      = 1 << 20
	DefaultMaxStatementBytes = 4 << 20
)

// DecodeOptions configures parser behavior and limits.
// Zero values use defaults. Use negative values to disable specific limits.
type DecodeOptions struct {
	MaxLineBytes      int
	MaxStatementBytes int
	// BaseIRI resolves relative IRIs in formats that allow them.
	BaseIRI string
}

// DefaultDecodeOptions returns safe defaults for parser limits.
func DefaultDecodeOptions() DecodeOptions {
	return DecodeOptions{
		MaxLineBytes:      DefaultMaxLineBytes,
		MaxStatementBytes: DefaultMaxStatementBytes,
	}
}

func normalizeDecodeOptions(opts DecodeOptions) DecodeOptions {
	if opts.MaxLineBytes == 0 {
		opts.MaxLineBytes = DefaultMaxLineBytes
	}
	if opts.MaxStatementBytes == 0 {
		opts.MaxStatementBytes = DefaultMaxStatementBytes
	}
	return opts
}

// EncodeOptions configures encoders.
type EncodeOptions struct {
	// Prefixes maps prefix labels to namespace IRIs for formats that abbreviate.
	Prefixes map[string]string
	// BaseIRI is written as a base directive by formats that support one.
	BaseIRI string
	// Indent is used by pretty-printing formats.
	Indent string
}
