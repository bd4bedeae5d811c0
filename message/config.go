package message

// Config holds the switches that change how parts are read and written.
type Config struct {
	// DecodeFilename causes FileName to decode RFC 2047 encoded words found
	// in the file name.
	DecodeFilename bool `yaml:"decodeFilename"`

	// EncodeFilename causes SetFileName to write non-ASCII file names as RFC
	// 2047 encoded words rather than RFC 2231 parameters.
	EncodeFilename bool `yaml:"encodeFilename"`

	// SetDefaultTextCharset causes UpdateHeaders to add a charset parameter
	// to a synthesized text/* Content-Type.
	SetDefaultTextCharset bool `yaml:"setDefaultTextCharset"`

	// SetContentTypeFilename causes the file name to be copied into the name
	// parameter of the Content-Type.
	SetContentTypeFilename bool `yaml:"setContentTypeFilename"`

	// CacheMultipart causes the result of Multipart and Message to be kept
	// so that later calls return the same object and changes made to it are
	// written out.
	CacheMultipart bool `yaml:"cacheMultipart"`

	// IgnoreMissingEndBoundary accepts a multipart that ends without its
	// terminating boundary. When false, a *MissingBoundaryError is returned.
	IgnoreMissingEndBoundary bool `yaml:"ignoreMissingEndBoundary"`
}

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() Config {
	return Config{
		SetDefaultTextCharset:    true,
		SetContentTypeFilename:   true,
		CacheMultipart:           true,
		IgnoreMissingEndBoundary: true,
	}
}
