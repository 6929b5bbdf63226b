package image

// UploadedImage is the raw per-request payload as declared by the client.
// It lives for the duration of one request only.
type UploadedImage struct {
	Data        []byte
	ContentType string
	Filename    string
}

// CanonicalImage is the fixed-format representation every analysis strategy
// consumes: a single JPEG byte buffer, 3-channel, quality-bounded. Never empty
// once constructed.
type CanonicalImage struct {
	Data   []byte
	Width  int
	Height int
}

// ValidationResult carries what the validator learned about an upload.
type ValidationResult struct {
	IsValid  bool
	Format   string // actual decoded format, not the declared content type
	Width    int
	Height   int
	FileSize int64
	Err      error
}
