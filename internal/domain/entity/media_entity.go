package entity

// Upload is a typed avatar payload as received from a client, validated
// before it reaches a media store.
type Upload struct {
	Data         []byte
	ContentType  string
	DeclaredName string
}

// Blob is a stored binary object and its content type.
type Blob struct {
	Ref         string
	Data        []byte
	ContentType string
}
