package interfaces

// -----------------------------------------------------------------------------
// IObjectStore is a minimal key/blob store, keyed S3-style with
// slash-separated paths.
// -----------------------------------------------------------------------------

type IObjectStore interface {

	// Get returns the object's content. A missing key is reported with an
	// error wrapping the store's not-found sentinel.
	Get(key string) ([]byte, error)

	// -----------------------------------------------------------------------------

	// Put writes the object, creating intermediate prefixes as needed.
	Put(key string, data []byte, contentType string) error
}
