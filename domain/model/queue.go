package model

// Canonical metadata tag keys. Other keys are carried through untouched.
const (
	TagTitle  = "title"
	TagArtist = "artist"
	TagAlbum  = "album"
)

// Tags maps metadata keys to string values. An empty string means unset;
// unset tags are never emitted to the engine.
type Tags map[string]string

// Get returns the value for key, or "" when absent.
func (t Tags) Get(key string) string {
	if t == nil {
		return ""
	}
	return t[key]
}

// Clone returns an independent copy of the tag map.
func (t Tags) Clone() Tags {
	if t == nil {
		return nil
	}
	out := make(Tags, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// QueueItem is one source file awaiting conversion. Items are identified by
// Path; Tags may be edited in place by the caller up until the moment the
// batch runner reads the item.
type QueueItem struct {
	Path string
	Tags Tags
}
