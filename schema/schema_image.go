package schema

// ImageRef is the outcome of resolving an image for an entity.
// A ref with Source == NoSource is the "no image available" sentinel.
type ImageRef struct {
	Entity string      `json:"entity"`
	Kind   EntityKind  `json:"kind"`
	URL    string      `json:"url,omitempty"`
	Source ImageSource `json:"source"`
	Data   []byte      `json:"-"`
}

// NoImage returns the sentinel ref for an entity.
func NoImage(entity string, kind EntityKind) ImageRef {
	return ImageRef{Entity: entity, Kind: kind, Source: NoSource}
}

// Available reports whether the ref points at an actual image.
func (r ImageRef) Available() bool {
	return r.Source != NoSource && (r.URL != "" || len(r.Data) > 0)
}

// EntityKey identifies an entity across kinds, e.g. "driver:Max Verstappen".
func EntityKey(kind EntityKind, name string) string {
	return string(kind) + ":" + name
}
