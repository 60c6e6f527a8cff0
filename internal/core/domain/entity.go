package domain

// EntityType identifies one of the managed record families.
type EntityType string

const (
	EntitySponsor EntityType = "sponsor"
	EntityAlumnus EntityType = "alumnus"
	EntitySpeaker EntityType = "speaker"
)

// Document is a schemaless entity record as exchanged with the document
// store. Keys are field names; nested contact lists appear as []any of
// map[string]any. Repositories are responsible for returning plain Go values
// (string, time.Time, []any, map[string]any) rather than driver types.
type Document map[string]any

// String returns the value under key when it is a string, or "" otherwise.
func (d Document) String(key string) string {
	v, _ := d[key].(string)
	return v
}
