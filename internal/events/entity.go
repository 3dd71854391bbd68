package events

// Entity kinds reported by EntityAdded.
const (
	KindAuthor = "author"
	KindBook   = "book"
)

// EntityAdded is emitted after a mutation appends an entity to the store.
type EntityAdded struct {
	Kind string
	ID   int
	Name string
}
