package broker

const (
	NoteSubject = "notes.events"
	UserSubject = "users.events"
)

// SubjectForEntity maps an event entity to the subject it is published on.
func SubjectForEntity(entity string) string {
	switch entity {
	case "note":
		return NoteSubject
	case "user":
		return UserSubject
	default:
		return NoteSubject
	}
}
