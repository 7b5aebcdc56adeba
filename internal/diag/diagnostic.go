package diag

// Note adds secondary context to a diagnostic.
type Note struct {
	Subject string
	Msg     string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Subject  string
	Notes    []Note
}

// WithNote returns a copy with an extra note.
func (d Diagnostic) WithNote(subject, msg string) Diagnostic {
	notes := make([]Note, len(d.Notes), len(d.Notes)+1)
	copy(notes, d.Notes)
	d.Notes = append(notes, Note{Subject: subject, Msg: msg})
	return d
}
