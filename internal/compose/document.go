package compose

// Document is a plain text field with the cursor at the end.
type Document struct {
	text []rune
}

// Apply performs edits in order. Deletes past the start of the text stop at
// the start.
func (d *Document) Apply(edits ...Edit) {
	for _, e := range edits {
		n := e.Delete
		if n > len(d.text) {
			n = len(d.text)
		}
		d.text = d.text[:len(d.text)-n]
		d.text = append(d.text, []rune(e.Insert)...)
	}
}

// String returns the document text.
func (d *Document) String() string {
	return string(d.text)
}
