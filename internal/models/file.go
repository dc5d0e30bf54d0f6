package models

// SelectionSet is the ordered list of absolute script paths that survived
// the extension check and the exclusion filter. It is built once per run
// and only read afterwards.
type SelectionSet []string

// Len returns the number of selected files.
func (s SelectionSet) Len() int {
	return len(s)
}
