// Package vocab provides a caller-owned bidirectional label↔id mapping.
//
// There is no package-level vocabulary: every reader, projector or decoder
// that needs label ids receives a *Vocab from its caller, so concurrent
// sentence workers never share hidden state.
//
// A Vocab is not safe for concurrent mutation.
package vocab

// Vocab maps labels to dense integer ids and back.
type Vocab struct {
	ids    map[string]int
	labels map[int]string
	next   int
}

// New returns an empty vocabulary whose first assigned id is 0.
func New() *Vocab {
	return &Vocab{ids: make(map[string]int), labels: make(map[int]string)}
}

// Of builds a vocabulary assigning ids in the order labels are given.
func Of(labels ...string) *Vocab {
	v := New()
	for _, l := range labels {
		v.ID(l)
	}

	return v
}

// ID returns the id of label, assigning the next free id on first sight.
// Complexity: O(1) amortized.
func (v *Vocab) ID(label string) int {
	if id, ok := v.ids[label]; ok {
		return id
	}
	for {
		if _, taken := v.labels[v.next]; !taken {
			break
		}
		v.next++
	}
	id := v.next
	v.next++
	v.ids[label] = id
	v.labels[id] = label

	return id
}

// Lookup returns the id of label without assigning one.
func (v *Vocab) Lookup(label string) (int, bool) {
	id, ok := v.ids[label]

	return id, ok
}

// Label returns the label mapped to id.
func (v *Vocab) Label(id int) (string, bool) {
	l, ok := v.labels[id]

	return l, ok
}

// Set binds label and id explicitly, replacing any previous binding of
// either side so the mapping stays one-to-one.
func (v *Vocab) Set(label string, id int) {
	if old, ok := v.ids[label]; ok {
		delete(v.labels, old)
	}
	if old, ok := v.labels[id]; ok {
		delete(v.ids, old)
	}
	v.ids[label] = id
	v.labels[id] = label
}

// Len returns the number of bound labels.
func (v *Vocab) Len() int { return len(v.ids) }
