/*
Package dsl provides a fluent API to declare automata in Go code.

States are added in order; the first one becomes the initial state. Transitions
may reference states declared later.

	b := dsl.New(domain.KindFSM, "0", "1")
	b.Add("q0").On("q0", "0", "1").On("q2", "1")
	b.Add("q2").Final()

	d, err := b.Build() // *designer.Designer
*/
package dsl
