// Package trait holds the interface the seeded stub scenarios are built around.
package trait

// Trait creates comments and derives values from them.
type Trait interface {
	CreateComment(a, b, c uint32) (uint32, error)
	CreateMore(x *uint32) uint32
}

// Annotate creates a comment for the three ids and returns its id plus the derived value.
func Annotate(t Trait, a, b, c uint32) (uint32, error) {
	id, err := t.CreateComment(a, b, c)
	if err != nil {
		return 0, err
	}

	return t.CreateMore(&id), nil
}
