// Package greet combines two interfaces behind one generic consumer.
package greet

// FirstTrait says hello.
type FirstTrait interface {
	Hello() string
}

// SecondTrait names the world.
type SecondTrait interface {
	World() string
}

// Greeting joins what both traits say.
func Greeting[T interface {
	FirstTrait
	SecondTrait
}](greeter T) string {
	return greeter.Hello() + " " + greeter.World()
}
