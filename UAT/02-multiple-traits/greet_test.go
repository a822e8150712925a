package greet_test

import (
	"testing"

	. "github.com/onsi/gomega" //nolint:revive // dot import is the gomega convention

	greet "github.com/toejough/impstub/UAT/02-multiple-traits"
)

//go:generate stubgen FirstTrait SecondTrait --name GreeterStub --simple Hello,World

func TestOneCompositeSatisfiesBothTraits(t *testing.T) {
	t.Parallel()

	expect := NewWithT(t)
	stub := NewGreeterStub()
	stub.Hello.Returns("Hello")
	stub.World.Returns("World")

	expect.Expect(greet.Greeting(stub.Impl())).To(Equal("Hello World"))
	expect.Expect(stub.Hello.WasCalledOnce()).To(BeTrue())
	expect.Expect(stub.World.WasCalledOnce()).To(BeTrue())
}

func TestAccessorsShareRecorders(t *testing.T) {
	t.Parallel()

	expect := NewWithT(t)
	stub := NewGreeterStub()
	stub.Hello.Returns("hi")
	stub.World.Returns("there")

	expect.Expect(stub.AsFirstTrait().Hello()).To(Equal("hi"))
	expect.Expect(stub.AsSecondTrait().World()).To(Equal("there"))
	expect.Expect(stub.AsFirstTrait().Hello()).To(Equal("hi"))

	expect.Expect(stub.Hello.CallCount()).To(Equal(2))
	expect.Expect(stub.World.WasCalledNTimes(1)).To(BeTrue())
}

func TestUnprogrammedSimplePanics(t *testing.T) {
	t.Parallel()

	expect := NewWithT(t)
	stub := NewGreeterStub()
	stub.Hello.Returns("Hello")

	expect.Expect(func() { greet.Greeting(stub.Impl()) }).To(
		PanicWith(MatchError("#returns was not called on [World] prior to invocation")),
	)
	expect.Expect(stub.Hello.WasCalledOnce()).To(BeTrue())
	expect.Expect(stub.World.WasCalled()).To(BeFalse())
}
