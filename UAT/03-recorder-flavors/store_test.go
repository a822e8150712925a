package store_test

import (
	"errors"
	"testing"
	"time"

	. "github.com/onsi/gomega" //nolint:revive // dot import is the gomega convention

	"github.com/toejough/impstub"
	store "github.com/toejough/impstub/UAT/03-recorder-flavors"
)

//go:generate stubgen Store --simple Reset --intercept Get --nostub Close --clone Put --mutable Reset

func programmed() *StoreStub {
	stub := NewStoreStub()
	stub.Get.Returns(StoreStubGetReturns{R1: []byte("v1"), R2: true})
	stub.Put.Returns(nil)
	stub.Expire.Returns(nil)
	stub.Log.Returns(impstub.Unit{})

	return stub
}

func TestTouchRewritesAndExpires(t *testing.T) {
	t.Parallel()

	expect := NewWithT(t)
	stub := programmed()

	err := store.Touch(stub.AsStore(), "k", time.Minute)
	expect.Expect(err).NotTo(HaveOccurred())

	expect.Expect(stub.Get.WasCalledOnce()).To(BeTrue())
	expect.Expect(stub.Put.Calls()).To(Equal([]StoreStubPutArgs{{Key: "k", Val: []byte("v1")}}))
	expect.Expect(stub.Expire.WasCalledWithArgs(StoreStubExpireArgs{Key: "k", Ttl: time.Minute})).To(BeTrue())
}

func TestTouchMissingKey(t *testing.T) {
	t.Parallel()

	expect := NewWithT(t)
	stub := programmed()
	stub.Get.Returns(StoreStubGetReturns{})

	err := store.Touch(stub.AsStore(), "k", time.Minute)
	expect.Expect(err).To(MatchError(store.ErrMissing))
	expect.Expect(stub.Put.WasCalled()).To(BeFalse())
	expect.Expect(stub.Expire.NeverCalledWithArgs(StoreStubExpireArgs{Key: "k", Ttl: time.Minute})).To(BeTrue())
}

func TestCloneSnapshotsArguments(t *testing.T) {
	t.Parallel()

	expect := NewWithT(t)
	stub := programmed()
	val := []byte("abc")

	expect.Expect(stub.AsStore().Put("k", val)).To(Succeed())

	val[0] = 'X'

	got, ok := stub.Put.GetArgsForCall(0)
	expect.Expect(ok).To(BeTrue())
	expect.Expect(got.Val).To(Equal([]byte("abc")))
}

func TestVariadicArgumentsAreRecordedAsSlice(t *testing.T) {
	t.Parallel()

	expect := NewWithT(t)
	stub := programmed()

	stub.AsStore().Log("a=%d b=%s", 1, "two")
	stub.AsStore().Log("empty")

	expect.Expect(stub.Log.Calls()).To(Equal([]StoreStubLogArgs{
		{Format: "a=%d b=%s", Args: []any{1, "two"}},
		{Format: "empty"},
	}))
}

func TestInterceptorSeesLookups(t *testing.T) {
	t.Parallel()

	expect := NewWithT(t)
	stub := programmed()

	var keys []string

	stub.Get.SetInterceptor(func(key string) { keys = append(keys, key) })

	_ = store.Touch(stub.AsStore(), "a", time.Second)
	_ = store.Touch(stub.AsStore(), "b", time.Second)

	expect.Expect(keys).To(Equal([]string{"a", "b"}))
	expect.Expect(stub.Get.WasCalledNTimes(2)).To(BeTrue())
}

func TestPointerReceiverSimple(t *testing.T) {
	t.Parallel()

	expect := NewWithT(t)
	stub := NewStoreStub()
	impl := stub.Impl()

	expect.Expect(impl.Reset).To(PanicWith(MatchError("#returns was not called on [Reset] prior to invocation")))

	stub.Reset.Returns(impstub.Unit{})
	impl.Reset()
	stub.AsStore().Reset()

	expect.Expect(stub.Reset.CallCount()).To(Equal(2))
}

func TestNoStubMethodPanics(t *testing.T) {
	t.Parallel()

	expect := NewWithT(t)
	stub := programmed()

	defer func() {
		err, ok := recover().(*impstub.Error)
		expect.Expect(ok).To(BeTrue())
		expect.Expect(err.Error()).To(Equal("Method [Close] was not stubbed"))
		expect.Expect(errors.Is(err, impstub.ErrUnstubbedInvocation)).To(BeTrue())
		expect.Expect(err.Kind).To(Equal(impstub.KindUnstubbedInvocation))
	}()

	_ = stub.AsStore().Close()
}
