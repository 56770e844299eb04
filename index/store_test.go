package index

import (
	. "github.com/bsm/ginkgo/v2"
	. "github.com/bsm/gomega"
)

var _ = Describe("InMemStore", func() {
	var subject *InMemStore

	BeforeEach(func() {
		subject = NewInMemStore()
	})

	AfterEach(func() {
		Expect(subject.Close()).To(Succeed())
	})

	It("should write/read", func() {
		value := []byte("x")
		Expect(subject.Put([]byte("k1"), value)).To(Succeed())
		Expect(subject.Put([]byte("k2"), value)).To(Succeed())
		Expect(subject.Put([]byte("k1"), []byte("y"))).To(Succeed())
		value[0] = 'z'

		Expect(subject.Get([]byte("k1"))).To(Equal([]byte("y")))
		Expect(subject.Get([]byte("k2"))).To(Equal([]byte("x")))
		Expect(subject.Get([]byte("k3"))).To(BeNil())
	})

	It("should list keys in order", func() {
		Expect(subject.Put(Key(300), nil)).To(Succeed())
		Expect(subject.Put(Key(2), nil)).To(Succeed())
		Expect(subject.Put(Key(256), nil)).To(Succeed())

		Expect(subject.Keys()).To(Equal([][]byte{Key(2), Key(256), Key(300)}))
	})

})
