package precedence

import "github.com/mazrean/bullet"

type E struct{}

type I interface {
	SetE(e *E)
}

type I2 interface {
	I
	SetC(c *C)
}

type A struct{}

func (*A) SetE(*E) {}

type B struct {
	a *A
}

type C struct {
	B
	iProvider bullet.Provider[I]
}

type D struct{}

func (*D) SetC(*C) {}
func (*D) SetE(*E) {}

type SimpleComponent interface {
	InjectI(i I)
	InjectI2(i2 I2)
	InjectA(a *A)
	InjectB(b *B)
	InjectC(c *C)
	InjectD(d *D)
}

var _ = bullet.Component[SimpleComponent]()
