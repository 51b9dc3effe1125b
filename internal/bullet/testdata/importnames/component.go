package importnames

import (
	"github.com/mazrean/bullet"
	"github.com/mazrean/bullet/internal/bullet/testdata/importnames/t"
	"github.com/mazrean/bullet/internal/bullet/testdata/importnames/v"
)

type App interface {
	Clock() *t.Clock
	InjectThing(x *v.Thing)
}

var _ = bullet.Component[App]()
