package notinterface

import "github.com/mazrean/bullet"

type Config struct {
	Name string
}

var _ = bullet.Component[Config]()
