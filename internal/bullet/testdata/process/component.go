package process

import "github.com/mazrean/bullet"

type Config struct {
	Name string
}

type Base struct {
	Config *Config
}

type Service struct {
	Base
}

type Process interface {
	Config() *Config
	InjectBase(b *Base)
}

var _ = bullet.Component[Process]()
