package conflict

import "github.com/mazrean/bullet"

type Config struct {
	Name string
}

type App interface {
	Config() *Config
}

type BulletApp struct{}

var _ = bullet.Component[App]()
