package shapes

import (
	"time"

	"github.com/mazrean/bullet"
)

type Config struct {
	DSN string
}

type Database struct {
	Config *Config
}

type Handler struct {
	DB *Database
}

type Base struct {
	Config *Config
}

type Service struct {
	Base
	DB *Database
}

type Worker struct {
	Service
}

type App interface {
	Config() *Config
	Database() (*Database, error)
	Clock() func() time.Time
	Handler() bullet.Provider[*Handler]
	Lazy() bullet.Lazy[*Service]
	ConfigFunc() func() *Config

	InjectBase(b *Base)
	ServiceInjector() bullet.MembersInjector[*Service]
	InjectService(s *Service) error
	WorkerInjector() func(*Worker)
	InjectHandler(h *Handler) *Handler

	Close(a, b int)
	Variadic(opts ...string)
}

var _ = bullet.Component[App]()
