package notimported

type Config struct {
	Name string
}

type Component interface {
	Config() *Config
}
