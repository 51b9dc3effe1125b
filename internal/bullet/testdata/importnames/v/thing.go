package v

type Thing struct {
	Name string
}
