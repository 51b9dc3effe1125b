package t

type Clock struct {
	Zone string
}
