package bullet

import (
	"fmt"
	"maps"
)

// VarPool hands out identifiers that do not collide with names already in use
// in the generated file's package.
type VarPool struct {
	vars map[string]int
}

func NewVarPool() *VarPool {
	pool := &VarPool{
		vars: make(map[string]int),
	}

	for _, name := range goPredeclaredIdentifiers {
		pool.Register(name)
	}
	for _, name := range goReservedKeywords {
		pool.Register(name)
	}

	return pool
}

// Register registers an existing name to prevent shadowing
func (p *VarPool) Register(name string) {
	if name == "" || name == "_" {
		return
	}
	// Set the count to at least 1 so the name won't be used without a suffix
	if count, ok := p.vars[name]; !ok || count == 0 {
		p.vars[name] = 1
	}
}

// IsUsed reports whether name was registered or handed out.
func (p *VarPool) IsUsed(name string) bool {
	return p.vars[name] > 0
}

// GetName returns base, or base followed by the smallest free number.
func (p *VarPool) GetName(base string) string {
	if base == "" {
		base = "v"
	}

	for {
		count := p.vars[base]
		p.vars[base] = count + 1

		name := base
		if count > 0 {
			name = fmt.Sprintf("%s%d", base, count-1)
		}

		if name == base || !p.IsUsed(name) {
			p.Register(name)
			return name
		}
	}
}

// Clone returns a pool holding the same names as p.
// Names handed out by the clone are not seen by p.
func (p *VarPool) Clone() *VarPool {
	return &VarPool{
		vars: maps.Clone(p.vars),
	}
}
