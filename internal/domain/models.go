package domain

// Domain contains core models and interfaces.

// Hero is a single entry of the heroes collection. ID is assigned by the server.
type Hero struct {
	ID   int    `json:"id,omitempty" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Identifiable is anything that resolves to a hero id.
type Identifiable interface {
	HeroID() int
}

// ID is a bare hero identifier.
type ID int

func (id ID) HeroID() int  { return int(id) }
func (h Hero) HeroID() int { return h.ID }
