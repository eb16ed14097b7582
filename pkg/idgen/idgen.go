package idgen

import "github.com/google/uuid"

// Generator produces unique entity identifiers. Repositories never mint ids
// themselves; services inject a Generator so tests can use fixed sequences.
type Generator interface {
	Generate() string
}

type uuidGenerator struct{}

func NewUUIDGenerator() Generator {
	return uuidGenerator{}
}

func (uuidGenerator) Generate() string {
	return uuid.NewString()
}
