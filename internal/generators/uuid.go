package generators

import (
	"iter"
	"math/rand"

	"github.com/google/uuid"
)

type UUID4Generator struct{}

func (g *UUID4Generator) Generate(rng *rand.Rand, n int) iter.Seq[string] {
	return repeat(n, func() string {
		uuidBytes := make([]byte, 16)
		rng.Read(uuidBytes)
		uuidBytes[6] = (uuidBytes[6] & 0x0f) | 0x40
		uuidBytes[8] = (uuidBytes[8] & 0x3f) | 0x80
		u, err := uuid.FromBytes(uuidBytes)
		if err != nil {
			return ""
		}
		return u.String()
	})
}
