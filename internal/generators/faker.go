package generators

import (
	"fmt"
	"iter"
	"math/rand"
	"sort"
	"strings"

	"github.com/go-faker/faker/v4"
	"github.com/mmrzaf/mrdatagen/internal/domain"
)

// faker draws from its own random source, so these values are not
// reproducible from the run seed.
var fakerKinds = map[string]func() string{
	"name":       func() string { return faker.Name() },
	"first_name": func() string { return faker.FirstName() },
	"last_name":  func() string { return faker.LastName() },
	"email":      func() string { return faker.Email() },
	"username":   func() string { return faker.Username() },
	"word":       func() string { return faker.Word() },
	"phone":      func() string { return faker.Phonenumber() },
	"url":        func() string { return faker.URL() },
	"ipv4":       func() string { return faker.IPv4() },
	"domain":     func() string { return faker.DomainName() },
}

const defaultFakerKind = "name"

type FakerGenerator struct {
	Kind string
	fn   func() string
}

func NewFakerGenerator(col domain.Column) (*FakerGenerator, error) {
	kind := strings.ToLower(strings.TrimSpace(col.FakerKind))
	if kind == "" {
		kind = defaultFakerKind
	}
	fn, ok := fakerKinds[kind]
	if !ok {
		return nil, fmt.Errorf("%w: column '%s': unknown fakerKind '%s' (one of %s)", domain.ErrConfiguration, col.Name, col.FakerKind, strings.Join(FakerKinds(), ", "))
	}
	return &FakerGenerator{Kind: kind, fn: fn}, nil
}

func (g *FakerGenerator) Generate(rng *rand.Rand, n int) iter.Seq[string] {
	return repeat(n, g.fn)
}

func FakerKinds() []string {
	kinds := make([]string, 0, len(fakerKinds))
	for k := range fakerKinds {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
