package registry

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/mmrzaf/mrdatagen/internal/domain"
	"github.com/mmrzaf/mrdatagen/internal/generators"
)

func TestBuildIsCaseInsensitive(t *testing.T) {
	r := DefaultGeneratorRegistry()
	for _, tag := range []string{"Integer", "INTEGER", "integer", " Integer "} {
		g, err := r.Build(domain.Column{Name: "id", Type: tag}, nil)
		if err != nil {
			t.Fatalf("type %q: %v", tag, err)
		}
		if _, ok := g.(*generators.IntegerGenerator); !ok {
			t.Fatalf("type %q: expected integer generator, got %T", tag, g)
		}
	}
}

func TestBuildUnknownTypeNamesColumn(t *testing.T) {
	r := DefaultGeneratorRegistry()
	_, err := r.Build(domain.Column{Name: "blobby", Type: "Blob"}, nil)
	if !errors.Is(err, domain.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if !strings.Contains(err.Error(), "blobby") || !strings.Contains(err.Error(), "Blob") {
		t.Fatalf("expected column and type in error, got %v", err)
	}
}

func TestDefaultRegistryTypes(t *testing.T) {
	want := []string{"choice", "decimal", "faker", "integer", "lookup", "string", "uuid"}
	if got := DefaultGeneratorRegistry().List(); !slices.Equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
