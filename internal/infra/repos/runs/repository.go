package runs

import "github.com/mmrzaf/mrdatagen/internal/domain"

// Repository stores one record per generate invocation.
type Repository interface {
	Init() error
	Create(run *domain.Run) error
	Update(run *domain.Run) error
	Get(id string) (*domain.Run, error)
	List(limit int, status string) ([]*domain.Run, error)
	Close() error
}
