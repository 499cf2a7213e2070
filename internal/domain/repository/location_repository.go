package repository

import "github.com/jhoicas/lotes-api/internal/domain/entity"

// LocationRepository define el puerto de persistencia para Location (DIP).
type LocationRepository interface {
	Create(location *entity.Location) error
	GetByID(id string) (*entity.Location, error)
	Update(location *entity.Location) error
	ListByCompany(companyID string, limit, offset int) ([]*entity.Location, error)
	// ListChildren devuelve las sedes cuyo padre directo es parentID.
	ListChildren(parentID string) ([]*entity.Location, error)
	Delete(id string) error
}
