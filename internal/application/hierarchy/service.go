package hierarchy

import (
	"context"

	"github.com/jhoicas/lotes-api/internal/domain"
	"github.com/jhoicas/lotes-api/internal/domain/entity"
	"github.com/jhoicas/lotes-api/internal/domain/repository"
)

// maxLocationsPage tope por página al listar sedes de una empresa.
const maxLocationsPage = 500

// Service resuelve consultas sobre el árbol de sedes: validar ejes de traslado
// y calcular el alcance de un usuario. Implementa stock.Hierarchy.
type Service struct {
	locations repository.LocationRepository
	users     repository.UserRepository
}

// NewService construye el servicio de jerarquía.
func NewService(locations repository.LocationRepository, users repository.UserRepository) *Service {
	return &Service{locations: locations, users: users}
}

// IsDirectEdge indica si from y to son padre e hija directas, en cualquier
// dirección. Los traslados que saltan niveles (ej. HQ → sub-sucursal) no son
// legales: la mercancía sigue la cadena física de distribución.
func (s *Service) IsDirectEdge(ctx context.Context, fromLocationID, toLocationID string) (bool, error) {
	from, err := s.locations.GetByID(fromLocationID)
	if err != nil {
		return false, err
	}
	to, err := s.locations.GetByID(toLocationID)
	if err != nil {
		return false, err
	}
	if from == nil || to == nil {
		return false, domain.ErrNotFound
	}
	if from.ParentID != nil && *from.ParentID == to.ID {
		return true, nil
	}
	if to.ParentID != nil && *to.ParentID == from.ID {
		return true, nil
	}
	return false, nil
}

// AccessibleLocations devuelve las sedes que el usuario puede operar. Un admin
// opera toda la red de su empresa; bodeguero y vendedor, su sede asignada y
// todas las descendientes.
func (s *Service) AccessibleLocations(ctx context.Context, userID string) ([]string, error) {
	user, err := s.users.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	if user.Role == entity.RoleAdmin {
		return s.allCompanyLocations(user.CompanyID)
	}
	if user.LocationID == "" {
		return nil, domain.ErrForbidden
	}
	return s.descendants(user.LocationID)
}

func (s *Service) allCompanyLocations(companyID string) ([]string, error) {
	var ids []string
	for offset := 0; ; offset += maxLocationsPage {
		page, err := s.locations.ListByCompany(companyID, maxLocationsPage, offset)
		if err != nil {
			return nil, err
		}
		for _, loc := range page {
			ids = append(ids, loc.ID)
		}
		if len(page) < maxLocationsPage {
			return ids, nil
		}
	}
}

// descendants recorre el subárbol desde rootID (BFS sobre ListChildren).
func (s *Service) descendants(rootID string) ([]string, error) {
	ids := []string{rootID}
	queue := []string{rootID}
	seen := map[string]bool{rootID: true}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		children, err := s.locations.ListChildren(current)
		if err != nil {
			return nil, err
		}
		for _, child := range children {
			if seen[child.ID] {
				// Ciclo en los datos; no debería ocurrir pero no colgamos el recorrido.
				continue
			}
			seen[child.ID] = true
			ids = append(ids, child.ID)
			queue = append(queue, child.ID)
		}
	}
	return ids, nil
}
