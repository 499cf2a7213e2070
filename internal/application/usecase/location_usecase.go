package usecase

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/lotes-api/internal/application/dto"
	"github.com/jhoicas/lotes-api/internal/domain"
	"github.com/jhoicas/lotes-api/internal/domain/entity"
	"github.com/jhoicas/lotes-api/internal/domain/repository"
)

// LocationUseCase casos de uso para sedes de la red jerárquica.
type LocationUseCase struct {
	repo repository.LocationRepository
}

// NewLocationUseCase construye el caso de uso.
func NewLocationUseCase(repo repository.LocationRepository) *LocationUseCase {
	return &LocationUseCase{repo: repo}
}

// Create crea una sede validando el eje padre-hija:
// HQ no lleva padre, BRANCH cuelga de HQ y SUBBRANCH cuelga de BRANCH.
func (uc *LocationUseCase) Create(companyID string, in dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	var parentID *string
	switch in.Kind {
	case entity.LocationKindHQ:
		if in.ParentID != "" {
			return nil, fmt.Errorf("la sede principal no puede tener padre: %w", domain.ErrInvalidInput)
		}
	case entity.LocationKindBranch, entity.LocationKindSubBranch:
		if in.ParentID == "" {
			return nil, fmt.Errorf("la sede %s requiere padre: %w", in.Kind, domain.ErrInvalidInput)
		}
		parent, err := uc.repo.GetByID(in.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil || parent.CompanyID != companyID {
			return nil, fmt.Errorf("sede padre: %w", domain.ErrNotFound)
		}
		wantParentKind := entity.LocationKindHQ
		if in.Kind == entity.LocationKindSubBranch {
			wantParentKind = entity.LocationKindBranch
		}
		if parent.Kind != wantParentKind {
			return nil, fmt.Errorf("una sede %s debe colgar de una %s: %w", in.Kind, wantParentKind, domain.ErrInvalidInput)
		}
		parentID = &parent.ID
	default:
		return nil, fmt.Errorf("tipo de sede %q: %w", in.Kind, domain.ErrInvalidInput)
	}

	now := time.Now()
	location := &entity.Location{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Name:      in.Name,
		Kind:      in.Kind,
		ParentID:  parentID,
		Address:   in.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(location); err != nil {
		return nil, err
	}
	return toLocationResponse(location), nil
}

// GetByID obtiene una sede por ID.
func (uc *LocationUseCase) GetByID(id string) (*dto.LocationResponse, error) {
	location, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, nil
	}
	return toLocationResponse(location), nil
}

// Update actualiza nombre y dirección. El eje padre de una sede no cambia.
func (uc *LocationUseCase) Update(id string, in dto.UpdateLocationRequest) (*dto.LocationResponse, error) {
	location, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, nil
	}
	if in.Name != nil {
		location.Name = *in.Name
	}
	if in.Address != nil {
		location.Address = *in.Address
	}
	location.UpdatedAt = time.Now()
	if err := uc.repo.Update(location); err != nil {
		return nil, err
	}
	return toLocationResponse(location), nil
}

// List lista sedes por empresa con paginación.
func (uc *LocationUseCase) List(companyID string, limit, offset int) (*dto.LocationListResponse, error) {
	list, err := uc.repo.ListByCompany(companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.LocationResponse, 0, len(list))
	for _, l := range list {
		items = append(items, *toLocationResponse(l))
	}
	return &dto.LocationListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset, Total: len(items)},
	}, nil
}

func toLocationResponse(l *entity.Location) *dto.LocationResponse {
	resp := &dto.LocationResponse{
		ID:        l.ID,
		CompanyID: l.CompanyID,
		Name:      l.Name,
		Kind:      l.Kind,
		Address:   l.Address,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
	if l.ParentID != nil {
		resp.ParentID = *l.ParentID
	}
	return resp
}
