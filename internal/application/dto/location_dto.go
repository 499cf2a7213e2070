package dto

import "time"

// CreateLocationRequest entrada para crear una sede. ParentID vacío solo para HQ.
type CreateLocationRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Kind     string `json:"kind" validate:"required,oneof=HQ BRANCH SUBBRANCH"`
	ParentID string `json:"parent_id" validate:"omitempty,uuid"`
	Address  string `json:"address"`
}

// UpdateLocationRequest entrada para actualizar una sede (el eje padre no cambia).
type UpdateLocationRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=1,max=200"`
	Address *string `json:"address"`
}

// LocationResponse salida de una sede.
type LocationResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Name      string    `json:"name"`
	Kind      string    `json:"kind"`
	ParentID  string    `json:"parent_id,omitempty"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LocationListResponse lista paginada de sedes.
type LocationListResponse struct {
	Items []LocationResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
