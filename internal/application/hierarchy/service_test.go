package hierarchy_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/lotes-api/internal/application/hierarchy"
	"github.com/jhoicas/lotes-api/internal/domain"
	"github.com/jhoicas/lotes-api/internal/domain/entity"
	"github.com/jhoicas/lotes-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes: árbol de tres niveles HQ → Norte → Norte-2 y una sucursal Sur suelta.
// ──────────────────────────────────────────────────────────────────────────────

type fakeLocations struct {
	repository.LocationRepository
	locations map[string]*entity.Location
}

func (f *fakeLocations) GetByID(id string) (*entity.Location, error) {
	return f.locations[id], nil
}

func (f *fakeLocations) ListByCompany(companyID string, limit, offset int) ([]*entity.Location, error) {
	if offset > 0 {
		return nil, nil
	}
	var out []*entity.Location
	for _, loc := range f.locations {
		if loc.CompanyID == companyID {
			out = append(out, loc)
		}
	}
	return out, nil
}

func (f *fakeLocations) ListChildren(parentID string) ([]*entity.Location, error) {
	var out []*entity.Location
	for _, loc := range f.locations {
		if loc.ParentID != nil && *loc.ParentID == parentID {
			out = append(out, loc)
		}
	}
	return out, nil
}

type fakeUsers struct {
	repository.UserRepository
	users map[string]*entity.User
}

func (f *fakeUsers) FindByID(id string) (*entity.User, error) {
	return f.users[id], nil
}

func testTree() (*fakeLocations, *fakeUsers) {
	hq := "hq"
	norte := "norte"
	locations := &fakeLocations{locations: map[string]*entity.Location{
		"hq":      {ID: "hq", CompanyID: "co-1", Name: "Principal", Kind: entity.LocationKindHQ},
		"norte":   {ID: "norte", CompanyID: "co-1", Name: "Sucursal Norte", Kind: entity.LocationKindBranch, ParentID: &hq},
		"sur":     {ID: "sur", CompanyID: "co-1", Name: "Sucursal Sur", Kind: entity.LocationKindBranch, ParentID: &hq},
		"norte-2": {ID: "norte-2", CompanyID: "co-1", Name: "Punto Norte 2", Kind: entity.LocationKindSubBranch, ParentID: &norte},
	}}
	users := &fakeUsers{users: map[string]*entity.User{
		"admin":    {ID: "admin", CompanyID: "co-1", Role: entity.RoleAdmin},
		"bodega":   {ID: "bodega", CompanyID: "co-1", Role: entity.RoleBodeguero, LocationID: "norte"},
		"sinsede":  {ID: "sinsede", CompanyID: "co-1", Role: entity.RoleVendedor},
		"vendedor": {ID: "vendedor", CompanyID: "co-1", Role: entity.RoleVendedor, LocationID: "norte-2"},
	}}
	return locations, users
}

// ──────────────────────────────────────────────────────────────────────────────
// IsDirectEdge
// ──────────────────────────────────────────────────────────────────────────────

func TestIsDirectEdge(t *testing.T) {
	locations, users := testTree()
	svc := hierarchy.NewService(locations, users)
	ctx := context.Background()

	cases := []struct {
		name     string
		from, to string
		want     bool
	}{
		{"padre a hija", "hq", "norte", true},
		{"hija a padre", "norte", "hq", true},
		{"salta un nivel", "hq", "norte-2", false},
		{"hermanas", "norte", "sur", false},
		{"nieta a abuela", "norte-2", "hq", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := svc.IsDirectEdge(ctx, tc.from, tc.to)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestIsDirectEdge_SedeInexistente(t *testing.T) {
	locations, users := testTree()
	svc := hierarchy.NewService(locations, users)

	_, err := svc.IsDirectEdge(context.Background(), "hq", "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// AccessibleLocations
// ──────────────────────────────────────────────────────────────────────────────

func TestAccessibleLocations_AdminVeTodaLaRed(t *testing.T) {
	locations, users := testTree()
	svc := hierarchy.NewService(locations, users)

	ids, err := svc.AccessibleLocations(context.Background(), "admin")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"hq", "norte", "sur", "norte-2"}, ids)
}

func TestAccessibleLocations_BodegueroVeSuSubarbol(t *testing.T) {
	locations, users := testTree()
	svc := hierarchy.NewService(locations, users)

	ids, err := svc.AccessibleLocations(context.Background(), "bodega")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"norte", "norte-2"}, ids)
}

func TestAccessibleLocations_UsuarioSinSedeEsForbidden(t *testing.T) {
	locations, users := testTree()
	svc := hierarchy.NewService(locations, users)

	_, err := svc.AccessibleLocations(context.Background(), "sinsede")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestAccessibleLocations_UsuarioInexistente(t *testing.T) {
	locations, users := testTree()
	svc := hierarchy.NewService(locations, users)

	_, err := svc.AccessibleLocations(context.Background(), "fantasma")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestAccessibleLocations_HojaSoloSuSede(t *testing.T) {
	locations, users := testTree()
	svc := hierarchy.NewService(locations, users)

	ids, err := svc.AccessibleLocations(context.Background(), "vendedor")
	require.NoError(t, err)
	assert.Equal(t, []string{"norte-2"}, ids)
}
