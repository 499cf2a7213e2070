package stock

import "context"

// Hierarchy es el contrato mínimo que el motor necesita del servicio de
// jerarquía de sedes. Se usa interfaz local (estilo moduleChecker) para no
// acoplar este paquete a application/hierarchy.
type Hierarchy interface {
	// IsDirectEdge indica si from y to tienen relación padre-hija directa
	// (en cualquier dirección). Solo esos traslados son legales.
	IsDirectEdge(ctx context.Context, fromLocationID, toLocationID string) (bool, error)
	// AccessibleLocations devuelve las sedes que el usuario puede operar:
	// toda la empresa para admin, su sede y descendientes para el resto.
	AccessibleLocations(ctx context.Context, userID string) ([]string, error)
}
