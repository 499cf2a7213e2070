package stock

// Tipos de registro de undo. Se acumulan en orden de aplicación y se
// reproducen en orden inverso durante la compensación.
const (
	UndoDeduct       = "DEDUCT"        // restaurar QtyBefore en el lote origen
	UndoCreditUpdate = "CREDIT_UPDATE" // restaurar QtyBefore en el lote destino
	UndoCreditInsert = "CREDIT_INSERT" // borrar el lote insertado en destino
)

// UndoRecord captura lo necesario para revertir un paso ya aplicado. Es el
// log de transacción manual del motor: el almacén no ofrece transacciones
// multi-fila, así que cada paso en firme deja aquí su acción inversa.
type UndoRecord struct {
	Kind      string
	BatchID   string
	QtyBefore int64 // solo para DEDUCT y CREDIT_UPDATE
}
