package repository

import "time"

// SequenceRepository define el puerto del contador atómico por prefijo y día
// para los números de documento (INV-, PO-, SH-).
// Next debe ser un upsert-increment atómico en el storage: dos peticiones
// concurrentes del mismo día jamás reciben el mismo consecutivo (a diferencia
// del esquema leer-el-último-e-incrementar, que corre bajo concurrencia).
type SequenceRepository interface {
	Next(prefix string, day time.Time) (int64, error)
}
