package entity

import "time"

// TransferDateLayout formato de la fecha visible de una transferencia (DD/MM/YYYY, HH:MM:SS).
const TransferDateLayout = "02/01/2006, 15:04:05"

// Transfer es el registro inmutable de un movimiento de stock entre dos holders.
// Los nombres se copian al confirmar para sobrevivir a renombres o bajas posteriores.
type Transfer struct {
	ID              string
	Date            string
	Timestamp       time.Time
	ProductID       string
	ProductName     string
	Quantity        int
	Source          Holder
	SourceName      string
	Destination     Holder
	DestinationName string
}
