package domain

// Column names of the car dataset. The header row must contain all of them.
const (
	ColumnCompany         = "Car_Company"
	ColumnModel           = "Car_Model"
	ColumnEngineType      = "Engine_Type"
	ColumnCapacity        = "CC_Battery_Capacity"
	ColumnHorsepower      = "Horsepower_HP"
	ColumnTopSpeed        = "Top_Speed"
	ColumnAcceleration    = "Zero_To_Hundred"
	ColumnPrice           = "Price_USD"
	ColumnFuelType        = "Fuel_Type"
	ColumnSeatingCapacity = "Seating_Capacity"
	ColumnTorque          = "Torque"
)

// Columns lists every required column in canonical field order.
var Columns = []string{
	ColumnCompany,
	ColumnModel,
	ColumnEngineType,
	ColumnCapacity,
	ColumnHorsepower,
	ColumnTopSpeed,
	ColumnAcceleration,
	ColumnPrice,
	ColumnFuelType,
	ColumnSeatingCapacity,
	ColumnTorque,
}

// Record is one car entry. Values are kept as the literal source text so
// that rendering never rounds or converts units.
type Record struct {
	// Row is the 1-based data row the record was loaded from.
	Row int

	Company         string
	Model           string
	EngineType      string
	Capacity        string
	Horsepower      string
	TopSpeed        string
	Acceleration    string
	Price           string
	FuelType        string
	SeatingCapacity string
	Torque          string
}

// Source returns the provenance tag of the record ("Company_Model").
func (r Record) Source() string {
	return r.Company + "_" + r.Model
}

// Field returns the value stored for a dataset column.
func (r Record) Field(column string) string {
	switch column {
	case ColumnCompany:
		return r.Company
	case ColumnModel:
		return r.Model
	case ColumnEngineType:
		return r.EngineType
	case ColumnCapacity:
		return r.Capacity
	case ColumnHorsepower:
		return r.Horsepower
	case ColumnTopSpeed:
		return r.TopSpeed
	case ColumnAcceleration:
		return r.Acceleration
	case ColumnPrice:
		return r.Price
	case ColumnFuelType:
		return r.FuelType
	case ColumnSeatingCapacity:
		return r.SeatingCapacity
	case ColumnTorque:
		return r.Torque
	default:
		return ""
	}
}
