// Package car renders car dataset rows as labelled text documents.
package car

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/carsearch/internal/core/domain"
	"github.com/custodia-labs/carsearch/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// field pairs a dataset column with its label and value decoration.
type field struct {
	column string
	label  string
	prefix string
	suffix string
}

// fields is the canonical rendering order.
var fields = []field{
	{column: domain.ColumnCompany, label: "Car Company"},
	{column: domain.ColumnModel, label: "Model"},
	{column: domain.ColumnEngineType, label: "Engine Type"},
	{column: domain.ColumnCapacity, label: "CC/Battery Capacity"},
	{column: domain.ColumnHorsepower, label: "Horsepower", suffix: " HP"},
	{column: domain.ColumnTopSpeed, label: "Top Speed"},
	{column: domain.ColumnAcceleration, label: "0-100 km/h"},
	{column: domain.ColumnPrice, label: "Price", prefix: "$"},
	{column: domain.ColumnFuelType, label: "Fuel Type"},
	{column: domain.ColumnSeatingCapacity, label: "Seating Capacity"},
	{column: domain.ColumnTorque, label: "Torque"},
}

// Labels returns the field labels in rendering order.
func Labels() []string {
	labels := make([]string, len(fields))
	for i, f := range fields {
		labels[i] = f.label
	}
	return labels
}

// Normaliser validates raw rows and renders them.
type Normaliser struct{}

// New creates a new car normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Normalise validates a raw row and renders its Document.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawRow) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	rec, err := Parse(raw)
	if err != nil {
		return nil, err
	}

	doc, err := Document(rec)
	if err != nil {
		return nil, err
	}

	return &driven.NormaliseResult{
		Record:   rec,
		Document: doc,
	}, nil
}

// Parse builds a Record from a raw row.
// Every required column must be present and non-blank.
func Parse(raw *domain.RawRow) (domain.Record, error) {
	values := make(map[string]string, len(fields))
	for _, f := range fields {
		v, ok := raw.Value(f.column)
		if !ok || isBlank(v) {
			return domain.Record{}, &domain.MissingFieldError{Row: raw.Row, Field: f.column}
		}
		values[f.column] = v
	}

	return domain.Record{
		Row:             raw.Row,
		Company:         values[domain.ColumnCompany],
		Model:           values[domain.ColumnModel],
		EngineType:      values[domain.ColumnEngineType],
		Capacity:        values[domain.ColumnCapacity],
		Horsepower:      values[domain.ColumnHorsepower],
		TopSpeed:        values[domain.ColumnTopSpeed],
		Acceleration:    values[domain.ColumnAcceleration],
		Price:           values[domain.ColumnPrice],
		FuelType:        values[domain.ColumnFuelType],
		SeatingCapacity: values[domain.ColumnSeatingCapacity],
		Torque:          values[domain.ColumnTorque],
	}, nil
}

// Format renders a record as one labelled line per field, in fixed order.
// Values are written literally; horsepower gains an " HP" suffix and price
// a "$" prefix.
func Format(rec domain.Record) (string, error) {
	var b strings.Builder
	for _, f := range fields {
		v := rec.Field(f.column)
		if isBlank(v) {
			return "", &domain.MissingFieldError{Row: rec.Row, Field: f.column}
		}
		b.WriteString(f.label)
		b.WriteString(": ")
		b.WriteString(f.prefix)
		b.WriteString(v)
		b.WriteString(f.suffix)
		b.WriteByte('\n')
	}
	return b.String(), nil
}

// Document formats rec and wraps it with its provenance tag.
func Document(rec domain.Record) (domain.Document, error) {
	content, err := Format(rec)
	if err != nil {
		return domain.Document{}, err
	}
	return domain.Document{
		ID:      uuid.New().String(),
		Source:  rec.Source(),
		Content: content,
		Row:     rec.Row,
	}, nil
}

// isBlank treats empty cells and the usual null markers as absent.
func isBlank(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "na", "n/a", "nan", "null", "none":
		return true
	}
	return false
}
