// Package schema models the typed column tree of an imported row set.
//
// The model is recursive: list-like types (array, set, enum) carry an
// element type and maps carry a key and value type. The JSON codec in
// json.go round-trips the tree under stable attribute names so plans can
// be handed to other tooling.
package schema

import (
	"time"

	"github.com/leapstack-labs/leapsync/pkg/core"
)

// ColumnType enumerates the supported column types.
type ColumnType string

const (
	TypeArray         ColumnType = "ARRAY"
	TypeBinary        ColumnType = "BINARY"
	TypeBit           ColumnType = "BIT"
	TypeDate          ColumnType = "DATE"
	TypeDateTime      ColumnType = "DATE_TIME"
	TypeDecimal       ColumnType = "DECIMAL"
	TypeEnum          ColumnType = "ENUM"
	TypeFixedPoint    ColumnType = "FIXED_POINT"
	TypeFloatingPoint ColumnType = "FLOATING_POINT"
	TypeMap           ColumnType = "MAP"
	TypeSet           ColumnType = "SET"
	TypeText          ColumnType = "TEXT"
	TypeTime          ColumnType = "TIME"
	TypeUnknown       ColumnType = "UNKNOWN"
)

// Column is one node of the typed column tree. Only the attributes
// relevant to the column's type are set; the rest stay nil.
type Column struct {
	Name     string
	Type     ColumnType
	Nullable bool

	// String and binary types
	CharSize *int64

	// Fixed and floating point types
	ByteSize *int64
	Unsigned *bool

	// Decimal type
	Precision *int64
	Scale     *int64

	// Temporal types
	Fraction *bool
	Timezone *bool

	// Unknown type: the raw driver type code, kept for diagnostics.
	RawType *int64

	// List-like types (array, set, enum)
	ListType *Column
	Size     *int64

	// Map type
	Key   *Column
	Value *Column
}

// Schema describes an imported row set.
type Schema struct {
	Name    string
	Note    string
	Created time.Time
	Columns []*Column
}

// New creates a schema with the creation time set to now.
func New(name string) *Schema {
	return &Schema{Name: name, Created: time.Now().UTC()}
}

// AddColumn appends a column and returns the schema for chaining.
func (s *Schema) AddColumn(c *Column) *Schema {
	s.Columns = append(s.Columns, c)
	return s
}

// FromTableMetadata builds a schema from adapter column metadata,
// normalizing driver type names through core.KindOf.
func FromTableMetadata(meta *core.TableMetadata) *Schema {
	s := New(meta.Name)
	for _, col := range meta.Columns {
		s.AddColumn(&Column{
			Name:     col.Name,
			Type:     typeOfKind(core.KindOf(col.Type)),
			Nullable: col.Nullable,
		})
	}
	return s
}

func typeOfKind(kind core.Kind) ColumnType {
	switch kind {
	case core.KindInteger:
		return TypeFixedPoint
	case core.KindFloat:
		return TypeFloatingPoint
	case core.KindDecimal:
		return TypeDecimal
	case core.KindDate:
		return TypeDate
	case core.KindTime:
		return TypeTime
	case core.KindTimestamp:
		return TypeDateTime
	case core.KindText:
		return TypeText
	default:
		return TypeUnknown
	}
}
