package schema

import (
	"encoding/json"
	"fmt"
	"time"
)

// Attribute names of the JSON codec. These are a compatibility contract;
// renaming one breaks every consumer of serialized schemas.
const (
	attrName      = "name"
	attrCreated   = "created"
	attrNote      = "note"
	attrColumns   = "columns"
	attrType      = "type"
	attrNullable  = "nullable"
	attrSize      = "size"
	attrMap       = "map"
	attrKey       = "key"
	attrValue     = "value"
	attrList      = "list"
	attrListType  = "listType"
	attrByteSize  = "byteSize"
	attrCharSize  = "charSize"
	attrFraction  = "fraction"
	attrTimezone  = "timezone"
	attrPrecision = "precision"
	attrScale     = "scale"
	attrUnsigned  = "unsigned"
	attrRawType   = "jdbc-type"
)

// MarshalJSON encodes the schema with millisecond creation time and the
// column tree under the codec's attribute names.
func (s *Schema) MarshalJSON() ([]byte, error) {
	obj := map[string]any{
		attrName:    s.Name,
		attrCreated: s.Created.UnixMilli(),
	}
	if s.Note != "" {
		obj[attrNote] = s.Note
	}
	columns := make([]json.RawMessage, 0, len(s.Columns))
	for _, col := range s.Columns {
		raw, err := json.Marshal(col)
		if err != nil {
			return nil, err
		}
		columns = append(columns, raw)
	}
	obj[attrColumns] = columns
	return json.Marshal(obj)
}

// UnmarshalJSON restores a schema serialized by MarshalJSON.
func (s *Schema) UnmarshalJSON(data []byte) error {
	var obj struct {
		Name    string            `json:"name"`
		Created int64             `json:"created"`
		Note    string            `json:"note"`
		Columns []json.RawMessage `json:"columns"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	s.Name = obj.Name
	s.Note = obj.Note
	s.Created = time.UnixMilli(obj.Created).UTC()
	s.Columns = nil
	for _, raw := range obj.Columns {
		var col Column
		if err := json.Unmarshal(raw, &col); err != nil {
			return err
		}
		s.Columns = append(s.Columns, &col)
	}
	return nil
}

// MarshalJSON encodes only the attributes relevant to the column's type.
func (c *Column) MarshalJSON() ([]byte, error) {
	obj := map[string]any{
		attrName:     c.Name,
		attrType:     string(c.Type),
		attrNullable: c.Nullable,
	}

	switch c.Type {
	case TypeMap:
		m := map[string]any{}
		if c.Key != nil {
			raw, err := json.Marshal(c.Key)
			if err != nil {
				return nil, err
			}
			m[attrKey] = json.RawMessage(raw)
		}
		if c.Value != nil {
			raw, err := json.Marshal(c.Value)
			if err != nil {
				return nil, err
			}
			m[attrValue] = json.RawMessage(raw)
		}
		obj[attrMap] = m
	case TypeEnum, TypeSet, TypeArray:
		list := map[string]any{}
		if c.ListType != nil {
			raw, err := json.Marshal(c.ListType)
			if err != nil {
				return nil, err
			}
			list[attrListType] = json.RawMessage(raw)
		}
		if c.Type == TypeArray && c.Size != nil {
			list[attrSize] = *c.Size
		}
		obj[attrList] = list
	case TypeBinary, TypeText:
		if c.CharSize != nil {
			obj[attrCharSize] = *c.CharSize
		}
	case TypeDateTime:
		if c.Fraction != nil {
			obj[attrFraction] = *c.Fraction
		}
		if c.Timezone != nil {
			obj[attrTimezone] = *c.Timezone
		}
	case TypeDecimal:
		if c.Precision != nil {
			obj[attrPrecision] = *c.Precision
		}
		if c.Scale != nil {
			obj[attrScale] = *c.Scale
		}
	case TypeFixedPoint:
		if c.ByteSize != nil {
			obj[attrByteSize] = *c.ByteSize
		}
		if c.Unsigned != nil {
			obj[attrUnsigned] = *c.Unsigned
		}
	case TypeFloatingPoint:
		if c.ByteSize != nil {
			obj[attrByteSize] = *c.ByteSize
		}
	case TypeTime:
		if c.Fraction != nil {
			obj[attrFraction] = *c.Fraction
		}
	case TypeUnknown:
		if c.RawType != nil {
			obj[attrRawType] = *c.RawType
		}
	case TypeDate, TypeBit:
		// no extra attributes
	}

	return json.Marshal(obj)
}

// UnmarshalJSON restores one column node, recursing into nested map and
// list types.
func (c *Column) UnmarshalJSON(data []byte) error {
	var obj struct {
		Name     string `json:"name"`
		Type     string `json:"type"`
		Nullable bool   `json:"nullable"`

		CharSize  *int64 `json:"charSize"`
		ByteSize  *int64 `json:"byteSize"`
		Unsigned  *bool  `json:"unsigned"`
		Precision *int64 `json:"precision"`
		Scale     *int64 `json:"scale"`
		Fraction  *bool  `json:"fraction"`
		Timezone  *bool  `json:"timezone"`
		RawType   *int64 `json:"jdbc-type"`

		Map *struct {
			Key   *Column `json:"key"`
			Value *Column `json:"value"`
		} `json:"map"`
		List *struct {
			ListType *Column `json:"listType"`
			Size     *int64  `json:"size"`
		} `json:"list"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}

	switch ColumnType(obj.Type) {
	case TypeArray, TypeBinary, TypeBit, TypeDate, TypeDateTime, TypeDecimal,
		TypeEnum, TypeFixedPoint, TypeFloatingPoint, TypeMap, TypeSet,
		TypeText, TypeTime, TypeUnknown:
	default:
		return fmt.Errorf("unsupported column type %q", obj.Type)
	}

	c.Name = obj.Name
	c.Type = ColumnType(obj.Type)
	c.Nullable = obj.Nullable
	c.CharSize = obj.CharSize
	c.ByteSize = obj.ByteSize
	c.Unsigned = obj.Unsigned
	c.Precision = obj.Precision
	c.Scale = obj.Scale
	c.Fraction = obj.Fraction
	c.Timezone = obj.Timezone
	c.RawType = obj.RawType
	if obj.Map != nil {
		c.Key = obj.Map.Key
		c.Value = obj.Map.Value
	}
	if obj.List != nil {
		c.ListType = obj.List.ListType
		c.Size = obj.List.Size
	}
	return nil
}
