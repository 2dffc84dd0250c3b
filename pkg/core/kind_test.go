package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		typeName string
		want     Kind
	}{
		{"INT8", KindInteger},
		{"BIGINT", KindInteger},
		{"int4", KindInteger},
		{"HUGEINT", KindInteger},
		{"FLOAT8", KindFloat},
		{"DOUBLE PRECISION", KindFloat},
		{"NUMERIC", KindDecimal},
		{"DECIMAL(10,2)", KindDecimal},
		{"DATE", KindDate},
		{"TIMETZ", KindTime},
		{"TIMESTAMP", KindTimestamp},
		{"TIMESTAMPTZ", KindTimestamp},
		{"DATETIME", KindTimestamp},
		{"VARCHAR(255)", KindText},
		{"text", KindText},
		{" BPCHAR ", KindText},
		{"JSONB", KindUnknown},
		{"", KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.typeName, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.typeName))
		})
	}
}
