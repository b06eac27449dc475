package field

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value any
		want  string
	}{
		{name: "nil", value: nil, want: ""},
		{name: "text", value: "R&D", want: "R&D"},
		{name: "json number beyond float precision", value: json.Number("9007199254740993"), want: "9007199254740993"},
		{name: "million as float", value: float64(1000000), want: "1000000"},
		{name: "fraction", value: 2.5, want: "2.5"},
		{name: "int64", value: int64(1000001), want: "1000001"},
		{name: "int", value: 7, want: "7"},
		{name: "bool", value: true, want: "true"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, String(tt.value))
		})
	}
}
