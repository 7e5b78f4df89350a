package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringSliceScan(t *testing.T) {
	t.Run("ScansBytesAndStrings", func(t *testing.T) {
		var fromBytes StringSlice
		require.NoError(t, fromBytes.Scan([]byte(`["jasmine","bergamot"]`)))
		assert.Equal(t, StringSlice{"jasmine", "bergamot"}, fromBytes)

		var fromString StringSlice
		require.NoError(t, fromString.Scan(`["Bogota"]`))
		assert.Equal(t, StringSlice{"Bogota"}, fromString)
	})

	t.Run("NilScansToEmpty", func(t *testing.T) {
		var s StringSlice
		require.NoError(t, s.Scan(nil))
		assert.Empty(t, s)
	})
}

func TestStringSliceValue(t *testing.T) {
	t.Run("NilValuesAsEmptyArray", func(t *testing.T) {
		var s StringSlice
		value, err := s.Value()
		require.NoError(t, err)
		assert.Equal(t, "[]", value)
	})

	t.Run("RoundTrip", func(t *testing.T) {
		original := StringSlice{"chocolate", "cherry"}
		value, err := original.Value()
		require.NoError(t, err)

		var decoded StringSlice
		require.NoError(t, decoded.Scan(value))
		assert.Equal(t, original, decoded)
	})
}
