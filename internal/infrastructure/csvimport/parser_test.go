package csvimport

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewParser(t *testing.T) {
	t.Run("BOM is stripped", func(t *testing.T) {
		p, err := NewParser(strings.NewReader("\xEF\xBB\xBFname,sku\nFern,F-1"))
		require.NoError(t, err)
		require.NoError(t, p.ParseHeader())
		assert.Equal(t, "name", p.Headers()[0])
	})

	t.Run("empty file", func(t *testing.T) {
		_, err := NewParser(strings.NewReader(""))
		assert.ErrorIs(t, err, ErrEmptyFile)
	})

	t.Run("invalid encoding", func(t *testing.T) {
		_, err := NewParser(strings.NewReader("name\n\xff\xfe"))
		assert.ErrorIs(t, err, ErrInvalidEncoding)
	})

	t.Run("custom delimiter", func(t *testing.T) {
		p, err := NewParser(strings.NewReader("name;sku\nFern;F-1"), WithDelimiter(';'))
		require.NoError(t, err)
		require.NoError(t, p.ParseHeader())
		assert.Equal(t, []string{"name", "sku"}, p.Headers())
	})
}

func TestParser_ReadRows(t *testing.T) {
	csv := `name , sku, price
"Spiky Cactus",SC-1, 15.50

,SC-2,17
Fern,F-1`
	p, err := NewParser(strings.NewReader(csv))
	require.NoError(t, err)
	require.NoError(t, p.ParseHeader())
	assert.Empty(t, p.ValidateHeaders([]string{"name", "sku", "price"}))
	assert.Equal(t, []string{"stock"}, p.ValidateHeaders([]string{"name", "stock"}))

	rows, err := p.ReadAllRows()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Spiky Cactus", rows[0].Get("name"))
	assert.Equal(t, "15.50", rows[0].Get("price"))
	assert.Equal(t, 2, rows[0].LineNumber)
	assert.Equal(t, "", rows[1].Get("name"))
	assert.Equal(t, "0", rows[2].GetOrDefault("price", "0"))
}

func TestParser_ReadRow_EOF(t *testing.T) {
	p, err := NewParser(strings.NewReader("name\n"))
	require.NoError(t, err)
	require.NoError(t, p.ParseHeader())
	_, err = p.ReadRow()
	assert.True(t, errors.Is(err, io.EOF))
}

func TestRowError(t *testing.T) {
	err := NewRowErrorWithValue(3, "price", ErrCodeInvalidFormat, "invalid price", "abc")
	assert.Equal(t, "row 3, column 'price': invalid price", err.Error())
	assert.Equal(t, "row 4: broken", NewRowError(4, "", ErrCodeMalformedRow, "broken").Error())
}
