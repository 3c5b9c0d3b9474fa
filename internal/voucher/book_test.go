package voucher

import (
	"context"
	"strings"
	"testing"

	"storefront/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		expected  model.Voucher
		expectErr bool
	}{
		{
			name:     "Code and percent",
			line:     "TAKE10,10",
			expected: model.Voucher{Code: "TAKE10", Percent: 10},
		},
		{
			name:     "All fields with spaces",
			line:     " vip25 , 25 , 50000 , 200000 ",
			expected: model.Voucher{Code: "VIP25", Percent: 25, MaxDiscount: 50000, MinOrder: 200000},
		},
		{
			name:     "Empty optional fields",
			line:     "FREESHIP,5,,",
			expected: model.Voucher{Code: "FREESHIP", Percent: 5},
		},
		{name: "Missing percent", line: "TAKE10", expectErr: true},
		{name: "Too many fields", line: "TAKE10,10,1,2,3", expectErr: true},
		{name: "Percent not a number", line: "TAKE10,ten", expectErr: true},
		{name: "Percent above 100", line: "TAKE10,101", expectErr: true},
		{name: "Negative max discount", line: "TAKE10,10,-1", expectErr: true},
		{name: "Code too short", line: "ABC,10", expectErr: true},
		{name: "Code too long", line: "ABCDEFGHIJKLMNOPQRSTU,10", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := parseLine(tt.line)
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, v)
		})
	}
}

func TestReadBook(t *testing.T) {
	input := strings.Join([]string{
		"# code,percent,max,min",
		"TAKE10,10",
		"",
		"broken line",
		"take10,50",
		"VIP25,25,50000,200000",
	}, "\n")

	book, err := readBook(context.Background(), strings.NewReader(input), "test", zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, 2, book.Size())

	v, ok := book.Get("TAKE10")
	require.True(t, ok)
	assert.Equal(t, 10, v.Percent, "first occurrence of a code wins")

	_, ok = book.Get("MISSING")
	assert.False(t, ok)

	assert.Len(t, book.Vouchers(), 2)
}

func TestMapBook_Add(t *testing.T) {
	book := newMapBook(4)

	assert.True(t, book.Add(model.Voucher{Code: "lower", Percent: 5}))
	assert.False(t, book.Add(model.Voucher{Code: "LOWER", Percent: 9}))

	v, ok := book.Get("LOWER")
	require.True(t, ok)
	assert.Equal(t, 5, v.Percent)
	assert.Equal(t, 1, book.Size())
}
