package money

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		in   string
		want Money
	}{
		{in: "£4.50", want: 450},
		{in: "4.50", want: 450},
		{in: " £0.99 ", want: 99},
		{in: "£12", want: 1200},
		{in: "£0.00", want: 0},
		{in: "3.1", want: 310},
		{in: "-£1.00", want: -100},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := Parse(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, in := range []string{
		"", "£", "abc", "£1.234", "£-1", "4,50",
		"£1e2", "1E-2", "£.5", "£5.", "£+5", "£1.2.3",
		"£99999999999999999999",
		"£92233720368547758.08",
	} {
		t.Run(in, func(t *testing.T) {
			_, err := Parse(in)
			require.ErrorIs(t, err, ErrInvalidAmount)
		})
	}
}

func TestParse_Bounds(t *testing.T) {
	m, err := Parse("£92233720368547758.07")
	require.NoError(t, err)
	assert.Equal(t, Money(math.MaxInt64), m)

	m, err = Parse("-£92233720368547758.07")
	require.NoError(t, err)
	assert.Equal(t, Money(-math.MaxInt64), m)
}

func TestJSON_RejectsExponentNumber(t *testing.T) {
	var v struct {
		Price Money `json:"price"`
	}
	err := json.Unmarshal([]byte(`{"price":1e2}`), &v)
	require.ErrorIs(t, err, ErrInvalidAmount)
}

func TestString(t *testing.T) {
	assert.Equal(t, "£4.50", Money(450).String())
	assert.Equal(t, "£0.00", Money(0).String())
	assert.Equal(t, "£0.05", Money(5).String())
	assert.Equal(t, "£1234.00", Money(123400).String())
	assert.Equal(t, "-£1.00", Money(-100).String())
}

func TestArithmetic_NoDrift(t *testing.T) {
	// 0.10 added a thousand times is exactly 100.00.
	var total Money
	for i := 0; i < 1000; i++ {
		total = total.Add(MustParse("£0.10"))
	}
	assert.Equal(t, "£100.00", total.String())
	assert.Equal(t, Money(700), MustParse("£1.00").Mul(7))
	assert.Equal(t, Money(0), MustParse("£1.00").Sub(MustParse("£1.00")))
}

func TestJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		Price Money `json:"price"`
	}{Price: 450})
	require.NoError(t, err)
	assert.JSONEq(t, `{"price":"£4.50"}`, string(b))

	var v struct {
		A Money `json:"a"`
		B Money `json:"b"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"£2.00","b":1.25}`), &v))
	assert.Equal(t, Money(200), v.A)
	assert.Equal(t, Money(125), v.B)

	require.Error(t, json.Unmarshal([]byte(`{"a":"two pounds"}`), &v))
	require.Error(t, json.Unmarshal([]byte(`{"a":true}`), &v))
}
