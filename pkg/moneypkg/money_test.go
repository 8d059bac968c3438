package moneypkg

import (
	"errors"
	"math"
	"testing"

	"github.com/shopspring/decimal"
)

func TestToMinorUnits(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		amount  string
		want    int64
		wantErr error
	}{
		{amount: "12.34", want: 1234},
		{amount: "0.005", want: 1},
		{amount: "0.004", want: 0},
		{amount: "0.015", want: 2},
		{amount: "1", want: 100},
		{amount: "19.999", want: 2000},
		{amount: "-0.005", want: -1},
		{amount: "1234567.891", want: 123456789},
		{amount: "92233720368547758.07", want: math.MaxInt64},
		{amount: "-92233720368547758.08", want: math.MinInt64},
		{amount: "92233720368547758.08", wantErr: ErrOutOfRange},
		{amount: "92233720368547758.075", wantErr: ErrOutOfRange},
		{amount: "184467440737095516.17", wantErr: ErrOutOfRange},
		{amount: "-92233720368547758.09", wantErr: ErrOutOfRange},
		{amount: "1e30", wantErr: ErrOutOfRange},
	}

	for _, tc := range testCases {
		amount, err := decimal.NewFromString(tc.amount)
		if err != nil {
			t.Fatalf("decimal.NewFromString(%q) returned error: %v", tc.amount, err)
		}

		got, err := ToMinorUnits(amount)
		if !errors.Is(err, tc.wantErr) {
			t.Errorf("ToMinorUnits(%v) returned error %v, want %v", tc.amount, err, tc.wantErr)
			continue
		}

		if got != tc.want {
			t.Errorf("ToMinorUnits(%v) = %d, want %d", tc.amount, got, tc.want)
		}
	}
}

func TestFromMinorUnits(t *testing.T) {
	t.Parallel()

	got := FromMinorUnits(1234)
	want := decimal.RequireFromString("12.34")

	if !got.Equal(want) {
		t.Errorf("FromMinorUnits(1234) = %v, want %v", got, want)
	}
}
