package quote

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func f(v float64) *float64 { return &v }

func d(s string) *decimal.Decimal {
	v := decimal.RequireFromString(s)
	return &v
}

func assertPrice(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s got %s", want, got.StringFixed(2))
}

func TestCalculate_StandardNoDimensions(t *testing.T) {
	got := Calculate(Input{WeightKg: 10, Method: "standard"})
	assertPrice(t, "75.00", got)
}

func TestCalculate_VolumetricWeightWins(t *testing.T) {
	got := Calculate(Input{WeightKg: 1, LengthCm: f(50), WidthCm: f(50), HeightCm: f(50), Method: "ground"})
	assertPrice(t, "100.00", got)
}

func TestCalculate_ActualWeightWinsOverSmallVolume(t *testing.T) {
	// 10*10*10/5000 = 0.2kg
	got := Calculate(Input{WeightKg: 20, LengthCm: f(10), WidthCm: f(10), HeightCm: f(10), Method: "express"})
	assertPrice(t, "250.00", got)
}

func TestCalculate_ZeroAxisIgnoresDimensions(t *testing.T) {
	got := Calculate(Input{WeightKg: 10, LengthCm: f(100), WidthCm: f(0), HeightCm: f(100), Method: "standard"})
	assertPrice(t, "75.00", got)
}

func TestCalculate_MissingAxisIgnoresDimensions(t *testing.T) {
	got := Calculate(Input{WeightKg: 10, LengthCm: f(100), WidthCm: f(100), Method: "standard"})
	assertPrice(t, "75.00", got)
}

func TestCalculate_InsuranceAddsTwoPercent(t *testing.T) {
	base := Calculate(Input{WeightKg: 10, Method: "standard"})
	insured := Calculate(Input{WeightKg: 10, Method: "standard", Insurance: true, DeclaredValue: d("1000")})
	assertPrice(t, "20.00", insured.Sub(base))
}

func TestCalculate_InsuranceWithoutDeclaredValue(t *testing.T) {
	got := Calculate(Input{WeightKg: 10, Method: "standard", Insurance: true})
	assertPrice(t, "75.00", got)
}

func TestCalculate_DeclaredValueWithoutInsurance(t *testing.T) {
	got := Calculate(Input{WeightKg: 10, Method: "standard", DeclaredValue: d("1000")})
	assertPrice(t, "75.00", got)
}

func TestCalculate_MinimumCharge(t *testing.T) {
	cases := []Input{
		{WeightKg: 0, Method: "standard"},
		{WeightKg: -5, Method: "express"},
		{WeightKg: 1, Method: "ocean"},
	}
	for _, in := range cases {
		assertPrice(t, "25.00", Calculate(in))
	}
}

func TestCalculate_UnknownMethodUsesMultiplierOne(t *testing.T) {
	got := Calculate(Input{WeightKg: 10, Method: "teleport"})
	assertPrice(t, "50.00", got)
}

func TestCalculate_RoundsToCents(t *testing.T) {
	// 3.3337*5*2.5 = 41.67125
	got := Calculate(Input{WeightKg: 3.3337, Method: "express"})
	assertPrice(t, "41.67", got)
}

func TestCalculate_NeverBelowMinimum(t *testing.T) {
	for _, m := range append(Methods(), Method{ID: "unknown"}) {
		for w := 0.0; w <= 20; w += 0.5 {
			got := Calculate(Input{WeightKg: w, Method: m.ID})
			assert.True(t, got.GreaterThanOrEqual(decimal.NewFromInt(25)), "method=%s weight=%v got=%s", m.ID, w, got)
		}
	}
}

func TestLookupMethod(t *testing.T) {
	m, ok := LookupMethod("ocean")
	assert.True(t, ok)
	assert.Equal(t, "Ocean Freight", m.Name)

	_, ok = LookupMethod("")
	assert.False(t, ok)
}
