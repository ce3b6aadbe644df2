package quote

import "github.com/shopspring/decimal"

var (
	ratePerKg         = decimal.NewFromInt(5)
	volumetricDivisor = decimal.NewFromInt(5000)
	insuranceRate     = decimal.RequireFromString("0.02")
	minimumCharge     = decimal.NewFromInt(25)
)

// Ship Nowフォームの荷物情報。重さはkg、寸法はcm。nilは未入力
type Input struct {
	WeightKg      float64
	LengthCm      *float64
	WidthCm       *float64
	HeightCm      *float64
	Method        string
	Insurance     bool
	DeclaredValue *decimal.Decimal
}

// 見積もり額（小数2桁）。失敗はしない。
// 知らないmethodは1倍、最低料金を下回れば最低料金にする
func Calculate(in Input) decimal.Decimal {
	weight := decimal.NewFromFloat(in.WeightKg)
	chargeable := weight
	if dim, ok := VolumetricWeight(in.LengthCm, in.WidthCm, in.HeightCm); ok && dim.GreaterThan(weight) {
		chargeable = dim
	}

	price := chargeable.Mul(ratePerKg).Mul(Multiplier(in.Method))

	if in.Insurance && in.DeclaredValue != nil && in.DeclaredValue.IsPositive() {
		price = price.Add(in.DeclaredValue.Mul(insuranceRate))
	}

	if price.LessThan(minimumCharge) {
		price = minimumCharge
	}
	return price.Round(2)
}

// 容積重量 (l*w*h)/5000。3辺とも正の値でなければok=false
func VolumetricWeight(length, width, height *float64) (decimal.Decimal, bool) {
	if length == nil || width == nil || height == nil {
		return decimal.Zero, false
	}
	if *length <= 0 || *width <= 0 || *height <= 0 {
		return decimal.Zero, false
	}
	volume := decimal.NewFromFloat(*length).
		Mul(decimal.NewFromFloat(*width)).
		Mul(decimal.NewFromFloat(*height))
	return volume.Div(volumetricDivisor), true
}
