package quote

import "github.com/shopspring/decimal"

// 配送方法1件
type Method struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Days        string          `json:"days"`
	MaxDays     int             `json:"max_days"`
	Description string          `json:"description"`
	Multiplier  decimal.Decimal `json:"multiplier"`
}

// 速い順
var methods = []Method{
	{ID: "express", Name: "Express Air", Days: "1-3 days", MaxDays: 3, Description: "Fastest delivery via air freight", Multiplier: decimal.RequireFromString("2.5")},
	{ID: "standard", Name: "Standard Air", Days: "3-5 days", MaxDays: 5, Description: "Reliable air freight service", Multiplier: decimal.RequireFromString("1.5")},
	{ID: "ocean", Name: "Ocean Freight", Days: "15-30 days", MaxDays: 30, Description: "Cost-effective for large shipments", Multiplier: decimal.RequireFromString("0.5")},
	{ID: "ground", Name: "Ground Transport", Days: "5-10 days", MaxDays: 10, Description: "Domestic and regional delivery", Multiplier: decimal.RequireFromString("0.8")},
}

const DefaultMethod = "standard"

// 一覧のコピーを返す
func Methods() []Method {
	out := make([]Method, len(methods))
	copy(out, methods)
	return out
}

func LookupMethod(id string) (Method, bool) {
	for _, m := range methods {
		if m.ID == id {
			return m, true
		}
	}
	return Method{}, false
}

// 一覧にないidは1倍
func Multiplier(id string) decimal.Decimal {
	if m, ok := LookupMethod(id); ok {
		return m.Multiplier
	}
	return decimal.NewFromInt(1)
}
