package usecase

import "fmt"

// CL-YYYYMMDD-RRRR を作る。一意性はbackend側の制約に任せる（ここではチェックしない）
type OrderNumberGenerator struct {
	clock Clock
	rnd   RandomSource
}

func NewOrderNumberGenerator(clock Clock, rnd RandomSource) *OrderNumberGenerator {
	return &OrderNumberGenerator{clock: clock, rnd: rnd}
}

func (g *OrderNumberGenerator) Next() string {
	date := g.clock.Now().UTC().Format("20060102")
	return fmt.Sprintf("CL-%s-%d", date, 1000+g.rnd.IntN(9000))
}
