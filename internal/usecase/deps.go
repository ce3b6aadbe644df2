package usecase

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// UUID 等のIDを作る約束
type IDGenerator interface {
	NewID() string
}

// 現在の時間
type Clock interface {
	Now() time.Time
}

// [0, n) の乱数
type RandomSource interface {
	IntN(n int) int
}

type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string { return uuid.NewString() }

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

type MathRand struct{}

func (MathRand) IntN(n int) int { return rand.Intn(n) }
