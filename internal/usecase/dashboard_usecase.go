package usecase

import (
	"context"
	"net/http"
	"sort"
	"strings"

	"swiftlogix/internal/domain/model"
	repo "swiftlogix/internal/repository"

	"go.uber.org/zap"
)

type DashboardUsecase struct {
	orders repo.ShippingOrderRepository
	logger *zap.Logger
}

func NewDashboardUsecase(orders repo.ShippingOrderRepository, logger *zap.Logger) *DashboardUsecase {
	return &DashboardUsecase{orders: orders, logger: logger}
}

// 自分の発送依頼（新しい順）。qは注文番号・発送元都市・到着都市の部分一致
func (u *DashboardUsecase) ListMyOrders(ctx context.Context, userID string, q string) ([]model.ShippingOrder, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	orders, err := u.orders.ListByUserID(ctx, userID)
	if err != nil {
		u.logger.Error("list orders failed", zap.String("user_id", userID), zap.Error(err))
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})

	q = strings.ToLower(strings.TrimSpace(q))
	out := make([]model.ShippingOrder, 0, len(orders))
	for _, o := range orders {
		if q == "" ||
			strings.Contains(strings.ToLower(o.OrderNumber), q) ||
			strings.Contains(strings.ToLower(o.OriginCity), q) ||
			strings.Contains(strings.ToLower(o.DestinationCity), q) {
			out = append(out, o)
		}
	}
	return out, nil
}
