package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"swiftlogix/internal/domain/model"
	"swiftlogix/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDashboardUsecase_ListMyOrders(t *testing.T) {
	orders := new(OrderRepoMock)
	orders.On("ListByUserID", mock.Anything, "user-1").Return([]model.ShippingOrder{
		{OrderNumber: "CL-20260101-1000", OriginCity: "Lagos", DestinationCity: "Oslo", CreatedAt: testNow.Add(-time.Hour)},
		{OrderNumber: "CL-20260102-2000", OriginCity: "Paris", DestinationCity: "Lima", CreatedAt: testNow},
	}, nil)

	uc := usecase.NewDashboardUsecase(orders, zap.NewNop())

	all, err := uc.ListMyOrders(context.Background(), "user-1", "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "CL-20260102-2000", all[0].OrderNumber)

	hit, err := uc.ListMyOrders(context.Background(), "user-1", "LAGOS")
	require.NoError(t, err)
	require.Len(t, hit, 1)
	assert.Equal(t, "CL-20260101-1000", hit[0].OrderNumber)

	hit, err = uc.ListMyOrders(context.Background(), "user-1", "2000")
	require.NoError(t, err)
	require.Len(t, hit, 1)
}

func TestDashboardUsecase_ListMyOrders_Errors(t *testing.T) {
	orders := new(OrderRepoMock)
	orders.On("ListByUserID", mock.Anything, "user-1").Return(nil, errors.New("down"))
	uc := usecase.NewDashboardUsecase(orders, zap.NewNop())

	_, err := uc.ListMyOrders(context.Background(), "", "")
	assert.Equal(t, http.StatusUnauthorized, httpStatus(t, err))

	_, err = uc.ListMyOrders(context.Background(), "user-1", "")
	assert.Equal(t, http.StatusInternalServerError, httpStatus(t, err))
}
