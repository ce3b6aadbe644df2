package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"swiftlogix/internal/domain/model"
	"swiftlogix/internal/handler"
	"swiftlogix/internal/infra/memory"
	"swiftlogix/internal/infra/realtime"
	repo "swiftlogix/internal/repository"
	"swiftlogix/internal/usecase"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newLiveServer(t *testing.T) (*httptest.Server, *memory.Backend, *handler.TrackingHandler) {
	t.Helper()
	feed := realtime.NewMemoryFeed()
	mb := memory.New(memory.WithPublisher(feed))
	mb.Seed()

	h := handler.NewTrackingHandler(usecase.NewTrackingUsecase(mb, feed, zap.NewNop()), "", zap.NewNop())
	e := echo.New()
	h.RegisterRoutes(e)

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return srv, mb, h
}

func dialLive(t *testing.T, srv *httptest.Server, number string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/tracking/live?number=" + number
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readLive(t *testing.T, conn *websocket.Conn) handler.LiveMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	var msg handler.LiveMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestLiveTracking_SnapshotThenUpdates(t *testing.T) {
	srv, mb, _ := newLiveServer(t)
	conn := dialLive(t, srv, "SWL-2026-0118-7890")

	snap := readLive(t, conn)
	require.Equal(t, "snapshot", snap.Type)
	require.NotNil(t, snap.Data)
	require.Len(t, snap.Data.Events, 3)
	id := snap.Data.Shipment.ID

	ctx := context.Background()
	require.NoError(t, mb.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.ShipmentEvents().Create(ctx, model.ShipmentEvent{
			ShipmentID: id, Status: model.ShipmentStatusOutForDelivery, Location: "Rotterdam, Netherlands",
		}); err != nil {
			return err
		}
		return r.Shipments().UpdateStatus(ctx, id, model.ShipmentStatusOutForDelivery)
	}))

	up := readLive(t, conn)
	require.Equal(t, "update", up.Type)
	assert.Len(t, up.Data.Events, 4)
	assert.Equal(t, model.ShipmentStatusOutForDelivery, up.Data.Shipment.Status)
}

func TestLiveTracking_ResetClosesStream(t *testing.T) {
	srv, _, _ := newLiveServer(t)
	conn := dialLive(t, srv, "SWL-2026-0120-1003")
	require.Equal(t, "snapshot", readLive(t, conn).Type)

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "reset"}))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
}

func TestLiveTracking_ShutdownClosesStream(t *testing.T) {
	srv, _, h := newLiveServer(t)
	conn := dialLive(t, srv, "SWL-2026-0120-1003")
	require.Equal(t, "snapshot", readLive(t, conn).Type)

	h.Shutdown()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)
}

func TestLiveTracking_UnknownNumberIsPlainJSON(t *testing.T) {
	srv, _, _ := newLiveServer(t)

	resp, err := http.Get(srv.URL + "/tracking/live?number=SWL-0000-0000-0000")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
