package handler

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"swiftlogix/internal/domain/model"
	"swiftlogix/internal/usecase"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = wsPongWait * 9 / 10
)

// websocketで流すメッセージ
type LiveMessage struct {
	Type  string                  `json:"type"` // snapshot / update / error
	Data  *usecase.TrackingResult `json:"data,omitempty"`
	Error string                  `json:"error,omitempty"`
}

// クライアントから来るのはresetだけ
type liveCommand struct {
	Type string `json:"type"`
}

type EventsResponse struct {
	Events []model.ShipmentEvent `json:"events"`
}

// /tracking の公開API
type TrackingHandler struct {
	uc       *usecase.TrackingUsecase
	upgrader websocket.Upgrader
	logger   *zap.Logger

	//Shutdownで閉じる。hijack済みの接続はecho側で止まらない
	stop     chan struct{}
	stopOnce sync.Once
}

func NewTrackingHandler(uc *usecase.TrackingUsecase, allowedOrigin string, logger *zap.Logger) *TrackingHandler {
	return &TrackingHandler{
		uc: uc,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowedOrigin == "" || origin == allowedOrigin
			},
		},
		logger: logger,
		stop:   make(chan struct{}),
	}
}

// 開いているlive接続をすべて閉じる
func (h *TrackingHandler) Shutdown() {
	h.stopOnce.Do(func() { close(h.stop) })
}

func (h *TrackingHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/tracking")
	//固定パスを先に登録
	g.GET("/events", h.refreshEvents)
	g.GET("/live", h.live)
	g.GET("/:number", h.track)
}

func (h *TrackingHandler) track(c echo.Context) error {
	out, err := h.uc.Track(c.Request().Context(), c.Param("number"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *TrackingHandler) refreshEvents(c echo.Context) error {
	events, err := h.uc.RefreshEvents(c.Request().Context(), c.QueryParam("token"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, EventsResponse{Events: events})
}

// GET /tracking/live?number=...
// 追跡できてからupgradeする。失敗はふつうのJSONで返す
func (h *TrackingHandler) live(c echo.Context) error {
	ctx := c.Request().Context()

	current, err := h.uc.Track(ctx, c.QueryParam("number"))
	if err != nil {
		return writeError(c, err)
	}
	lt, err := h.uc.Follow(ctx, current)
	if err != nil {
		return writeError(c, err)
	}
	defer lt.Close()

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		//Upgrade側でエラーレスポンスを書いている
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return nil
	}
	defer conn.Close()

	streamCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	//切断かresetで購読をやめる
	go h.readLoop(conn, cancel)

	snap := lt.Snapshot()
	if err := writeLive(conn, LiveMessage{Type: "snapshot", Data: &snap}); err != nil {
		return nil
	}

	updates := make(chan usecase.TrackingResult)
	failed := make(chan error, 1)
	go func() {
		for {
			st, err := lt.Next(streamCtx)
			if err != nil {
				failed <- err
				return
			}
			select {
			case updates <- st:
			case <-streamCtx.Done():
				return
			}
		}
	}()

	ping := time.NewTicker(wsPingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-streamCtx.Done():
			closeLive(conn, websocket.CloseNormalClosure, "")
			return nil
		case <-h.stop:
			closeLive(conn, websocket.CloseGoingAway, "server shutting down")
			return nil
		case st := <-updates:
			if err := writeLive(conn, LiveMessage{Type: "update", Data: &st}); err != nil {
				return nil
			}
		case err := <-failed:
			if errors.Is(err, context.Canceled) {
				closeLive(conn, websocket.CloseNormalClosure, "")
				return nil
			}
			h.logger.Warn("live tracking stopped", zap.String("shipment_id", current.Shipment.ID), zap.Error(err))
			_ = writeLive(conn, LiveMessage{Type: "error", Error: usecase.MsgTrackingFailed})
			closeLive(conn, websocket.CloseInternalServerErr, "subscription closed")
			return nil
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return nil
			}
		}
	}
}

func (h *TrackingHandler) readLoop(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()

	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	for {
		var cmd liveCommand
		if err := conn.ReadJSON(&cmd); err != nil {
			return
		}
		if cmd.Type == "reset" {
			return
		}
	}
}

func writeLive(conn *websocket.Conn, msg LiveMessage) error {
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return conn.WriteJSON(msg)
}

func closeLive(conn *websocket.Conn, code int, text string) {
	_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, text), time.Now().Add(wsWriteWait))
}
