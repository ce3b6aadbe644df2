package realtime

import (
	"encoding/json"
	"fmt"

	"swiftlogix/internal/domain/model"
)

const (
	TableShipments      = "shipments"
	TableShipmentEvents = "shipment_events"
)

// DBトリガーが送る通知の形
//
//	{"table":"shipment_events","type":"INSERT","record":{...}}
type envelope struct {
	Table  string           `json:"table"`
	Type   model.ChangeType `json:"type"`
	Record json.RawMessage  `json:"record"`
}

func DecodeChange(payload []byte) (model.ShipmentChange, error) {
	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return model.ShipmentChange{}, fmt.Errorf("decode change: %w", err)
	}
	if len(env.Record) == 0 {
		return model.ShipmentChange{}, fmt.Errorf("decode change: missing record")
	}

	c := model.ShipmentChange{Table: env.Table, Type: env.Type}
	switch env.Table {
	case TableShipmentEvents:
		var ev model.ShipmentEvent
		if err := json.Unmarshal(env.Record, &ev); err != nil {
			return model.ShipmentChange{}, fmt.Errorf("decode shipment event: %w", err)
		}
		c.Event = &ev
	case TableShipments:
		var s model.Shipment
		if err := json.Unmarshal(env.Record, &s); err != nil {
			return model.ShipmentChange{}, fmt.Errorf("decode shipment: %w", err)
		}
		c.Shipment = &s
	default:
		return model.ShipmentChange{}, fmt.Errorf("decode change: unknown table %q", env.Table)
	}
	if c.ShipmentID() == "" {
		return model.ShipmentChange{}, fmt.Errorf("decode change: missing shipment id")
	}
	return c, nil
}

func EncodeChange(c model.ShipmentChange) ([]byte, error) {
	var record any
	switch {
	case c.Event != nil:
		record = c.Event
	case c.Shipment != nil:
		record = c.Shipment
	default:
		return nil, fmt.Errorf("encode change: empty change")
	}
	raw, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Table: c.Table, Type: c.Type, Record: raw})
}
