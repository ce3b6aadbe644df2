package model

// realtimeで届く変更の種類
type ChangeType string

const (
	ChangeInsert ChangeType = "INSERT"
	ChangeUpdate ChangeType = "UPDATE"
)

// shipments / shipment_events の行変更通知。
// EventかShipmentのどちらか一方が入る。
type ShipmentChange struct {
	Table    string         `json:"table"`
	Type     ChangeType     `json:"type"`
	Event    *ShipmentEvent `json:"event,omitempty"`
	Shipment *Shipment      `json:"shipment,omitempty"`
}

// 変更が属するshipmentのID
func (c ShipmentChange) ShipmentID() string {
	if c.Event != nil {
		return c.Event.ShipmentID
	}
	if c.Shipment != nil {
		return c.Shipment.ID
	}
	return ""
}
