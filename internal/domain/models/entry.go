package models

// EntryStatus enumerates the lifecycle states of a registry entry.
type EntryStatus string

const (
	StatusPending EntryStatus = "pending"
	StatusOnHold  EntryStatus = "on-hold"
	StatusDone    EntryStatus = "done"
)

// IsValid reports whether the status is one of the known states.
func (s EntryStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusOnHold, StatusDone:
		return true
	}
	return false
}

// CanTransition reports whether moving from s to target is a legal
// lifecycle step. Done is terminal.
func (s EntryStatus) CanTransition(target EntryStatus) bool {
	switch s {
	case StatusPending:
		return target == StatusOnHold || target == StatusDone
	case StatusOnHold:
		// Re-holding an already held entry is a no-op, not an error.
		return target == StatusOnHold || target == StatusDone
	}
	return false
}

// BillItem is one line of a finalized bill. Product name and unit price are
// snapshots taken at billing time, so later catalog changes never alter a
// historical bill.
type BillItem struct {
	ProductID   int     `json:"productId" bson:"product_id"`
	ProductName string  `json:"productName" bson:"product_name"`
	Quantity    int     `json:"quantity" bson:"quantity"`
	UnitPrice   float64 `json:"unitPrice" bson:"unit_price"`
	SubTotal    float64 `json:"subTotal" bson:"sub_total"`
}

// Entry is a single customer registry record for one calendar day. IDs are
// unique per date only; mutations always address an entry by (id, date).
type Entry struct {
	ID         int         `json:"id" bson:"id"`
	Name       string      `json:"name" bson:"name"`
	Number     string      `json:"number" bson:"number"`
	Date       string      `json:"date" bson:"date"`
	Status     EntryStatus `json:"status" bson:"status"`
	BillItems  []BillItem  `json:"billItems" bson:"bill_items"`
	TotalPrice float64     `json:"totalPrice" bson:"total_price"`
}
