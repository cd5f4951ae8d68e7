package models

import "time"

// DailySummary is the aggregated view of one registry day: how many entries
// were opened, how many were billed, and the billed revenue.
type DailySummary struct {
	Date      string    `json:"date" bson:"date"`
	Entries   int       `json:"entries" bson:"entries"`
	Billed    int       `json:"billed" bson:"billed"`
	Revenue   float64   `json:"revenue" bson:"revenue"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
