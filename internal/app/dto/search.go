package dto

import "time"

type SearchHit struct {
	UnitID      string `json:"unit_id"`
	Name        string `json:"name"`
	MaxCapacity int    `json:"max_capacity"`
	Quote       Quote  `json:"quote"`
}

type SearchResult struct {
	CheckIn  time.Time   `json:"check_in"`
	CheckOut time.Time   `json:"check_out"`
	Guests   int         `json:"guests"`
	Items    []SearchHit `json:"items"`
	Skipped  int         `json:"skipped"`
}
