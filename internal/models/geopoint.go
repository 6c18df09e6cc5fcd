package models

// GeoPoint is a lat/lng pair stored on documents. Both coordinates are
// always written together; a nil *GeoPoint means "no location known".
type GeoPoint struct {
	Latitude  float64 `json:"latitude" firestore:"latitude"`
	Longitude float64 `json:"longitude" firestore:"longitude"`
}
