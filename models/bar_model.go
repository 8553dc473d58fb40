package models

import "time"

type Bar struct {
	OID       string    `json:"-" bson:"_id,omitempty"`
	ID        string    `json:"id" bson:"id"`
	Name      string    `json:"name" bson:"name"`
	PlaceID   string    `json:"placeId" bson:"place_id"`
	Location  GeoPoint  `json:"location" bson:"location"`
	Followers []string  `json:"followers" bson:"followers"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
}

// GeoPoint is a GeoJSON point, coordinates ordered longitude first.
type GeoPoint struct {
	Type        string    `json:"type" bson:"type"`
	Coordinates []float64 `json:"coordinates" bson:"coordinates"`
}

func NewGeoPoint(longitude, latitude float64) GeoPoint {
	return GeoPoint{Type: "Point", Coordinates: []float64{longitude, latitude}}
}

func (p GeoPoint) Longitude() float64 {
	if len(p.Coordinates) < 2 {
		return 0
	}
	return p.Coordinates[0]
}

func (p GeoPoint) Latitude() float64 {
	if len(p.Coordinates) < 2 {
		return 0
	}
	return p.Coordinates[1]
}

func (b *Bar) HasFollower(userID string) bool {
	return contains(b.Followers, userID)
}
