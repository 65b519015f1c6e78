package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceKMZeroForSamePoint(t *testing.T) {
	p := Point{Lat: -3.043274, Lng: -59.963131}
	assert.InDelta(t, 0, DistanceKM(p, p), 1e-9)
}

func TestDistanceKMIsSymmetric(t *testing.T) {
	store := Point{Lat: -3.043274, Lng: -59.963131}
	customer := Point{Lat: -3.0210, Lng: -59.9505}

	assert.InDelta(t, DistanceKM(store, customer), DistanceKM(customer, store), 1e-9)
}

func TestDistanceKMKnownSpan(t *testing.T) {
	// One degree of latitude on the equator is roughly 111.19 km.
	a := Point{Lat: 0, Lng: 0}
	b := Point{Lat: 1, Lng: 0}

	assert.InDelta(t, 111.19, DistanceKM(a, b), 0.1)
}

func TestDistanceKMNeighborhoodScale(t *testing.T) {
	// Two points ~500m apart must land inside the GPS completion gate.
	a := Point{Lat: -3.043274, Lng: -59.963131}
	b := Point{Lat: -3.047770, Lng: -59.963131}

	d := DistanceKM(a, b)
	assert.Greater(t, d, 0.45)
	assert.Less(t, d, 0.55)
}
