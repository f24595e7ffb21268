package geo

import (
	"math"
	"testing"
)

func TestDistanceKMSymmetry(t *testing.T) {
	// Dallas and Fort Worth
	a := Point{Lat: 32.7767, Lng: -96.7970}
	b := Point{Lat: 32.7555, Lng: -97.3308}

	ab := DistanceKM(a.Lat, a.Lng, b.Lat, b.Lng)
	ba := DistanceKM(b.Lat, b.Lng, a.Lat, a.Lng)

	if ab != ba {
		t.Fatalf("distance not symmetric: %f vs %f", ab, ba)
	}
	if ab <= 0 {
		t.Fatalf("expected positive distance, got %f", ab)
	}
}

func TestDistanceKMIdenticalPointsIsZero(t *testing.T) {
	d := DistanceKM(32.7767, -96.7970, 32.7767, -96.7970)
	if d != 0 {
		t.Fatalf("expected zero distance, got %f", d)
	}
}

func TestDistanceKMOneDegreeLongitudeAtEquator(t *testing.T) {
	// One degree of longitude at the equator is about 111.32 km.
	d := DistanceKM(0, 0, 0, 1)
	want := 111.32
	if math.Abs(d-want)/want > 0.001 {
		t.Fatalf("expected ~%f km within 0.1%%, got %f", want, d)
	}
}

func TestDistanceMilesUsesSmallerRadius(t *testing.T) {
	km := DistanceKM(32.7767, -96.7970, 29.7604, -95.3698)
	mi := DistanceMiles(32.7767, -96.7970, 29.7604, -95.3698)

	ratio := km / mi
	want := 6371.0 / 3956.0
	if math.Abs(ratio-want) > 1e-9 {
		t.Fatalf("expected km/mi ratio %f, got %f", want, ratio)
	}
}

func TestBoxAroundContainsCenterAndNearbyPoint(t *testing.T) {
	center := Point{Lat: 32.7767, Lng: -96.7970}
	box := BoxAround(center, 10000)

	if !box.Contains(center) {
		t.Fatal("box must contain its own center")
	}

	// ~5km north of center
	near := Point{Lat: center.Lat + 0.045, Lng: center.Lng}
	if !box.Contains(near) {
		t.Fatal("box must contain a point 5km away for a 10km radius")
	}

	// ~20km east of center
	far := Point{Lat: center.Lat, Lng: center.Lng + 0.25}
	if box.Contains(far) {
		t.Fatal("box must exclude a point well outside the radius")
	}
}

func TestBoxAroundWidensLongitudeAtHighLatitude(t *testing.T) {
	equator := BoxAround(Point{Lat: 0, Lng: 0}, 10000)
	arctic := BoxAround(Point{Lat: 70, Lng: 0}, 10000)

	eqWidth := equator.MaxLng - equator.MinLng
	arWidth := arctic.MaxLng - arctic.MinLng

	if arWidth <= eqWidth {
		t.Fatalf("longitude window must widen with latitude: %f vs %f", arWidth, eqWidth)
	}
}

func TestValidCoordinates(t *testing.T) {
	cases := []struct {
		lat, lng float64
		want     bool
	}{
		{32.7767, -96.7970, true},
		{90, 180, true},
		{-90, -180, true},
		{91, 0, false},
		{0, 181, false},
		{-91, -181, false},
	}

	for _, tc := range cases {
		if got := ValidCoordinates(tc.lat, tc.lng); got != tc.want {
			t.Errorf("ValidCoordinates(%f, %f) = %v, want %v", tc.lat, tc.lng, got, tc.want)
		}
	}
}
