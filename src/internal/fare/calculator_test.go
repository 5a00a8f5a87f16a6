package fare

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortedWaypointsNumericOrder(t *testing.T) {
	points := map[string]string{
		"10": "Madurai",
		"2":  "Salem",
		"0":  "Chennai",
		"1":  "Vellore",
	}

	wps, err := SortedWaypoints(points)
	require.NoError(t, err)

	got := make([]string, 0, len(wps))
	for _, w := range wps {
		got = append(got, w.Place)
	}
	// "10" sorts after "2" because keys compare as integers, not strings.
	assert.Equal(t, []string{"Chennai", "Vellore", "Salem", "Madurai"}, got)
}

func TestSortedWaypointsRejectsBadInput(t *testing.T) {
	_, err := SortedWaypoints(map[string]string{"0": "Chennai"})
	assert.ErrorIs(t, err, ErrTooFewWaypoints)

	_, err = SortedWaypoints(map[string]string{"0": "Chennai", "one": "Vellore"})
	assert.ErrorIs(t, err, ErrBadWaypointKey)
}

func TestPointToPointBreakdown(t *testing.T) {
	// km=100, cost=10, extra=2, allowance=200, toll=50 -> total 1450.
	b, err := PointToPoint(PointToPointParams{
		CostPerKm:       10,
		ExtraCostPerKm:  2,
		DriverAllowance: 200,
		TollCharges:     50,
	}, 100)
	require.NoError(t, err)

	assert.Equal(t, int64(1000), b.BaseAmount)
	assert.Equal(t, int64(200), b.ExtraAmount)
	assert.Equal(t, int64(1450), b.TotalAmount)
	assert.Equal(t, int64(1450), b.VendorAmount)
	assert.Equal(t, int64(1250), b.EstimatedPrice)
	assert.Equal(t, int64(10), b.CommissionPercent)
}

func TestPointToPointDeterministic(t *testing.T) {
	p := PointToPointParams{
		CostPerKm:       13,
		ExtraCostPerKm:  3,
		DriverAllowance: 300,
		PermitCharges:   120,
		HillCharges:     80,
		TollCharges:     45,
	}
	first, err := PointToPoint(p, 237.4)
	require.NoError(t, err)
	for i := 0; i < 50; i++ {
		again, err := PointToPoint(p, 237.4)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestPointToPointRejectsNegatives(t *testing.T) {
	_, err := PointToPoint(PointToPointParams{CostPerKm: -1}, 10)
	assert.ErrorIs(t, err, ErrNegativeAmount)

	_, err = PointToPoint(PointToPointParams{CostPerKm: 10}, -5)
	assert.ErrorIs(t, err, ErrNegativeDistance)
}

func TestHourlyBreakdown(t *testing.T) {
	b, err := Hourly(HourlyParams{
		PackageHours:         5,
		PackageKmRange:       50,
		CostPerHourPack:      500,
		ExtraCostPerHourPack: 100,
		CostPerAddonKm:       5,
		ExtraCostPerAddonKm:  1,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(500), b.EstimatedPrice)
	assert.Equal(t, int64(600), b.VendorAmount)
}

func TestHourlyRejectsEmptyPackage(t *testing.T) {
	_, err := Hourly(HourlyParams{PackageHours: 0, CostPerHourPack: 500})
	assert.ErrorIs(t, err, ErrUnknownPackage)
}

func TestCombineSegments(t *testing.T) {
	km, duration := Combine([]Segment{
		{Km: 120.5, Duration: "2 hours 5 mins"},
		{Km: 80.2, Duration: "1 hour 30 mins"},
	})
	assert.InDelta(t, 200.7, km, 0.001)
	assert.Equal(t, "2 hours 5 mins, 1 hour 30 mins", duration)
}
