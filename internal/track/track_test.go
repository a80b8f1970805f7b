package track

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempC(v float64) *float64 { return &v }

func TestSampleTrack(t *testing.T) {
	t.Parallel()
	trk := Sample()
	require.NoError(t, trk.Validate())

	assert.InDelta(t, 5130, trk.LengthM(), 1)
	assert.Equal(t, 1.00, trk.ReferenceGrip)

	// Every timing sector has at least one segment.
	var perSector [SectorCount]int
	for _, s := range trk.Segments {
		perSector[s.Sector]++
	}
	for sector, n := range perSector {
		assert.Positive(t, n, "sector %d empty", sector)
	}
}

func TestCornerIDResolution(t *testing.T) {
	t.Parallel()

	t.Run("explicit link wins", func(t *testing.T) {
		t.Parallel()
		s := Segment{ID: "b4", Type: SegmentBraking, LinkedCornerID: "c9"}
		assert.Equal(t, "c9", s.CornerID())
	})

	t.Run("legacy id convention", func(t *testing.T) {
		t.Parallel()
		s := Segment{ID: "b4", Type: SegmentBraking}
		assert.Equal(t, "c4", s.CornerID())
	})

	t.Run("unresolvable", func(t *testing.T) {
		t.Parallel()
		s := Segment{ID: "zone4", Type: SegmentBraking}
		assert.Equal(t, "", s.CornerID())
	})
}

func TestTrackValidate(t *testing.T) {
	t.Parallel()

	base := func() Track {
		return Track{
			Name:          "t",
			ReferenceGrip: 1,
			Segments: []Segment{
				{ID: "s1", Type: SegmentStraight, LengthM: 500, Sector: 0},
				{ID: "b1", Type: SegmentBraking, LengthM: 100, Sector: 1, BrakingGRef: 1.2},
				{ID: "c1", Type: SegmentCorner, LengthM: 80, Sector: 2, ApexSpeedKPH: 90},
			},
		}
	}

	t.Run("valid", func(t *testing.T) {
		t.Parallel()
		require.NoError(t, base().Validate())
	})

	t.Run("duplicate id", func(t *testing.T) {
		t.Parallel()
		trk := base()
		trk.Segments[1].ID = "s1"
		assert.Error(t, trk.Validate())
	})

	t.Run("sector out of range", func(t *testing.T) {
		t.Parallel()
		trk := base()
		trk.Segments[0].Sector = SectorCount
		assert.Error(t, trk.Validate())
	})

	t.Run("corner without apex speed", func(t *testing.T) {
		t.Parallel()
		trk := base()
		trk.Segments[2].ApexSpeedKPH = 0
		assert.Error(t, trk.Validate())
	})

	t.Run("braking links to missing corner", func(t *testing.T) {
		t.Parallel()
		trk := base()
		trk.Segments[1].LinkedCornerID = "c99"
		assert.Error(t, trk.Validate())
	})

	t.Run("empty track", func(t *testing.T) {
		t.Parallel()
		assert.Error(t, Track{Name: "empty"}.Validate())
	})
}

func TestWeatherPresets(t *testing.T) {
	t.Parallel()

	dry, err := WeatherPreset("")
	require.NoError(t, err)
	assert.Equal(t, "dry", dry.Name)
	assert.Equal(t, 1.0, dry.Grip)

	wet, err := WeatherPreset("wet")
	require.NoError(t, err)
	assert.Less(t, wet.Grip, dry.Grip)
	assert.Less(t, wet.Braking, wet.Grip+0.1)

	_, err = WeatherPreset("hail")
	assert.Error(t, err)
}

func TestCompoundGrip(t *testing.T) {
	t.Parallel()

	street, err := CompoundGrip("")
	require.NoError(t, err)
	assert.Equal(t, 1.0, street)

	slick, err := CompoundGrip("slick")
	require.NoError(t, err)
	assert.Equal(t, 1.35, slick)

	_, err = CompoundGrip("bald")
	assert.Error(t, err)
}

func TestResolveConditions(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()
		c, err := LapParameters{}.Resolve()
		require.NoError(t, err)
		assert.Equal(t, 1.0, c.GripScalar)
		assert.Equal(t, 1.0, c.BrakeScalar)
		assert.Equal(t, 1.0, c.DownforceMultiplier)
		assert.Equal(t, 0.01, c.TimestepS)
		assert.Zero(t, c.ExtraMassKG)
	})

	t.Run("wet grips less than dry", func(t *testing.T) {
		t.Parallel()
		dry, err := LapParameters{Weather: "dry"}.Resolve()
		require.NoError(t, err)
		wet, err := LapParameters{Weather: "wet"}.Resolve()
		require.NoError(t, err)
		assert.Less(t, wet.GripScalar, dry.GripScalar)
		assert.Less(t, wet.BrakeScalar, dry.BrakeScalar)
	})

	t.Run("fuel load becomes mass", func(t *testing.T) {
		t.Parallel()
		c, err := LapParameters{FuelLoadL: 50}.Resolve()
		require.NoError(t, err)
		assert.InDelta(t, 37.0, c.ExtraMassKG, 1e-9)
	})

	t.Run("negative fuel rejected", func(t *testing.T) {
		t.Parallel()
		_, err := LapParameters{FuelLoadL: -1}.Resolve()
		assert.Error(t, err)
	})

	t.Run("rearward bias weakens braking", func(t *testing.T) {
		t.Parallel()
		c, err := LapParameters{BrakeBias: 0.48}.Resolve()
		require.NoError(t, err)
		assert.InDelta(t, 0.80, c.BrakeScalar, 1e-9)
	})

	t.Run("hot track trims grip", func(t *testing.T) {
		t.Parallel()
		hot, err := LapParameters{TrackTempC: tempC(50)}.Resolve()
		require.NoError(t, err)
		assert.InDelta(t, 0.97, hot.TireScalar, 1e-9)

		// The trim bottoms out on extreme surfaces.
		frozen, err := LapParameters{TrackTempC: tempC(-40)}.Resolve()
		require.NoError(t, err)
		assert.InDelta(t, 0.92, frozen.TireScalar, 1e-9)
	})

	t.Run("zero celsius is a real temperature", func(t *testing.T) {
		t.Parallel()
		cold, err := LapParameters{TrackTempC: tempC(0)}.Resolve()
		require.NoError(t, err)
		assert.InDelta(t, 0.955, cold.TireScalar, 1e-9)

		unset, err := LapParameters{}.Resolve()
		require.NoError(t, err)
		assert.Equal(t, 1.0, unset.TireScalar)
		assert.Less(t, cold.TireScalar, unset.TireScalar)
	})

	t.Run("unknown weather rejected", func(t *testing.T) {
		t.Parallel()
		_, err := LapParameters{Weather: "hail"}.Resolve()
		assert.Error(t, err)
	})
}
