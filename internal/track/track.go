// Package track provides the circuit data model for the lap simulator: an
// ordered list of straight, braking, corner, and accel segments split across
// three timing sectors, plus the weather and tire condition presets.
package track

import (
	"fmt"
	"strings"
)

// SectorCount is the number of timing sectors on every circuit.
const SectorCount = 3

// SegmentType classifies a track segment.
type SegmentType string

const (
	SegmentStraight SegmentType = "straight"
	SegmentBraking  SegmentType = "braking"
	SegmentCorner   SegmentType = "corner"
	SegmentAccel    SegmentType = "accel"
)

// Segment is one stretch of track. Static per track and shared read-only
// across all vehicle runs on that track.
type Segment struct {
	ID      string      `json:"id"`
	Name    string      `json:"name,omitempty"`
	Type    SegmentType `json:"type"`
	LengthM float64     `json:"length_m"`
	Sector  int         `json:"sector"` // 0-based timing sector index

	// ApexSpeedKPH is the reference apex speed for corner segments.
	ApexSpeedKPH float64 `json:"apex_speed_kph,omitempty"`
	// BrakingGRef is the reference deceleration in g for braking segments.
	BrakingGRef float64 `json:"braking_g_ref,omitempty"`
	// LinkedCornerID names the corner a braking segment decelerates for.
	// When empty, legacy track data falls back to the bN→cN id convention.
	LinkedCornerID string `json:"linked_corner_id,omitempty"`
}

// CornerID resolves the corner a braking segment targets.
func (s Segment) CornerID() string {
	if s.LinkedCornerID != "" {
		return s.LinkedCornerID
	}
	if rest, ok := strings.CutPrefix(s.ID, "b"); ok {
		return "c" + rest
	}
	return ""
}

// DisplayName returns the segment's name, falling back to its id.
func (s Segment) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return s.ID
}

// Track is an ordered circuit definition.
type Track struct {
	Name string `json:"name"`
	// ReferenceGrip is the cornering grip of the car the apex speeds and
	// braking references were calibrated with.
	ReferenceGrip float64   `json:"reference_grip"`
	Segments      []Segment `json:"segments"`
}

// Validate checks the track for data the lap simulator cannot work with and
// verifies that every braking segment resolves to a corner on the track.
func (t Track) Validate() error {
	if len(t.Segments) == 0 {
		return fmt.Errorf("track %q has no segments", t.Name)
	}
	corners := make(map[string]Segment)
	for _, s := range t.Segments {
		if s.Type == SegmentCorner {
			corners[s.ID] = s
		}
	}
	seen := make(map[string]bool, len(t.Segments))
	for i, s := range t.Segments {
		if s.ID == "" {
			return fmt.Errorf("track %q: segment %d has no id", t.Name, i)
		}
		if seen[s.ID] {
			return fmt.Errorf("track %q: duplicate segment id %q", t.Name, s.ID)
		}
		seen[s.ID] = true
		if s.LengthM <= 0 {
			return fmt.Errorf("track %q: segment %q length must be positive", t.Name, s.ID)
		}
		if s.Sector < 0 || s.Sector >= SectorCount {
			return fmt.Errorf("track %q: segment %q sector %d out of range [0,%d)",
				t.Name, s.ID, s.Sector, SectorCount)
		}
		switch s.Type {
		case SegmentCorner:
			if s.ApexSpeedKPH <= 0 {
				return fmt.Errorf("track %q: corner %q needs an apex speed", t.Name, s.ID)
			}
		case SegmentBraking:
			if s.BrakingGRef <= 0 {
				return fmt.Errorf("track %q: braking segment %q needs a reference g", t.Name, s.ID)
			}
			cornerID := s.CornerID()
			if cornerID == "" {
				return fmt.Errorf("track %q: braking segment %q has no linked corner", t.Name, s.ID)
			}
			if _, ok := corners[cornerID]; !ok {
				return fmt.Errorf("track %q: braking segment %q links to unknown corner %q",
					t.Name, s.ID, cornerID)
			}
		case SegmentStraight, SegmentAccel:
		default:
			return fmt.Errorf("track %q: segment %q has unknown type %q", t.Name, s.ID, s.Type)
		}
	}
	return nil
}

// CornerByID looks up a corner segment by its id.
func (t Track) CornerByID(id string) (Segment, bool) {
	for _, s := range t.Segments {
		if s.Type == SegmentCorner && s.ID == id {
			return s, true
		}
	}
	return Segment{}, false
}

// LengthM returns the total track length in metres.
func (t Track) LengthM() float64 {
	var total float64
	for _, s := range t.Segments {
		total += s.LengthM
	}
	return total
}

// Sample returns a compact three-sector reference circuit used by the CLI
// demo and tests: two long straights, a chicane, and a mix of medium and
// slow corners over roughly 5.2 km.
func Sample() Track {
	return Track{
		Name:          "Camber Park GP",
		ReferenceGrip: 1.00,
		Segments: []Segment{
			{ID: "s1", Name: "Start/Finish Straight", Type: SegmentStraight, LengthM: 900, Sector: 0},
			{ID: "b1", Type: SegmentBraking, LengthM: 140, Sector: 0, BrakingGRef: 1.4, LinkedCornerID: "c1"},
			{ID: "c1", Name: "Village", Type: SegmentCorner, LengthM: 110, Sector: 0, ApexSpeedKPH: 95},
			{ID: "a1", Type: SegmentAccel, LengthM: 420, Sector: 0},
			{ID: "b2", Type: SegmentBraking, LengthM: 90, Sector: 0, BrakingGRef: 1.2, LinkedCornerID: "c2"},
			{ID: "c2", Name: "Loop", Type: SegmentCorner, LengthM: 80, Sector: 0, ApexSpeedKPH: 70},
			{ID: "a2", Type: SegmentAccel, LengthM: 650, Sector: 1},
			{ID: "b3", Type: SegmentBraking, LengthM: 120, Sector: 1, BrakingGRef: 1.5, LinkedCornerID: "c3"},
			{ID: "c3", Name: "Chapel", Type: SegmentCorner, LengthM: 140, Sector: 1, ApexSpeedKPH: 150},
			{ID: "s2", Name: "Back Straight", Type: SegmentStraight, LengthM: 780, Sector: 1},
			{ID: "b4", Type: SegmentBraking, LengthM: 150, Sector: 1, BrakingGRef: 1.6, LinkedCornerID: "c4"},
			{ID: "c4", Name: "Hairpin", Type: SegmentCorner, LengthM: 70, Sector: 1, ApexSpeedKPH: 60},
			{ID: "a3", Type: SegmentAccel, LengthM: 540, Sector: 2},
			{ID: "b5", Type: SegmentBraking, LengthM: 100, Sector: 2, BrakingGRef: 1.3, LinkedCornerID: "c5"},
			{ID: "c5", Name: "Sweeper", Type: SegmentCorner, LengthM: 160, Sector: 2, ApexSpeedKPH: 175},
			{ID: "a4", Type: SegmentAccel, LengthM: 480, Sector: 2},
			{ID: "b6", Type: SegmentBraking, LengthM: 110, Sector: 2, BrakingGRef: 1.4, LinkedCornerID: "c6"},
			{ID: "c6", Name: "Final Corner", Type: SegmentCorner, LengthM: 90, Sector: 2, ApexSpeedKPH: 110},
		},
	}
}
