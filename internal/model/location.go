package model

import (
	"fmt"
	"strconv"
)

type Coordinate struct {
	X float64
	Y float64
}

// Location identifies a stop by id, matrix index, coordinate or any combination.
type Location struct {
	ID       string
	Index    int
	Coord    Coordinate
	HasCoord bool
}

// NoIndex marks a location that has no matrix index.
const NoIndex = -1

func NewLocation(id string) Location { return Location{ID: id, Index: NoIndex} }

func IndexedLocation(index int) Location {
	return Location{ID: strconv.Itoa(index), Index: index}
}

// LocationAt builds a location at (x, y) whose id is the formatted coordinate.
func LocationAt(x, y float64) Location {
	return Location{
		ID:       strconv.FormatFloat(x, 'g', -1, 64) + "," + strconv.FormatFloat(y, 'g', -1, 64),
		Index:    NoIndex,
		Coord:    Coordinate{X: x, Y: y},
		HasCoord: true,
	}
}

func (l Location) IsZero() bool {
	return l.ID == "" && !l.HasCoord && l.Index == 0
}

func (l Location) Validate() error {
	if l.IsZero() || (l.ID == "" && !l.HasCoord && l.Index < 0) {
		return fmt.Errorf("%w: needs an id, index or coordinate", ErrInvalidLocation)
	}
	if l.Index < NoIndex {
		return fmt.Errorf("%w: index %d", ErrInvalidLocation, l.Index)
	}
	return nil
}

// SameAs compares locations by id, falling back to coordinates.
func (l Location) SameAs(o Location) bool {
	if l.ID != "" || o.ID != "" {
		return l.ID == o.ID
	}
	return l.HasCoord && o.HasCoord && l.Coord == o.Coord
}

func (l Location) String() string {
	if l.ID != "" {
		return l.ID
	}
	if l.HasCoord {
		return fmt.Sprintf("%g,%g", l.Coord.X, l.Coord.Y)
	}
	return "#" + strconv.Itoa(l.Index)
}
