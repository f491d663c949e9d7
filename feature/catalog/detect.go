package catalog

import (
	"math"
	"time"

	"itemdex/core/gamedata"
)

// fieldTolerance is the absolute tolerance for float field comparisons.
const fieldTolerance = 0.01

// Detection is the outcome of comparing a fresh snapshot against the stored
// record. Record is only populated when Changed is true.
type Detection struct {
	Changed bool
	Record  ItemRecord
}

// Detect decides whether an item needs re-export. With no previous record the
// item counts as changed (first sight). Otherwise fields are compared in a
// fixed order, short-circuiting on the first mismatch: display name, value,
// quality, max stack, weight, tag set, stat values. An unchanged item must
// not be written at all, so no timestamps move.
func Detect(def gamedata.ItemDefinition, prev *ItemRecord, now time.Time) Detection {
	if prev == nil {
		return Detection{Changed: true, Record: newRecord(def, "", now)}
	}
	if !changed(def, prev) {
		return Detection{Changed: false}
	}
	return Detection{Changed: true, Record: newRecord(def, prev.FirstSeenAt, now)}
}

func changed(def gamedata.ItemDefinition, prev *ItemRecord) bool {
	// Display name is the primary signal.
	if def.Name != prev.Name {
		return true
	}
	if def.Value != prev.Value {
		return true
	}
	if def.Quality != prev.Quality {
		return true
	}
	if def.MaxStack != prev.MaxStack {
		return true
	}
	if math.Abs(def.Weight-prev.Weight) > fieldTolerance {
		return true
	}
	if !sameTagSet(def.Tags, prev.Tags) {
		return true
	}
	for name, value := range def.Stats {
		stored, ok := prev.Stats[name]
		if !ok {
			return true
		}
		if math.Abs(value-stored) > fieldTolerance {
			return true
		}
	}
	return false
}

// sameTagSet compares tags as sets; order and duplicates are irrelevant.
func sameTagSet(a, b []string) bool {
	setA := make(map[string]struct{}, len(a))
	for _, tag := range a {
		setA[tag] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, tag := range b {
		setB[tag] = struct{}{}
	}
	if len(setA) != len(setB) {
		return false
	}
	for tag := range setA {
		if _, ok := setB[tag]; !ok {
			return false
		}
	}
	return true
}
