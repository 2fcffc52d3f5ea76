package entities

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// ReferencePolicy selects which availability normalizes raw-resource weight points
type ReferencePolicy int

const (
	// ReferenceDesignated divides the availability of one named resource
	ReferenceDesignated ReferencePolicy = iota
	// ReferenceMaxFinite divides the largest finite availability in the table
	ReferenceMaxFinite
)

func (p ReferencePolicy) String() string {
	switch p {
	case ReferenceDesignated:
		return "designated"
	case ReferenceMaxFinite:
		return "max"
	default:
		return "unknown"
	}
}

// ParseReferencePolicy parses "designated" or "max"
func ParseReferencePolicy(s string) (ReferencePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "designated", "fixed", "":
		return ReferenceDesignated, nil
	case "max", "maximum", "max-finite":
		return ReferenceMaxFinite, nil
	default:
		return ReferenceDesignated, fmt.Errorf("invalid reference policy: %s (expected: designated or max)", s)
	}
}

// RawResourceTable maps raw resources to their availability (abundance).
// An availability of +Inf marks an item that is exempt from cost.
type RawResourceTable struct {
	Availability map[ItemName]float64
	Policy       ReferencePolicy
	Reference    ItemName
}

// NewRawResourceTable creates a validated RawResourceTable
func NewRawResourceTable(
	availability map[ItemName]float64,
	policy ReferencePolicy,
	reference ItemName,
) (*RawResourceTable, error) {
	table := &RawResourceTable{
		Availability: availability,
		Policy:       policy,
		Reference:    reference,
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}

// Validate checks that the reference availability can be resolved
func (t *RawResourceTable) Validate() error {
	_, err := t.ReferenceAvailability()
	return err
}

// IsRaw reports whether the item is listed in the table
func (t *RawResourceTable) IsRaw(item ItemName) bool {
	if t == nil {
		return false
	}
	_, ok := t.Availability[item]
	return ok
}

// ReferenceAvailability returns the availability that maps to a weight point of 1.0
func (t *RawResourceTable) ReferenceAvailability() (float64, error) {
	switch t.Policy {
	case ReferenceDesignated:
		avail, ok := t.Availability[t.Reference]
		if !ok {
			return 0, fmt.Errorf("%w: %q is not in the raw resource table", ErrUnknownReference, t.Reference)
		}
		if !usableAvailability(avail) || math.IsInf(avail, 1) {
			return 0, fmt.Errorf("%w: %q must have finite positive availability, got %v", ErrUnknownReference, t.Reference, avail)
		}
		return avail, nil
	case ReferenceMaxFinite:
		best := 0.0
		for _, avail := range t.Availability {
			if usableAvailability(avail) && !math.IsInf(avail, 1) && avail > best {
				best = avail
			}
		}
		if best == 0 {
			return 0, fmt.Errorf("%w: no finite positive availability in table", ErrUnknownReference)
		}
		return best, nil
	default:
		return 0, fmt.Errorf("unsupported reference policy: %d", t.Policy)
	}
}

// Baselines converts availabilities into weight points.
// Finite availability yields reference/availability, +Inf yields 0, and anything
// non-positive yields +Inf meaning the resource is not usable.
func (t *RawResourceTable) Baselines() (map[ItemName]float64, error) {
	ref, err := t.ReferenceAvailability()
	if err != nil {
		return nil, err
	}

	baselines := make(map[ItemName]float64, len(t.Availability))
	for item, avail := range t.Availability {
		switch {
		case math.IsInf(avail, 1):
			baselines[item] = 0
		case usableAvailability(avail):
			baselines[item] = ref / avail
		default:
			baselines[item] = math.Inf(1)
		}
	}
	return baselines, nil
}

// Names returns the raw resource names in sorted order
func (t *RawResourceTable) Names() []ItemName {
	names := make([]ItemName, 0, len(t.Availability))
	for item := range t.Availability {
		names = append(names, item)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

func usableAvailability(avail float64) bool {
	return !math.IsNaN(avail) && avail > 0
}

// SatisfactoryResources returns the extraction-limit table for Satisfactory 1.0 with
// Iron Ore as the designated reference. Water is unlimited.
func SatisfactoryResources() *RawResourceTable {
	return &RawResourceTable{
		Availability: map[ItemName]float64{
			"Iron Ore":     92100,
			"Copper Ore":   36900,
			"Limestone":    69900,
			"Coal":         42300,
			"Caterium Ore": 15000,
			"Raw Quartz":   13500,
			"Sulfur":       10800,
			"Bauxite":      12300,
			"Uranium":      2100,
			"Crude Oil":    12600,
			"Nitrogen Gas": 12000,
			"SAM":          10200,
			"Water":        math.Inf(1),
		},
		Policy:    ReferenceDesignated,
		Reference: "Iron Ore",
	}
}
