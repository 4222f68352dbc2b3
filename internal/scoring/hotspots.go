package scoring

import (
	"math"
	"sort"
	"time"

	"github.com/masmgr/pvcslog-go/internal/bugfix"
	"github.com/masmgr/pvcslog-go/internal/pvcs"
)

// SigmoidScore calculates a score based on the recency of a fix using a sigmoid function.
//
// The timestamp used in the equation is normalized from 0 to 1, where
// 0 is the start of the analysis window, and 1 is its end.
// The score moves as the window moves; it only compares one file with
// another at a single point in time.
//
// Formula: 1 / (1 + exp((-12*t)+12))
// where t is normalized time from 0 to 1
func SigmoidScore(until time.Time, since time.Time, fixDate time.Time) float64 {
	denom := until.Sub(since).Seconds()
	if denom <= 0 {
		// No time range to normalize against; treat all fixes as equally "recent".
		return 1.0
	}

	t := 1 - (until.Sub(fixDate).Seconds() / denom)
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	return 1 / (1 + math.Exp((-12*t)+12))
}

// Fix is a bugfix revision of a single file.
type Fix struct {
	File     string
	Revision string
	Comment  string
	Date     time.Time
}

// Spot is a file's bugfix hotspot ranking.
type Spot struct {
	File    string
	Score   float64
	Fixes   int
	LastFix time.Time
}

// CollectFixes returns the bugfix entries of set that carry a check-in time.
func CollectFixes(set *pvcs.ChangeSet, result *bugfix.Result) []Fix {
	fixes := make([]Fix, 0, len(result.Entries))
	for _, i := range result.Entries {
		entry := set.At(i)
		if !entry.HasModifiedTime() {
			continue
		}
		fixes = append(fixes, Fix{
			File:     entry.FileName,
			Revision: entry.Revision,
			Comment:  entry.Comment,
			Date:     *entry.ModifiedTime,
		})
	}
	return fixes
}

// Window returns the earliest and latest fix dates.
func Window(fixes []Fix) (since, until time.Time) {
	for i, fix := range fixes {
		if i == 0 || fix.Date.Before(since) {
			since = fix.Date
		}
		if i == 0 || fix.Date.After(until) {
			until = fix.Date
		}
	}
	return since, until
}

// CalculateHotspots accumulates a sigmoid score per file over [since, until].
func CalculateHotspots(fixes []Fix, until time.Time, since time.Time) map[string]*Spot {
	hotspots := make(map[string]*Spot)

	for _, fix := range fixes {
		spot, ok := hotspots[fix.File]
		if !ok {
			spot = &Spot{File: fix.File}
			hotspots[fix.File] = spot
		}
		spot.Score += SigmoidScore(until, since, fix.Date)
		spot.Fixes++
		if fix.Date.After(spot.LastFix) {
			spot.LastFix = fix.Date
		}
	}

	return hotspots
}

// RankHotspots converts a hotspot map to a slice sorted by score in
// descending order, ties broken by file name.
func RankHotspots(hotspots map[string]*Spot, maxSpots int) []Spot {
	spots := make([]Spot, 0, len(hotspots))
	for _, spot := range hotspots {
		spots = append(spots, *spot)
	}

	sort.Slice(spots, func(i, j int) bool {
		if spots[i].Score != spots[j].Score {
			return spots[i].Score > spots[j].Score
		}
		return spots[i].File < spots[j].File
	})

	if maxSpots > 0 && maxSpots < len(spots) {
		spots = spots[:maxSpots]
	}

	return spots
}
