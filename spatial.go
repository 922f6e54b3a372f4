package zipcodes

import (
	"math"
	"sort"
	"sync"

	geohash "github.com/TomiHiltunen/geohash-golang"
	"github.com/golang/geo/s2"
)

// s2CellLevel determines the granularity of the S2 spatial index used by
// ReverseLookup. Level 10 cells are roughly 10km x 10km at the equator,
// comparable to the spacing of zipcode centroids in populated areas.
const s2CellLevel = 10

// maxReverseLookupDistance is ~100km in radians on the unit sphere.
// ReverseLookup returns no result when the closest record exceeds this.
const maxReverseLookupDistance = 0.0157

// geohashPrecision is the number of geohash characters produced by
// Zipcode.Geohash. Six characters resolve to cells of roughly 1.2km x 0.6km.
const geohashPrecision = 6

// Spatial index over the dataset's record centroids. Built at most once,
// on first spatial query. Records without coordinates are not indexed.
var (
	cellIndex     map[s2.CellID][]int
	cellIndexOnce sync.Once
)

func spatialIndex() map[s2.CellID][]int {
	cellIndexOnce.Do(func() {
		cellIndex = make(map[s2.CellID][]int)
		for i, r := range dataset() {
			lat, lng, err := r.Coordinates()
			if err != nil {
				continue
			}
			ll := s2.LatLngFromDegrees(lat, lng)
			cell := s2.CellIDFromLatLng(ll).Parent(s2CellLevel)
			cellIndex[cell] = append(cellIndex[cell], i)
		}
	})
	return cellIndex
}

// cellAndNeighbors returns the given cell plus its edge and corner neighbors.
func cellAndNeighbors(cell s2.CellID) []s2.CellID {
	cells := make([]s2.CellID, 0, 9)
	cells = append(cells, cell)

	edgeNeighbors := cell.EdgeNeighbors()
	for i := 0; i < 4; i++ {
		cells = append(cells, edgeNeighbors[i])
	}

	seen := make(map[s2.CellID]bool)
	for _, c := range cells {
		seen[c] = true
	}
	for i := 0; i < 4; i++ {
		for _, corner := range edgeNeighbors[i].EdgeNeighbors() {
			if !seen[corner] {
				cells = append(cells, corner)
				seen[corner] = true
			}
		}
	}
	return cells
}

// reverseCandidate pairs a record index with its distance from the query point.
type reverseCandidate struct {
	idx  int
	dist float64
}

// ReverseLookup returns the record whose centroid is closest to the given
// coordinates. It reports false when the coordinates are invalid or no
// record lies within roughly 100km.
func ReverseLookup(lat, lng float64) (Zipcode, bool) {
	if math.IsNaN(lat) || math.IsNaN(lng) ||
		math.IsInf(lat, 0) || math.IsInf(lng, 0) {
		return Zipcode{}, false
	}

	idx := spatialIndex()
	records := dataset()

	queryLL := s2.LatLngFromDegrees(lat, lng)
	queryCell := s2.CellIDFromLatLng(queryLL).Parent(s2CellLevel)

	var candidates []reverseCandidate
	for _, cell := range cellAndNeighbors(queryCell) {
		for _, i := range idx[cell] {
			r := records[i]
			rLat, rLng, err := r.Coordinates()
			if err != nil {
				continue
			}
			dist := float64(queryLL.Distance(s2.LatLngFromDegrees(rLat, rLng)))
			candidates = append(candidates, reverseCandidate{idx: i, dist: dist})
		}
	}

	if len(candidates) == 0 {
		return Zipcode{}, false
	}

	// Sort by distance, then code, then index for full determinism.
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].dist != candidates[j].dist {
			return candidates[i].dist < candidates[j].dist
		}
		zi, zj := records[candidates[i].idx], records[candidates[j].idx]
		if zi.ZipCode != zj.ZipCode {
			return zi.ZipCode < zj.ZipCode
		}
		return candidates[i].idx < candidates[j].idx
	})

	best := candidates[0]
	if best.dist > maxReverseLookupDistance {
		return Zipcode{}, false
	}
	return records[best.idx].clone(), true
}

// Geohash returns the geohash of the record's centroid, or the empty string
// when the record has no coordinates.
func (z Zipcode) Geohash() string {
	lat, lng, err := z.Coordinates()
	if err != nil {
		return ""
	}
	return geohash.EncodeWithPrecision(lat, lng, geohashPrecision)
}
