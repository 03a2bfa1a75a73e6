package matrix

import (
	"runtime"

	"github.com/fleetroute/fleetroute/pkg/concurrent"
	"github.com/fleetroute/fleetroute/pkg/geo"
	"gonum.org/v1/gonum/mat"
)

// Matrices holds the pairwise great-circle distances (miles) and the derived
// integer travel times (minutes) between every pair of locations.
type Matrices struct {
	distance *mat.Dense
	duration [][]int
	n        int
}

func (m *Matrices) Size() int {
	return m.n
}

func (m *Matrices) Distance(i, j int) float64 {
	return m.distance.At(i, j)
}

func (m *Matrices) Duration(i, j int) int {
	return m.duration[i][j]
}

func (m *Matrices) DistanceDense() *mat.Dense {
	return m.distance
}

// Build computes the full symmetric Haversine distance matrix and the
// duration matrix for the given average speed. Rows are computed in
// parallel, each job owns the unordered pairs (i, j>i) of one row.
func Build(coords []geo.Coordinate, avgSpeedMph float64) *Matrices {
	n := len(coords)
	distance := mat.NewDense(maxInt(n, 1), maxInt(n, 1), nil)

	numWorkers := runtime.GOMAXPROCS(0)
	pool := concurrent.NewWorkerPool[int, int](numWorkers, n)

	pool.Start(func(i int) int {
		for j := i + 1; j < n; j++ {
			dist := geo.CalculateHaversineDistance(coords[i].Lat, coords[i].Lon,
				coords[j].Lat, coords[j].Lon)
			distance.Set(i, j, dist)
			distance.Set(j, i, dist)
		}
		return i
	})

	for i := 0; i < n; i++ {
		pool.AddJob(i)
	}
	pool.Close()
	pool.Wait()
	for range pool.CollectResults() {
	}

	duration := make([][]int, n)
	for i := 0; i < n; i++ {
		duration[i] = make([]int, n)
		for j := 0; j < n; j++ {
			duration[i][j] = geo.MilesToMinutes(distance.At(i, j), avgSpeedMph)
		}
	}

	return &Matrices{
		distance: distance,
		duration: duration,
		n:        n,
	}
}

// DistanceRows returns the distance matrix as plain rows for serialization.
func (m *Matrices) DistanceRows() [][]float64 {
	rows := make([][]float64, m.n)
	for i := 0; i < m.n; i++ {
		rows[i] = make([]float64, m.n)
		copy(rows[i], m.distance.RawRowView(i))
	}
	return rows
}

// DurationRows returns the duration matrix as plain rows for serialization.
func (m *Matrices) DurationRows() [][]int {
	rows := make([][]int, m.n)
	for i := 0; i < m.n; i++ {
		rows[i] = make([]int, m.n)
		copy(rows[i], m.duration[i])
	}
	return rows
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
