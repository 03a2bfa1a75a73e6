package pkg

const (
	// first row of every location CSV is the depot
	DepotIndex = 0

	EarthRadiusMiles = 3956.0

	DefaultNumVehicles      = 10
	DefaultVehicleCapacity  = 20
	DefaultServiceTime      = 60   // minutes per customer stop
	DefaultWindowStart      = 540  // 09:00, minutes from midnight
	DefaultWindowEnd        = 1020 // 17:00
	DefaultAvgSpeedMph      = 30.0
	DefaultMaxRuntimeSecond = 60

	// hard cap on parsed CSV rows
	MaxLocations = 5000

	// bounded in-memory solution store
	MaxStoredSolutions = 256
)

const (
	DEBUG = false
)
