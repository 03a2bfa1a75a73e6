package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fleetroute/fleetroute/pkg/loader"
	"github.com/fleetroute/fleetroute/pkg/logger"
	"github.com/fleetroute/fleetroute/pkg/render"
	"github.com/fleetroute/fleetroute/pkg/util"
	"github.com/fleetroute/fleetroute/pkg/vrptw"
)

var (
	csvFile          = flag.String("csv", "", "location csv (name,address,latitude,longitude), first row is the depot")
	numVehicles      = flag.Int("vehicles", 10, "number of available vehicles")
	vehicleCapacity  = flag.Int("capacity", 20, "customers per vehicle")
	serviceTime      = flag.Int("service", 60, "service time per stop in minutes")
	windowStart      = flag.Int("window_start", 540, "earliest service start, minutes from midnight")
	windowEnd        = flag.Int("window_end", 1020, "latest service start, minutes from midnight")
	maxRouteDuration = flag.Int("max_route_duration", 0, "max minutes per route, 0 = window length")
	avgSpeedMph      = flag.Float64("speed", 30, "average driving speed in mph")
	maxRuntimeSec    = flag.Int("budget", 60, "solver wall-clock budget in seconds")
	numLocations     = flag.Int("limit", 0, "use only the first N locations, 0 = all")
	outJSON          = flag.String("out_json", "", "write the solution json here")
	outMap           = flag.String("out_map", "", "write the solution html map here")
)

func main() {
	flag.Parse()
	if *csvFile == "" {
		fmt.Fprintln(os.Stderr, "usage: solve -csv locations.csv [flags]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	log, err := logger.New()
	if err != nil {
		panic(err)
	}

	locations, err := loader.ReadLocationsFromFile(*csvFile, *numLocations)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	params := vrptw.Params{
		NumVehicles:      *numVehicles,
		VehicleCapacity:  *vehicleCapacity,
		ServiceTime:      *serviceTime,
		WindowStart:      *windowStart,
		WindowEnd:        *windowEnd,
		MaxRouteDuration: *maxRouteDuration,
		AvgSpeedMph:      *avgSpeedMph,
		MaxRuntime:       time.Duration(*maxRuntimeSec) * time.Second,
	}

	prob, err := vrptw.NewProblem(locations, params)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Printf("Loaded %d locations (1 depot + %d customers)\n", len(locations), prob.NumCustomers())
	fmt.Printf("Vehicles: %d, capacity: %d, service: %d min, window: %s - %s, speed: %.0f mph, budget: %ds\n",
		params.NumVehicles, params.VehicleCapacity, params.ServiceTime,
		util.MinutesToClock(params.WindowStart), util.MinutesToClock(params.WindowEnd),
		params.AvgSpeedMph, *maxRuntimeSec)

	solver := vrptw.NewSolver(log, time.Now().UnixNano())
	sol, err := solver.Solve(context.Background(), prob)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	summary := vrptw.NewSummary(prob, sol)
	printSummary(summary)

	if *outJSON != "" {
		if err := writeJSONFile(*outJSON, summary); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Printf("Solution saved to %s\n", *outJSON)
	}
	if *outMap != "" {
		if err := writeMapFile(*outMap, summary); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Printf("Map saved to %s\n", *outMap)
	}
}

func printSummary(summary *vrptw.Summary) {
	if !summary.Feasible {
		fmt.Println("\nNo fully feasible solution found, returning best effort.")
		fmt.Println("Try more vehicles, a larger capacity, a wider time window or less service time.")
	}
	fmt.Printf("\nRoutes: %d\n", summary.NumRoutes)
	fmt.Printf("Total distance: %.2f miles\n", summary.TotalDistance)
	fmt.Printf("Total duration: %d minutes (%dh %dm)\n",
		summary.TotalDuration, summary.TotalDuration/60, summary.TotalDuration%60)
	fmt.Printf("Customers served: %d / %d\n", summary.CustomersServed(), len(summary.Locations)-1)

	for i, route := range summary.Routes {
		fmt.Printf("\nRoute %d:\n", i+1)
		fmt.Printf("  Customers: %d\n", len(route.Visits))
		fmt.Printf("  Distance: %.2f miles\n", route.Distance)
		fmt.Printf("  Duration: %d minutes\n", route.Duration)
		fmt.Printf("  Path: %s\n", strings.Join(route.Locations, " -> "))
	}
}

func writeJSONFile(path string, summary *vrptw.Summary) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(summary)
}

func writeMapFile(path string, summary *vrptw.Summary) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return render.WriteMapHTML(f, summary)
}
