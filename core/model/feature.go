package model

import "math"

// Feature describes one battery parameter and the range its values fall in.
// The range drives synthetic value generation when no dataset is available.
type Feature struct {
	Name string
	Min  float64
	Max  float64
}

// Features is the ordered battery parameter set served by the API. Ordering is
// significant: table rows and chart groups follow it.
var Features = []Feature{
	{Name: "SOC (%)", Min: 20, Max: 100},
	{Name: "Voltage (V)", Min: 300, Max: 420},
	{Name: "Current (A)", Min: 10, Max: 150},
	{Name: "Battery Temp (°C)", Min: 15, Max: 45},
	{Name: "Ambient Temp (°C)", Min: -5, Max: 40},
	{Name: "Charging Duration (min)", Min: 15, Max: 180},
	{Name: "Degradation Rate (%)", Min: 0, Max: 15},
	{Name: "Efficiency (%)", Min: 80, Max: 99},
	{Name: "Charging Cycles", Min: 50, Max: 1500},
}

// FeatureNames returns the parameter names in serving order.
func FeatureNames() []string {
	names := make([]string, len(Features))
	for i, f := range Features {
		names[i] = f.Name
	}
	return names
}

// Round rounds v to four decimal places, the precision used in API responses.
func Round(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}
