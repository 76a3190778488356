package model

import (
	"fmt"
	"hash/fnv"
	"strings"
)

// VehicleType identifies one of the supported vehicle categories.
type VehicleType string

const (
	VehicleCar     VehicleType = "car"
	VehicleBike    VehicleType = "bike"
	VehicleScooter VehicleType = "scooter"
	VehicleBus     VehicleType = "bus"
)

var evModels = map[VehicleType]string{
	VehicleCar:     "Model A",
	VehicleBike:    "Model B",
	VehicleScooter: "Model C",
	VehicleBus:     "Model D",
}

// VehicleTypes returns the supported types in declaration order.
func VehicleTypes() []VehicleType {
	return []VehicleType{VehicleCar, VehicleBike, VehicleScooter, VehicleBus}
}

// VehicleTypeNames returns the supported type names in declaration order.
func VehicleTypeNames() []string {
	types := VehicleTypes()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return names
}

// ParseVehicleType validates s against the supported set, case-insensitively.
// The error names the valid options.
func ParseVehicleType(s string) (VehicleType, error) {
	vt := VehicleType(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := evModels[vt]; !ok {
		return "", fmt.Errorf("invalid vehicle type %q, valid types: %v", s, VehicleTypeNames())
	}
	return vt, nil
}

// EVModel returns the cosmetic model label mapped to the vehicle type.
func (v VehicleType) EVModel() string { return evModels[v] }

// Seed derives a deterministic random seed from the vehicle type string, so the
// same type always yields the same synthetic baseline within a process.
func (v VehicleType) Seed() int64 {
	h := fnv.New64a()
	h.Write([]byte(v))
	return int64(h.Sum64())
}

// Title returns the type name with the first letter upper-cased, used in chart
// titles.
func (v VehicleType) Title() string {
	if v == "" {
		return ""
	}
	return strings.ToUpper(string(v[0])) + string(v[1:])
}
