package event

import (
	"math"

	"github.com/jsphweid/eventrep/util"
)

func QuantizeVelocity(velocity, bins int) int {
	return util.Clamp(velocity*bins/128, 0, bins-1)
}

// DequantizeVelocity returns the center of the bin.
func DequantizeVelocity(bin, bins int) int {
	v := math.Round((float64(bin) + 0.5) * 128 / float64(bins))
	return util.Clamp(int(v), 0, 127)
}

// DecomposeTimeShift splits delta into shifts of at most maxShift, largest
// first. The shifts always sum to delta.
func DecomposeTimeShift(delta, maxShift int) []int {
	if delta <= 0 {
		return nil
	}
	shifts := make([]int, 0, delta/maxShift+1)
	for i := 0; i < delta/maxShift; i++ {
		shifts = append(shifts, maxShift)
	}
	if rem := delta % maxShift; rem > 0 {
		shifts = append(shifts, rem)
	}
	return shifts
}
