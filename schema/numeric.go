package schema

import (
	"fmt"
	"math"

	"github.com/arihants/protoref/wire"
)

func floatBits(v float32) uint32     { return math.Float32bits(v) }
func doubleBits(v float64) uint64    { return math.Float64bits(v) }
func float32FromBits(v uint32) float32 { return math.Float32frombits(v) }
func float64FromBits(v uint64) float64 { return math.Float64frombits(v) }

func errUnterminatedGroup(num wire.Number) error {
	return fmt.Errorf("unterminated legacy group %d: end of buffer before ENDGROUP", num)
}

func errMismatchedGroupEnd(want, got wire.Number) error {
	return fmt.Errorf("mismatched legacy group end: expected ENDGROUP for field %d, got %d", want, got)
}
