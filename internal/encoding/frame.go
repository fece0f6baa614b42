package encoding

import (
	"encoding/binary"
	"fmt"
	"math"
)

// AppendFrame appends signal to dst as little-endian float32 values, the
// wire format of websocket and NATS chunk frames.
func AppendFrame(dst []byte, signal []float64) []byte {
	for _, v := range signal {
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(float32(v)))
	}
	return dst
}

// EncodeFrame returns signal as a new frame
func EncodeFrame(signal []float64) []byte {
	return AppendFrame(make([]byte, 0, 4*len(signal)), signal)
}

// DecodeFrame parses a frame produced by EncodeFrame
func DecodeFrame(data []byte) ([]float32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("frame length %d is not a multiple of 4", len(data))
	}
	out := make([]float32, len(data)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return out, nil
}
