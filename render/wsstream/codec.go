package wsstream

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/plus3/fountain/particles"
)

// Magic opens every frame message.
const Magic = "PFF1"

const (
	// HeaderSize is the encoded size of a frame header in bytes.
	HeaderSize = 4 + 8 + 4 + 12 + 4 + 4 + 4
	// AttributeSize is the encoded size of one particle in bytes.
	AttributeSize = 7 * 4
)

// FlagComputedPointSize is set when the renderer should compute point sizes.
const FlagComputedPointSize uint32 = 1 << 0

var ErrBadFrame = errors.New("malformed frame")

// EncodeFrame appends a frame message to dst: the header followed by the
// attributes, little-endian.
func EncodeFrame(dst []byte, u particles.Uniforms, attrs []particles.Attribute) []byte {
	var flags uint32
	if u.ComputedPointSize {
		flags |= FlagComputedPointSize
	}

	dst = append(dst, Magic...)
	dst = binary.LittleEndian.AppendUint64(dst, u.Pass)
	dst = appendFloat(dst, u.Time)
	dst = appendFloat(dst, u.Acceleration.X(), u.Acceleration.Y(), u.Acceleration.Z())
	dst = appendFloat(dst, u.Lifespan)
	dst = binary.LittleEndian.AppendUint32(dst, flags)
	dst = binary.LittleEndian.AppendUint32(dst, uint32(len(attrs)))

	for _, a := range attrs {
		dst = appendFloat(dst, a.Position.X(), a.Position.Y(), a.Position.Z())
		dst = appendFloat(dst, a.Velocity.X(), a.Velocity.Y(), a.Velocity.Z())
		dst = appendFloat(dst, a.BirthTime)
	}
	return dst
}

func appendFloat(dst []byte, vs ...float32) []byte {
	for _, v := range vs {
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(v))
	}
	return dst
}

// DecodeFrame parses a message produced by EncodeFrame.
func DecodeFrame(b []byte) (particles.Uniforms, []particles.Attribute, error) {
	var u particles.Uniforms
	if len(b) < HeaderSize {
		return u, nil, fmt.Errorf("%w: %d byte header", ErrBadFrame, len(b))
	}
	if string(b[:4]) != Magic {
		return u, nil, fmt.Errorf("%w: magic %q", ErrBadFrame, b[:4])
	}

	r := reader{b: b[4:]}
	u.Pass = r.uint64()
	u.Time = r.float()
	u.Acceleration = [3]float32{r.float(), r.float(), r.float()}
	u.Lifespan = r.float()
	flags := r.uint32()
	u.ComputedPointSize = flags&FlagComputedPointSize != 0
	count := int(r.uint32())

	if len(r.b) != count*AttributeSize {
		return u, nil, fmt.Errorf("%w: %d particles in %d bytes", ErrBadFrame, count, len(r.b))
	}

	attrs := make([]particles.Attribute, count)
	for i := range attrs {
		attrs[i].Position = [3]float32{r.float(), r.float(), r.float()}
		attrs[i].Velocity = [3]float32{r.float(), r.float(), r.float()}
		attrs[i].BirthTime = r.float()
	}
	return u, attrs, nil
}

type reader struct {
	b []byte
}

func (r *reader) uint32() uint32 {
	v := binary.LittleEndian.Uint32(r.b)
	r.b = r.b[4:]
	return v
}

func (r *reader) uint64() uint64 {
	v := binary.LittleEndian.Uint64(r.b)
	r.b = r.b[8:]
	return v
}

func (r *reader) float() float32 {
	return math.Float32frombits(r.uint32())
}
