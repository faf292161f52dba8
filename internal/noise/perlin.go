// Package noise provides the deterministic Perlin and white-noise sources
// the terrain generator samples. The Perlin implementation is a gradient
// noise generator in the style of dantero-ps-mini-mc-go's
// internal/world/noise_authentic.go (itself a port of Minecraft 1.8.9's
// NoiseGeneratorImproved), generalized from that file's 2-D/3-D
// PopulateNoiseArray batch API into point-sampling Eval2/Eval3 calls the
// terrain generator drives per-column, and re-seeded from a
// github.com/segmentio/fasthash/fnv1a hash instead of Go's math/rand so
// that every noise source is reproducible purely from (worldSeed, offset)
// with no RNG-stream state to keep in sync across goroutines.
package noise

import (
	"github.com/chewxy/math32"
	"github.com/segmentio/fasthash/fnv1a"
)

var (
	gradX = [16]float32{1, -1, 1, -1, 1, -1, 1, -1, 0, 0, 0, 0, 1, 0, -1, 0}
	gradY = [16]float32{1, 1, -1, -1, 0, 0, 0, 0, 1, -1, 1, -1, 1, -1, 1, -1}
	gradZ = [16]float32{0, 0, 0, 0, 1, 1, -1, -1, 1, 1, -1, -1, 0, 1, 0, -1}
)

// Perlin is a single-octave gradient noise source with a fixed permutation
// table derived deterministically from a seed.
type Perlin struct {
	perm [512]int
}

// NewPerlin builds a permutation table by Fisher-Yates shuffling 0..255
// using fnv1a-hashed counters as the shuffle's random stream, so the same
// seed always yields the same table with no dependency on math/rand's
// algorithm (which Go does not guarantee to be stable across versions).
func NewPerlin(seed uint64) *Perlin {
	p := &Perlin{}
	for i := 0; i < 256; i++ {
		p.perm[i] = i
	}
	for i := 255; i > 0; i-- {
		h := fnv1a.HashUint64(seed ^ uint64(i)*0x9E3779B97F4A7C15)
		j := int(h % uint64(i+1))
		p.perm[i], p.perm[j] = p.perm[j], p.perm[i]
	}
	for i := 0; i < 256; i++ {
		p.perm[i+256] = p.perm[i]
	}
	return p
}

func fade(t float32) float32 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(t, a, b float32) float32 {
	return a + t*(b-a)
}

func (p *Perlin) grad2(hash int, x, z float32) float32 {
	i := hash & 15
	return gradX[i]*x + gradZ[i]*z
}

func (p *Perlin) grad3(hash int, x, y, z float32) float32 {
	i := hash & 15
	return gradX[i]*x + gradY[i]*y + gradZ[i]*z
}

func floorInt(v float32) int {
	return int(math32.Floor(v))
}

// Eval2 samples 2-D noise at (x,z), returning a value in roughly [-1,1].
func (p *Perlin) Eval2(x, z float32) float32 {
	flx := floorInt(x)
	flz := floorInt(z)
	ix := flx & 255
	iz := flz & 255
	fx := x - float32(flx)
	fz := z - float32(flz)
	u := fade(fx)
	w := fade(fz)

	a := p.perm[ix] + iz
	b := p.perm[ix+1] + iz

	n00 := p.grad2(p.perm[a], fx, fz)
	n10 := p.grad2(p.perm[b], fx-1, fz)
	n01 := p.grad2(p.perm[a+1], fx, fz-1)
	n11 := p.grad2(p.perm[b+1], fx-1, fz-1)

	return lerp(w, lerp(u, n00, n10), lerp(u, n01, n11))
}

// Eval3 samples 3-D noise at (x,y,z).
func (p *Perlin) Eval3(x, y, z float32) float32 {
	flx := floorInt(x)
	fly := floorInt(y)
	flz := floorInt(z)
	ix := flx & 255
	iy := fly & 255
	iz := flz & 255
	fx := x - float32(flx)
	fy := y - float32(fly)
	fz := z - float32(flz)
	u := fade(fx)
	v := fade(fy)
	w := fade(fz)

	a := p.perm[ix] + iy
	aa := p.perm[a] + iz
	ab := p.perm[a+1] + iz
	b := p.perm[ix+1] + iy
	ba := p.perm[b] + iz
	bb := p.perm[b+1] + iz

	return lerp(w,
		lerp(v,
			lerp(u, p.grad3(p.perm[aa], fx, fy, fz), p.grad3(p.perm[ba], fx-1, fy, fz)),
			lerp(u, p.grad3(p.perm[ab], fx, fy-1, fz), p.grad3(p.perm[bb], fx-1, fy-1, fz))),
		lerp(v,
			lerp(u, p.grad3(p.perm[aa+1], fx, fy, fz-1), p.grad3(p.perm[ba+1], fx-1, fy, fz-1)),
			lerp(u, p.grad3(p.perm[ab+1], fx, fy-1, fz-1), p.grad3(p.perm[bb+1], fx-1, fy-1, fz-1))))
}

// Octaves layers N perlin sources at increasing frequency and decreasing
// amplitude, the fractal-Brownian-motion shape
// AuthenticNoiseGeneratorOctaves uses, but as independently-seeded point
// samplers rather than a batch array generator.
type Octaves struct {
	layers      []*Perlin
	persistence float32
	lacunarity  float32
}

// NewOctaves builds an N-layer fBm source. Each layer gets its own
// permutation table seeded from seed mixed with the layer index, so octaves
// never share gradients.
func NewOctaves(seed uint64, octaves int, persistence, lacunarity float32) *Octaves {
	o := &Octaves{
		layers:      make([]*Perlin, octaves),
		persistence: persistence,
		lacunarity:  lacunarity,
	}
	for i := range o.layers {
		o.layers[i] = NewPerlin(fnv1a.HashUint64(seed ^ (uint64(i)*0x100000001B3 + 1)))
	}
	return o
}

// Eval2 samples the octave stack at (x,z) scaled by scale (a larger scale
// stretches features wider), returning a value roughly in [-amplitudeSum,
// amplitudeSum] — callers that need [0,1] should call Normalized2.
func (o *Octaves) Eval2(x, z, scale float32) float32 {
	var sum, amp, freq float32 = 0, 1, 1
	for _, layer := range o.layers {
		sum += layer.Eval2(x/scale*freq, z/scale*freq) * amp
		amp *= o.persistence
		freq *= o.lacunarity
	}
	return sum
}

// Eval3 is the 3-D analogue of Eval2.
func (o *Octaves) Eval3(x, y, z, scale float32) float32 {
	var sum, amp, freq float32 = 0, 1, 1
	for _, layer := range o.layers {
		sum += layer.Eval3(x/scale*freq, y/scale*freq, z/scale*freq) * amp
		amp *= o.persistence
		freq *= o.lacunarity
	}
	return sum
}

// maxAmplitude returns the theoretical maximum |sum| across all octaves,
// used to renormalize raw fBm output into [0,1] or [-1,1].
func (o *Octaves) maxAmplitude() float32 {
	var sum, amp float32 = 0, 1
	for range o.layers {
		sum += amp
		amp *= o.persistence
	}
	if sum == 0 {
		return 1
	}
	return sum
}

// Normalized2 is Eval2 renormalized to [0,1].
func (o *Octaves) Normalized2(x, z, scale float32) float32 {
	return (o.Signed2(x, z, scale) + 1) / 2
}

// Signed2 is Eval2 renormalized to roughly [-1,1].
func (o *Octaves) Signed2(x, z, scale float32) float32 {
	return o.Eval2(x, z, scale) / o.maxAmplitude()
}

// Smoothstep applies the classic cubic smoothstep curve to a value assumed
// to be in [-1,1], returning a value in [-1,1] with flattened extremes.
func Smoothstep(t float32) float32 {
	x := (t + 1) / 2
	s := x * x * (3 - 2*x)
	return s*2 - 1
}

// SmoothStart5 is a quintic ease-in curve over [0,1]: small inputs are
// pushed toward zero faster than linear.
func SmoothStart5(t float32) float32 {
	return t * t * t * t * t
}

// Remap linearly maps v from [inLo,inHi] to [outLo,outHi], without
// clamping — callers that need the endpoints held must clamp first.
func Remap(v, inLo, inHi, outLo, outHi float32) float32 {
	t := (v - inLo) / (inHi - inLo)
	return outLo + t*(outHi-outLo)
}

// Clamp01 restricts v to [0,1].
func Clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
