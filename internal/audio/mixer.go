package audio

import (
	"math"
	"math/rand/v2"
	"sort"
)

// voice is one sounding drum hit.
type voice struct {
	drum  Drum
	gain  float64
	age   int64 // frames since the hit started
	phase float64
}

// trigger is a hit waiting for the frame it starts on.
type trigger struct {
	frame int64
	drum  Drum
	gain  float64
}

// mixer renders drum hits into interleaved 16-bit stereo. Its frame counter
// runs latency frames ahead of the audio clock: the device buffer holds that
// much rendered sound. Not safe for concurrent use.
type mixer struct {
	frame        int64
	latency      int64
	voices       []*voice
	pending      []trigger
	maxVoices    int
	masterVolume float64
	noise        *rand.Rand
}

func newMixer() *mixer {
	return &mixer{
		latency:      bufferFrames,
		maxVoices:    32,
		masterVolume: 0.5,
		noise:        rand.New(rand.NewPCG(1, 2)), //nolint:gosec // audio noise
	}
}

// seconds is the time of the next frame to be rendered.
func (m *mixer) seconds() float64 {
	return float64(m.frame) / sampleRate
}

// clock is the audio time in seconds of the frame the device is playing.
func (m *mixer) clock() float64 {
	return float64(max(m.frame-m.latency, 0)) / sampleRate
}

// scheduleAt queues a hit at audio time at. Hits whose frame has already
// been rendered start with the next one.
func (m *mixer) scheduleAt(id string, at, gain float64) {
	m.schedule(id, at+float64(m.latency)/sampleRate, gain)
}

// schedule queues a hit at mixer time at, in seconds. Hits in the past start
// with the next rendered frame.
func (m *mixer) schedule(id string, at, gain float64) {
	t := trigger{
		frame: int64(math.Round(at * sampleRate)),
		drum:  lookup(id),
		gain:  max(0, min(gain, 1)),
	}
	i := sort.Search(len(m.pending), func(i int) bool { return m.pending[i].frame > t.frame })
	m.pending = append(m.pending, trigger{})
	copy(m.pending[i+1:], m.pending[i:])
	m.pending[i] = t
}

func (m *mixer) start(t trigger) {
	v := &voice{drum: t.drum, gain: t.gain}
	if len(m.voices) < m.maxVoices {
		m.voices = append(m.voices, v)
		return
	}
	// Steal the oldest voice
	copy(m.voices, m.voices[1:])
	m.voices[len(m.voices)-1] = v
}

// silence drops every sounding and pending hit.
func (m *mixer) silence() {
	m.voices = nil
	m.pending = nil
}

// render fills buf with whole frames and advances the clock.
func (m *mixer) render(buf []byte) {
	frames := len(buf) / (channelCount * bitDepth)

	for i := 0; i < frames; i++ {
		for len(m.pending) > 0 && m.pending[0].frame <= m.frame {
			m.start(m.pending[0])
			m.pending = m.pending[1:]
		}

		var sample float64
		live := m.voices[:0]
		for _, v := range m.voices {
			s, done := m.next(v)
			sample += s
			if !done {
				live = append(live, v)
			}
		}
		m.voices = live

		sample *= m.masterVolume
		if sample > 1.0 {
			sample = 1.0
		} else if sample < -1.0 {
			sample = -1.0
		}

		sampleInt := int16(sample * 32767)
		idx := i * channelCount * bitDepth
		buf[idx] = byte(sampleInt)
		buf[idx+1] = byte(sampleInt >> 8)
		buf[idx+2] = byte(sampleInt)
		buf[idx+3] = byte(sampleInt >> 8)

		m.frame++
	}
}

// next returns a voice's next sample and whether it has decayed to silence.
func (m *mixer) next(v *voice) (float64, bool) {
	d := v.drum
	t := float64(v.age) / sampleRate
	env := math.Exp(-t / d.Decay)
	if env < 0.001 {
		return 0, true
	}

	var tone float64
	if d.Noise < 1 {
		freq := d.ToneEnd
		if d.Sweep > 0 {
			freq += (d.Tone - d.ToneEnd) * math.Exp(-t/d.Sweep)
		}
		tone = generateWave(d.Wave, v.phase)
		v.phase += freq / sampleRate
		if v.phase >= 1.0 {
			v.phase -= math.Floor(v.phase)
		}
	}
	var noise float64
	if d.Noise > 0 {
		noise = m.noise.Float64()*2 - 1
	}

	v.age++
	return ((1-d.Noise)*tone + d.Noise*noise) * env * d.Level * v.gain, false
}

func generateWave(waveType WaveType, phase float64) float64 {
	switch waveType {
	case WaveSine:
		return math.Sin(2 * math.Pi * phase)
	case WaveSquare:
		if phase < 0.5 {
			return 0.8
		}
		return -0.8
	case WaveSawtooth:
		return 2*phase - 1
	case WaveTriangle:
		if phase < 0.5 {
			return 4*phase - 1
		}
		return 3 - 4*phase
	default:
		return math.Sin(2 * math.Pi * phase)
	}
}
