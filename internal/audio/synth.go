// Package audio is a small drum synthesizer that plays on the system audio
// device through oto. Hits can be scheduled ahead of time and start on the
// sample their timestamp names, offset by the fixed device buffer latency.
package audio

import (
	"fmt"
	"sync"

	"github.com/ebitengine/oto/v3"

	"github.com/icco/drumseq/internal/debug"
)

const (
	sampleRate   = 44100
	channelCount = 2 // stereo
	bitDepth     = 2 // 16-bit
	frameBytes   = channelCount * bitDepth

	// bufferFrames is the player buffer, about 46ms. The player refills it in
	// chunks of this size, so it bounds both latency and clock jitter.
	bufferFrames = 2048
)

// Synth plays drum hits. It implements the sequencer's playback engine: the
// audio clock is the number of rendered frames less one device buffer.
type Synth struct {
	mu      sync.Mutex
	otoCtx  *oto.Context
	player  *oto.Player
	mix     *mixer
	running bool
	start   sync.Once
}

// NewSynth opens the audio device. Output starts on the first Init.
func NewSynth() (*Synth, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channelCount,
		Format:       oto.FormatSignedInt16LE,
	}

	otoCtx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("open audio device: %w", err)
	}
	<-readyChan

	return &Synth{
		otoCtx:  otoCtx,
		mix:     newMixer(),
		running: true,
	}, nil
}

// synthReader implements io.Reader for continuous audio generation
type synthReader struct {
	synth *Synth
}

func (r *synthReader) Read(buf []byte) (int, error) {
	s := r.synth
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(buf) - len(buf)%frameBytes
	if !s.running {
		clear(buf[:n])
		return n, nil
	}
	s.mix.render(buf[:n])
	return n, nil
}

// Init starts the output stream. Later calls do nothing.
func (s *Synth) Init() {
	s.start.Do(func() {
		// Play reads from the synth, so mu must not be held here.
		p := s.otoCtx.NewPlayer(&synthReader{synth: s})
		p.SetBufferSize(bufferFrames * frameBytes)
		p.Play()

		s.mu.Lock()
		s.player = p
		s.mu.Unlock()
	})
}

// Resume restarts a device suspended by the operating system.
func (s *Synth) Resume() {
	if err := s.otoCtx.Resume(); err != nil {
		debug.Log("audio", "resume: %v", err)
	}
}

// CurrentTime is the audio clock in seconds.
func (s *Synth) CurrentTime() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mix.clock()
}

// PlayInstrument schedules a hit of instrument id at audio time at with
// volume in [0, 1]. Unknown ids play the perc voice.
func (s *Synth) PlayInstrument(id string, at, volume float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mix.scheduleAt(id, at, volume)
}

// Trigger plays a hit immediately.
func (s *Synth) Trigger(id string, volume float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mix.schedule(id, s.mix.seconds(), volume)
}

// AllNotesOff stops all playing and scheduled hits.
func (s *Synth) AllNotesOff() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mix.silence()
}

// SetVolume sets the master volume (0.0 - 1.0)
func (s *Synth) SetVolume(vol float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mix.masterVolume = max(0, min(vol, 1))
}

// Close shuts down the synthesizer
func (s *Synth) Close() error {
	s.mu.Lock()
	s.running = false
	s.mix.silence()
	s.mu.Unlock()

	// As of oto v3.4 the player is reclaimed by the garbage collector.
	return nil
}
