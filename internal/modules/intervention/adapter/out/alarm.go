package out

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"sync"

	hclog "github.com/hashicorp/go-hclog"

	interventionout "focustree/internal/modules/intervention/port/out"
)

const (
	sampleRate  = 22050
	sweepFrom   = 600.0
	sweepTo     = 800.0
	sweepSec    = 0.5
	clipSec     = 2.0
	maxGain     = 0.5
	bitsPerSamp = 16
)

var errNoAudioPlayer = errors.New("no audio player found")

var (
	waveOnce sync.Once
	wave     []float64
)

// alarmWave is the unit-gain sawtooth: a 0.5s rise from 600 to 800 Hz, then
// 800 Hz for the rest of the clip. It is computed once per process.
func alarmWave() []float64 {
	waveOnce.Do(func() {
		n := int(clipSec * sampleRate)
		wave = make([]float64, n)
		phase := 0.0
		for i := range wave {
			t := float64(i) / sampleRate
			freq := sweepTo
			if t < sweepSec {
				freq = sweepFrom + (sweepTo-sweepFrom)*t/sweepSec
			}
			phase += freq / sampleRate
			phase -= math.Floor(phase)
			wave[i] = 2*phase - 1
		}
	})
	return wave
}

// Gain maps an alert volume of 0-100 onto the sample gain.
func Gain(volume int) float64 {
	g := float64(volume) / 100 * maxGain
	return math.Max(0, math.Min(g, maxGain))
}

// EncodeWAV renders samples as 16-bit mono PCM.
func EncodeWAV(samples []float64, gain float64) []byte {
	dataLen := len(samples) * bitsPerSamp / 8
	buf := bytes.NewBuffer(make([]byte, 0, 44+dataLen))
	buf.WriteString("RIFF")
	_ = binary.Write(buf, binary.LittleEndian, uint32(36+dataLen))
	buf.WriteString("WAVEfmt ")
	_ = binary.Write(buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(buf, binary.LittleEndian, uint16(1))
	_ = binary.Write(buf, binary.LittleEndian, uint16(1))
	_ = binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	_ = binary.Write(buf, binary.LittleEndian, uint32(sampleRate*bitsPerSamp/8))
	_ = binary.Write(buf, binary.LittleEndian, uint16(bitsPerSamp/8))
	_ = binary.Write(buf, binary.LittleEndian, uint16(bitsPerSamp))
	buf.WriteString("data")
	_ = binary.Write(buf, binary.LittleEndian, uint32(dataLen))
	for _, s := range samples {
		_ = binary.Write(buf, binary.LittleEndian, int16(s*gain*math.MaxInt16))
	}
	return buf.Bytes()
}

// ProcessAlarm loops the alarm clip through the first available command line
// player until stopped.
type ProcessAlarm struct {
	dir     string
	players []string
	log     hclog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewProcessAlarm(dir string, log hclog.Logger) *ProcessAlarm {
	return &ProcessAlarm{dir: dir, players: []string{"paplay", "aplay", "afplay"}, log: log}
}

var _ interventionout.Alarm = (*ProcessAlarm)(nil)

func (a *ProcessAlarm) Start(ctx context.Context, volume int) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cancel != nil {
		return nil
	}
	player, err := a.player()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return fmt.Errorf("create alarm dir: %w", err)
	}
	path := filepath.Join(a.dir, "alarm.wav")
	if err := os.WriteFile(path, EncodeWAV(alarmWave(), Gain(volume)), 0o644); err != nil {
		return fmt.Errorf("write alarm clip: %w", err)
	}

	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	a.cancel, a.done = cancel, done
	go func() {
		defer close(done)
		for loopCtx.Err() == nil {
			if err := exec.CommandContext(loopCtx, player, path).Run(); err != nil && loopCtx.Err() == nil {
				a.log.Warn("alarm playback failed", "player", player, "error", err)
				return
			}
		}
	}()
	return nil
}

func (a *ProcessAlarm) Stop() {
	a.mu.Lock()
	cancel, done := a.cancel, a.done
	a.cancel, a.done = nil, nil
	a.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (a *ProcessAlarm) player() (string, error) {
	for _, name := range a.players {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}
	return "", errNoAudioPlayer
}
