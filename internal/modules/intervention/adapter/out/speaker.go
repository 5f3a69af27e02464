package out

import (
	"context"
	"errors"
	"os/exec"
	"runtime"
	"strconv"
	"sync"

	"focustree/internal/modules/intervention/domain"
	interventionout "focustree/internal/modules/intervention/port/out"
)

const (
	baseWordsPerMinute = 175
	espeakBasePitch    = 50
)

var errNoSpeech = errors.New("no speech synthesizer found")

// ProcessSpeaker speaks through espeak on Linux and say on macOS.
type ProcessSpeaker struct {
	mu      sync.Mutex
	current *exec.Cmd
	cancel  context.CancelFunc
}

func NewProcessSpeaker() *ProcessSpeaker {
	return &ProcessSpeaker{}
}

var _ interventionout.Speaker = (*ProcessSpeaker)(nil)

func (s *ProcessSpeaker) Speak(ctx context.Context, text string, voice domain.Voice) error {
	name, args := speechCommand(runtime.GOOS, text, voice)
	if _, err := exec.LookPath(name); err != nil {
		return errNoSpeech
	}
	s.Stop()

	speakCtx, cancel := context.WithCancel(ctx)
	cmd := exec.CommandContext(speakCtx, name, args...)
	if err := cmd.Start(); err != nil {
		cancel()
		return err
	}
	s.mu.Lock()
	s.current, s.cancel = cmd, cancel
	s.mu.Unlock()
	go func() {
		_ = cmd.Wait()
		s.mu.Lock()
		if s.current == cmd {
			s.current, s.cancel = nil, nil
		}
		s.mu.Unlock()
		cancel()
	}()
	return nil
}

// Stop cuts off the utterance in progress.
func (s *ProcessSpeaker) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.current, s.cancel = nil, nil
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func speechCommand(goos, text string, v domain.Voice) (string, []string) {
	wpm := strconv.Itoa(int(baseWordsPerMinute * v.Rate))
	if goos == "darwin" {
		return "say", []string{"-r", wpm, text}
	}
	pitch := int(espeakBasePitch * v.Pitch)
	if pitch > 99 {
		pitch = 99
	}
	return "espeak", []string{"-s", wpm, "-p", strconv.Itoa(pitch), text}
}
