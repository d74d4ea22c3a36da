// Package audio plays dictation clips through an external command-line
// player.
package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// ErrNoPlayer is returned when no player command is configured or found.
var ErrNoPlayer = errors.New("no audio player found (set REVIZIO_AUDIO_PLAYER)")

// candidates are tried in order when no command is configured. Each takes
// the clip path as its last argument.
var candidates = [][]string{
	{"mpv", "--no-video", "--really-quiet"},
	{"ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet"},
	{"afplay"},
	{"mpg123", "-q"},
}

// Player writes a clip to a temporary file and runs a player on it.
type Player struct {
	// Command is the configured player, split on spaces. Empty means
	// auto-detect.
	Command []string
	Timeout time.Duration

	lookPath func(string) (string, error)
}

// NewPlayer creates a player from a command line such as "mpv --no-video".
func NewPlayer(command string) *Player {
	return &Player{
		Command:  strings.Fields(command),
		Timeout:  2 * time.Minute,
		lookPath: exec.LookPath,
	}
}

// Resolve returns the command that Play would run, without the clip path.
func (p *Player) Resolve() ([]string, error) {
	if len(p.Command) > 0 {
		if _, err := p.lookPath(p.Command[0]); err != nil {
			return nil, fmt.Errorf("audio player %q: %w", p.Command[0], err)
		}
		return p.Command, nil
	}
	for _, c := range candidates {
		if _, err := p.lookPath(c[0]); err == nil {
			return c, nil
		}
	}
	return nil, ErrNoPlayer
}

// Play blocks until the clip has finished playing.
func (p *Player) Play(ctx context.Context, clip []byte) error {
	if len(clip) == 0 {
		return errors.New("empty audio clip")
	}
	argv, err := p.Resolve()
	if err != nil {
		return err
	}

	f, err := os.CreateTemp("", "revizio-dictee-*.mp3")
	if err != nil {
		return err
	}
	defer func() { f.Close(); os.Remove(f.Name()) }()
	if _, err := f.Write(clip); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}
	args := append(append([]string(nil), argv[1:]...), f.Name())
	cmd := exec.CommandContext(ctx, argv[0], args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s: %s", argv[0], msg)
		}
		return fmt.Errorf("%s: %w", argv[0], err)
	}
	return nil
}
