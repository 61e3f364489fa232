package voices

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"sort"
	"strings"
)

// Voice is one espeak-ng voice entry.
type Voice struct {
	Language string
	Name     string
}

// Lister handles listing available espeak-ng languages
type Lister struct {
	binary string
	run    func(ctx context.Context, binary string, args ...string) (string, error)
}

// NewLister creates a new language lister
func NewLister(binary string) *Lister {
	if binary == "" {
		binary = "espeak-ng"
	}
	return &Lister{binary: binary, run: runCommand}
}

// Voices returns the voices reported by espeak-ng, sorted by language.
func (l *Lister) Voices(ctx context.Context) ([]Voice, error) {
	out, err := l.run(ctx, l.binary, "--voices")
	if err != nil {
		return nil, fmt.Errorf("failed to list voices: %w", err)
	}
	voices := parseVoices(out)
	sort.Slice(voices, func(i, j int) bool {
		return voices[i].Language < voices[j].Language
	})
	return voices, nil
}

// ListAvailableLanguages prints all languages with their voice names
func (l *Lister) ListAvailableLanguages(ctx context.Context, w io.Writer) error {
	voices, err := l.Voices(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "Available espeak-ng languages:")
	if len(voices) == 0 {
		fmt.Fprintln(w, "  No languages found")
		return nil
	}
	for _, v := range voices {
		fmt.Fprintf(w, "  %-12s %s\n", v.Language, v.Name)
	}
	return nil
}

// parseVoices reads the table printed by "espeak-ng --voices":
//
//	Pty Language       Age/Gender VoiceName          File                 Other Languages
//	 5  af              --/M      Afrikaans          gmw/af
func parseVoices(out string) []Voice {
	var voices []Voice
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 4 || fields[0] == "Pty" {
			continue
		}
		voices = append(voices, Voice{
			Language: fields[1],
			Name:     strings.ReplaceAll(fields[3], "_", " "),
		})
	}
	return voices
}

func runCommand(ctx context.Context, binary string, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, binary, args...).Output()
	if err != nil {
		return "", err
	}
	return string(out), nil
}
