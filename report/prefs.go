package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/ajroetker/kernelqa/qa"
)

// Preference is the implementation a dispatcher should pick for a kernel.
type Preference struct {
	Kernel    string `json:"kernel" yaml:"kernel"`
	Aligned   string `json:"aligned" yaml:"aligned"`
	Unaligned string `json:"unaligned" yaml:"unaligned"`
}

// Preferences derives one preference per result, keyed by the result's
// Config so puppets configure their master. A class with no passing
// implementation falls back to the reference implementation.
func Preferences(results []qa.TestResults) []Preference {
	prefs := make([]Preference, 0, len(results))
	for _, res := range results {
		prefs = append(prefs, Preference{
			Kernel:    res.Config,
			Aligned:   pick(res.BestAligned),
			Unaligned: pick(res.BestUnaligned),
		})
	}
	return prefs
}

func pick(s qa.Selection) string {
	if name, ok := s.Get(); ok {
		return name
	}
	return qa.ReferenceName
}

// WritePreferences writes one "kernel aligned unaligned" line per
// preference after a comment header.
func WritePreferences(w io.Writer, prefs []Preference) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "# kernel best_aligned best_unaligned")
	for _, p := range prefs {
		fmt.Fprintf(bw, "%s %s %s\n", p.Kernel, p.Aligned, p.Unaligned)
	}
	return bw.Flush()
}

// ReadPreferences parses a preferences file. Blank lines and lines starting
// with '#' are skipped; a later line for the same kernel wins.
func ReadPreferences(r io.Reader) (map[string]Preference, error) {
	prefs := make(map[string]Preference)
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) != 3 {
			return nil, fmt.Errorf("%w: preferences line %d: want 3 fields, got %d", ErrFormat, line, len(fields))
		}
		prefs[fields[0]] = Preference{Kernel: fields[0], Aligned: fields[1], Unaligned: fields[2]}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return prefs, nil
}
