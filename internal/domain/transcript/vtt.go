// Package transcript turns downloaded WebVTT subtitles into plain text
// transcripts and analyses them: word-at-position statistics and line
// search with the specific-mode query matcher.
package transcript

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// BleepMarker is how auto-generated captions render a bleeped word.
const BleepMarker = "[&nbsp;__&nbsp;]"

// DefaultBleepWord replaces BleepMarker unless Options say otherwise.
const DefaultBleepWord = "FUCK"

// Options control VTT cleaning.
type Options struct {
	NoPunctuation bool            // strip punctuation except apostrophes
	Stopwords     map[string]bool // lower-cased words to drop; nil keeps all
	BleepWord     string          // replacement for BleepMarker
}

var (
	cueTiming  = regexp.MustCompile(`^\d{2}:\d{2}:\d{2}\.\d{3}`)
	annotation = regexp.MustCompile(`\[.*?\]`)
	markup     = regexp.MustCompile(`<.*?>|align:start position:0%|&gt;&gt;|>>|&gt;`)
	speaker    = regexp.MustCompile(`^\s*[A-Z]+\s*\d*\s*:\s*`)
	punct      = regexp.MustCompile(`[^\p{L}\p{N}_\s']`)
)

// Clean converts raw VTT lines into transcript lines. Headers, cue timings,
// annotations, inline tags and speaker labels are dropped, and consecutive
// duplicate lines (auto captions repeat every line once) are collapsed.
func Clean(lines []string, opts Options) []string {
	bleep := opts.BleepWord
	if bleep == "" {
		bleep = DefaultBleepWord
	}

	var (
		out  []string
		prev string
	)
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if skipLine(line) {
			continue
		}

		line = strings.ReplaceAll(line, BleepMarker, bleep)
		line = annotation.ReplaceAllString(line, "")
		line = markup.ReplaceAllString(line, "")
		line = speaker.ReplaceAllString(line, "")
		if opts.NoPunctuation {
			line = punct.ReplaceAllString(line, "")
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if opts.Stopwords != nil {
			line = dropStopwords(line, opts.Stopwords)
			if line == "" {
				continue
			}
		}

		if line != prev {
			out = append(out, line)
			prev = line
		}
	}
	return out
}

func skipLine(line string) bool {
	return line == "" ||
		line == "WEBVTT" ||
		strings.HasPrefix(line, "Kind:") ||
		strings.HasPrefix(line, "Language:") ||
		strings.HasPrefix(line, "NOTE") ||
		cueTiming.MatchString(line)
}

func dropStopwords(line string, stop map[string]bool) string {
	words := strings.Fields(line)
	kept := words[:0]
	for _, w := range words {
		if !stop[strings.ToLower(w)] {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " ")
}

// ConvertFile cleans one VTT file and writes the transcript to txtPath.
func ConvertFile(vttPath, txtPath string, opts Options) error {
	lines, err := readLines(vttPath)
	if err != nil {
		return err
	}
	cleaned := Clean(lines, opts)
	if err := os.WriteFile(txtPath, []byte(strings.Join(cleaned, "\n")), 0644); err != nil {
		return fmt.Errorf("write %s: %w", txtPath, err)
	}
	return nil
}

// ConvertResult reports a directory conversion.
type ConvertResult struct {
	Converted []string         // transcript paths written, sorted
	Failed    map[string]error // VTT path -> error
}

// ConvertDir converts every .vtt file in vttDir into a .txt file of the same
// base name in txtDir. A failing file does not stop the others.
func ConvertDir(ctx context.Context, vttDir, txtDir string, opts Options) (*ConvertResult, error) {
	vtts, err := ListFiles(vttDir, ".vtt")
	if err != nil {
		return nil, err
	}
	if len(vtts) == 0 {
		return nil, fmt.Errorf("no .vtt files in %s", vttDir)
	}
	if err := os.MkdirAll(txtDir, 0755); err != nil {
		return nil, err
	}

	res := &ConvertResult{Failed: make(map[string]error)}
	for _, vtt := range vtts {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		txt := TranscriptPath(txtDir, vtt)
		if err := ConvertFile(vtt, txt, opts); err != nil {
			res.Failed[vtt] = err
			continue
		}
		res.Converted = append(res.Converted, txt)
	}
	return res, nil
}

// TranscriptPath returns where the transcript of vttPath lives in txtDir:
// "Title [id].en.vtt" becomes "Title [id].en.txt".
func TranscriptPath(txtDir, vttPath string) string {
	base := filepath.Base(vttPath)
	return filepath.Join(txtDir, strings.TrimSuffix(base, filepath.Ext(base))+".txt")
}

// ListFiles returns the files in dir with extension ext, sorted by name.
func ListFiles(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ext) {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	sort.Strings(out)
	return out, nil
}

var bracketed = regexp.MustCompile(`\[([^\]]+)\]`)

// VideoIDFromFilename returns the content of the last [...] group in name,
// which is where downloads record the video ID.
func VideoIDFromFilename(name string) string {
	m := bracketed.FindAllStringSubmatch(name, -1)
	if len(m) == 0 {
		return ""
	}
	return m[len(m)-1][1]
}

// DefaultStopwords seeds a new stopword file.
const DefaultStopwords = "# Default stopwords\nthe\nand\nto\nof\na\nin\nis\nit\nyou\nthat\n"

// LoadStopwords reads one stopword per line. Blank lines and lines starting
// with '#' are ignored; words are lower-cased.
func LoadStopwords(r io.Reader) (map[string]bool, error) {
	words := make(map[string]bool)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if strings.HasPrefix(line, "#") {
			continue
		}
		if w := strings.ToLower(strings.TrimSpace(line)); w != "" {
			words[w] = true
		}
	}
	return words, sc.Err()
}

// LoadStopwordsFile reads a stopword file, creating it with
// DefaultStopwords first if it does not exist.
func LoadStopwordsFile(path string) (map[string]bool, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, err
		}
		if err := os.WriteFile(path, []byte(DefaultStopwords), 0644); err != nil {
			return nil, err
		}
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadStopwords(f)
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return lines, nil
}
