// Package tts synthesizes summary text into mp3 files served from the
// audio directory
package tts

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Audio files are named after content, so re-requesting the same text
// reuses the file instead of synthesizing again.
type Result struct {
	Filename string
	Path     string
	Seconds  int
}

// Synthesizer is the narrow synthesis capability the handlers depend
// on. Tests substitute a stub that writes a placeholder file.
type Synthesizer interface {
	Synthesize(text, title, author, durationKey string) (*Result, error)
}

type HTTPSynthesizer struct {
	hc *http.Client
}

func NewHTTP() *HTTPSynthesizer {
	return &HTTPSynthesizer{
		hc: &http.Client{Timeout: 60 * time.Second},
	}
}

var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slug lowercases s and collapses anything non-alphanumeric to dashes.
func Slug(s string) string {
	s = strings.Trim(slugRe.ReplaceAllString(strings.ToLower(s), "-"), "-")
	if s == "" {
		return "audio"
	}

	return s
}

// ApproxSeconds estimates playback length at 150 words per minute.
func ApproxSeconds(text string) int {
	words := len(strings.Fields(text))
	if words < 1 {
		words = 1
	}

	return int(math.Ceil(float64(words) / 150 * 60))
}

// Filename derives the deterministic audio file name for a text.
func Filename(text, title, author, durationKey string) string {
	sum := sha256.Sum256([]byte(text))
	digest := hex.EncodeToString(sum[:])[:12]

	return fmt.Sprintf("%s-%s-%s-%s.mp3", Slug(title), Slug(author), durationKey, digest)
}

// The upstream endpoint caps input length per request, so long texts
// are synthesized chunk by chunk and concatenated. MP3 frames are
// self-contained which makes plain byte concatenation valid.
const chunkRunes = 180

func (s *HTTPSynthesizer) Synthesize(text, title, author, durationKey string) (*Result, error) {
	dir := viper.GetString("tts.audio_dir")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	fname := Filename(text, title, author, durationKey)
	fpath := filepath.Join(dir, fname)

	if _, err := os.Stat(fpath); err == nil {
		return &Result{Filename: fname, Path: fpath, Seconds: ApproxSeconds(text)}, nil
	}

	tmp, err := os.CreateTemp(dir, fname+".tmp")
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp.Name())

	for _, chunk := range splitChunks(text, chunkRunes) {
		if err := s.fetchChunk(chunk, tmp); err != nil {
			tmp.Close()
			return nil, err
		}
	}

	if err := tmp.Close(); err != nil {
		return nil, err
	}

	if err := os.Rename(tmp.Name(), fpath); err != nil {
		return nil, err
	}

	return &Result{Filename: fname, Path: fpath, Seconds: ApproxSeconds(text)}, nil
}

func (s *HTTPSynthesizer) fetchChunk(chunk string, w io.Writer) error {
	q := url.Values{}
	q.Set("ie", "UTF-8")
	q.Set("client", "tw-ob")
	q.Set("tl", viper.GetString("tts.lang"))
	q.Set("q", chunk)

	resp, err := s.hc.Get(viper.GetString("tts.endpoint") + "?" + q.Encode())
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("tts endpoint returned status %d", resp.StatusCode)
	}

	_, err = io.Copy(w, resp.Body)
	return err
}

// splitChunks breaks text into rune-bounded pieces, preferring to cut
// at whitespace so words aren't split mid-way.
func splitChunks(text string, size int) []string {
	var chunks []string

	runes := []rune(strings.TrimSpace(text))
	for len(runes) > 0 {
		if len(runes) <= size {
			chunks = append(chunks, string(runes))
			break
		}

		cut := size
		for i := size; i > size/2; i-- {
			if runes[i] == ' ' || runes[i] == '\n' {
				cut = i
				break
			}
		}

		chunks = append(chunks, strings.TrimSpace(string(runes[:cut])))
		runes = runes[cut:]
		for len(runes) > 0 && (runes[0] == ' ' || runes[0] == '\n') {
			runes = runes[1:]
		}
	}

	return chunks
}
