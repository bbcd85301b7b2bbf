package api

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kotubrief/book-api/tts"
)

func TestGenerateSummary(t *testing.T) {
	a, _ := newTestAPI(t)
	a.AI = &stubAI{reply: "A faithful summary."}

	w := doJSON(t, a, http.MethodPost, "/generate-summary", gin.H{
		"title":    "Dune",
		"author":   "Frank Herbert",
		"duration": "1min",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	res := decode(t, w)
	assert.Equal(t, "Dune", res["title"])
	assert.Equal(t, "1min", res["duration"])
	assert.EqualValues(t, 150, res["target_words"])
	assert.Equal(t, "A faithful summary.", res["summary"])
}

func TestGenerateSummaryBadInput(t *testing.T) {
	a, _ := newTestAPI(t)

	w := doJSON(t, a, http.MethodPost, "/generate-summary", gin.H{
		"title":  "Dune",
		"author": "Frank Herbert",
	}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Missing required fields", decode(t, w)["error"])

	w = doJSON(t, a, http.MethodPost, "/generate-summary", gin.H{
		"title":    "Dune",
		"author":   "Frank Herbert",
		"duration": "45min",
	}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid duration", decode(t, w)["error"])
}

func TestGenerateSummaryUpstreamFailure(t *testing.T) {
	a, _ := newTestAPI(t)
	a.AI = &stubAI{err: errors.New("upstream down")}

	w := doJSON(t, a, http.MethodPost, "/generate-summary", gin.H{
		"title":    "Dune",
		"author":   "Frank Herbert",
		"duration": "1min",
	}, nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to generate summary", decode(t, w)["error"])
}

func TestGenerateOwnSummary(t *testing.T) {
	a, _ := newTestAPI(t)
	a.AI = &stubAI{reply: "Condensed."}

	w := doJSON(t, a, http.MethodPost, "/generate-own-summary", gin.H{
		"description": "A long description of an obscure book.",
		"duration":    "10min",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	res := decode(t, w)
	assert.EqualValues(t, 1500, res["target_words"])
	assert.Equal(t, "Condensed.", res["summary"])
}

func TestAskQuestion(t *testing.T) {
	a, _ := newTestAPI(t)
	a.AI = &stubAI{reply: "Paul Atreides leads the Fremen."}

	w := doJSON(t, a, http.MethodPost, "/ask-question", gin.H{
		"title":    "Dune",
		"author":   "Frank Herbert",
		"summary":  "Desert planet politics.",
		"question": "Who leads the Fremen?",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Paul Atreides leads the Fremen.", decode(t, w)["answer"])

	w = doJSON(t, a, http.MethodPost, "/ask-question", gin.H{"title": "Dune"}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerateMCQs(t *testing.T) {
	a, _ := newTestAPI(t)

	// Models tend to wrap the array in prose or a code fence
	a.AI = &stubAI{reply: "Here is your quiz:\n```json\n[" +
		`{"question":"Q1","options":["a","b","c","d"],"correct":"a"},` +
		`{"question":"Q2","options":["e","f","g","h"],"correct":"h"}` +
		"]\n```"}

	w := doJSON(t, a, http.MethodPost, "/generate-mcqs", gin.H{
		"title":   "Dune",
		"author":  "Frank Herbert",
		"summary": "Desert planet politics.",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	mcqs, ok := decode(t, w)["mcqs"].([]any)
	require.True(t, ok)
	require.Len(t, mcqs, 2)

	first := mcqs[0].(map[string]any)
	assert.Equal(t, "Q1", first["question"])
	assert.Equal(t, "a", first["correct"])
	assert.Len(t, first["options"], 4)
}

func TestGenerateMCQsUnparseable(t *testing.T) {
	a, _ := newTestAPI(t)
	a.AI = &stubAI{reply: "I cannot produce a quiz right now."}

	w := doJSON(t, a, http.MethodPost, "/generate-mcqs", gin.H{
		"title":   "Dune",
		"author":  "Frank Herbert",
		"summary": "x",
	}, nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to generate MCQs", decode(t, w)["error"])
}

func TestParseMCQs(t *testing.T) {
	direct := `[{"question":"Q","options":["a","b","c","d"],"correct":"b"}]`

	mcqs, err := parseMCQs(direct)
	require.NoError(t, err)
	require.Len(t, mcqs, 1)
	assert.Equal(t, "b", mcqs[0].Correct)

	wrapped, err := parseMCQs("Sure! " + direct + " Enjoy.")
	require.NoError(t, err)
	require.Len(t, wrapped, 1)

	_, err = parseMCQs("no array here")
	require.Error(t, err)

	_, err = parseMCQs("[not json]")
	require.Error(t, err)
}

func TestGenerateTTS(t *testing.T) {
	a, _ := newTestAPI(t)
	a.TTS = &stubTTS{result: &tts.Result{Filename: "dune-1min.mp3", Seconds: 42}}

	w := doJSON(t, a, http.MethodPost, "/generate-tts", gin.H{
		"text":     "Some summary text to read aloud.",
		"title":    "Dune",
		"author":   "Frank Herbert",
		"duration": "1min",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	res := decode(t, w)
	assert.Equal(t, "http://localhost/audio/dune-1min.mp3", res["audio_url"])
	assert.EqualValues(t, 42, res["approx_audio_seconds"])

	w = doJSON(t, a, http.MethodPost, "/generate-tts", gin.H{"title": "Dune"}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Missing text for TTS", decode(t, w)["error"])
}

func TestAudioServe(t *testing.T) {
	a, _ := newTestAPI(t)

	dir := viper.GetString("tts.audio_dir")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sample.mp3"), []byte("mp3-bytes"), 0o644))

	w := doJSON(t, a, http.MethodGet, "/audio/sample.mp3", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "audio/mpeg", w.Header().Get("Content-Type"))
	assert.Equal(t, "mp3-bytes", w.Body.String())

	w = doJSON(t, a, http.MethodGet, "/audio/.hidden", nil, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
