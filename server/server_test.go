package server

import (
	"bytes"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fretnote/trainer"
)

type sessionJSON struct {
	ID        string         `json:"id"`
	Config    trainer.Config `json:"config"`
	Completed int            `json:"completed"`
	Snapshot  struct {
		Round trainer.Round `json:"round"`
		Phase string        `json:"phase"`
	} `json:"snapshot"`
	Layout struct {
		Current int `json:"current"`
		Glyphs  []struct {
			Name   string `json:"name"`
			Status string `json:"status"`
		} `json:"glyphs"`
	} `json:"layout"`
}

type answerJSON struct {
	Outcome trainer.Outcome `json:"outcome"`
	Session sessionJSON     `json:"session"`
}

// newTestServer advances rounds immediately instead of after the pause
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	s := New(trainer.DefaultConfig(), []string{"*"},
		trainer.WithRand(rand.New(rand.NewSource(3))),
		trainer.WithScheduler(trainer.SchedulerFunc(func(_ time.Duration, fn func()) { fn() })),
	)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, method, url string, body any, out any) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func create(t *testing.T, ts *httptest.Server) sessionJSON {
	t.Helper()
	var s sessionJSON
	require.Equal(t, http.StatusCreated, do(t, "POST", ts.URL+"/sessions", nil, &s))
	return s
}

func TestCreateSession(t *testing.T) {
	ts := newTestServer(t)
	s := create(t, ts)

	assert.NotEmpty(t, s.ID)
	assert.Equal(t, trainer.DefaultConfig(), s.Config)
	assert.Len(t, s.Snapshot.Round.Notes, trainer.RoundSize)
	assert.Equal(t, "in-progress", s.Snapshot.Phase)
	require.Len(t, s.Layout.Glyphs, trainer.RoundSize)
	assert.Equal(t, "current", s.Layout.Glyphs[0].Status)
	assert.Equal(t, "pending", s.Layout.Glyphs[1].Status)
	assert.Equal(t, 0, s.Layout.Current)
}

func TestCreateWithConfig(t *testing.T) {
	ts := newTestServer(t)

	var s sessionJSON
	cfg := trainer.Config{MinFret: 5, MaxFret: 7, InputMode: trainer.ModeFretboard}
	require.Equal(t, http.StatusCreated, do(t, "POST", ts.URL+"/sessions", cfg, &s))
	assert.Equal(t, cfg, s.Config)

	var e ErrorResponse
	bad := trainer.Config{MinFret: 5, MaxFret: 2, InputMode: trainer.ModePicker}
	assert.Equal(t, http.StatusBadRequest, do(t, "POST", ts.URL+"/sessions", bad, &e))
	assert.Contains(t, e.Error, "invalid fret range")
}

func TestFullRoundOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	s := create(t, ts)
	url := ts.URL + "/sessions/" + s.ID + "/answers"

	for i := 0; i < trainer.RoundSize; i++ {
		target := s.Snapshot.Round.Notes[s.Snapshot.Round.Index].Pitch
		var a answerJSON
		require.Equal(t, http.StatusOK, do(t, "POST", url, map[string]int{"pitch": int(target)}, &a))
		assert.Equal(t, trainer.Correct, a.Outcome.Verdict)
		assert.Equal(t, target, a.Outcome.Guess)
		s = a.Session
	}

	// the immediate scheduler already dealt the next round
	assert.Equal(t, 1, s.Completed)
	assert.Equal(t, 0, s.Snapshot.Round.Index)
	assert.Equal(t, "in-progress", s.Snapshot.Phase)
}

func TestAnswerErrors(t *testing.T) {
	ts := newTestServer(t)
	s := create(t, ts)
	url := ts.URL + "/sessions/" + s.ID + "/answers"

	target := s.Snapshot.Round.Notes[0].Pitch
	var a answerJSON
	require.Equal(t, http.StatusOK, do(t, "POST", url, map[string]int{"pitch": int(target) + 1}, &a))
	assert.Equal(t, trainer.Incorrect, a.Outcome.Verdict)
	assert.Equal(t, 0, a.Session.Snapshot.Round.Index)

	var e ErrorResponse
	assert.Equal(t, http.StatusBadRequest, do(t, "POST", url, map[string]int{"string": 7, "fret": 0}, &e))
	assert.Contains(t, e.Error, "invalid coordinate")

	assert.Equal(t, http.StatusBadRequest, do(t, "POST", url, map[string]int{"fret": 2}, &e))
	assert.Equal(t, http.StatusNotFound, do(t, "POST", ts.URL+"/sessions/nope/answers", map[string]int{"pitch": 40}, &e))
	assert.Contains(t, e.Error, "session not found")
}

func TestConfigAndNext(t *testing.T) {
	ts := newTestServer(t)
	s := create(t, ts)
	base := ts.URL + "/sessions/" + s.ID

	var got sessionJSON
	require.Equal(t, http.StatusOK, do(t, "PUT", base+"/config", map[string]int{"minFret": 12, "maxFret": 15}, &got))
	assert.Equal(t, 12, got.Config.MinFret)
	assert.Equal(t, 15, got.Config.MaxFret)
	assert.Equal(t, trainer.ModePicker, got.Config.InputMode)

	var e ErrorResponse
	assert.Equal(t, http.StatusBadRequest, do(t, "PUT", base+"/config", map[string]int{"maxFret": 16}, &e))
	assert.Equal(t, http.StatusBadRequest, do(t, "PUT", base+"/config", map[string]string{"inputMode": "harp"}, &e))

	require.Equal(t, http.StatusOK, do(t, "GET", base, nil, &got))
	assert.Equal(t, 15, got.Config.MaxFret)

	require.Equal(t, http.StatusOK, do(t, "POST", base+"/next", nil, &got))
	assert.Len(t, got.Snapshot.Round.Notes, trainer.RoundSize)
	assert.Equal(t, 0, got.Completed)
}

func TestDeleteSession(t *testing.T) {
	ts := newTestServer(t)
	s := create(t, ts)
	base := ts.URL + "/sessions/" + s.ID

	assert.Equal(t, http.StatusNoContent, do(t, "DELETE", base, nil, nil))
	var e ErrorResponse
	assert.Equal(t, http.StatusNotFound, do(t, "GET", base, nil, &e))
	assert.Equal(t, http.StatusNotFound, do(t, "DELETE", base, nil, &e))
}

func TestDisplay(t *testing.T) {
	ts := newTestServer(t)

	var info trainer.DisplayInfo
	require.Equal(t, http.StatusOK, do(t, "GET", ts.URL+"/display?string=1&fret=0", nil, &info))
	assert.Equal(t, trainer.DisplayInfo{StringLabel: "String 1", FretLabel: "Open", NoteName: "E4", Pitch: 64}, info)

	require.Equal(t, http.StatusOK, do(t, "GET", ts.URL+"/display?string=6&fret=3", nil, &info))
	assert.Equal(t, "Fret 3", info.FretLabel)
	assert.Equal(t, "G2", info.NoteName)

	var e ErrorResponse
	assert.Equal(t, http.StatusBadRequest, do(t, "GET", ts.URL+"/display?string=x&fret=0", nil, &e))
	assert.Equal(t, http.StatusBadRequest, do(t, "GET", ts.URL+"/display?string=7&fret=0", nil, &e))
}

func TestCORS(t *testing.T) {
	ts := newTestServer(t)

	req, err := http.NewRequest("GET", ts.URL+"/display?string=1&fret=0", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://example.com")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(trainer.WithScheduler(trainer.SchedulerFunc(func(time.Duration, func()) {})))
	id, m, err := r.Create(trainer.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, 1, r.Len())

	got, err := r.Get(id)
	require.NoError(t, err)
	assert.Same(t, m, got)

	_, err = r.Get("missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	require.NoError(t, r.Delete(id))
	assert.ErrorIs(t, r.Delete(id), ErrSessionNotFound)
	assert.Equal(t, 0, r.Len())

	_, _, err = r.Create(trainer.Config{MinFret: 3, MaxFret: 1, InputMode: trainer.ModePicker})
	assert.ErrorIs(t, err, trainer.ErrInvalidRange)
}
