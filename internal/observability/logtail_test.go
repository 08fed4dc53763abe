package observability

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleLog = `{"level":"INFO","msg":"Network opened","session_id":"a"}
{"level":"WARN","msg":"Skipping persisted row","session_id":"a"}
{"level":"ERROR","msg":"Failed to save tables","session_id":"b"}
not json
`

func TestLogFilter_Match(t *testing.T) {
	lines := strings.Split(strings.TrimSpace(sampleLog), "\n")

	tests := []struct {
		name   string
		filter LogFilter
		want   []bool
	}{
		{name: "empty filter", filter: LogFilter{}, want: []bool{true, true, true, true}},
		{name: "warn and above", filter: LogFilter{MinLevel: "warn"}, want: []bool{false, true, true, false}},
		{name: "one session", filter: LogFilter{Session: "a"}, want: []bool{true, true, false, false}},
		{name: "session and level", filter: LogFilter{Session: "a", MinLevel: "error"}, want: []bool{false, false, false, false}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for i, line := range lines {
				assert.Equal(t, tc.want[i], tc.filter.Match(line), line)
			}
		})
	}
}

func TestTailLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heronet.log")
	require.NoError(t, os.WriteFile(path, []byte(sampleLog), 0o644))

	var out bytes.Buffer
	err := TailLog(context.Background(), path, false, LogFilter{MinLevel: "warn"}, &out)
	require.NoError(t, err)

	assert.Equal(t,
		"{\"level\":\"WARN\",\"msg\":\"Skipping persisted row\",\"session_id\":\"a\"}\n"+
			"{\"level\":\"ERROR\",\"msg\":\"Failed to save tables\",\"session_id\":\"b\"}\n",
		out.String())
}

func TestTailLog_InvalidLevel(t *testing.T) {
	err := TailLog(context.Background(), "unused.log", false, LogFilter{MinLevel: "loud"}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid level "loud"`)
}

func TestTailLog_MissingFile(t *testing.T) {
	err := TailLog(context.Background(), filepath.Join(t.TempDir(), "absent.log"), false, LogFilter{}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to tail log file")
}

// waitTail fails the test if TailLog has not returned within a few seconds.
func waitTail(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("TailLog did not return after the context was cancelled")
		return nil
	}
}

// syncBuffer is a bytes.Buffer safe to read while TailLog writes to it.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestTailLog_FollowStopsWithPendingLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heronet.log")
	require.NoError(t, os.WriteFile(path, []byte(sampleLog), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan error, 1)
	go func() { done <- TailLog(ctx, path, true, LogFilter{}, &bytes.Buffer{}) }()
	assert.NoError(t, waitTail(t, done))
}

func TestTailLog_FollowStopsAfterNewEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heronet.log")
	require.NoError(t, os.WriteFile(path, []byte(sampleLog), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := &syncBuffer{}
	done := make(chan error, 1)
	go func() { done <- TailLog(ctx, path, true, LogFilter{Session: "c"}, out) }()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString(`{"level":"INFO","msg":"Hero added","session_id":"c"}` + "\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	assert.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Hero added")
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	assert.NoError(t, waitTail(t, done))
	assert.Equal(t, `{"level":"INFO","msg":"Hero added","session_id":"c"}`+"\n", out.String())
}
