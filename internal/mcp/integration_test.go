package mcp

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncBuffer is a bytes.Buffer safe for one writer and one poller.
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

func TestServerIntegration_Stdio(t *testing.T) {
	dir := t.TempDir()
	writeReport(t, dir, "metro.json", metroReport)
	s := newTestServer(t, dir)

	requests := strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05","capabilities":{},"clientInfo":{"name":"test","version":"0.0.1"}}}`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`,
		`{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"project_extract_file","arguments":{"path":"metro.json"}}}`,
	}, "\n") + "\n"

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	out := &syncBuffer{}
	done := make(chan error, 1)
	go func() {
		done <- s.Serve(ctx, strings.NewReader(requests), out)
	}()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), `"id":3`)
	}, 4*time.Second, 10*time.Millisecond, "no tools/call response in %q", out.String())

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop after cancellation")
	}

	output := out.String()
	assert.Contains(t, output, `"name":"test-server"`)
	for _, tool := range []string{ToolExtractFile, ToolExtractContent, ToolExtractDirectory, ToolServerInfo} {
		assert.Contains(t, output, `"name":"`+tool+`"`)
	}
	assert.Contains(t, output, "PROJ-90F9DA")
}

func TestServerIntegration_StopsOnCancel(t *testing.T) {
	s := newTestServer(t, t.TempDir())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	// A reader that never yields keeps Listen blocked until ctx ends.
	blocking, w := newBlockingReader()
	defer w()

	go func() {
		done <- s.Serve(ctx, blocking, &syncBuffer{})
	}()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop after cancellation")
	}
}

type blockingReader struct {
	release chan struct{}
}

func newBlockingReader() (*blockingReader, func()) {
	r := &blockingReader{release: make(chan struct{})}
	return r, func() { close(r.release) }
}

func (r *blockingReader) Read(_ []byte) (int, error) {
	<-r.release
	return 0, context.Canceled
}
