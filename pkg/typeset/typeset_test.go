package typeset_test

import (
	"io"
	"os/exec"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gomdmath/pkg/config"
	"github.com/yaklabco/gomdmath/pkg/typeset"
)

func TestEscaped(t *testing.T) {
	t.Parallel()

	var engine typeset.Escaped

	assert.Equal(t, `<span class="math inline">\(a &lt; b\)</span>`, engine.Render("a < b", false))
	assert.Equal(t, `<span class="math display">\[x &amp; y\]</span>`, engine.Render("x & y", true))
}

func TestEngineFunc(t *testing.T) {
	t.Parallel()

	engine := typeset.EngineFunc(func(content string, displayMode bool) string {
		if displayMode {
			return "D:" + content
		}
		return "I:" + content
	})

	assert.Equal(t, "I:x", engine.Render("x", false))
	assert.Equal(t, "D:x", engine.Render("x", true))
}

func TestMemo(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	calls := 0
	inner := typeset.EngineFunc(func(content string, _ bool) string {
		mu.Lock()
		calls++
		mu.Unlock()
		return "<" + content + ">"
	})

	memo := typeset.NewMemo(inner)

	assert.Equal(t, "<x>", memo.Render("x", false))
	assert.Equal(t, "<x>", memo.Render("x", false))
	assert.Equal(t, "<x>", memo.Render("x", true), "display mode is a separate entry")

	hits, misses := memo.Stats()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 2, misses)
	assert.Equal(t, 2, calls)
}

func TestMemo_Concurrent(t *testing.T) {
	t.Parallel()

	memo := typeset.NewMemo(typeset.Escaped{})

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				memo.Render("x^2", false)
			}
		}()
	}
	wg.Wait()

	hits, misses := memo.Stats()
	assert.Equal(t, 16*50, hits+misses)
}

func TestMemo_ConcurrentMissesRenderOnce(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	calls := 0
	entered := make(chan struct{})
	release := make(chan struct{})

	inner := typeset.EngineFunc(func(content string, _ bool) string {
		mu.Lock()
		calls++
		first := calls == 1
		mu.Unlock()
		if first {
			close(entered)
			<-release
		}
		return "<" + content + ">"
	})

	memo := typeset.NewMemo(inner)

	results := make(chan string, 8)
	go func() { results <- memo.Render("x", true) }()
	<-entered

	for range 7 {
		go func() { results <- memo.Render("x", true) }()
	}
	close(release)

	for range 8 {
		assert.Equal(t, "<x>", <-results)
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, calls)
}

func TestCommand_Success(t *testing.T) {
	t.Parallel()

	if _, err := exec.LookPath("cat"); err != nil {
		t.Skip("cat not available")
	}

	cmd := &typeset.Command{Path: "cat", Timeout: 5 * time.Second}
	assert.Equal(t, `\frac{1}{2}`, cmd.Render(`\frac{1}{2}`, false))
	assert.Equal(t, "y", cmd.Render("y", true))
}

func TestCommand_FailureFallsBack(t *testing.T) {
	t.Parallel()

	cmd := typeset.NewCommand("/nonexistent/typesetter")
	cmd.Logger = log.New(io.Discard)

	assert.Equal(t, `<span class="math inline">\(x\)</span>`, cmd.Render("x", false))

	cmd.Fallback = typeset.EngineFunc(func(content string, _ bool) string {
		return "fallback:" + content
	})
	assert.Equal(t, "fallback:y", cmd.Render("y", true))
}

func TestNewCommand_Defaults(t *testing.T) {
	t.Parallel()

	cmd := typeset.NewCommand("")
	assert.Equal(t, "katex", cmd.Path)
	assert.Equal(t, []string{"--no-throw-on-error"}, cmd.Args)
	assert.Equal(t, []string{"--display-mode"}, cmd.DisplayArgs)

	cmd = typeset.NewCommand("/opt/katex", "--strict")
	assert.Equal(t, []string{"--strict"}, cmd.Args)
}

func TestNew(t *testing.T) {
	t.Parallel()

	disabled := false

	engine, err := typeset.New(config.EngineConfig{Name: config.EnginePlain, Cache: &disabled}, nil)
	require.NoError(t, err)
	assert.IsType(t, typeset.Escaped{}, engine)

	engine, err = typeset.New(config.EngineConfig{Name: config.EnginePlain}, nil)
	require.NoError(t, err)
	assert.IsType(t, &typeset.Memo{}, engine)

	engine, err = typeset.New(config.EngineConfig{Name: config.EngineKaTeX, Command: "katex", Cache: &disabled}, nil)
	require.NoError(t, err)
	assert.IsType(t, &typeset.Command{}, engine)

	_, err = typeset.New(config.EngineConfig{Name: "mathjax"}, nil)
	require.ErrorIs(t, err, typeset.ErrUnknownEngine)
}
