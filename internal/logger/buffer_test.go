package logger

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBufferConcurrentAccess(t *testing.T) {
	spillFile := filepath.Join(t.TempDir(), "test_spill.log")

	buffer, err := NewBuffer(100, spillFile)
	require.NoError(t, err)
	defer buffer.Close()

	var wg sync.WaitGroup
	numGoroutines := 10
	logsPerGoroutine := 100

	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < logsPerGoroutine; j++ {
				fields := map[string]interface{}{
					"goroutine": id,
					"iteration": j,
				}
				assert.NoError(t, buffer.Add("info", fmt.Sprintf("Log from goroutine %d, iteration %d", id, j), fields))
			}
		}(i)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			_ = buffer.Recent(10)
			_, _ = buffer.Stats()
		}
	}()

	wg.Wait()
	require.NoError(t, buffer.Flush())

	total, spilled := buffer.Stats()
	assert.Equal(t, uint64(numGoroutines*logsPerGoroutine), total)
	assert.Equal(t, total-100, spilled)

	_, err = os.Stat(spillFile)
	assert.NoError(t, err)
}

func TestBufferRingBehavior(t *testing.T) {
	bufferSize := 5
	buffer, err := NewBuffer(bufferSize, "")
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		require.NoError(t, buffer.Add("info", fmt.Sprintf("Log %d", i), nil))
	}

	logs := buffer.Recent(0)
	require.Len(t, logs, bufferSize)
	assert.Equal(t, "Log 5", logs[0].Message)
	assert.Equal(t, "Log 9", logs[len(logs)-1].Message)

	last := buffer.Recent(2)
	require.Len(t, last, 2)
	assert.Equal(t, "Log 8", last[0].Message)
	assert.Equal(t, "Log 9", last[1].Message)
}

func TestBufferRecentBeforeWrap(t *testing.T) {
	buffer, err := NewBuffer(10, "")
	require.NoError(t, err)

	assert.Empty(t, buffer.Recent(5))

	require.NoError(t, buffer.Add("warn", "one", nil))
	require.NoError(t, buffer.Add("warn", "two", nil))

	logs := buffer.Recent(5)
	require.Len(t, logs, 2)
	assert.Equal(t, "one", logs[0].Message)
	assert.Equal(t, "two", logs[1].Message)
}

func TestNewBufferRejectsInvalidSize(t *testing.T) {
	_, err := NewBuffer(0, "")
	assert.Error(t, err)
}

func TestBufferCloseSpillsRemainingEntries(t *testing.T) {
	spillFile := filepath.Join(t.TempDir(), "nested", "spill.log")

	buffer, err := NewBuffer(3, spillFile)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		require.NoError(t, buffer.Add("info", fmt.Sprintf("Log %d", i), nil))
	}
	require.NoError(t, buffer.Close())
	require.NoError(t, buffer.Close())

	f, err := os.Open(spillFile)
	require.NoError(t, err)
	defer f.Close()

	var messages []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry Entry
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
		messages = append(messages, entry.Message)
	}
	require.NoError(t, scanner.Err())
	assert.Equal(t, []string{"Log 0", "Log 1", "Log 2", "Log 3", "Log 4"}, messages)
}

func TestBufferUpdatesSignal(t *testing.T) {
	buffer, err := NewBuffer(4, "")
	require.NoError(t, err)

	require.NoError(t, buffer.Add("info", "first", nil))
	require.NoError(t, buffer.Add("info", "second", nil))

	select {
	case <-buffer.Updates():
	default:
		t.Fatal("expected an update signal")
	}

	select {
	case <-buffer.Updates():
		t.Fatal("signals should be coalesced")
	default:
	}
}

func TestBufferWriteRejectsGarbage(t *testing.T) {
	buffer, err := NewBuffer(4, "")
	require.NoError(t, err)

	_, err = buffer.Write([]byte("not json\n"))
	assert.Error(t, err)
}

func TestTUILoggerWritesOnlyToBuffer(t *testing.T) {
	buffer, err := NewBuffer(10, "")
	require.NoError(t, err)

	log, err := NewTUI(false, buffer)
	require.NoError(t, err)

	log.Named("notification_center").Info("Listener connected",
		zap.String("event_id", "testEvent"),
		zap.Int("listeners", 2))
	log.Debug("hidden")

	logs := buffer.Recent(0)
	require.Len(t, logs, 1)
	assert.Equal(t, "info", logs[0].Level)
	assert.Equal(t, "notification_center", logs[0].Logger)
	assert.Equal(t, "Listener connected", logs[0].Message)
	assert.Equal(t, "testEvent", logs[0].Fields["event_id"])
	assert.Equal(t, float64(2), logs[0].Fields["listeners"])
	assert.False(t, logs[0].Time.IsZero())

	_, err = NewTUI(true, nil)
	assert.Error(t, err)
}

func TestNewWritesConsoleAndBuffer(t *testing.T) {
	buffer, err := NewBuffer(10, "")
	require.NoError(t, err)

	var console bytes.Buffer
	log, err := New(Options{Debug: true, Console: &console, Buffer: buffer})
	require.NoError(t, err)

	log.Debug("Dispatching event", zap.String("event_id", "E"))
	require.NoError(t, log.Sync())

	assert.Contains(t, console.String(), "[DEBUG]")
	assert.Contains(t, console.String(), "Dispatching event")
	require.Len(t, buffer.Recent(0), 1)
	assert.Equal(t, "debug", buffer.Recent(0)[0].Level)

	_, err = New(Options{NoConsole: true})
	assert.Error(t, err)
}

func TestLevelColor(t *testing.T) {
	assert.Equal(t, ColorRed, LevelColor("error"))
	assert.Equal(t, ColorYellow, LevelColor("warn"))
	assert.Equal(t, ColorReset, LevelColor("unknown"))
}
