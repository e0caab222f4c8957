package utils

import (
	"bytes"
	"fmt"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"sync"
	"time"
)

func StaticClock(sec int64) func() time.Time {
	return func() time.Time {
		return time.Unix(sec, 0)
	}
}

func PanicIfF(cond bool, msg string, args ...interface{}) {
	if cond {
		panic(fmt.Sprintf(msg, args...))
	}
}

// MemorySink implements zap.Sink by writing all messages to a buffer.
// Writes may come from several goroutines, so the buffer is guarded.
type MemorySink struct {
	mtx sync.Mutex
	buf bytes.Buffer
}

func (s *MemorySink) Write(p []byte) (int, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.buf.Write(p)
}

func (s *MemorySink) String() string {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.buf.String()
}

func (s *MemorySink) Close() error { return nil }
func (s *MemorySink) Sync() error  { return nil }

func NewMemorySinkLogger() (*MemorySink, *zap.Logger) {
	sink := &MemorySink{}
	config := zap.NewProductionEncoderConfig()
	config.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewJSONEncoder(config), sink, zap.DebugLevel)
	logger := zap.New(core)
	return sink, logger
}
