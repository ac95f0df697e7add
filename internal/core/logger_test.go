package core

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger(t *testing.T) {
	var (
		f = "%s-%s"
		v = []interface{}{"hello", "world"}
		l = NewLogger()

		iBuf bytes.Buffer
		wBuf bytes.Buffer
		eBuf bytes.Buffer
	)

	// capture output
	l.I.SetOutput(&iBuf)
	l.W.SetOutput(&wBuf)
	l.E.SetOutput(&eBuf)

	l.Info(v...)
	assert.Contains(t, iBuf.String(), "[INFO]")
	iBuf.Reset()

	l.Infof(f, v...)
	assert.Contains(t, iBuf.String(), "[INFO]")
	assert.Contains(t, iBuf.String(), "hello-world")
	iBuf.Reset()

	l.Warn(v...)
	assert.Contains(t, wBuf.String(), "[WARN]")
	wBuf.Reset()

	l.Warnf(f, v...)
	assert.Contains(t, wBuf.String(), "[WARN]")
	assert.Contains(t, wBuf.String(), "hello-world")
	wBuf.Reset()

	l.Error(v...)
	assert.Contains(t, eBuf.String(), "[ERROR]")
	eBuf.Reset()

	l.Errorf(f, v...)
	assert.Contains(t, eBuf.String(), "[ERROR]")
	assert.Contains(t, eBuf.String(), "hello-world")
	eBuf.Reset()
}

func TestZapLogger(t *testing.T) {
	observed, logs := observer.New(zapcore.InfoLevel)
	var l Logger = NewZapLogger(zap.New(observed))
	l.Info("hello")
	l.Infof("%s-%s", "hello", "world")
	l.Warn("careful")
	l.Warnf("%d left", 3)
	l.Error("boom")
	l.Errorf("boom #%d", 2)
	entries := logs.AllUntimed()
	if assert.Len(t, entries, 6) {
		assert.Equal(t, "hello", entries[0].Message)
		assert.Equal(t, "hello-world", entries[1].Message)
		assert.Equal(t, zapcore.WarnLevel, entries[2].Level)
		assert.Equal(t, "3 left", entries[3].Message)
		assert.Equal(t, zapcore.ErrorLevel, entries[4].Level)
		assert.Equal(t, "boom #2", entries[5].Message)
	}
}

func TestNopLogger(t *testing.T) {
	l := NewNopLogger()
	assert.NotPanics(t, func() {
		l.Infof("%d", 1)
		l.Errorf("%d", 2)
	})
	assert.NoError(t, l.Sync())
}
