package logging

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"WARN":    zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"":        zapcore.InfoLevel,
		"verbose": zapcore.InfoLevel,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestDebugfGated(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	Set(zap.New(core))
	defer Set(nil)

	Debug = false
	Debugf("hidden %d", 1)
	if logs.Len() != 0 {
		t.Fatalf("expected no logs with Debug off, got %d", logs.Len())
	}

	Debug = true
	defer func() { Debug = false }()
	Debugf("shown %d", 2)
	if logs.Len() != 1 || logs.All()[0].Message != "shown 2" {
		t.Fatalf("expected one debug entry, got %v", logs.All())
	}
}
