package main

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestPromptReadsTrimmedLines(t *testing.T) {
	a := &app{
		lines: readLines(strings.NewReader("  hello  \nworld\n")),
		quit:  make(chan struct{}),
		out:   &bytes.Buffer{},
	}

	got, ok := a.prompt("> ")
	if !ok || got != "hello" {
		t.Fatalf("prompt = %q, %v; want %q, true", got, ok, "hello")
	}
	got, ok = a.prompt("> ")
	if !ok || got != "world" {
		t.Fatalf("prompt = %q, %v; want %q, true", got, ok, "world")
	}
	if _, ok := a.prompt("> "); ok {
		t.Fatal("expected ok=false after input ended")
	}
}

func TestPromptStopsOnQuit(t *testing.T) {
	quit := make(chan struct{})
	close(quit)
	a := &app{
		lines: make(chan string), // nothing will ever arrive
		quit:  quit,
		out:   &bytes.Buffer{},
	}

	done := make(chan bool, 1)
	go func() {
		_, ok := a.prompt("> ")
		done <- ok
	}()

	select {
	case ok := <-done:
		if ok {
			t.Fatal("expected ok=false after shutdown was requested")
		}
	case <-time.After(time.Second):
		t.Fatal("prompt did not return after shutdown was requested")
	}
}
