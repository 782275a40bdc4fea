package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// readLines feeds input lines through a channel so prompts can also watch
// the quit channel. The channel is closed when input ends.
func readLines(r io.Reader) <-chan string {
	ch := make(chan string)
	go func() {
		defer close(ch)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			ch <- sc.Text()
		}
	}()
	return ch
}

// prompt prints the label and reads one line. ok is false when input ended
// or shutdown was requested.
func (a *app) prompt(label string) (value string, ok bool) {
	fmt.Fprint(a.out, label)
	select {
	case line, open := <-a.lines:
		if !open {
			return "", false
		}
		return strings.TrimSpace(line), true
	case <-a.quit:
		return "", false
	}
}

// promptValid re-prompts until valid returns true for the input.
func (a *app) promptValid(label, errMsg string, valid func(string) bool) (string, bool) {
	for {
		in, ok := a.prompt(label)
		if !ok {
			return "", false
		}
		if valid(in) {
			return in, true
		}
		fmt.Fprintln(a.out, errMsg)
	}
}

// promptInt re-prompts until the input is an integer in [lo, hi].
func (a *app) promptInt(label string, lo, hi int) (int, bool) {
	for {
		in, ok := a.prompt(label)
		if !ok {
			return 0, false
		}
		n, err := strconv.Atoi(in)
		if err == nil && n >= lo && n <= hi {
			return n, true
		}
		fmt.Fprintf(a.out, "Please enter a number between %d and %d.\n", lo, hi)
	}
}
