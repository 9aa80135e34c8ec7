package main

import (
	"strings"
	"testing"
)

func TestDefaultOutPath(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"prog.tarnc", "prog.tarni"},
		{"build/main.tarnc", "build/main.tarni"},
		{"noext", "noext.tarni"},
	}
	for _, tc := range cases {
		got := defaultOutPath(tc.input)
		if got != tc.want {
			t.Fatalf("defaultOutPath(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestFormatPathForOutput(t *testing.T) {
	cases := []struct {
		root string
		path string
		want string
	}{
		{"/work", "/work/out/prog.tarni", "out/prog.tarni"},
		{"/work", "/elsewhere/prog.tarni", "/elsewhere/prog.tarni"},
		{"", "/work/prog.tarni", "/work/prog.tarni"},
		{"/work", "", ""},
	}
	for _, tc := range cases {
		got := formatPathForOutput(tc.root, tc.path)
		if got != tc.want {
			t.Fatalf("formatPathForOutput(%q, %q) = %q, want %q", tc.root, tc.path, got, tc.want)
		}
	}
}

func TestReadUIMode(t *testing.T) {
	cases := []struct {
		input string
		want  uiMode
	}{
		{"", uiModeAuto},
		{"auto", uiModeAuto},
		{"AUTO", uiModeAuto},
		{"on", uiModeOn},
		{" Off ", uiModeOff},
	}
	for _, tc := range cases {
		got, err := readUIMode(tc.input)
		if err != nil {
			t.Fatalf("readUIMode(%q) error: %v", tc.input, err)
		}
		if got != tc.want {
			t.Fatalf("readUIMode(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestReadUIModeRejectsJunk(t *testing.T) {
	_, err := readUIMode("sometimes")
	if err == nil {
		t.Fatal("expected error for invalid ui mode")
	}
	if !strings.Contains(err.Error(), "sometimes") {
		t.Fatalf("error should name the bad value, got %q", err.Error())
	}
}
