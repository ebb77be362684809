package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestCLISummary(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := cli(nil, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr.String())
	}
	out := stdout.String()
	if !strings.Contains(out, "17 entity types") {
		t.Fatalf("summary header missing: %s", out)
	}
	if !strings.Contains(out, "stations") || !strings.Contains(out, "owners=projects,survey_seasons") {
		t.Fatalf("stations line missing: %s", out)
	}
}

func TestCLISingleType(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := cli([]string{"-type", "modern_captures"}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr.String())
	}
	out := stdout.String()
	if !strings.Contains(out, "modern_captures") || !strings.Contains(out, "fs=modern_captures") {
		t.Fatalf("describe output: %s", out)
	}
	if strings.Contains(out, "surveyors ") {
		t.Fatalf("single-type mode printed other types: %s", out)
	}
}

func TestCLIUnknownType(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := cli([]string{"-type", "widgets"}, &stdout, &stderr); code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "unknown entity type") {
		t.Fatalf("stderr: %s", stderr.String())
	}
}

func TestCLIBadFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := cli([]string{"-nope"}, &stdout, &stderr); code != 2 {
		t.Fatalf("exit code = %d, want 2", code)
	}
}
