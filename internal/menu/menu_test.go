package menu

import (
	"context"
	"errors"
	"testing"
)

func TestSelectReturnsChosenLine(t *testing.T) {
	// head -n1 stands in for a menu program that picks the first entry.
	r := NewRunner("head", []string{"-n1"})
	got, err := r.Select(context.Background(), "windows", []string{"first", "second"})
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if got != "first" {
		t.Fatalf("selection = %q", got)
	}
}

func TestSelectSubstitutesPrompt(t *testing.T) {
	r := NewRunner("sh", []string{"-c", "echo picked-{prompt}"})
	got, err := r.Select(context.Background(), "windows", nil)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if got != "picked-windows" {
		t.Fatalf("selection = %q", got)
	}
}

func TestSelectEmptyOutputIsCancellation(t *testing.T) {
	r := NewRunner("true", nil)
	if _, err := r.Select(context.Background(), "windows", []string{"only"}); !errors.Is(err, ErrCancelled) {
		t.Fatalf("err = %v, want ErrCancelled", err)
	}
}

func TestSelectDismissalStatusIsCancellation(t *testing.T) {
	r := NewRunner("false", nil)
	if _, err := r.Select(context.Background(), "windows", []string{"only"}); !errors.Is(err, ErrCancelled) {
		t.Fatalf("err = %v, want ErrCancelled", err)
	}
}

func TestSelectReportsHardFailures(t *testing.T) {
	r := NewRunner("sh", []string{"-c", "exit 3"})
	_, err := r.Select(context.Background(), "windows", []string{"only"})
	if err == nil || errors.Is(err, ErrCancelled) {
		t.Fatalf("err = %v, want a hard failure", err)
	}
}
