package model

import (
	"errors"
	"fmt"
	"testing"
)

func TestHasCollectionMarker(t *testing.T) {
	tests := []struct {
		url      string
		expected bool
	}{
		{"https://www.youtube.com/watch?v=abc", false},
		{"https://www.youtube.com/watch?v=abc&list=PL123", true},
		{"https://www.youtube.com/playlist?list=PL123", true},
		{"", false},
	}

	for _, test := range tests {
		if got := HasCollectionMarker(test.url); got != test.expected {
			t.Errorf("HasCollectionMarker(%q) = %v, expected %v", test.url, got, test.expected)
		}
	}
}

func TestNewMediaLink_Cleans(t *testing.T) {
	link := NewMediaLink("  https://youtu.be/abc\r\n")
	if link.Raw != "https://youtu.be/abc" {
		t.Errorf("Raw = %q, expected cleaned link", link.Raw)
	}
	if link.Kind != "" {
		t.Errorf("Kind = %q, expected unclassified", link.Kind)
	}
	if !NewMediaLink(" \t\n").IsEmpty() {
		t.Error("blank input should produce an empty link")
	}
}

func TestMediaInfo_Readiness(t *testing.T) {
	if !(MediaInfo{}).IsEmpty() {
		t.Error("zero MediaInfo should be empty")
	}
	if (MediaInfo{}).IsReady() {
		t.Error("zero MediaInfo should not be ready")
	}
	if (MediaInfo{Title: InvalidTitle}).IsReady() {
		t.Error("sentinel title should not be ready")
	}
	info := MediaInfo{Kind: LinkCollection, Title: "Mix"}
	if !info.IsReady() || !info.IsCollection() {
		t.Errorf("expected ready collection, got %+v", info)
	}
}

func TestError_KindAndRetry(t *testing.T) {
	base := errors.New("connection reset")
	err := fmt.Errorf("item 3: %w", NewError(KindTransferFailure, "transfer", base))

	if KindOf(err) != KindTransferFailure {
		t.Errorf("KindOf() = %q, expected %q", KindOf(err), KindTransferFailure)
	}
	if !IsRetryable(err) {
		t.Error("transfer failure should be retryable")
	}
	if !errors.Is(err, base) {
		t.Error("error chain should reach the base error")
	}
	if IsRetryable(NewError(KindInvalidLink, "probe", base)) {
		t.Error("invalid link should not be retryable")
	}
	if KindOf(base) != KindNone {
		t.Error("plain errors have no kind")
	}
}
