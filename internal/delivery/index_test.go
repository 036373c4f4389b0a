package delivery

import (
	"strings"
	"testing"

	"github.com/pdfcourier/api/internal/model"
)

func TestBuildIndexOrdersByInputPosition(t *testing.T) {
	result := &model.BatchResult{
		Success: []model.ArtifactRecord{
			{Index: 3, URL: "https://example.com/c", FileName: "c.pdf"},
			{Index: 1, URL: "https://example.com/a", FileName: "a.pdf", Label: "First"},
		},
		Failed: []model.FailedItem{
			{Index: 2, URL: "https://example.com/b", FileName: "b.pdf", Error: "conversion failed: timeout"},
		},
		Total: 3,
	}

	index := BuildIndex(result)

	if !strings.HasPrefix(index, "Converted 2 of 3 URLs (1 failed)") {
		t.Errorf("summary line wrong:\n%s", index)
	}

	posA := strings.Index(index, "a.pdf")
	posB := strings.Index(index, "b.pdf")
	posC := strings.Index(index, "c.pdf")
	if posA < 0 || posB < 0 || posC < 0 {
		t.Fatalf("entries missing:\n%s", index)
	}
	if !(posA < posB && posB < posC) {
		t.Errorf("entries must follow input order:\n%s", index)
	}

	if !strings.Contains(index, "(First)") {
		t.Errorf("label missing:\n%s", index)
	}
	if !strings.Contains(index, "error: conversion failed: timeout") {
		t.Errorf("failure reason missing:\n%s", index)
	}
	if !strings.Contains(index, "FAILED") || !strings.Contains(index, "OK") {
		t.Errorf("outcome markers missing:\n%s", index)
	}
}

func TestBuildIndexAllFailed(t *testing.T) {
	result := &model.BatchResult{
		Success: []model.ArtifactRecord{},
		Failed: []model.FailedItem{
			{Index: 1, URL: "https://example.com/a", FileName: "PDF_001.pdf", Error: "boom"},
		},
		Total: 1,
	}

	index := BuildIndex(result)
	if !strings.HasPrefix(index, "Converted 0 of 1 URLs (1 failed)") {
		t.Errorf("summary line wrong:\n%s", index)
	}
}
