package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"strings"
	"testing"
)

const testSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100"><rect width="100" height="100" fill="#0f172a"/></svg>`

func testPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 8))); err != nil {
		t.Fatalf("failed to encode test png: %v", err)
	}
	return buf.Bytes()
}

func newTestIngestService(t *testing.T, store *fakeVectorStore, embedder *fakeEmbedder, describer *fakeDescriber, renderer *fakeRenderer) *IngestService {
	t.Helper()
	if renderer == nil {
		renderer = &fakeRenderer{png: testPNG(t)}
	}
	if describer == nil {
		describer = &fakeDescriber{description: "A minimal dark square logo"}
	}
	return NewIngestService(store, embedder, describer, renderer, nil, nil, RenderOptions{})
}

func TestIngestLogo(t *testing.T) {
	store := newFakeVectorStore()
	embedder := &fakeEmbedder{}
	svc := newTestIngestService(t, store, embedder, nil, nil)

	result := svc.IngestLogo(context.Background(), IngestRequest{
		SVG:      testSVG,
		Name:     "acme-primary",
		LogoType: "wordmark",
		Theme:    "modern",
	})

	if !result.Success {
		t.Fatalf("ingestion failed: %s", result.Error)
	}
	if result.LogoID == "" {
		t.Fatal("expected a logo ID")
	}
	if result.Description != "A minimal dark square logo" {
		t.Errorf("unexpected description: %q", result.Description)
	}

	point, err := store.Get(context.Background(), result.LogoID)
	if err != nil || point == nil {
		t.Fatalf("logo not stored: %v", err)
	}
	if point.Metadata.Name != "acme-primary" || point.Metadata.LogoType != "wordmark" {
		t.Errorf("metadata not stored: %+v", point.Metadata)
	}
	if point.Metadata.CreatedAt == "" {
		t.Error("expected a created_at timestamp")
	}
	if point.Document != result.Description {
		t.Errorf("document = %q, want the description", point.Document)
	}
	if len(embedder.texts) != 1 || embedder.texts[0] != result.Description {
		t.Errorf("embedder saw %v, want the description", embedder.texts)
	}
}

func TestIngestLogoDefaultsType(t *testing.T) {
	store := newFakeVectorStore()
	svc := newTestIngestService(t, store, &fakeEmbedder{}, nil, nil)

	result := svc.IngestLogo(context.Background(), IngestRequest{SVG: testSVG})
	if !result.Success {
		t.Fatalf("ingestion failed: %s", result.Error)
	}

	point, _ := store.Get(context.Background(), result.LogoID)
	if point.Metadata.LogoType != "abstract" {
		t.Errorf("logo type = %q, want abstract default", point.Metadata.LogoType)
	}
}

func TestIngestLogoStripsUnsafeContent(t *testing.T) {
	store := newFakeVectorStore()
	renderer := &fakeRenderer{png: testPNG(t)}
	svc := newTestIngestService(t, store, &fakeEmbedder{}, nil, renderer)

	result := svc.IngestLogo(context.Background(), IngestRequest{
		SVG: `<svg xmlns="http://www.w3.org/2000/svg"><script>alert(1)</script><rect onclick="evil()" width="10" height="10"/></svg>`,
	})

	if !result.Success {
		t.Fatalf("sanitizable input should ingest after stripping, got: %s", result.Error)
	}
	if strings.Contains(renderer.lastSVG, "script") || strings.Contains(renderer.lastSVG, "onclick") {
		t.Errorf("unsafe content reached the renderer: %q", renderer.lastSVG)
	}
	if !strings.Contains(renderer.lastSVG, "<rect") {
		t.Errorf("safe content was lost: %q", renderer.lastSVG)
	}
	if count, _ := store.Count(context.Background()); count != 1 {
		t.Errorf("expected the sanitized logo to be stored, count=%d", count)
	}
}

func TestIngestLogoRejectsMalformedSVG(t *testing.T) {
	tests := []struct {
		name string
		svg  string
	}{
		{"blank", "   "},
		{"not svg", "a plain text description"},
		{"truncated markup", `<svg xmlns="http://www.w3.org/2000/svg"><rect width="10"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeVectorStore()
			svc := newTestIngestService(t, store, &fakeEmbedder{}, nil, nil)

			result := svc.IngestLogo(context.Background(), IngestRequest{SVG: tt.svg})

			if result.Success {
				t.Fatal("expected sanitization failure to fail the ingestion")
			}
			if !strings.Contains(result.Error, "sanitization") {
				t.Errorf("error should mention sanitization: %q", result.Error)
			}
			if count, _ := store.Count(context.Background()); count != 0 {
				t.Errorf("nothing should be stored after a failed ingestion, got %d", count)
			}
		})
	}
}

func TestIngestLogoFailuresAreInBand(t *testing.T) {
	tests := []struct {
		name      string
		describer *fakeDescriber
		renderer  *fakeRenderer
		embedErr  error
		upsertErr error
		wantIn    string
	}{
		{
			name:     "render failure",
			renderer: &fakeRenderer{err: errors.New("resvg exited 1")},
			wantIn:   "render",
		},
		{
			name:      "vision failure",
			describer: &fakeDescriber{err: errors.New("model overloaded")},
			wantIn:    "describe",
		},
		{
			name:     "embedding failure",
			embedErr: errors.New("rate limited"),
			wantIn:   "embed",
		},
		{
			name:      "store failure",
			upsertErr: errors.New("unavailable"),
			wantIn:    "store",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeVectorStore()
			store.upsertErr = tt.upsertErr
			embedder := &fakeEmbedder{err: tt.embedErr}
			svc := newTestIngestService(t, store, embedder, tt.describer, tt.renderer)

			result := svc.IngestLogo(context.Background(), IngestRequest{SVG: testSVG})

			if result.Success {
				t.Fatal("expected failure")
			}
			if !strings.Contains(result.Error, tt.wantIn) {
				t.Errorf("error %q should mention %q", result.Error, tt.wantIn)
			}
		})
	}
}

func TestGetLogoMissing(t *testing.T) {
	svc := newTestIngestService(t, newFakeVectorStore(), &fakeEmbedder{}, nil, nil)

	meta, err := svc.GetLogo(context.Background(), "no-such-id")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta != nil {
		t.Errorf("expected nil for a missing logo, got %+v", meta)
	}
}

func TestListLogosPagination(t *testing.T) {
	store := newFakeVectorStore()
	svc := newTestIngestService(t, store, &fakeEmbedder{}, nil, nil)

	for i := 0; i < 5; i++ {
		result := svc.IngestLogo(context.Background(), IngestRequest{SVG: testSVG})
		if !result.Success {
			t.Fatalf("ingestion %d failed: %s", i, result.Error)
		}
	}

	page1, next, err := svc.ListLogos(context.Background(), 2, "", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page1) != 2 || next == "" {
		t.Fatalf("expected 2 logos and an offset token, got %d %q", len(page1), next)
	}

	page2, next2, err := svc.ListLogos(context.Background(), 3, next, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page2) != 3 || next2 != "" {
		t.Fatalf("expected the final 3 logos, got %d with token %q", len(page2), next2)
	}

	seen := map[string]bool{}
	for _, meta := range append(page1, page2...) {
		if seen[meta.LogoID] {
			t.Errorf("logo %s appeared on two pages", meta.LogoID)
		}
		seen[meta.LogoID] = true
	}
}

func TestUpdateLogo(t *testing.T) {
	store := newFakeVectorStore()
	svc := newTestIngestService(t, store, &fakeEmbedder{}, nil, nil)

	result := svc.IngestLogo(context.Background(), IngestRequest{SVG: testSVG, Name: "before", Theme: "modern"})
	if !result.Success {
		t.Fatalf("ingestion failed: %s", result.Error)
	}

	newName := "after"
	newShape := "circular"
	meta, err := svc.UpdateLogo(context.Background(), result.LogoID, LogoUpdate{Name: &newName, Shape: &newShape})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta.Name != "after" || meta.Shape != "circular" {
		t.Errorf("update not applied: %+v", meta)
	}
	if meta.Theme != "modern" {
		t.Errorf("unset field changed: theme = %q", meta.Theme)
	}
	if meta.Description != result.Description {
		t.Errorf("description must not change on update: %q", meta.Description)
	}

	point, _ := store.Get(context.Background(), result.LogoID)
	if point.Metadata.Name != "after" {
		t.Errorf("store not updated: %+v", point.Metadata)
	}
}

func TestUpdateLogoMissing(t *testing.T) {
	svc := newTestIngestService(t, newFakeVectorStore(), &fakeEmbedder{}, nil, nil)

	name := "x"
	meta, err := svc.UpdateLogo(context.Background(), "no-such-id", LogoUpdate{Name: &name})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta != nil {
		t.Errorf("expected nil for a missing logo, got %+v", meta)
	}
}

func TestDeleteLogo(t *testing.T) {
	store := newFakeVectorStore()
	svc := newTestIngestService(t, store, &fakeEmbedder{}, nil, nil)

	result := svc.IngestLogo(context.Background(), IngestRequest{SVG: testSVG})
	if !result.Success {
		t.Fatalf("ingestion failed: %s", result.Error)
	}

	found, err := svc.DeleteLogo(context.Background(), result.LogoID)
	if err != nil || !found {
		t.Fatalf("delete failed: found=%v err=%v", found, err)
	}
	if count, _ := store.Count(context.Background()); count != 0 {
		t.Errorf("logo still stored after delete, count=%d", count)
	}

	found, err = svc.DeleteLogo(context.Background(), result.LogoID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Error("deleting a missing logo should report not found")
	}
}

func TestDeleteLogosPartialFailure(t *testing.T) {
	store := newFakeVectorStore()
	svc := newTestIngestService(t, store, &fakeEmbedder{}, nil, nil)

	a := svc.IngestLogo(context.Background(), IngestRequest{SVG: testSVG})
	b := svc.IngestLogo(context.Background(), IngestRequest{SVG: testSVG})

	result := svc.DeleteLogos(context.Background(), []string{a.LogoID, "no-such-id", b.LogoID})

	if result.Success {
		t.Error("batch with a missing ID should not report success")
	}
	if len(result.DeletedIDs) != 2 {
		t.Errorf("expected 2 deletions, got %v", result.DeletedIDs)
	}
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "not found") {
		t.Errorf("expected one not-found error, got %v", result.Errors)
	}
}
