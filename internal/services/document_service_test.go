package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

func raw(s string) json.RawMessage { return json.RawMessage(s) }

func TestDocumentService_MergeLaw(t *testing.T) {
	svc := NewDocumentService(newSvcDB(t))
	ctx := context.Background()

	if _, err := svc.Save(ctx, "C1", map[string]json.RawMessage{"x": raw(`{"url":"a"}`)}); err != nil {
		t.Fatal(err)
	}
	d, err := svc.Save(ctx, "C1", map[string]json.RawMessage{"y": raw(`[1,2]`)})
	if err != nil {
		t.Fatal(err)
	}
	if len(d.Documents) != 2 {
		t.Fatalf("want x and y, got %v", d.Documents)
	}

	d, err = svc.Save(ctx, "C1", map[string]json.RawMessage{"x": raw(`"replaced"`)})
	if err != nil {
		t.Fatal(err)
	}
	var x string
	if err := json.Unmarshal(d.Documents["x"], &x); err != nil || x != "replaced" {
		t.Fatalf("x = %s (%v)", d.Documents["x"], err)
	}
	if _, ok := d.Documents["y"]; !ok {
		t.Fatal("y was dropped by an unrelated overwrite")
	}
}

func TestDocumentService_GetMissing(t *testing.T) {
	svc := NewDocumentService(newSvcDB(t))
	_, err := svc.Get(context.Background(), "none")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestDocumentService_SaveEmptyCreatesBag(t *testing.T) {
	svc := NewDocumentService(newSvcDB(t))
	ctx := context.Background()
	d, err := svc.Save(ctx, "C2", nil)
	if err != nil {
		t.Fatal(err)
	}
	if d.ClaimID != "C2" || d.Documents == nil || len(d.Documents) != 0 {
		t.Fatalf("unexpected bag: %+v", d)
	}
	if _, err := svc.Get(ctx, "C2"); err != nil {
		t.Fatalf("bag should exist: %v", err)
	}
}

func TestDocumentService_Delete(t *testing.T) {
	svc := NewDocumentService(newSvcDB(t))
	ctx := context.Background()

	if _, err := svc.Delete(ctx, "C3", "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing bag: want ErrNotFound, got %v", err)
	}
	if _, err := svc.Save(ctx, "C3", map[string]json.RawMessage{"x": raw(`1`), "y": raw(`2`)}); err != nil {
		t.Fatal(err)
	}

	_, err := svc.Delete(ctx, "C3", "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing key: want ErrNotFound, got %v", err)
	}
	if msg := PublicMessage(err); msg != "Document not found for this claim" {
		t.Fatalf("message = %q", msg)
	}
	d, _ := svc.Get(ctx, "C3")
	if len(d.Documents) != 2 {
		t.Fatalf("failed delete changed the bag: %v", d.Documents)
	}

	d, err = svc.Delete(ctx, "C3", "x")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := d.Documents["x"]; ok || len(d.Documents) != 1 {
		t.Fatalf("after delete: %v", d.Documents)
	}
}

func TestDocumentService_RejectsBadInput(t *testing.T) {
	svc := NewDocumentService(newSvcDB(t))
	ctx := context.Background()

	var ve *ValidationError
	if _, err := svc.Save(ctx, "C4", map[string]json.RawMessage{`a"b`: raw(`1`)}); !errors.As(err, &ve) {
		t.Fatalf("quoted name: want ValidationError, got %v", err)
	}
	if _, err := svc.Save(ctx, "C4", map[string]json.RawMessage{"a": raw(`{bad`)}); !errors.As(err, &ve) {
		t.Fatalf("invalid JSON: want ValidationError, got %v", err)
	}
	if _, err := svc.Delete(ctx, "C4", " "); !errors.As(err, &ve) {
		t.Fatalf("blank name: want ValidationError, got %v", err)
	}
}
