package services_test

import (
	"context"
	"testing"

	"mediapick/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithInvocationID(ctx, "inv-1")
	ctx = services.WithStage(ctx, "crop")
	ctx = services.WithItemIndex(ctx, 0)
	ctx = services.WithMode(ctx, "library")

	if id, ok := services.InvocationIDFromContext(ctx); !ok || id != "inv-1" {
		t.Fatalf("unexpected invocation id: %v %v", id, ok)
	}
	if stage, ok := services.StageFromContext(ctx); !ok || stage != "crop" {
		t.Fatalf("unexpected stage: %v %v", stage, ok)
	}
	if idx, ok := services.ItemIndexFromContext(ctx); !ok || idx != 0 {
		t.Fatalf("unexpected item index: %v %v", idx, ok)
	}
	if mode, ok := services.ModeFromContext(ctx); !ok || mode != "library" {
		t.Fatalf("unexpected mode: %v %v", mode, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithStage(ctx, "")
	ctx = services.WithInvocationID(ctx, "")
	if _, ok := services.StageFromContext(ctx); ok {
		t.Fatal("expected no stage value")
	}
	if _, ok := services.InvocationIDFromContext(ctx); ok {
		t.Fatal("expected no invocation id")
	}
	if _, ok := services.ItemIndexFromContext(ctx); ok {
		t.Fatal("expected no item index")
	}
}
