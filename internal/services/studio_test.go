package services

import (
	"context"
	"strings"
	"testing"
)

func TestStudioOperations_PreserveSourceWhenOffline(t *testing.T) {
	svc := NewStudioService(newSimulatedService(t))
	ctx := context.Background()
	ref := dataURI("image/png", []byte("source-photo"))

	ops := map[string]func(context.Context, string) string{
		"enhance":           svc.EnhanceImage,
		"remove background": svc.RemoveBackground,
		"cleanup text":      svc.CleanupImageText,
	}
	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			got := op(ctx, ref)
			if !strings.HasPrefix(got, "data:image/png;base64,") {
				t.Errorf("degraded edit did not return the source photo: %q", got)
			}
		})
	}
}

func TestStudioOperations_NoSourceYieldsPlaceholder(t *testing.T) {
	svc := NewStudioService(newSimulatedService(t))

	got := svc.EnhanceImage(context.Background(), "")
	if !strings.HasPrefix(got, "https://picsum.photos/") {
		t.Errorf("got %q, want placeholder URL", got)
	}
}
