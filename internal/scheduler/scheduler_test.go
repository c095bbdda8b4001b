package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestStart_WithoutDigestIsNoop(t *testing.T) {
	s := New("0 8 * * *", time.UTC)
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if s.IsRunning() {
		t.Fatalf("no job should be registered")
	}
	s.Stop()
}

func TestStart_InvalidCronExpression(t *testing.T) {
	s := New("every morning", time.UTC)
	s.SetDigestFunction(func(ctx context.Context) error { return nil })
	if err := s.Start(); err == nil {
		t.Fatalf("expected cron parse error")
	}
}

func TestStart_RegistersJob(t *testing.T) {
	jst := time.FixedZone("JST", 9*3600)
	s := New("0 8 * * *", jst)
	s.SetDigestFunction(func(ctx context.Context) error { return nil })
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer s.Stop()

	if !s.IsRunning() {
		t.Fatalf("job not registered")
	}
	next := s.Next().In(jst)
	if next.Hour() != 8 || next.Minute() != 0 {
		t.Fatalf("next run = %v, want 08:00 JST", next)
	}
}

func TestRunNow_PassesErrorsAndContext(t *testing.T) {
	s := New("0 8 * * *", nil)
	boom := errors.New("send failed")
	var got context.Context
	s.SetDigestFunction(func(ctx context.Context) error {
		got = ctx
		return boom
	})
	if err := s.RunNow(); !errors.Is(err, boom) {
		t.Fatalf("want %v, got %v", boom, err)
	}
	s.Stop()
	if got == nil || got.Err() == nil {
		t.Fatalf("job context should be cancelled after Stop")
	}
}
