package keepalive

import (
	"errors"
	"testing"
	"time"

	"mcgate/internal/client"
	"mcgate/internal/connerr"
	"mcgate/internal/protocol"
)

func newPlayClient(t *testing.T, now time.Time) *client.Client {
	t.Helper()
	c := client.New(nil, 1, nil)
	c.EnterPlay(now)
	return c
}

func TestTickSendsAfterPeriodElapses(t *testing.T) {
	start := time.Now()
	c := newPlayClient(t, start)
	period := 8 * time.Second

	if err := Tick(start, period, c); err != nil {
		t.Fatalf("Tick before period elapsed: %v", err)
	}
	if len(c.Encoder.Take()) != 0 {
		t.Fatalf("expected no packet sent before period elapses")
	}

	later := start.Add(period + time.Second)
	if err := Tick(later, period, c); err != nil {
		t.Fatalf("Tick at period boundary: %v", err)
	}
	if len(c.Encoder.Take()) == 0 {
		t.Fatalf("expected a CKeepAlive packet once the period elapses")
	}
	if c.KeepAlive.GotKeepAlive {
		t.Fatalf("expected round trip reopened after send")
	}
}

func TestTickDisconnectsOnTimeout(t *testing.T) {
	start := time.Now()
	c := newPlayClient(t, start)
	period := 8 * time.Second

	if err := Tick(start.Add(period+time.Second), period, c); err != nil {
		t.Fatalf("unexpected error sending first keep-alive: %v", err)
	}

	// No SKeepAlive ever arrives; another full period passes.
	err := Tick(start.Add(2*period+2*time.Second), period, c)
	if err == nil {
		t.Fatalf("expected timeout error")
	}
	if !errors.Is(err, connerr.ErrDisconnect) {
		t.Fatalf("expected ErrDisconnect, got %v", err)
	}
}

func TestHandleSKeepAliveMismatch(t *testing.T) {
	c := newPlayClient(t, time.Now())
	c.KeepAlive.LastID = 42
	c.KeepAlive.GotKeepAlive = false

	r := protocol.NewReader(encodeSKeepAlive(99))
	err := HandleSKeepAlive(c, r)
	if !errors.Is(err, connerr.ErrDisconnect) {
		t.Fatalf("expected ErrDisconnect on id mismatch, got %v", err)
	}
}

func TestHandleSKeepAliveMatch(t *testing.T) {
	c := newPlayClient(t, time.Now())
	c.KeepAlive.LastID = 42
	c.KeepAlive.GotKeepAlive = false

	r := protocol.NewReader(encodeSKeepAlive(42))
	if err := HandleSKeepAlive(c, r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !c.KeepAlive.GotKeepAlive {
		t.Fatalf("expected GotKeepAlive set true")
	}
}

func encodeSKeepAlive(id int64) []byte {
	w := protocol.NewWriter()
	w.I64(id)
	return w.Bytes()
}
