package hub

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	testingclock "k8s.io/utils/clock/testing"

	"cloupeer.io/chirp/internal/device/core"
	"cloupeer.io/chirp/internal/pkg/metrics"
	"cloupeer.io/chirp/pkg/mqtt"
	mqtttopic "cloupeer.io/chirp/pkg/mqtt/topic"
)

type published struct {
	topic   string
	qos     int
	retain  bool
	payload []byte
}

// fakeClient behaves like the autopaho manager: once the context given to Start is
// cancelled, the connection is gone and publishes fail.
type fakeClient struct {
	mu           sync.Mutex
	startCtx     context.Context
	started      bool
	disconnected bool
	awaitErr     error
	publishErr   error
	messages     []published
	ops          []string
}

var _ mqtt.Client = (*fakeClient)(nil)

func (f *fakeClient) Start(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.startCtx = ctx
	f.started = true
	f.ops = append(f.ops, "start")
	return nil
}

func (f *fakeClient) Disconnect(context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.disconnected = true
	f.ops = append(f.ops, "disconnect")
}

func (f *fakeClient) Publish(_ context.Context, topic string, qos int, retain bool, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.publishErr != nil {
		return f.publishErr
	}
	if f.disconnected {
		return errors.New("client disconnected")
	}
	if f.startCtx != nil && f.startCtx.Err() != nil {
		return errors.New("connection manager stopped")
	}
	f.messages = append(f.messages, published{topic: topic, qos: qos, retain: retain, payload: payload})
	f.ops = append(f.ops, "publish")
	return nil
}

func (f *fakeClient) AwaitConnection(ctx context.Context) error {
	if f.awaitErr != nil {
		return f.awaitErr
	}
	return ctx.Err()
}

func (f *fakeClient) IsConnected() bool { return f.started && !f.disconnected }

func newTestHub(fc *fakeClient) *Hub {
	clk := testingclock.NewFakeClock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	return New("dev-1", fc, mqtttopic.NewBuilder("chirp/v1"), time.Second, clk)
}

func decode(t *testing.T, payload []byte) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(payload, &out); err != nil {
		t.Fatalf("payload is not JSON: %v (%s)", err, payload)
	}
	return out
}

func TestTopic(t *testing.T) {
	h := newTestHub(&fakeClient{})

	if got, want := h.Topic(core.EventOnline), "chirp/v1/online/dev-1"; got != want {
		t.Errorf("Topic(online) = %q, want %q", got, want)
	}
	if got, want := h.Topic(core.EventPhase), "chirp/v1/phase/dev-1"; got != want {
		t.Errorf("Topic(phase) = %q, want %q", got, want)
	}
	if got := h.Topic("device.unknown"); got != "" {
		t.Errorf("Topic(unknown) = %q, want empty", got)
	}
}

func TestStartAnnouncesOnline(t *testing.T) {
	fc := &fakeClient{}
	h := newTestHub(fc)

	if err := h.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !fc.started {
		t.Fatal("client was not started")
	}
	if len(fc.messages) != 1 {
		t.Fatalf("published %d messages, want 1", len(fc.messages))
	}

	msg := fc.messages[0]
	if msg.topic != "chirp/v1/online/dev-1" || !msg.retain || msg.qos != 1 {
		t.Errorf("unexpected online message: %+v", msg)
	}
	body := decode(t, msg.payload)
	if body["deviceId"] != "dev-1" || body["online"] != true {
		t.Errorf("unexpected online payload: %v", body)
	}
}

func TestStartFailsWhenBrokerUnreachable(t *testing.T) {
	unreachable := errors.New("unreachable")
	fc := &fakeClient{awaitErr: unreachable}
	h := newTestHub(fc)

	err := h.Start(context.Background())
	if !errors.Is(err, unreachable) {
		t.Fatalf("Start() error = %v, want %v", err, unreachable)
	}
	if len(fc.messages) != 0 {
		t.Errorf("published %d messages before connecting", len(fc.messages))
	}
	if !fc.disconnected {
		t.Error("client left reconnecting after a failed start")
	}
}

func TestReportPublishesPhase(t *testing.T) {
	fc := &fakeClient{}
	h := newTestHub(fc)

	if err := h.Report(context.Background(), core.PhaseConnected); err != nil {
		t.Fatalf("Report() error = %v", err)
	}

	body := decode(t, fc.messages[0].payload)
	if body["phase"] != "connected" || body["online"] != true {
		t.Errorf("unexpected phase payload: %v", body)
	}
	if body["at"] != "2025-03-01T12:00:00Z" {
		t.Errorf("at = %v, want the fake clock time", body["at"])
	}
}

func TestPublishFailureIsCounted(t *testing.T) {
	fc := &fakeClient{publishErr: errors.New("broken pipe")}
	h := newTestHub(fc)

	counter := metrics.TelemetryPublishes.WithLabelValues(string(core.EventPhase), metrics.ResultFailure)
	before := testutil.ToFloat64(counter)

	if err := h.Report(context.Background(), core.PhaseIdle); err == nil {
		t.Fatal("Report() succeeded with a failing client")
	}
	if got := testutil.ToFloat64(counter); got != before+1 {
		t.Errorf("failure counter = %v, want %v", got, before+1)
	}
}

func TestStopAnnouncesShutdown(t *testing.T) {
	fc := &fakeClient{}
	h := newTestHub(fc)

	if err := h.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	h.Stop()

	if !fc.disconnected {
		t.Error("client was not disconnected")
	}
	last := fc.messages[len(fc.messages)-1]
	body := decode(t, last.payload)
	if body["online"] != false || body["reason"] != "Shutdown" || !last.retain {
		t.Errorf("unexpected offline message: %v retain=%v", body, last.retain)
	}
	if fc.startCtx.Err() == nil {
		t.Error("connection context still live after Stop")
	}
}

func TestStopAfterRunContextCancelled(t *testing.T) {
	fc := &fakeClient{}
	h := newTestHub(fc)
	ctx, cancel := context.WithCancel(context.Background())

	if err := h.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := h.Report(ctx, core.PhaseIdle); err != nil {
		t.Fatalf("Report() error = %v", err)
	}

	// Shutdown signal: the run context goes first, the deferred Stop follows.
	cancel()
	h.Stop()

	want := []string{"start", "publish", "publish", "publish", "disconnect"}
	if !slices.Equal(fc.ops, want) {
		t.Fatalf("ops = %v, want %v", fc.ops, want)
	}
	last := fc.messages[len(fc.messages)-1]
	if last.topic != "chirp/v1/online/dev-1" {
		t.Fatalf("last topic = %q, want the online topic", last.topic)
	}
	if body := decode(t, last.payload); body["online"] != false {
		t.Errorf("retained status after shutdown = %v, want offline", body)
	}
}
