package light

import (
	"context"
	"errors"
	"testing"
	"time"

	"lightcode-go/bus"
	"lightcode-go/drivers/bp5758d"
	"lightcode-go/errcode"
	"lightcode-go/internal/i2crec"
	"lightcode-go/types"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	b       *bus.Bus
	client  *bus.Connection
	rec     *i2crec.Recorder
	dev     *bp5758d.Device
	metrics *Metrics
	cancel  context.CancelFunc
	done    chan struct{}
}

func start(t *testing.T) *harness {
	t.Helper()
	rec := &i2crec.Recorder{}
	dev, err := bp5758d.New(rec, bp5758d.Config{
		Mapping:    [5]uint8{1, 2, 3, 4, 5},
		MaxCurrent: [5]uint8{10, 10, 10, 10, 10},
	})
	require.NoError(t, err)

	b := bus.NewBus(16)
	h := &harness{
		b:       b,
		client:  b.NewConnection("test"),
		rec:     rec,
		dev:     dev,
		metrics: NewMetrics(prometheus.NewRegistry()),
		done:    make(chan struct{}),
	}
	ready := h.client.Subscribe(TopicService())

	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	svc := New(b.NewConnection("light"), dev, Options{Name: "desk", Metrics: h.metrics})
	go func() {
		defer close(h.done)
		svc.Run(ctx)
	}()

	select {
	case m := <-ready.Channel():
		st, ok := m.Payload.(types.ServiceState)
		require.True(t, ok)
		require.Equal(t, "ready", st.Level)
	case <-time.After(time.Second):
		t.Fatal("service not ready")
	}
	h.client.Unsubscribe(ready)
	t.Cleanup(h.stop)
	return h
}

func (h *harness) stop() {
	h.cancel()
	<-h.done
}

func (h *harness) request(t *testing.T, verb string, payload any) any {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	rep, err := h.client.RequestWait(ctx, h.client.NewMessage(TopicControl("desk", verb), payload, false))
	require.NoError(t, err)
	return rep.Payload
}

func requireOK(t *testing.T, rep any) {
	t.Helper()
	_, ok := rep.(types.OKReply)
	require.True(t, ok, "reply %#v", rep)
}

func requireErr(t *testing.T, rep any, code errcode.Code) {
	t.Helper()
	er, ok := rep.(types.ErrorReply)
	require.True(t, ok, "reply %#v", rep)
	require.Equal(t, string(code), er.Error)
}

func TestService_SetChannelWakesAndWrites(t *testing.T) {
	h := start(t)

	requireOK(t, h.request(t, types.VerbSetChannel, types.ChannelSet{Channel: 3, Value: 513}))

	ws := h.rec.Writes()
	require.Len(t, ws, 2)
	assert.Equal(t, uint16(0xA0), ws[0].Addr)
	assert.Equal(t, uint16(0xAA), ws[1].Addr)
	assert.Equal(t, []byte{0x01, 0x10}, ws[1].Data)
}

func TestService_RGBCWAndSleepCycle(t *testing.T) {
	h := start(t)
	state := h.client.Subscribe(TopicState("desk"))

	requireOK(t, h.request(t, types.VerbSetRGBCW, types.RGBCWSet{R: 1023, W: 512}))
	requireOK(t, h.request(t, types.VerbSleep, nil))
	requireOK(t, h.request(t, types.VerbWake, nil))
	requireOK(t, h.request(t, types.VerbSleep, types.SleepSet{Sleep: false}))

	// wake, rgbcw, shutdown, disable, wake, wake
	ws := h.rec.Writes()
	require.Len(t, ws, 6)
	addrs := make([]uint16, len(ws))
	for i, w := range ws {
		addrs[i] = w.Addr
	}
	assert.Equal(t, []uint16{0xA0, 0xA6, 0xA6, 0x80, 0xA0, 0xA0}, addrs)

	// Retained initial state, then one message per transition.
	var got []bool
	deadline := time.After(time.Second)
	for len(got) < 4 {
		select {
		case m := <-state.Channel():
			got = append(got, m.Payload.(types.LightState).Sleeping)
		case <-deadline:
			t.Fatalf("state updates: %v", got)
		}
	}
	assert.Equal(t, []bool{true, false, true, false}, got)
}

func TestService_InvalidRequests(t *testing.T) {
	h := start(t)

	requireErr(t, h.request(t, types.VerbSetChannel, types.ChannelSet{Channel: 0, Value: 1}), errcode.InvalidArgument)
	requireErr(t, h.request(t, types.VerbSetChannel, types.ChannelSet{Channel: 1, Value: 1024}), errcode.InvalidArgument)
	requireErr(t, h.request(t, types.VerbSetRGBCW, types.RGBCWSet{G: 2000}), errcode.InvalidArgument)
	requireErr(t, h.request(t, types.VerbCurrent, types.CurrentSet{Channel: 2, Value: 91}), errcode.InvalidArgument)
	requireErr(t, h.request(t, types.VerbSetRGBCW, "bright"), errcode.InvalidPayload)
	requireErr(t, h.request(t, "blink", nil), errcode.Unsupported)

	assert.Empty(t, h.rec.Writes())
	assert.True(t, h.dev.Sleeping())
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.errors.WithLabelValues("desk", types.VerbSetRGBCW, string(errcode.InvalidPayload))))
}

func TestService_BusErrorSurfacesAsI2C(t *testing.T) {
	h := start(t)
	h.rec.FailAll(errors.New("nack"))

	requireErr(t, h.request(t, types.VerbWake, nil), errcode.I2C)
	assert.True(t, h.dev.Sleeping())
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.requests.WithLabelValues("desk", types.VerbWake)))
}

func TestService_CurrentUpdatesInfo(t *testing.T) {
	h := start(t)
	info := h.client.Subscribe(TopicInfo("desk"))
	<-info.Channel() // retained

	requireOK(t, h.request(t, types.VerbCurrent, types.CurrentSet{Channel: 4, Value: 90}))

	select {
	case m := <-info.Channel():
		li := m.Payload.(types.LightInfo)
		assert.Equal(t, uint8(0x7C), li.MaxCurrent[3])
	case <-time.After(time.Second):
		t.Fatal("no info update")
	}
	assert.Empty(t, h.rec.Writes(), "asleep: current is stored, not written")
}

func TestService_StopSleepsAwakeChip(t *testing.T) {
	h := start(t)
	requireOK(t, h.request(t, types.VerbWake, nil))
	h.rec.Reset()

	h.stop()

	ws := h.rec.Writes()
	require.Len(t, ws, 2)
	assert.Equal(t, uint16(0xA6), ws[0].Addr)
	assert.Equal(t, make([]byte, 10), ws[0].Data)
	assert.Equal(t, uint16(0x80), ws[1].Addr)
	assert.True(t, h.dev.Sleeping())
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.sleeping.WithLabelValues("desk")))
}

func TestAs(t *testing.T) {
	v, code := As[types.SleepSet](nil)
	assert.Equal(t, errcode.Code(""), code)
	assert.False(t, v.Sleep)

	_, code = As[types.SleepSet](&types.SleepSet{})
	assert.Equal(t, errcode.InvalidPayload, code)
}
