// Package light runs a BP5758D behind the bus. One goroutine owns the
// controller, so bus clients on any goroutine are serialised through it.
package light

import (
	"context"
	"log/slog"

	"lightcode-go/bus"
	"lightcode-go/drivers/bp5758d"
	"lightcode-go/errcode"
	"lightcode-go/types"
	"lightcode-go/x/strx"
	"lightcode-go/x/timex"
)

// Controller is the part of *bp5758d.Device the service drives.
type Controller interface {
	SetChannel(ch bp5758d.Channel, value uint16) error
	SetRGBCW(r, g, b, c, w uint16) error
	SetSleep(sleep bool) error
	SetCurrent(ch bp5758d.Channel, value uint8) error
	Sleeping() bool
	Mapping() [bp5758d.NumChannels]uint8
	MaxCurrent() [bp5758d.NumChannels]uint8
	Close() error
}

// Options are optional; zero values pick defaults.
type Options struct {
	Name    string // defaults to "lamp"
	Logger  *slog.Logger
	Metrics *Metrics
}

type Service struct {
	conn    *bus.Connection
	dev     Controller
	name    string
	log     *slog.Logger
	metrics *Metrics

	published  bool
	lastSleep  bool
	ctrlSub    *bus.Subscription
	controlled int
}

func New(conn *bus.Connection, dev Controller, opts Options) *Service {
	name := strx.Coalesce(opts.Name, "lamp")
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	m := opts.Metrics
	if m == nil {
		m = NewMetrics(nil)
	}
	return &Service{
		conn:    conn,
		dev:     dev,
		name:    name,
		log:     log.With("module", "light", "light", name),
		metrics: m,
	}
}

func (s *Service) Name() string { return s.name }

// Run serves control requests until ctx is done, then closes the controller
// (which puts an awake chip to sleep).
func (s *Service) Run(ctx context.Context) {
	s.ctrlSub = s.conn.Subscribe(ctrlWildcard(s.name))
	defer s.conn.Unsubscribe(s.ctrlSub)

	s.publishInfo()
	s.publishState()
	s.pubServiceState("ready", "")
	s.log.Info("light service ready")

	for {
		select {
		case <-ctx.Done():
			_ = s.dev.Close()
			s.publishState()
			s.pubServiceState("stopped", "context_cancelled")
			s.log.Info("light service stopped", "controls", s.controlled)
			return
		case m, ok := <-s.ctrlSub.Channel():
			if !ok {
				return
			}
			s.handleControl(m)
		}
	}
}

func (s *Service) handleControl(m *bus.Message) {
	verb := m.Topic.At(verbIndex)
	s.controlled++
	s.metrics.request(s.name, verb)

	err := s.apply(verb, m.Payload)
	s.publishState()
	if err != nil {
		code := errcode.Of(err)
		s.metrics.failure(s.name, verb, string(code))
		s.log.Warn("control failed", "verb", verb, "code", code, "err", err)
		s.replyErr(m, code)
		return
	}
	s.log.Debug("control applied", "verb", verb)
	s.replyOK(m)
}

func (s *Service) apply(verb string, payload any) error {
	switch verb {
	case types.VerbSetChannel:
		p, code := As[types.ChannelSet](payload)
		if code != "" {
			return code
		}
		ch, ok := channel(p.Channel)
		if !ok {
			return errcode.InvalidArgument
		}
		return s.dev.SetChannel(ch, p.Value)

	case types.VerbSetRGBCW:
		p, code := As[types.RGBCWSet](payload)
		if code != "" {
			return code
		}
		return s.dev.SetRGBCW(p.R, p.G, p.B, p.C, p.W)

	case types.VerbSleep:
		sleep := true
		if payload != nil {
			p, code := As[types.SleepSet](payload)
			if code != "" {
				return code
			}
			sleep = p.Sleep
		}
		return s.dev.SetSleep(sleep)

	case types.VerbWake:
		return s.dev.SetSleep(false)

	case types.VerbCurrent:
		p, code := As[types.CurrentSet](payload)
		if code != "" {
			return code
		}
		ch, ok := channel(p.Channel)
		if !ok {
			return errcode.InvalidArgument
		}
		if err := s.dev.SetCurrent(ch, p.Value); err != nil {
			return err
		}
		s.publishInfo()
		return nil

	default:
		return errcode.Unsupported
	}
}

// channel maps a 1-based physical output number to a driver channel.
func channel(n int) (bp5758d.Channel, bool) {
	if n < 1 || n > bp5758d.NumChannels {
		return 0, false
	}
	return bp5758d.Channel(n - 1), true
}

func (s *Service) publishInfo() {
	s.conn.Publish(s.conn.NewMessage(TopicInfo(s.name), types.LightInfo{
		SchemaVersion: 1,
		Driver:        "bp5758d",
		Mapping:       s.dev.Mapping(),
		MaxCurrent:    s.dev.MaxCurrent(),
	}, true))
}

// publishState publishes the retained sleep state when it changed.
func (s *Service) publishState() {
	sl := s.dev.Sleeping()
	if s.published && sl == s.lastSleep {
		return
	}
	s.published, s.lastSleep = true, sl
	s.metrics.setSleeping(s.name, sl)
	s.conn.Publish(s.conn.NewMessage(TopicState(s.name),
		types.LightState{Sleeping: sl, TS: timex.NowMs()}, true))
}

func (s *Service) pubServiceState(level, status string) {
	s.conn.Publish(s.conn.NewMessage(TopicService(),
		types.ServiceState{Level: level, Status: status, TS: timex.NowMs()}, true))
}
