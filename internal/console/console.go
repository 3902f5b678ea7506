// Package console provides the interactive prompt of ledctl. Each command
// becomes a request to the light service over the bus.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"lightcode-go/bus"
	"lightcode-go/errcode"
	"lightcode-go/services/light"
	"lightcode-go/types"

	"github.com/chzyer/readline"
	"github.com/google/shlex"
)

// ErrQuit is returned by Exec for quit/exit.
var ErrQuit = errors.New("quit")

type Console struct {
	conn    *bus.Connection
	light   string
	out     io.Writer
	timeout time.Duration
}

// New returns a console talking to the light called name. Output goes to out.
func New(conn *bus.Connection, name string, out io.Writer) *Console {
	return &Console{conn: conn, light: name, out: out, timeout: 2 * time.Second}
}

// Run reads lines until EOF, quit or ctx is done.
func (c *Console) Run(ctx context.Context) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          c.light + "> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()
	c.out = rl.Stdout()

	stop := context.AfterFunc(ctx, func() { _ = rl.Close() })
	defer stop()

	c.printHelp()
	for {
		if ctx.Err() != nil {
			return nil
		}
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			return nil // EOF
		}
		if err := c.Exec(ctx, line); err != nil {
			if errors.Is(err, ErrQuit) {
				return nil
			}
			fmt.Fprintln(c.out, "error:", err)
		}
	}
}

// Exec runs one command line.
func (c *Console) Exec(ctx context.Context, line string) error {
	args, err := shlex.Split(line)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return nil
	}
	cmd, args := strings.ToLower(args[0]), args[1:]

	switch cmd {
	case "help", "?":
		c.printHelp()
		return nil
	case "quit", "exit", "q":
		return ErrQuit
	case "state", "s":
		return c.cmdState(ctx)
	}

	verb, payload, err := parse(cmd, args)
	if err != nil {
		return err
	}
	return c.request(ctx, verb, payload)
}

// parse turns a command into a control verb and payload.
func parse(cmd string, args []string) (string, any, error) {
	switch cmd {
	case "rgbcw":
		v, err := uints(args, 5, 16)
		if err != nil {
			return "", nil, err
		}
		return types.VerbSetRGBCW, types.RGBCWSet{
			R: uint16(v[0]), G: uint16(v[1]), B: uint16(v[2]), C: uint16(v[3]), W: uint16(v[4]),
		}, nil
	case "channel", "ch":
		v, err := uints(args, 2, 16)
		if err != nil {
			return "", nil, err
		}
		return types.VerbSetChannel, types.ChannelSet{Channel: int(v[0]), Value: uint16(v[1])}, nil
	case "current":
		v, err := uints(args, 2, 8)
		if err != nil {
			return "", nil, err
		}
		return types.VerbCurrent, types.CurrentSet{Channel: int(v[0]), Value: uint8(v[1])}, nil
	case "sleep":
		return types.VerbSleep, types.SleepSet{Sleep: true}, nil
	case "wake":
		return types.VerbWake, nil, nil
	default:
		return "", nil, fmt.Errorf("unknown command %q (type 'help' for commands)", cmd)
	}
}

func uints(args []string, n, bits int) ([]uint64, error) {
	if len(args) != n {
		return nil, fmt.Errorf("want %d arguments, got %d", n, len(args))
	}
	out := make([]uint64, n)
	for i, a := range args {
		v, err := strconv.ParseUint(a, 0, bits)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		out[i] = v
	}
	return out, nil
}

func (c *Console) request(ctx context.Context, verb string, payload any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	rep, err := c.conn.RequestWait(ctx, c.conn.NewMessage(light.TopicControl(c.light, verb), payload, false))
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", verb, errcode.Timeout)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", verb, err)
	}
	switch r := rep.Payload.(type) {
	case types.OKReply:
		fmt.Fprintln(c.out, "ok")
		return nil
	case types.ErrorReply:
		return fmt.Errorf("%s: %w", verb, errcode.Code(r.Error))
	default:
		return fmt.Errorf("%s: %w", verb, errcode.InvalidPayload)
	}
}

func (c *Console) cmdState(ctx context.Context) error {
	sub := c.conn.Subscribe(light.TopicState(c.light))
	defer c.conn.Unsubscribe(sub)
	select {
	case m := <-sub.Channel():
		st, ok := m.Payload.(types.LightState)
		if !ok {
			return errcode.InvalidPayload
		}
		if st.Sleeping {
			fmt.Fprintln(c.out, "sleeping")
		} else {
			fmt.Fprintln(c.out, "awake")
		}
		return nil
	case <-time.After(100 * time.Millisecond):
		return errcode.NotReady
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Console) printHelp() {
	fmt.Fprintln(c.out, `Commands:
  rgbcw <r> <g> <b> <c> <w>  - set all channels (0..1023 each)
  channel <1-5> <value>      - set one physical output (0..1023)
  current <1-5> <value>      - set an output's current limit (0..90)
  sleep                      - clear outputs and enter sleep mode
  wake                       - leave sleep mode (grayscale is not restored)
  state                      - show sleep state
  help                       - show this help
  quit                       - exit (the chip is put to sleep)`)
}
