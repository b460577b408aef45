// Package pipeline drives spec.md section 5's concurrent scheduler: a fixed
// worker pool ticking every connected client through three phases —
// NetworkReceive, Update, PostUpdate — named after the ECS phases
// original_source/hyperpumpkin declares in modules/net.rs.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"golang.org/x/sync/errgroup"

	"mcgate/internal/client"
	"mcgate/internal/connerr"
	"mcgate/internal/handler"
	"mcgate/internal/keepalive"
	"mcgate/internal/server"
)

// readChunkSize bounds a single non-blocking read per client per tick.
const readChunkSize = 4096

// nonBlockingReadTimeout bounds how long NetworkReceive can block on one
// client's socket: short enough that one idle or slow peer never stalls the
// tick for everyone else sharing it.
const nonBlockingReadTimeout = 500 * time.Microsecond

// TickStats is the optional per-tick frame-time counter SPEC_FULL adds,
// modeled on original_source/hyperpumpkin's disabled-by-default
// global_stats system (main.rs). Off the hot path unless
// cfg.ReportTickStats is set.
type TickStats struct {
	Ticks     uint64
	meanNanos int64
}

func (s *TickStats) record(d time.Duration) {
	s.Ticks++
	const window = 20
	n := int64(window)
	if s.Ticks < window {
		n = int64(s.Ticks)
	}
	s.meanNanos += (d.Nanoseconds() - s.meanNanos) / n
}

// MeanTickDuration reports a moving average of tick durations with a 20-tick
// window. Over the first 20 ticks it is their exact mean; after that each new
// tick moves it by 1/20 of the difference, so it is an exponentially weighted
// average and not the exact mean of the last 20 ticks.
func (s *TickStats) MeanTickDuration() time.Duration {
	return time.Duration(s.meanNanos)
}

// Scheduler ticks every live client through NetworkReceive, Update, and
// PostUpdate at a fixed rate, fanning the Update phase out across a bounded
// worker pool. Accept runs on its own goroutine, independent of the tick
// loop, since a slow accept must never stall already-connected clients.
type Scheduler struct {
	res      *server.Resources
	workers  int
	interval time.Duration
	stats    *TickStats
}

// NewScheduler returns a Scheduler. workers <= 0 and tickRate <= 0 fall back
// to spec.md section 5's defaults: 4 workers, 20 ticks/second — the same
// values original_source/hyperpumpkin's main.rs hardcodes.
func NewScheduler(res *server.Resources, workers int, tickRate float64) *Scheduler {
	if workers <= 0 {
		workers = 4
	}
	if tickRate <= 0 {
		tickRate = 20
	}
	s := &Scheduler{
		res:      res,
		workers:  workers,
		interval: time.Duration(float64(time.Second) / tickRate),
	}
	if res.Config.ReportTickStats {
		s.stats = &TickStats{}
	}
	return s
}

// Stats returns the scheduler's tick statistics, or nil if disabled.
func (s *Scheduler) Stats() *TickStats { return s.stats }

// Run accepts connections and ticks the scheduler until ctx is canceled or
// the exit signal is raised, then closes the listener and waits for the
// accept loop to return.
func (s *Scheduler) Run(ctx context.Context) error {
	acceptDone := make(chan struct{})
	go func() {
		defer close(acceptDone)
		s.acceptLoop(ctx)
	}()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	shutdown := func() error {
		s.res.Listener.Close()
		<-acceptDone
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return shutdown()
		case now := <-ticker.C:
			if s.res.Exit.Raised() {
				return shutdown()
			}
			start := time.Now()
			s.tick(ctx, now)
			if s.stats != nil {
				s.stats.record(time.Since(start))
			}
		}
	}
}

func (s *Scheduler) acceptLoop(ctx context.Context) {
	for {
		conn, err := s.res.Listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			select {
			case <-ctx.Done():
				return
			default:
			}
			slog.Warn("accept failed", "error", err)
			continue
		}

		host, _, splitErr := net.SplitHostPort(conn.RemoteAddr().String())
		remoteIP := net.ParseIP(host)
		if splitErr != nil || remoteIP == nil {
			remoteIP = net.IPv4zero
		}

		c := client.New(conn, 0, remoteIP)
		id := s.res.Clients.Insert(c)
		s.res.Storage.Connections.Add(1)
		slog.Info("client connected", "remote", conn.RemoteAddr(), "slab_id", id)
	}
}

// tick runs one NetworkReceive → Update → PostUpdate pass over every
// currently registered client, then destroys any client that faulted during
// the pass — after PostUpdate, so a final packet queued during Update (a
// disconnect reason, say) is flushed before the socket closes.
func (s *Scheduler) tick(ctx context.Context, now time.Time) {
	clients := s.res.Clients.Snapshot()

	readErrs := s.networkReceive(clients)
	faulted := s.update(ctx, now, clients, readErrs)
	writeErrs := s.postUpdate(clients)

	for c, err := range writeErrs {
		if _, already := faulted[c]; !already {
			faulted[c] = err
		}
	}
	for c, err := range faulted {
		s.destroy(ctx, c, now, err)
	}
}

// networkReceive drains each client's socket into its Decoder (bounded to
// one short, non-blocking attempt per tick) and advances the Decoder into
// c.Queue. A read or decode failure is recorded but not acted on until
// PostUpdate has run.
func (s *Scheduler) networkReceive(clients []*client.Client) map[*client.Client]error {
	errs := make(map[*client.Client]error)
	buf := make([]byte, readChunkSize)

	for _, c := range clients {
		deadline := time.Now().Add(nonBlockingReadTimeout)
		if err := c.Conn.SetReadDeadline(deadline); err != nil {
			errs[c] = fmt.Errorf("setting read deadline: %w", err)
			continue
		}

		for {
			n, err := c.Conn.Read(buf)
			if n > 0 {
				c.Decoder.QueueSlice(buf[:n])
			}
			if err != nil {
				if !isTimeout(err) {
					errs[c] = fmt.Errorf("reading from client: %w", err)
				}
				break
			}
			if n < len(buf) {
				break
			}
		}
		if errs[c] != nil {
			continue
		}

		for {
			pkt, err := c.Decoder.Decode()
			if err != nil {
				errs[c] = fmt.Errorf("decoding packet: %w", err)
				break
			}
			if pkt == nil {
				break
			}
			c.Queue = append(c.Queue, *pkt)
		}
	}
	return errs
}

func isTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// update fans out handler.Dispatch (and, for Play clients, the keep-alive
// tick) across s.workers goroutines. Each client's fault is independent —
// one client erroring never aborts another's processing this tick.
func (s *Scheduler) update(ctx context.Context, now time.Time, clients []*client.Client, readErrs map[*client.Client]error) map[*client.Client]error {
	results := make([]error, len(clients))

	var g errgroup.Group
	g.SetLimit(s.workers)
	for i, c := range clients {
		i, c := i, c
		g.Go(func() error {
			results[i] = s.processClient(ctx, now, c, readErrs[c])
			return nil
		})
	}
	_ = g.Wait()

	faulted := make(map[*client.Client]error)
	for i, c := range clients {
		if results[i] != nil {
			faulted[c] = results[i]
		}
	}
	return faulted
}

func (s *Scheduler) processClient(ctx context.Context, now time.Time, c *client.Client, readErr error) error {
	if readErr != nil {
		return readErr
	}

	err := handler.Dispatch(ctx, now, s.res, c)
	c.Queue = c.Queue[:0]
	if err != nil {
		return err
	}

	if c.InPlay {
		return keepalive.Tick(now, s.res.KeepAlive.Period, c)
	}
	return nil
}

// postUpdate flushes each client's pending encoder output to its socket.
func (s *Scheduler) postUpdate(clients []*client.Client) map[*client.Client]error {
	errs := make(map[*client.Client]error)
	for _, c := range clients {
		out := c.Encoder.Take()
		if len(out) == 0 {
			continue
		}
		if _, err := c.Conn.Write(out); err != nil {
			errs[c] = fmt.Errorf("writing to client: %w", err)
		}
	}
	return errs
}

// destroy removes c from the client table, closes its socket, records the
// disconnect in the audit sink, and adjusts the online-player counter —
// spec.md's "uniform cleanup on entity destruction."
func (s *Scheduler) destroy(ctx context.Context, c *client.Client, now time.Time, cause error) {
	s.res.Clients.Remove(c.SlabID)
	_ = c.Conn.Close()
	s.res.Storage.Connections.Add(-1)

	if errors.Is(cause, connerr.ErrDisconnect) {
		slog.Info("client disconnected", "remote", c.RemoteAddr, "reason", cause)
	} else {
		slog.Warn("client disconnected", "remote", c.RemoteAddr, "error", cause)
	}

	if c.InPlay {
		s.res.Storage.OnlinePlayers.Add(-1)
	}
	if c.HasUUID {
		s.res.Audit.RecordDisconnect(ctx, c.Username, now, cause.Error())
	}
}
