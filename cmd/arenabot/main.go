// Command arenabot runs scripted players against a running arena server.
// Each bot dials the game port, introduces itself, readies up, and then
// plays random inputs until the run duration expires, at which point it
// says goodbye and reports every frame it saw. Useful for soaking lobbies
// and sessions over the real wire protocol.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net"
	"os"
	"os/signal"
	"sort"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/blastarena/server/protocol"
)

// Bot is one scripted player on its own connection.
type Bot struct {
	name    string
	conn    net.Conn
	verbose bool

	writeMu sync.Mutex

	mu     sync.Mutex
	sent   int
	rounds int
	seen   map[protocol.Op]int
}

// Report is what one bot saw over its run.
type Report struct {
	Name   string
	Sent   int
	Rounds int
	Seen   map[protocol.Op]int
	Err    error
}

func main() {
	addr := flag.String("addr", "127.0.0.1:7777", "Game server address")
	bots := flag.Int("bots", 2, "Number of concurrent bots")
	duration := flag.Duration("duration", 30*time.Second, "How long to play before saying goodbye")
	inputDelay := flag.Duration("input-delay", 200*time.Millisecond, "Pause between gameplay inputs")
	seed := flag.Int64("seed", 0, "Random seed (0 seeds from the clock)")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	if *bots < 1 {
		log.Fatalf("Need at least one bot, got %d", *bots)
	}
	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *duration)
	defer cancel()

	log.Printf("Launching %d bots against %s for %s (seed %d)", *bots, *addr, *duration, *seed)

	var wg sync.WaitGroup
	reports := make([]*Report, *bots)
	for i := 0; i < *bots; i++ {
		name := fmt.Sprintf("bot%d", i+1)
		rng := rand.New(rand.NewSource(*seed + int64(i)))

		wg.Add(1)
		go func(slot int, name string, rng *rand.Rand) {
			defer wg.Done()
			reports[slot] = runBot(ctx, *addr, name, rng, *inputDelay, *verbose)
		}(i, name, rng)
	}
	wg.Wait()

	printSummary(reports)
}

// runBot drives one bot through its whole lifecycle: connect, name, ready,
// random inputs, goodbye. The returned report is never nil.
func runBot(ctx context.Context, addr, name string, rng *rand.Rand, inputDelay time.Duration, verbose bool) *Report {
	rep := &Report{Name: name, Seen: make(map[protocol.Op]int)}

	bot, err := Dial(addr, name, verbose)
	if err != nil {
		rep.Err = err
		return rep
	}
	defer bot.conn.Close()

	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		bot.readLoop()
	}()

	if err := bot.send(protocol.OpPlayerName, name); err != nil {
		rep.Err = fmt.Errorf("send name: %w", err)
		return rep
	}
	if err := bot.send(protocol.OpReady, "1"); err != nil {
		rep.Err = fmt.Errorf("send ready: %w", err)
		return rep
	}

	heartbeat := time.NewTicker(2 * time.Second)
	defer heartbeat.Stop()
	input := time.NewTicker(inputDelay)
	defer input.Stop()

	for {
		select {
		case <-ctx.Done():
			// Say goodbye and give the server a moment to answer and close.
			_ = bot.send(protocol.OpBye, "")
			select {
			case <-readerDone:
			case <-time.After(2 * time.Second):
			}
			bot.fill(rep)
			return rep

		case <-readerDone:
			bot.fill(rep)
			rep.Err = errors.New("connection closed by server")
			return rep

		case <-heartbeat.C:
			if err := bot.send(protocol.OpHeartbeat, ""); err != nil {
				bot.fill(rep)
				rep.Err = fmt.Errorf("heartbeat: %w", err)
				return rep
			}

		case <-input.C:
			if err := bot.send(randomInput(rng), ""); err != nil {
				bot.fill(rep)
				rep.Err = fmt.Errorf("input: %w", err)
				return rep
			}
		}
	}
}

// Dial connects to the server. The caller still has to introduce the bot by
// name before the server will track it.
func Dial(addr, name string, verbose bool) (*Bot, error) {
	conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	return &Bot{
		name:    name,
		conn:    conn,
		verbose: verbose,
		seen:    make(map[protocol.Op]int),
	}, nil
}

func (b *Bot) send(op protocol.Op, arg string) error {
	frame, err := protocol.Encode(protocol.Message{Op: op, Arg: arg})
	if err != nil {
		return err
	}

	b.writeMu.Lock()
	defer b.writeMu.Unlock()
	b.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if _, err := b.conn.Write(frame); err != nil {
		return err
	}

	b.mu.Lock()
	b.sent++
	b.mu.Unlock()
	return nil
}

// readLoop consumes server frames until the connection dies.
func (b *Bot) readLoop() {
	dec := &protocol.Decoder{}
	buf := make([]byte, 4096)
	for {
		n, err := b.conn.Read(buf)
		if n > 0 {
			dec.Feed(buf[:n])
			for {
				msg, ok, derr := dec.Next()
				if errors.Is(derr, protocol.ErrFrameTooLarge) {
					log.Printf("⚠️  %s: unrecoverable frame from server: %v", b.name, derr)
					return
				}
				if !ok {
					break
				}
				if derr != nil {
					log.Printf("⚠️  %s: dropping frame: %v", b.name, derr)
					continue
				}
				b.handle(msg)
			}
		}
		if err != nil {
			return
		}
	}
}

func (b *Bot) handle(msg protocol.Message) {
	b.mu.Lock()
	b.seen[msg.Op]++
	if msg.Op == protocol.OpGameOver {
		b.rounds++
	}
	b.mu.Unlock()

	switch msg.Op {
	case protocol.OpGameOver:
		// Back in the lobby unready; queue up for the next round.
		_ = b.send(protocol.OpReady, "1")
	case protocol.OpMessage:
		if b.verbose {
			log.Printf("%s: server says %q", b.name, msg.Arg)
		}
	case protocol.OpCountdown:
		if b.verbose {
			log.Printf("%s: countdown %s", b.name, msg.Arg)
		}
	}
}

// fill copies the bot's counters into the report.
func (b *Bot) fill(rep *Report) {
	b.mu.Lock()
	defer b.mu.Unlock()
	rep.Sent = b.sent
	rep.Rounds = b.rounds
	for op, n := range b.seen {
		rep.Seen[op] = n
	}
}

var moves = []protocol.Op{
	protocol.OpMoveLeft,
	protocol.OpMoveRight,
	protocol.OpMoveUp,
	protocol.OpMoveDown,
}

// randomInput mostly walks, occasionally drops a bomb.
func randomInput(rng *rand.Rand) protocol.Op {
	if rng.Intn(5) == 0 {
		return protocol.OpPlaceBomb
	}
	return moves[rng.Intn(len(moves))]
}

func printSummary(reports []*Report) {
	log.Printf("=== Soak summary ===")
	failures := 0
	for _, rep := range reports {
		if rep.Err != nil {
			failures++
			log.Printf("⚠️  %s: sent=%d rounds=%d err=%v", rep.Name, rep.Sent, rep.Rounds, rep.Err)
			continue
		}
		log.Printf("✅ %s: sent=%d rounds=%d recv[%s]", rep.Name, rep.Sent, rep.Rounds, formatSeen(rep.Seen))
	}
	if failures > 0 {
		os.Exit(1)
	}
}

// formatSeen renders per-opcode receive counts in opcode order.
func formatSeen(seen map[protocol.Op]int) string {
	ops := make([]protocol.Op, 0, len(seen))
	for op := range seen {
		ops = append(ops, op)
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i] < ops[j] })

	var sb strings.Builder
	for i, op := range ops {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%s=%d", op, seen[op])
	}
	return sb.String()
}
