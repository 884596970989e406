package cmd

import (
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/cryptosim/config"
	"github.com/rustyeddy/cryptosim/journal"
	"github.com/rustyeddy/cryptosim/market"
	"github.com/rustyeddy/cryptosim/sim"
	"github.com/rustyeddy/cryptosim/store"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the simulator loop",
	Long: `Run the paper-trading simulator: prices tick on an interval, open
orders are evaluated, alerts fire, and the session is saved after
every tick. A previous session at the store path is resumed.

Stop with Ctrl-C; the session is saved on the way out.

Example:
  cryptosim run -f simulation.yaml`,
	RunE: runRun,
}

var (
	runConfigPath string
	runTicks      int
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "config", "f", "", "path to config file (YAML or JSON); defaults apply when omitted")
	runCmd.Flags().IntVarP(&runTicks, "ticks", "n", 0, "stop after this many ticks (0 runs until interrupted)")
}

func runRun(cmd *cobra.Command, args []string) error {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	cfg := config.Default()
	if runConfigPath != "" {
		loaded, err := config.LoadFromFile(runConfigPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	interval, err := cfg.Feed.ParseInterval()
	if err != nil {
		return fmt.Errorf("feed interval: %w", err)
	}
	if interval <= 0 {
		interval = market.DefaultInterval
	}

	var j journal.Journal
	if cfg.Journal.Type == "sqlite" {
		j, err = journal.NewSQLite(cfg.Journal.DBPath)
		if err != nil {
			return fmt.Errorf("create journal: %w", err)
		}
	} else {
		j = journal.NewMemory()
	}
	defer j.Close()

	seed := cfg.Feed.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	feed := market.NewFeed(rand.NewSource(seed))
	feed.HistoryCap = cfg.Feed.HistoryCap

	var instruments []*market.Instrument
	for _, ic := range cfg.Instruments {
		instruments = append(instruments, &market.Instrument{
			ID:        ic.ID,
			Name:      ic.Name,
			Symbol:    ic.Symbol,
			Price:     ic.Price,
			Change24h: ic.Change24h,
		})
	}

	engine := sim.NewEngine(sim.Options{
		SpotBalance:          cfg.Account.SpotBalance,
		MarginBalance:        cfg.Account.MarginBalance,
		FeeRate:              cfg.Trading.FeeRate,
		Mode:                 sim.Mode(cfg.Trading.Mode),
		LiquidationThreshold: cfg.Trading.LiquidationThreshold,
		Instruments:          instruments,
		Feed:                 feed,
		Journal:              j,
		SeedPoints:           cfg.Feed.SeedPoints,
	})

	if cfg.Store.Path != "" {
		st, ok, err := store.Load(cfg.Store.Path)
		if err != nil {
			return fmt.Errorf("load session: %w", err)
		}
		if ok {
			engine.Restore(st.Balance, st.MarginBalance, st.TradeHistory, st.OpenOrders)
			log.Info().
				Str("path", cfg.Store.Path).
				Float64("balance", st.Balance).
				Float64("margin", st.MarginBalance).
				Int("trades", len(st.TradeHistory)).
				Int("open_orders", len(st.OpenOrders)).
				Msg("session resumed")
		}
	}

	snap := engine.Snapshot()
	log.Info().
		Str("mode", string(snap.Mode)).
		Float64("balance", snap.SpotBalance).
		Float64("margin", snap.MarginBalance).
		Int("instruments", len(snap.Instruments)).
		Dur("interval", interval).
		Msg("simulator started")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	ticks := 0
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("shutting down")
			return saveSession(cfg, engine)
		case <-ticker.C:
		}

		events, err := engine.Tick()
		if err != nil {
			return fmt.Errorf("tick: %w", err)
		}
		logEvents(events)

		if err := saveSession(cfg, engine); err != nil {
			return err
		}

		ticks++
		if runTicks > 0 && ticks >= runTicks {
			snap := engine.Snapshot()
			log.Info().
				Int("ticks", ticks).
				Float64("portfolio", snap.PortfolioValue).
				Float64("realized", snap.RealizedPNL).
				Msg("tick limit reached")
			return nil
		}
	}
}

func saveSession(cfg *config.Config, engine *sim.Engine) error {
	if cfg.Store.Path == "" {
		return nil
	}
	if err := store.Save(cfg.Store.Path, store.Capture(engine.Snapshot())); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func logEvents(events []sim.Event) {
	for _, ev := range events {
		switch ev.Type {
		case sim.EventFill:
			log.Info().
				Str("symbol", ev.Symbol).
				Str("side", ev.Trade.Side).
				Float64("units", ev.Trade.Units).
				Float64("price", ev.Price).
				Float64("fee", ev.Trade.Fee).
				Str("reason", ev.Reason).
				Msg("order filled")
		case sim.EventCancel:
			log.Warn().
				Str("symbol", ev.Symbol).
				Str("order", ev.Order.ID).
				Str("reason", ev.Reason).
				Msg("order cancelled")
		case sim.EventAlert:
			log.Info().
				Str("symbol", ev.Symbol).
				Float64("price", ev.Price).
				Float64("target", ev.Alert.Target).
				Str("direction", string(ev.Alert.Direction)).
				Msg("price alert")
		case sim.EventLiquidation:
			log.Warn().Msg("margin position liquidated")
		}
	}
}
