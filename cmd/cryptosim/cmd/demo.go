package cmd

import (
	"fmt"
	"math/rand"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/cryptosim/market"
	"github.com/rustyeddy/cryptosim/sim"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run example simulations and demos",
	Long: `Run scripted trading sessions to learn how the simulator works.

Available demos:
  basic  - Spot market buy and sell with fee accounting
  limit  - Limit order that fills when the price crosses it
  margin - Leveraged margin trading ending in forced liquidation

Examples:
  cryptosim demo basic
  cryptosim demo margin`,
}

var demoBasicCmd = &cobra.Command{
	Use:   "basic",
	Short: "Run a basic spot trading demo",
	Long: `Demonstrates a spot market round trip.

Shows the basic workflow of:
  1. Setting up the engine with a virtual balance
  2. Buying with a notional cash amount
  3. Watching prices tick
  4. Selling the position and reading realized PNL`,
	RunE: runDemoBasic,
}

var demoLimitCmd = &cobra.Command{
	Use:   "limit",
	Short: "Run a limit order demo",
	Long: `Demonstrates a limit buy that rests until the price crosses it.

Shows how to:
  - Place a limit order below the current price
  - Tick the market until the order fills
  - Inspect the resulting trade record`,
	RunE: runDemoLimit,
}

var demoMarginCmd = &cobra.Command{
	Use:   "margin",
	Short: "Run a margin liquidation demo",
	Long: `Demonstrates leveraged margin trading and forced liquidation.

Shows how to:
  - Switch the engine to margin mode
  - Buy with leverage
  - Sell down holdings until value falls under the maintenance
    threshold and the position is liquidated`,
	RunE: runDemoMargin,
}

func init() {
	rootCmd.AddCommand(demoCmd)
	demoCmd.AddCommand(demoBasicCmd)
	demoCmd.AddCommand(demoLimitCmd)
	demoCmd.AddCommand(demoMarginCmd)
}

// demoEngine builds an engine with a fixed feed seed so every demo
// run prints the same session.
func demoEngine(mode sim.Mode) *sim.Engine {
	return sim.NewEngine(sim.Options{
		SpotBalance:   20_000_000,
		MarginBalance: 1_000_000,
		Mode:          mode,
		Feed:          market.NewFeed(rand.NewSource(42)),
	})
}

func runDemoBasic(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Basic Spot Trading Demo ===")
	fmt.Println()

	engine := demoEngine(sim.ModeSpot)
	snap := engine.Snapshot()
	fmt.Printf("Starting Balance: $%.2f\n\n", snap.SpotBalance)

	notional := 100_000.0
	fmt.Printf("Buying $%.0f of BTC at market:\n", notional)
	order, events, err := engine.PlaceOrder(sim.OrderRequest{
		Side:   sim.SideBuy,
		Symbol: "BTC",
		Amount: notional,
	})
	if err != nil {
		return err
	}
	fill := events[0].Trade
	fmt.Printf("  Filled: %.6f BTC at $%.2f (fee $%.2f)\n", fill.Units, fill.Price, fill.Fee)
	fmt.Printf("  Order ID: %s\n\n", order.ID)

	fmt.Println("Ticking the market 5 times...")
	for i := 0; i < 5; i++ {
		if _, err := engine.Tick(); err != nil {
			return err
		}
	}
	snap = engine.Snapshot()
	fmt.Printf("  BTC now $%.2f, unrealized PNL $%.2f\n\n", snap.Instruments[0].Price, snap.UnrealizedPNL)

	fmt.Printf("Selling %.6f BTC at market:\n", fill.Units)
	_, events, err = engine.PlaceOrder(sim.OrderRequest{
		Side:   sim.SideSell,
		Symbol: "BTC",
		Amount: fill.Units,
	})
	if err != nil {
		return err
	}
	sale := events[0].Trade
	fmt.Printf("  Sold at $%.2f (fee $%.2f)\n", sale.Price, sale.Fee)

	snap = engine.Snapshot()
	fmt.Printf("\nFinal Results:\n")
	fmt.Printf("  Balance: $%.2f\n", snap.SpotBalance)
	fmt.Printf("  Realized PNL: $%.2f\n", snap.RealizedPNL)
	return nil
}

func runDemoLimit(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Limit Order Demo ===")
	fmt.Println()

	engine := demoEngine(sim.ModeSpot)
	snap := engine.Snapshot()
	btc := snap.Instruments[0]

	limit := btc.Price * 0.99
	fmt.Printf("BTC at $%.2f; placing a limit buy at $%.2f\n", btc.Price, limit)

	order, _, err := engine.PlaceOrder(sim.OrderRequest{
		Side:       sim.SideBuy,
		Symbol:     "BTC",
		Amount:     50_000,
		Kind:       sim.KindLimit,
		LimitPrice: limit,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Order %s is open for %.6f BTC\n\n", order.ID, order.Quantity)

	for tick := 1; ; tick++ {
		events, err := engine.Tick()
		if err != nil {
			return err
		}
		filled := false
		for _, ev := range events {
			if ev.Type == sim.EventFill && ev.Order.ID == order.ID {
				fmt.Printf("Tick %d: filled %.6f BTC at $%.2f (fee $%.2f)\n",
					tick, ev.Trade.Units, ev.Trade.Price, ev.Trade.Fee)
				filled = true
			}
		}
		if filled {
			break
		}
		snap := engine.Snapshot()
		fmt.Printf("Tick %d: BTC $%.2f, order still open\n", tick, snap.Instruments[0].Price)
		if tick >= 50 {
			fmt.Println("\nPrice never crossed the limit in 50 ticks; cancelling.")
			return engine.CancelOrder(order.ID)
		}
	}

	snap = engine.Snapshot()
	fmt.Printf("\nFinal Balance: $%.2f, trades: %d\n", snap.SpotBalance, len(snap.TradeHistory))
	return nil
}

func runDemoMargin(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Margin Liquidation Demo ===")
	fmt.Println()

	engine := demoEngine(sim.ModeMargin)
	snap := engine.Snapshot()
	fmt.Printf("Margin Balance: $%.2f\n", snap.MarginBalance)
	fmt.Printf("Maintenance threshold: holdings must stay above 10%% of margin\n\n")

	fmt.Println("Buying $150,000 of SOL at 5x leverage:")
	_, events, err := engine.PlaceOrder(sim.OrderRequest{
		Side:     sim.SideBuy,
		Symbol:   "SOL",
		Amount:   150_000,
		Leverage: 5,
	})
	if err != nil {
		return err
	}
	fill := events[0].Trade
	fmt.Printf("  Filled: %.4f SOL at $%.2f (notional $%.2f, fee $%.2f)\n\n",
		fill.Units, fill.Price, fill.Total, fill.Fee)

	fmt.Println("Selling the position down until holdings fall under the threshold...")
	for {
		snap = engine.Snapshot()
		if snap.Liquidated {
			break
		}
		var owned float64
		for _, inst := range snap.Instruments {
			if inst.Symbol == "SOL" {
				owned = inst.Owned
			}
		}
		if owned <= 0 {
			fmt.Println("Position closed without liquidation.")
			return nil
		}
		sell := owned * 0.8
		_, events, err := engine.PlaceOrder(sim.OrderRequest{
			Side:   sim.SideSell,
			Symbol: "SOL",
			Amount: sell,
		})
		if err != nil {
			return err
		}
		fmt.Printf("  Sold %.4f SOL\n", sell)
		for _, ev := range events {
			if ev.Type == sim.EventLiquidation {
				fmt.Println("\n!! LIQUIDATION: holdings value fell below maintenance margin")
			}
		}
	}

	snap = engine.Snapshot()
	fmt.Printf("\nFinal Results:\n")
	fmt.Printf("  Margin Balance: $%.2f\n", snap.MarginBalance)
	fmt.Printf("  Holdings Value: $%.2f\n", snap.HoldingsValue)
	fmt.Printf("  Liquidated: %v\n", snap.Liquidated)
	return nil
}
