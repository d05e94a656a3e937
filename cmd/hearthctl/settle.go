package main

import (
	"fmt"
	"time"

	"connectrpc.com/connect"
	"github.com/spf13/cobra"

	"github.com/mmynk/hearth/internal/calculator"
	"github.com/mmynk/hearth/pkg/api"
)

var flagLimit int

var balancesCmd = &cobra.Command{
	Use:   "balances",
	Short: "Show live balances and suggested transfers",
	Args:  cobra.NoArgs,
	RunE:  runBalances,
}

var settleCmd = &cobra.Command{
	Use:   "settle",
	Short: "Open, finalize and review settlements",
}

var settleOpenCmd = &cobra.Command{
	Use:   "open",
	Short: "Freeze the current period into a settlement",
	Args:  cobra.NoArgs,
	RunE:  runSettleOpen,
}

var settleFinalizeCmd = &cobra.Command{
	Use:   "finalize SETTLEMENT_ID",
	Short: "Mark a settlement as paid",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettleFinalize,
}

var settleShowCmd = &cobra.Command{
	Use:   "show [SETTLEMENT_ID]",
	Short: "Show a settlement, or the open one",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSettleShow,
}

var settleHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List past settlements, newest first",
	Args:  cobra.NoArgs,
	RunE:  runSettleHistory,
}

func init() {
	settleHistoryCmd.Flags().IntVar(&flagLimit, "limit", 0, "Maximum settlements to list (0 for server default)")

	settleCmd.AddCommand(settleOpenCmd, settleFinalizeCmd, settleShowCmd, settleHistoryCmd)
	rootCmd.AddCommand(balancesCmd, settleCmd)
}

func runBalances(cmd *cobra.Command, _ []string) error {
	c, err := newClients()
	if err != nil {
		return err
	}
	householdID, err := c.household()
	if err != nil {
		return err
	}
	resp, err := c.settlements.GetBalances(cmd.Context(), connect.NewRequest(&api.GetBalancesRequest{HouseholdID: householdID}))
	if err != nil {
		return describe(err)
	}

	fmt.Printf("  Since %s\n\n", resp.Msg.PeriodStart.Local().Format(time.DateTime))
	printLedger(resp.Msg.Balances, resp.Msg.Transfers)
	return nil
}

func runSettleOpen(cmd *cobra.Command, _ []string) error {
	c, err := newClients()
	if err != nil {
		return err
	}
	householdID, err := c.household()
	if err != nil {
		return err
	}
	resp, err := c.settlements.OpenSettlement(cmd.Context(), connect.NewRequest(&api.OpenSettlementRequest{HouseholdID: householdID}))
	if err != nil {
		return describe(err)
	}
	printSettlement(resp.Msg.Settlement)
	return nil
}

func runSettleFinalize(cmd *cobra.Command, args []string) error {
	c, err := newClients()
	if err != nil {
		return err
	}
	resp, err := c.settlements.FinalizeSettlement(cmd.Context(), connect.NewRequest(&api.FinalizeSettlementRequest{SettlementID: args[0]}))
	if err != nil {
		return describe(err)
	}
	printSettlement(resp.Msg.Settlement)
	return nil
}

func runSettleShow(cmd *cobra.Command, args []string) error {
	c, err := newClients()
	if err != nil {
		return err
	}

	var settlement *api.Settlement
	if len(args) == 1 {
		resp, err := c.settlements.GetSettlement(cmd.Context(), connect.NewRequest(&api.GetSettlementRequest{SettlementID: args[0]}))
		if err != nil {
			return describe(err)
		}
		settlement = resp.Msg.Settlement
	} else {
		householdID, err := c.household()
		if err != nil {
			return err
		}
		resp, err := c.settlements.GetOpenSettlement(cmd.Context(), connect.NewRequest(&api.GetOpenSettlementRequest{HouseholdID: householdID}))
		if err != nil {
			return describe(err)
		}
		settlement = resp.Msg.Settlement
	}

	printSettlement(settlement)
	return nil
}

func runSettleHistory(cmd *cobra.Command, _ []string) error {
	c, err := newClients()
	if err != nil {
		return err
	}
	householdID, err := c.household()
	if err != nil {
		return err
	}
	resp, err := c.settlements.ListSettlementHistory(cmd.Context(), connect.NewRequest(&api.ListSettlementHistoryRequest{
		HouseholdID: householdID,
		Limit:       flagLimit,
	}))
	if err != nil {
		return describe(err)
	}
	if len(resp.Msg.Settlements) == 0 {
		fmt.Println("  No settlements yet")
		return nil
	}
	for _, s := range resp.Msg.Settlements {
		var total int64
		for _, t := range s.Transfers {
			total += t.AmountCents
		}
		fmt.Printf("  %s  %-36s  %-9s  %d transfers  %12s\n",
			s.PeriodEnd.Local().Format(time.DateOnly), s.ID, s.Status, len(s.Transfers), calculator.FormatCents(total))
	}
	return nil
}

func printSettlement(s *api.Settlement) {
	fmt.Printf("  Settlement %s (%s)\n", s.ID, s.Status)
	fmt.Printf("  Period: %s to %s\n",
		s.PeriodStart.Local().Format(time.DateTime), s.PeriodEnd.Local().Format(time.DateTime))
	if s.FinalizedAt != nil {
		fmt.Printf("  Finalized: %s\n", s.FinalizedAt.Local().Format(time.DateTime))
	}
	fmt.Println()
	printLedger(s.Balances, s.Transfers)
}

func printLedger(balances []api.Balance, transfers []api.Transfer) {
	names := make(map[string]string, len(balances))
	fmt.Println("  Balances")
	for _, b := range balances {
		names[b.MemberID] = b.DisplayName
		sign := ""
		if b.NetCents > 0 {
			sign = "+"
		}
		fmt.Printf("    %-20s  %13s\n", b.DisplayName, sign+calculator.FormatCents(b.NetCents))
	}

	fmt.Println("\n  Transfers")
	if len(transfers) == 0 {
		fmt.Println("    All square")
		return
	}
	for _, t := range transfers {
		fmt.Printf("    %s pays %s %s\n", nameOr(names, t.FromMemberID), nameOr(names, t.ToMemberID), calculator.FormatCents(t.AmountCents))
	}
}

func nameOr(names map[string]string, id string) string {
	if n := names[id]; n != "" {
		return n
	}
	return id
}
