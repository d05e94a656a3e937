package main

import (
	"fmt"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/spf13/cobra"

	"github.com/mmynk/hearth/internal/calculator"
	"github.com/mmynk/hearth/pkg/api"
)

var (
	flagSplit       string
	flagWith        []string
	flagShares      []string
	flagDescription string
	flagAmount      string
	flagMine        bool
)

var expenseCmd = &cobra.Command{
	Use:     "expense",
	Aliases: []string{"ex"},
	Short:   "Record and manage expenses",
}

var expenseAddCmd = &cobra.Command{
	Use:   "add DESCRIPTION AMOUNT",
	Short: "Record an expense you paid",
	Long: "Record an expense you paid. EQUAL splits divide AMOUNT among --with members;\n" +
		"FIXED splits take one --share member=amount per participant.",
	Example: "  hearthctl expense add Groceries 90.00 --with alice,bob,carol\n" +
		"  hearthctl expense add Internet 50 --split fixed --share alice=10 --share bob=40",
	Args: cobra.ExactArgs(2),
	RunE: runExpenseAdd,
}

var expenseListCmd = &cobra.Command{
	Use:   "list",
	Short: "List expenses of the selected household, or --mine across all households",
	Args:  cobra.NoArgs,
	RunE:  runExpenseList,
}

var expenseUpdateCmd = &cobra.Command{
	Use:   "update EXPENSE_ID",
	Short: "Change an expense you paid",
	Args:  cobra.ExactArgs(1),
	RunE:  runExpenseUpdate,
}

var expenseDeleteCmd = &cobra.Command{
	Use:   "delete EXPENSE_ID",
	Short: "Delete an expense you paid",
	Args:  cobra.ExactArgs(1),
	RunE:  runExpenseDelete,
}

func init() {
	expenseAddCmd.Flags().StringVar(&flagSplit, "split", "equal", "Split policy: equal or fixed")
	expenseAddCmd.Flags().StringSliceVar(&flagWith, "with", nil, "Participants of an equal split")
	expenseAddCmd.Flags().StringArrayVar(&flagShares, "share", nil, "Fixed share as member=amount (repeatable)")

	expenseListCmd.Flags().BoolVar(&flagMine, "mine", false, "List the expenses you paid in every household")

	expenseUpdateCmd.Flags().StringVar(&flagDescription, "description", "", "New description")
	expenseUpdateCmd.Flags().StringVar(&flagAmount, "amount", "", "New amount")
	expenseUpdateCmd.Flags().StringArrayVar(&flagShares, "share", nil, "New fixed share as member=amount (repeatable)")

	expenseCmd.AddCommand(expenseAddCmd, expenseListCmd, expenseUpdateCmd, expenseDeleteCmd)
	rootCmd.AddCommand(expenseCmd)
}

func parseShares(args []string) ([]api.Share, error) {
	shares := make([]api.Share, 0, len(args))
	for _, arg := range args {
		member, cents, err := parseShare(arg)
		if err != nil {
			return nil, err
		}
		shares = append(shares, api.Share{MemberID: member, AmountCents: cents})
	}
	return shares, nil
}

func runExpenseAdd(cmd *cobra.Command, args []string) error {
	c, err := newClients()
	if err != nil {
		return err
	}
	householdID, err := c.household()
	if err != nil {
		return err
	}
	cents, err := parseCents(args[1])
	if err != nil {
		return err
	}
	shares, err := parseShares(flagShares)
	if err != nil {
		return err
	}

	resp, err := c.expenses.CreateExpense(cmd.Context(), connect.NewRequest(&api.CreateExpenseRequest{
		HouseholdID:  householdID,
		Description:  args[0],
		AmountCents:  cents,
		SplitPolicy:  strings.ToUpper(flagSplit),
		Participants: flagWith,
		FixedShares:  shares,
	}))
	if err != nil {
		return describe(err)
	}
	printExpense(resp.Msg.Expense)
	return nil
}

func runExpenseList(cmd *cobra.Command, _ []string) error {
	c, err := newClients()
	if err != nil {
		return err
	}

	var expenses []*api.Expense
	if flagMine {
		resp, err := c.expenses.ListMyExpenses(cmd.Context(), connect.NewRequest(&api.ListMyExpensesRequest{}))
		if err != nil {
			return describe(err)
		}
		expenses = resp.Msg.Expenses
	} else {
		householdID, err := c.household()
		if err != nil {
			return err
		}
		resp, err := c.expenses.ListExpenses(cmd.Context(), connect.NewRequest(&api.ListExpensesRequest{HouseholdID: householdID}))
		if err != nil {
			return describe(err)
		}
		expenses = resp.Msg.Expenses
	}

	if len(expenses) == 0 {
		fmt.Println("  No expenses")
		return nil
	}
	for _, e := range expenses {
		fmt.Printf("  %s  %-36s  %12s  %-6s  %s\n",
			e.CreatedAt.Local().Format(time.DateOnly), e.ID,
			calculator.FormatCents(e.AmountCents), e.SplitPolicy, e.Description)
	}
	return nil
}

func runExpenseUpdate(cmd *cobra.Command, args []string) error {
	c, err := newClients()
	if err != nil {
		return err
	}

	req := &api.UpdateExpenseRequest{ExpenseID: args[0]}
	if cmd.Flags().Changed("description") {
		req.Description = &flagDescription
	}
	if cmd.Flags().Changed("amount") {
		cents, err := parseCents(flagAmount)
		if err != nil {
			return err
		}
		req.AmountCents = &cents
	}
	if req.FixedShares, err = parseShares(flagShares); err != nil {
		return err
	}

	resp, err := c.expenses.UpdateExpense(cmd.Context(), connect.NewRequest(req))
	if err != nil {
		return describe(err)
	}
	printExpense(resp.Msg.Expense)
	return nil
}

func runExpenseDelete(cmd *cobra.Command, args []string) error {
	c, err := newClients()
	if err != nil {
		return err
	}
	if _, err := c.expenses.DeleteExpense(cmd.Context(), connect.NewRequest(&api.DeleteExpenseRequest{ExpenseID: args[0]})); err != nil {
		return describe(err)
	}
	fmt.Printf("  Deleted %s\n", args[0])
	return nil
}

func printExpense(e *api.Expense) {
	fmt.Printf("  %s  %s (%s, paid by %s)\n", e.ID, e.Description, calculator.FormatCents(e.AmountCents), e.PayerID)
	for _, s := range e.Shares {
		fmt.Printf("    %-36s  %12s\n", s.MemberID, calculator.FormatCents(s.AmountCents))
	}
}
