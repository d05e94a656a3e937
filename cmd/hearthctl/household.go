package main

import (
	"fmt"

	"connectrpc.com/connect"
	"github.com/spf13/cobra"

	"github.com/mmynk/hearth/pkg/api"
)

var householdCmd = &cobra.Command{
	Use:     "household",
	Aliases: []string{"hh"},
	Short:   "Create, join and inspect households",
}

var householdCreateCmd = &cobra.Command{
	Use:   "create NAME",
	Short: "Create a household and select it",
	Args:  cobra.ExactArgs(1),
	RunE:  runHouseholdCreate,
}

var householdJoinCmd = &cobra.Command{
	Use:   "join INVITE_CODE",
	Short: "Join a household and select it",
	Args:  cobra.ExactArgs(1),
	RunE:  runHouseholdJoin,
}

var householdListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your households",
	Args:  cobra.NoArgs,
	RunE:  runHouseholdList,
}

var householdMembersCmd = &cobra.Command{
	Use:   "members",
	Short: "List members of the selected household",
	Args:  cobra.NoArgs,
	RunE:  runHouseholdMembers,
}

var householdUseCmd = &cobra.Command{
	Use:   "use HOUSEHOLD_ID",
	Short: "Select the default household",
	Args:  cobra.ExactArgs(1),
	RunE:  runHouseholdUse,
}

func init() {
	householdCmd.AddCommand(householdCreateCmd, householdJoinCmd, householdListCmd, householdMembersCmd, householdUseCmd)
	rootCmd.AddCommand(householdCmd)
}

func runHouseholdCreate(cmd *cobra.Command, args []string) error {
	c, err := newClients()
	if err != nil {
		return err
	}
	resp, err := c.households.CreateHousehold(cmd.Context(), connect.NewRequest(&api.CreateHouseholdRequest{Name: args[0]}))
	if err != nil {
		return describe(err)
	}
	h := resp.Msg.Household
	fmt.Printf("  Created %s\n  ID:          %s\n  Invite code: %s\n", h.Name, h.ID, h.InviteCode)
	return selectHousehold(h.ID)
}

func runHouseholdJoin(cmd *cobra.Command, args []string) error {
	c, err := newClients()
	if err != nil {
		return err
	}
	resp, err := c.households.JoinHousehold(cmd.Context(), connect.NewRequest(&api.JoinHouseholdRequest{InviteCode: args[0]}))
	if err != nil {
		return describe(err)
	}
	fmt.Printf("  Joined %s (%s)\n", resp.Msg.Household.Name, resp.Msg.Household.ID)
	return selectHousehold(resp.Msg.Household.ID)
}

func runHouseholdList(cmd *cobra.Command, _ []string) error {
	c, err := newClients()
	if err != nil {
		return err
	}
	resp, err := c.households.ListHouseholds(cmd.Context(), connect.NewRequest(&api.ListHouseholdsRequest{}))
	if err != nil {
		return describe(err)
	}
	if len(resp.Msg.Households) == 0 {
		fmt.Println("  No households yet. Create one with `hearthctl household create NAME`.")
		return nil
	}
	for _, h := range resp.Msg.Households {
		marker := " "
		if h.ID == c.cfg.Household {
			marker = "*"
		}
		fmt.Printf("%s %-36s  %-8s  %s\n", marker, h.ID, h.InviteCode, h.Name)
	}
	return nil
}

func runHouseholdMembers(cmd *cobra.Command, _ []string) error {
	c, err := newClients()
	if err != nil {
		return err
	}
	householdID, err := c.household()
	if err != nil {
		return err
	}
	resp, err := c.households.ListMembers(cmd.Context(), connect.NewRequest(&api.ListMembersRequest{HouseholdID: householdID}))
	if err != nil {
		return describe(err)
	}
	for _, m := range resp.Msg.Members {
		fmt.Printf("  %-36s  %s\n", m.ID, m.DisplayName)
	}
	return nil
}

func runHouseholdUse(_ *cobra.Command, args []string) error {
	return selectHousehold(args[0])
}

func selectHousehold(id string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.Household = id
	if err := saveConfig(cfg); err != nil {
		return err
	}
	fmt.Printf("  Selected household %s\n", id)
	return nil
}
