package commands

import (
	"fmt"

	"github.com/qlpt/rental-portal/gateway"
	"github.com/qlpt/rental-portal/internal/errors"
	"github.com/qlpt/rental-portal/listing"
	"github.com/spf13/cobra"
)

var (
	contractsSearch string
	contractsStatus string

	contractRoom    int
	contractTenant  int
	contractStart   string
	contractEnd     string
	contractDeposit string
	contractCycle   string
)

var contractsCmd = &cobra.Command{
	Use:     "contracts",
	Aliases: []string{"contract"},
	Short:   "Browse and manage lease contracts",
}

var contractsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List contracts; tenants only see their own",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := current
		if _, err := a.requireSession(); err != nil {
			return err
		}
		status := gateway.ContractStatus(contractsStatus)
		if status != "" && !status.Valid() {
			return errors.Wrapf(errors.ErrInvalidInput, "--status %q must be ACTIVE, ENDED or SUSPENDED", contractsStatus)
		}
		contracts, err := gateway.ListAll(cmd.Context(), a.api.ListContracts, gateway.ListParams{PageSize: 100, Ordering: "-start_date"})
		if err != nil {
			return err
		}
		return a.printContracts(listing.FilterContracts(contracts, contractsSearch, status))
	},
}

var contractsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one contract",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := current
		if _, err := a.requireSession(); err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		contract, err := a.api.GetContract(cmd.Context(), id)
		if err != nil {
			return err
		}
		return a.printContract(contract)
	},
}

var contractsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Lease a vacant room to a tenant",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := current
		if err := a.requireOwner(); err != nil {
			return err
		}
		deposit, err := parseAmount("deposit", contractDeposit)
		if err != nil {
			return err
		}
		in := gateway.ContractCreate{
			Room:         contractRoom,
			Tenant:       contractTenant,
			StartDate:    contractStart,
			BillingCycle: contractCycle,
		}
		if deposit != nil {
			in.Deposit = *deposit
		}
		if contractEnd != "" {
			in.EndDate = &contractEnd
		}
		contract, err := a.api.CreateContract(cmd.Context(), in)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, okText("Đã tạo hợp đồng."))
		return a.printContract(contract)
	},
}

var contractsEndCmd = &cobra.Command{
	Use:   "end <id>",
	Short: "End an active contract today and free its room",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := current
		if err := a.requireOwner(); err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		contract, err := a.api.EndContract(cmd.Context(), id)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, okText("Đã kết thúc hợp đồng."))
		return a.printContract(contract)
	},
}

var contractsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove a contract",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := current
		if err := a.requireOwner(); err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := a.api.DeleteContract(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%s #%d\n", okText("Đã xóa hợp đồng"), id)
		return nil
	},
}

func init() {
	lf := contractsListCmd.Flags()
	lf.StringVar(&contractsSearch, "search", "", "match room or tenant names")
	lf.StringVar(&contractsStatus, "status", "", "ACTIVE, ENDED or SUSPENDED")

	cf := contractsCreateCmd.Flags()
	cf.IntVar(&contractRoom, "room", 0, "room id")
	cf.IntVar(&contractTenant, "tenant", 0, "tenant user id")
	cf.StringVar(&contractStart, "start", "", "start date, YYYY-MM-DD")
	cf.StringVar(&contractEnd, "end", "", "optional end date, YYYY-MM-DD")
	cf.StringVar(&contractDeposit, "deposit", "0", "deposit in VND")
	cf.StringVar(&contractCycle, "cycle", "MONTHLY", "billing cycle")
	_ = contractsCreateCmd.MarkFlagRequired("room")
	_ = contractsCreateCmd.MarkFlagRequired("tenant")
	_ = contractsCreateCmd.MarkFlagRequired("start")

	contractsCmd.AddCommand(contractsListCmd, contractsGetCmd, contractsCreateCmd, contractsEndCmd, contractsDeleteCmd)
	rootCmd.AddCommand(contractsCmd)
}
