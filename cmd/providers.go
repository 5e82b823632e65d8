package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/recapkit/recapkit/provider"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List the known capability providers",
	RunE: func(cmd *cobra.Command, args []string) error {
		caps, err := provider.Capabilities()
		if err != nil {
			return err
		}
		for _, c := range caps {
			key := "no key"
			if c.RequiresKey {
				key = "key required"
			}
			fmt.Printf("%-10s %-35s %s\n", c.ID, c.BaseURL, key)
			if len(c.Models) > 0 {
				fmt.Printf("           models: %s\n", strings.Join(c.Models, ", "))
			}
		}
		return nil
	},
}

var providersTestCmd = &cobra.Command{
	Use:   "test <id>",
	Short: "Test connectivity to one provider",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		pc := cfg.ProviderFor(id)
		prov, err := provider.Open(id, provider.Settings{
			BaseURL:        pc.BaseURL,
			APIKey:         pc.APIKey,
			Model:          pc.Model,
			ConnectTimeout: cfg.Timeouts.Connect(),
			ReceiveTimeout: cfg.Timeouts.Receive(),
		})
		if err != nil {
			return err
		}
		ok, msg := prov.TestConnection(cmd.Context())
		if !ok {
			return fmt.Errorf("%s: %s", id, msg)
		}
		fmt.Printf("%s: %s\n", id, msg)
		return nil
	},
}

func init() {
	providersCmd.AddCommand(providersTestCmd)
	rootCmd.AddCommand(providersCmd)
}
