package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xrsl/careerflow/pkg/config"
	"github.com/xrsl/careerflow/pkg/style"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage careerflow configuration",
	Long: `Read and change settings in .careerflow.yaml.

Every key can also be set through the environment, e.g.
CAREERFLOW_STORE_BACKEND=memory or CAREERFLOW_REMOTE_DSN=postgres://...

  careerflow config list
  careerflow config get <key>
  careerflow config set <key> <value>`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return configListCmd.RunE(cmd, args)
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value",
	Long: `Set a configuration value. The value is validated before it is saved.

Examples:
  careerflow config set goal "staff data engineer"
  careerflow config set store.backend redis
  careerflow config set remote.backend postgres
  careerflow config set server.reconcile "*/30 * * * *"`,
	Args:              cobra.ExactArgs(2),
	ValidArgsFunction: completeConfigKeys,
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		if err := config.Set(key, value); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:               "get <key>",
	Short:             "Get a config value",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeConfigKeys,
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := config.Get(args[0])
		if err != nil {
			return err
		}
		if value == "" {
			fmt.Fprintln(cmd.OutOrStdout(), "(not set)")
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), value)
		}
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all config values",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		all, err := config.All()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "\n%s\n", style.C(style.Cyan, style.B("careerflow config")))
		fmt.Fprintf(out, "%s\n", style.C(style.Gray, config.Path()))

		section := ""
		for _, key := range config.Keys() {
			group, name, ok := strings.Cut(key, ".")
			if !ok {
				group, name = "general", key
			}
			if group != section {
				fmt.Fprintf(out, "\n%s\n", style.C(style.Cyan, group))
				section = group
			}
			value := all[key]
			if value == "" {
				value = style.C(style.Gray, "(not set)")
			} else if name == "dsn" {
				value = redactDSN(value)
			}
			fmt.Fprintf(out, "  %-11s %s\n", name, value)
		}
		fmt.Fprintln(out)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configSetCmd, configGetCmd, configListCmd)
	rootCmd.AddCommand(configCmd)
}

func completeConfigKeys(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return config.Keys(), cobra.ShellCompDirectiveNoFileComp
}

// redactDSN hides the password of a URL-style connection string.
func redactDSN(dsn string) string {
	scheme, rest, ok := strings.Cut(dsn, "://")
	if !ok {
		return dsn
	}
	creds, host, ok := strings.Cut(rest, "@")
	if !ok {
		return dsn
	}
	user, _, hasPass := strings.Cut(creds, ":")
	if !hasPass {
		return dsn
	}
	return scheme + "://" + user + ":****@" + host
}
