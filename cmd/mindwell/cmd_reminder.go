package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/user/mindwell/internal/state"
)

func init() {
	rootCmd.AddCommand(reminderCmd)
	reminderCmd.AddCommand(reminderAddCmd, reminderListCmd, reminderRemoveCmd, reminderEnableCmd, reminderDisableCmd)

	reminderAddCmd.Flags().String("name", "", "reminder name (required)")
	reminderAddCmd.Flags().String("message", "", "check-in message text (required)")
	reminderAddCmd.Flags().String("schedule", "", "cron schedule expression")
	reminderAddCmd.Flags().String("session-key", "", "session key (required)")
	_ = reminderAddCmd.MarkFlagRequired("name")
	_ = reminderAddCmd.MarkFlagRequired("message")
	_ = reminderAddCmd.MarkFlagRequired("session-key")
}

func reminderStore() *state.ReminderStore {
	cfg := loadConfig()
	return state.NewReminderStore(filepath.Join(cfg.DataDir, "reminders.json"))
}

var reminderCmd = &cobra.Command{
	Use:   "reminder",
	Short: "Manage check-in reminders",
}

var reminderAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new check-in reminder",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		message, _ := cmd.Flags().GetString("message")
		schedule, _ := cmd.Flags().GetString("schedule")
		sessionKey, _ := cmd.Flags().GetString("session-key")

		store := reminderStore()
		reminder := &state.Reminder{
			Name:       name,
			Message:    message,
			Schedule:   schedule,
			SessionKey: sessionKey,
			Enabled:    true,
		}
		if err := store.Add(reminder); err != nil {
			return fmt.Errorf("add reminder: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Reminder %q added.\n", name)
		return nil
	},
}

var reminderListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all check-in reminders",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := reminderStore()
		reminders, err := store.List()
		if err != nil {
			return fmt.Errorf("list reminders: %w", err)
		}

		if len(reminders) == 0 {
			fmt.Println("No reminders configured.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tSCHEDULE\tENABLED\tSESSION KEY")
		for _, r := range reminders {
			fmt.Fprintf(w, "%s\t%s\t%v\t%s\n",
				r.Name,
				r.Schedule,
				r.Enabled,
				r.SessionKey,
			)
		}
		return w.Flush()
	},
}

var reminderRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a reminder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := reminderStore()
		if err := store.Remove(args[0]); err != nil {
			return fmt.Errorf("remove reminder: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Reminder %q removed.\n", args[0])
		return nil
	},
}

var reminderEnableCmd = &cobra.Command{
	Use:   "enable <name>",
	Short: "Enable a reminder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := reminderStore()
		if err := store.SetEnabled(args[0], true); err != nil {
			return fmt.Errorf("enable reminder: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Reminder %q enabled.\n", args[0])
		return nil
	},
}

var reminderDisableCmd = &cobra.Command{
	Use:   "disable <name>",
	Short: "Disable a reminder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := reminderStore()
		if err := store.SetEnabled(args[0], false); err != nil {
			return fmt.Errorf("disable reminder: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Reminder %q disabled.\n", args[0])
		return nil
	},
}
