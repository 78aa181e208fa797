package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/user/mindwell/internal/config"
)

func init() {
	rootCmd.AddCommand(setupCmd)
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive setup wizard",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		scanner := bufio.NewScanner(os.Stdin)

		fmt.Println("Mindwell Setup Wizard")
		fmt.Println("Press Enter to accept the default value shown in brackets.")
		fmt.Println()

		cfg.Dialogue.BaseURL = prompt(scanner, "Dialogue API base URL", cfg.Dialogue.BaseURL)
		cfg.Dialogue.APIKey = prompt(scanner, "Dialogue API key (optional)", cfg.Dialogue.APIKey)
		cfg.Dialogue.Model = prompt(scanner, "Dialogue model name", cfg.Dialogue.Model)

		cfg.Classifier.BaseURL = prompt(scanner, "Emotion classifier base URL (optional)", cfg.Classifier.BaseURL)
		cfg.Classifier.APIKey = prompt(scanner, "Emotion classifier API key (optional)", cfg.Classifier.APIKey)

		cfg.Telegram.Token = prompt(scanner, "Telegram bot token (optional)", cfg.Telegram.Token)
		chatIDStr := prompt(scanner, "Counselor chat ID for emergency alerts (optional)",
			strconv.FormatInt(cfg.Telegram.CounselorChatID, 10))
		if n, err := strconv.ParseInt(chatIDStr, 10, 64); err == nil {
			cfg.Telegram.CounselorChatID = n
		}

		turnBudgetStr := prompt(scanner, "Turn budget per assessment", strconv.Itoa(cfg.Assessment.TurnBudget))
		if n, err := strconv.Atoi(turnBudgetStr); err == nil {
			cfg.Assessment.TurnBudget = n
		}

		if err := config.Save(cfgPath, cfg); err != nil {
			return fmt.Errorf("save config: %w", err)
		}

		fmt.Println()
		fmt.Println("Configuration saved to", cfgPath)
		return nil
	},
}

// prompt displays a labeled prompt with a default value and reads user input.
// If the user enters nothing, the default is returned.
func prompt(scanner *bufio.Scanner, label, defaultVal string) string {
	if defaultVal != "" {
		fmt.Printf("%s [%s]: ", label, defaultVal)
	} else {
		fmt.Printf("%s: ", label)
	}
	if scanner.Scan() {
		input := strings.TrimSpace(scanner.Text())
		if input != "" {
			return input
		}
	}
	return defaultVal
}
