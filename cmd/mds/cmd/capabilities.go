package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var namespaceStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8B5CF6")).Bold(true)

var capabilitiesCmd = &cobra.Command{
	Use:   "capabilities",
	Short: "List known capability namespaces and operations",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := newEngine()
		if err != nil {
			printError("initializing engine", err)
			return err
		}

		registry := engine.Registry()
		for _, name := range registry.Names() {
			ns, _ := registry.Lookup(name)
			fmt.Printf("%s  %s\n", namespaceStyle.Render(fmt.Sprintf("%-10s", name)),
				mutedStyle.Render(ns.Description))
			fmt.Printf("           %s\n", strings.Join(registry.OperationNames(name), ", "))
		}
		return nil
	},
}

func init() {
	capabilitiesCmd.SilenceUsage = true
	rootCmd.AddCommand(capabilitiesCmd)
}
