package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"biblioteca/cli/config"
)

var labelsCmd = &cobra.Command{
	Use:   "labels",
	Short: "Spine label printing",
}

var labelsPendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "List books awaiting a label",
	RunE: func(cmd *cobra.Command, args []string) error {
		var res struct {
			Items []struct {
				BookID    int64  `json:"id"`
				Signature string `json:"signature"`
			} `json:"items"`
			Count int `json:"count"`
		}
		if err := apiGet("/labels/pending", &res); err != nil {
			return err
		}
		if res.Count == 0 {
			fmt.Println("No labels pending")
			return nil
		}
		for _, it := range res.Items {
			fmt.Printf("%6d  %s\n", it.BookID, it.Signature)
		}
		return nil
	},
}

var labelsPrintCmd = &cobra.Command{
	Use:   "print [book-id...]",
	Short: "Render a label sheet for the given books",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids := make([]int64, 0, len(args))
		for _, arg := range args {
			id, err := strconv.ParseInt(arg, 10, 64)
			if err != nil {
				printError(fmt.Sprintf("Invalid book id: %s", arg))
				return err
			}
			ids = append(ids, id)
		}

		template, _ := cmd.Flags().GetString("template")
		if template == "" {
			if cfg, err := config.Load(); err == nil && cfg.Labels.Template != "" {
				template = cfg.Labels.Template
			} else {
				template = "65"
			}
		}

		body := map[string]interface{}{"book_ids": ids, "template": template}
		var res struct {
			Count    int    `json:"count"`
			Template string `json:"template"`
			Path     string `json:"path"`
		}
		if err := apiSend("POST", "/labels/print", body, &res); err != nil {
			return err
		}
		printSuccess(fmt.Sprintf("Rendered %d label(s) with template %s", res.Count, res.Template))
		if res.Path != "" {
			fmt.Printf("Sheet: %s\n", res.Path)
		}
		return nil
	},
}

func init() {
	labelsPrintCmd.Flags().String("template", "", "sheet template (65, 24, 21)")

	labelsCmd.AddCommand(labelsPendingCmd)
	labelsCmd.AddCommand(labelsPrintCmd)
	rootCmd.AddCommand(labelsCmd)
}
