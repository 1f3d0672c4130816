package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"biblioteca/pkg/models"
)

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "Library statistics",
}

var reportsDashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show the library totals",
	RunE: func(cmd *cobra.Command, args []string) error {
		var m models.DashboardMetrics
		if err := apiGet("/reports/dashboard", &m); err != nil {
			return err
		}
		fmt.Printf("Books:        %d\n", m.TotalBooks)
		fmt.Printf("Authors:      %d\n", m.TotalAuthors)
		fmt.Printf("Users:        %d\n", m.TotalUsers)
		fmt.Printf("Active loans: %d\n", m.ActiveLoans)
		fmt.Printf("Overdue:      %d\n", m.OverdueLoans)
		fmt.Printf("Completed:    %d\n", m.CompletedBooks)
		return nil
	},
}

var reportsGenresCmd = &cobra.Command{
	Use:   "genres",
	Short: "Books per genre",
	RunE: func(cmd *cobra.Command, args []string) error {
		var res struct {
			Genres []models.GenreCount `json:"genres"`
		}
		if err := apiGet("/reports/genres", &res); err != nil {
			return err
		}
		for _, g := range res.Genres {
			fmt.Printf("%-30s %d\n", g.Genre, g.Count)
		}
		return nil
	},
}

var reportsTrendCmd = &cobra.Command{
	Use:   "trend",
	Short: "Books finished per month, last 12 months",
	RunE: func(cmd *cobra.Command, args []string) error {
		var res struct {
			Trend []models.MonthCount `json:"trend"`
		}
		if err := apiGet("/reports/reading-trend", &res); err != nil {
			return err
		}
		for _, m := range res.Trend {
			fmt.Printf("%s  %d\n", m.Month, m.Count)
		}
		return nil
	},
}

var reportsTopAuthorsCmd = &cobra.Command{
	Use:   "top-authors",
	Short: "Authors with the most books",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		var res struct {
			Authors []models.AuthorBookCount `json:"authors"`
		}
		if err := apiGet(fmt.Sprintf("/reports/top-authors?limit=%d", limit), &res); err != nil {
			return err
		}
		for i, a := range res.Authors {
			fmt.Printf("%d. %-30s %d\n", i+1, a.Name, a.BookCount)
		}
		return nil
	},
}

func init() {
	reportsTopAuthorsCmd.Flags().Int("limit", 10, "number of authors to show")

	reportsCmd.AddCommand(reportsDashboardCmd)
	reportsCmd.AddCommand(reportsGenresCmd)
	reportsCmd.AddCommand(reportsTrendCmd)
	reportsCmd.AddCommand(reportsTopAuthorsCmd)
	rootCmd.AddCommand(reportsCmd)
}
