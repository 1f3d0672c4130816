package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"biblioteca/pkg/models"
)

var loansCmd = &cobra.Command{
	Use:   "loans",
	Short: "Loan commands",
	Long:  `Create, list, and return book loans.`,
}

func printLoanList(loans []models.Loan) {
	if len(loans) == 0 {
		fmt.Println("No loans found")
		return
	}
	fmt.Printf("Found %d loan(s):\n\n", len(loans))
	for i, loan := range loans {
		fmt.Printf("%d. %s -> %s\n", i+1, loan.BookTitle, loan.UserName)
		fmt.Printf("   ID: %d  Status: %s\n", loan.ID, loan.Status)
		fmt.Printf("   Loaned: %s  Due: %s\n", loan.LoanDate, loan.DueDate)
		if loan.ReturnDate != nil {
			fmt.Printf("   Returned: %s\n", *loan.ReturnDate)
		}
		fmt.Println()
	}
}

var loansListCmd = &cobra.Command{
	Use:   "list",
	Short: "List loans",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "/loans"
		if status, _ := cmd.Flags().GetString("status"); status != "" {
			path += "?status=" + status
		}
		var res struct {
			Loans []models.Loan `json:"loans"`
		}
		if err := apiGet(path, &res); err != nil {
			return err
		}
		printLoanList(res.Loans)
		return nil
	},
}

var loansOverdueCmd = &cobra.Command{
	Use:   "overdue",
	Short: "List overdue loans",
	RunE: func(cmd *cobra.Command, args []string) error {
		var res struct {
			Loans []models.Loan `json:"loans"`
		}
		if err := apiGet("/loans/overdue", &res); err != nil {
			return err
		}
		printLoanList(res.Loans)
		return nil
	},
}

var loansCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Loan a book to a borrower",
	RunE: func(cmd *cobra.Command, args []string) error {
		bookID, _ := cmd.Flags().GetInt64("book")
		userID, _ := cmd.Flags().GetInt64("user")
		loanDate, _ := cmd.Flags().GetString("loan-date")
		dueDate, _ := cmd.Flags().GetString("due-date")

		in := models.LoanInput{
			BookID:   &bookID,
			UserID:   &userID,
			LoanDate: &loanDate,
			DueDate:  &dueDate,
		}
		var loan models.Loan
		if err := apiSend("POST", "/loans", in, &loan); err != nil {
			return err
		}
		printSuccess(fmt.Sprintf("Loan %d created: %s -> %s (due %s)",
			loan.ID, loan.BookTitle, loan.UserName, loan.DueDate))
		return nil
	},
}

var loansReturnCmd = &cobra.Command{
	Use:   "return [id]",
	Short: "Return a loaned book",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var in models.ReturnInput
		if v, _ := cmd.Flags().GetString("condition"); v != "" {
			in.ConditionOnReturn = &v
		}
		if v, _ := cmd.Flags().GetString("notes"); v != "" {
			in.Notes = &v
		}
		var loan models.Loan
		if err := apiSend("POST", "/loans/"+args[0]+"/return", in, &loan); err != nil {
			return err
		}
		printSuccess(fmt.Sprintf("Loan %d returned (%s)", loan.ID, loan.BookTitle))
		return nil
	},
}

var loansRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Recompute overdue statuses now",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := apiSend("POST", "/loans/refresh", nil, nil); err != nil {
			return err
		}
		printSuccess("Overdue statuses refreshed")
		return nil
	},
}

func init() {
	loansListCmd.Flags().String("status", "", "filter by status (active, overdue, returned)")

	loansCreateCmd.Flags().Int64("book", 0, "book id")
	loansCreateCmd.Flags().Int64("user", 0, "borrower id")
	loansCreateCmd.Flags().String("loan-date", "", "loan date (YYYY-MM-DD)")
	loansCreateCmd.Flags().String("due-date", "", "due date (YYYY-MM-DD)")
	loansCreateCmd.MarkFlagRequired("book")
	loansCreateCmd.MarkFlagRequired("user")
	loansCreateCmd.MarkFlagRequired("loan-date")
	loansCreateCmd.MarkFlagRequired("due-date")

	loansReturnCmd.Flags().String("condition", "", "condition on return")
	loansReturnCmd.Flags().String("notes", "", "notes to append to the loan")

	loansCmd.AddCommand(loansListCmd)
	loansCmd.AddCommand(loansOverdueCmd)
	loansCmd.AddCommand(loansCreateCmd)
	loansCmd.AddCommand(loansReturnCmd)
	loansCmd.AddCommand(loansRefreshCmd)
	rootCmd.AddCommand(loansCmd)
}
