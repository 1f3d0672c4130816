// Package cli is the command-line front end: thin HTTP calls against a
// running API server, plus local config management.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"biblioteca/cli/config"
)

var rootCmd = &cobra.Command{
	Use:   "biblioteca",
	Short: "Personal library manager",
	Long:  `Catalog books, track loans and reading, and print spine labels from the terminal.`,
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the default configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Init(); err != nil {
			printError(fmt.Sprintf("Initialization failed: %v", err))
			return err
		}
		path, _ := config.GetConfigPath()
		printSuccess("Configuration created")
		fmt.Printf("Config file: %s\n", path)
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			printError("Configuration not initialized")
			fmt.Println("Run: biblioteca init")
			return err
		}
		fmt.Printf("Server:    http://%s:%d\n", cfg.Server.Host, cfg.Server.HTTPPort)
		fmt.Printf("Database:  %s\n", cfg.Database.Path)
		fmt.Printf("Labels:    template %s -> %s\n", cfg.Labels.Template, cfg.Labels.OutputDir)
		fmt.Printf("Log level: %s\n", cfg.Logging.Level)
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(configCmd)
}

func printSuccess(msg string) {
	fmt.Printf("✓ %s\n", msg)
}

func printError(msg string) {
	fmt.Fprintf(os.Stderr, "✗ %s\n", msg)
}

// apiGet performs a GET against the configured server and decodes into out.
func apiGet(path string, out interface{}) error {
	serverURL, err := config.GetServerURL()
	if err != nil {
		printError("Configuration not initialized")
		fmt.Println("Run: biblioteca init")
		return err
	}

	resp, err := http.Get(serverURL + path)
	if err != nil {
		printError("Server connection error")
		return err
	}
	defer resp.Body.Close()

	return decodeResponse(resp, out)
}

// apiSend performs a POST/PUT/DELETE with an optional JSON body.
func apiSend(method, path string, body interface{}, out interface{}) error {
	serverURL, err := config.GetServerURL()
	if err != nil {
		printError("Configuration not initialized")
		fmt.Println("Run: biblioteca init")
		return err
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = strings.NewReader(string(payload))
	}

	req, err := http.NewRequest(method, serverURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		printError("Server connection error")
		return err
	}
	defer resp.Body.Close()

	return decodeResponse(resp, out)
}

func decodeResponse(resp *http.Response, out interface{}) error {
	data, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= 400 {
		var errResp map[string]interface{}
		json.Unmarshal(data, &errResp)
		if msg, ok := errResp["error"].(string); ok && msg != "" {
			printError(msg)
			return fmt.Errorf("request failed: %s", msg)
		}
		printError(fmt.Sprintf("Request failed with status %d", resp.StatusCode))
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}
