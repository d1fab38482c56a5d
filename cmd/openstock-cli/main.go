// OpenStock CLI — инструмент командной строки для управления
// рассылкой через HTTP API.
//
// Использование:
//
//	openstock [--api-url URL] [--json] <command> <subcommand> [flags]
//
// Команды:
//
//	digest    Статус и ручной запуск рассылки
//	job       Просмотр jobs
//	welcome   Постановка welcome-писем
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/HarveyGG/OpenStock/internal/cli"
)

// version задаётся через ldflags при сборке.
var version = "dev"

func main() {
	var apiURL string
	var jsonOutput bool

	rootCmd := &cobra.Command{
		Use:           "openstock",
		Short:         "OpenStock CLI — market news digest tool",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "http://localhost:8080", "API server URL")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	clientFn := func() *cli.Client { return cli.NewClient(apiURL) }
	outputFn := func() *cli.Output { return cli.NewOutput(jsonOutput) }

	rootCmd.AddCommand(
		cli.NewDigestCmd(clientFn, outputFn),
		cli.NewJobCmd(clientFn, outputFn),
		cli.NewWelcomeCmd(clientFn, outputFn),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
