package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/passguardian/passguardian-go/internal/apiclient"
	"github.com/passguardian/passguardian-go/internal/model"
	"github.com/passguardian/passguardian-go/internal/service"
)

func newCheckCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check the strength of a password read from the terminal or stdin",
		Long: "Check the strength of a password. The password is read from a hidden\n" +
			"prompt, or from the first line of stdin when it is not a terminal.\n" +
			"It is never accepted as an argument.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := readPassword(cmd.InOrStdin(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			res, _, err := a.checker.Check(cmd.Context(), password)
			if err != nil {
				return friendly(err, "Failed to check password. Make sure the backend server is running.")
			}
			printResult(cmd.OutOrStdout(), res)
			return nil
		},
	}
}

func newGenerateCommand(a *app) *cobra.Command {
	settings := model.DefaultGeneratorSettings()
	var noUpper, noNumbers, noSymbols, copyOut bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings.UseUppercase = !noUpper
			settings.UseNumbers = !noNumbers
			settings.UseSymbols = !noSymbols

			resp, _, err := a.generator.Generate(cmd.Context(), settings)
			if err != nil {
				return friendly(err, "Failed to generate password. Make sure the backend server is running.")
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, resp.Password)
			fmt.Fprintln(out, model.LengthLabel(resp.Length))
			printResult(out, resp.Result())

			if copyOut {
				method, err := a.copier.Copy(resp.Password)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Copied! (%s)\n", method)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&settings.Length, "length", "l", settings.Length,
		fmt.Sprintf("password length (%d-%d)", model.MinGenerateLength, model.MaxGenerateLength))
	cmd.Flags().BoolVar(&noUpper, "no-uppercase", false, "leave out uppercase letters")
	cmd.Flags().BoolVar(&noNumbers, "no-numbers", false, "leave out numbers")
	cmd.Flags().BoolVar(&noSymbols, "no-symbols", false, "leave out symbols")
	cmd.Flags().BoolVarP(&copyOut, "copy", "c", false, "copy the password to the clipboard")
	return cmd
}

func newHistoryCommand(a *app) *cobra.Command {
	var filterFlag string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show merged server and local history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, ok := model.ParseHistoryFilter(filterFlag)
			if !ok {
				return fmt.Errorf("unknown filter %q (want all, weak, medium or strong)", filterFlag)
			}

			entries, remoteErr := a.history.List(cmd.Context(), filter)
			if remoteErr != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "Server history unavailable, showing local history.")
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(model.HistoryResponse{History: entries})
			}
			if len(entries) == 0 {
				fmt.Fprintln(out, "No history yet.")
				return nil
			}
			for _, e := range entries {
				kind := "checked"
				if e.IsGenerated() {
					kind = "generated"
				}
				common := ""
				if e.IsCommon {
					common = "  common"
				}
				fmt.Fprintf(out, "%s  %-9s  %-6s  %2d chars%s\n", e.Timestamp, kind, e.Rating, e.Length, common)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&filterFlag, "filter", "f", "all", "show only one rating: all, weak, medium, strong")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")

	cmd.AddCommand(newHistoryClearCommand(a))
	return cmd
}

func newHistoryClearCommand(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear local and server history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				ok, err := confirm(cmd.InOrStdin(), cmd.ErrOrStderr(), "Clear all password history? [y/N] ")
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.ErrOrStderr(), "Cancelled.")
					return nil
				}
			}

			err := a.history.Clear(cmd.Context())
			if errors.Is(err, service.ErrRemoteClearFailed) {
				fmt.Fprintln(cmd.ErrOrStderr(), "History cleared locally; the server history could not be cleared.")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func newSessionCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "session",
		Short: "Print service health and session diagnostics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "service: %s\n", a.client.BaseURL())

			health, err := a.client.Health(cmd.Context())
			if err != nil {
				return friendly(err, "Backend unreachable. Make sure the backend server is running.")
			}
			fmt.Fprintf(out, "health:  %s %s\n", health.Status, health.Message)

			info, err := a.client.SessionInfo(cmd.Context())
			if err != nil {
				return friendly(err, "Session info unavailable.")
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(info)
		},
	}
}

func printResult(w io.Writer, res model.StrengthResult) {
	fmt.Fprintf(w, "Password Strength: %s\n", res.Rating)
	for _, line := range res.Feedback {
		fmt.Fprintf(w, "  %s\n", line)
	}
}

// friendly puts msg in front of failures to reach the service. Input
// errors are returned as they are.
func friendly(err error, msg string) error {
	if apiclient.IsUnavailable(err) {
		return fmt.Errorf("%s (%w)", msg, err)
	}
	return err
}

func readPassword(in io.Reader, prompt io.Writer) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(prompt, "Please enter a password to check: ")
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return string(b), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func confirm(in io.Reader, prompt io.Writer, question string) (bool, error) {
	fmt.Fprint(prompt, question)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}
