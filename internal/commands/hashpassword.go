package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/klabast/wb-services/svoz-odpadu/internal/app"
)

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password",
	Short: "Create the auth file protecting the ruleset reload endpoint",
	Long: `Prompts for a username and password and writes "username:argon2id-hash"
to the auth file (auth.file in the config, SVOZ_AUTH_FILE, or auth.secret
next to the binary). The file is created read-only.`,
	Args: cobra.NoArgs,
	RunE: runHashPassword,
}

func init() {
	rootCmd.AddCommand(hashPasswordCmd)
	hashPasswordCmd.Flags().Bool("overwrite", false, "Replace an existing auth file without asking")
}

func runHashPassword(cmd *cobra.Command, args []string) error {
	overwrite, _ := cmd.Flags().GetBool("overwrite")
	in := bufio.NewReader(cmd.InOrStdin())
	out := cmd.OutOrStdout()

	path, err := app.Settings.AuthFilePath()
	if err != nil {
		return err
	}

	username, err := prompt(in, out, "Enter username: ")
	if err != nil {
		return fmt.Errorf("error reading username: %w", err)
	}
	if username == "" {
		return fmt.Errorf("username cannot be empty")
	}

	password, err := readSecret(cmd.InOrStdin(), in, out, "Enter password:   ")
	if err != nil {
		return fmt.Errorf("error reading password: %w", err)
	}
	confirm, err := readSecret(cmd.InOrStdin(), in, out, "Confirm password: ")
	if err != nil {
		return fmt.Errorf("error reading password confirmation: %w", err)
	}
	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}
	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}

	err = app.WriteAdminCredentials(path, username, password, overwrite)
	if errors.Is(err, app.ErrAuthFileExists) {
		answer, _ := prompt(in, out, fmt.Sprintf("Auth file %s already exists. Overwrite? (y/N): ", path))
		if a := strings.ToLower(answer); a != "y" && a != "yes" {
			return fmt.Errorf("aborted")
		}
		err = app.WriteAdminCredentials(path, username, password, true)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "✅ Auth file created: %s (mode: 0400 read-only)\n", path)
	fmt.Fprintf(out, "   Username: %s\n", username)
	return nil
}

func prompt(in *bufio.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprint(out, label)
	line, err := in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// readSecret reads without echo when src is a terminal and falls back to a
// plain line otherwise (pipes, tests).
func readSecret(src io.Reader, in *bufio.Reader, out io.Writer, label string) (string, error) {
	f, ok := src.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return prompt(in, out, label)
	}

	fmt.Fprint(out, label)
	secret, err := term.ReadPassword(int(f.Fd()))
	fmt.Fprintln(out)
	if err != nil {
		return "", err
	}
	return string(secret), nil
}
