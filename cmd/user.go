package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/frahmantamala/payraise-portal/internal/access"
	"github.com/frahmantamala/payraise-portal/internal/auth"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var userFlags struct {
	username   string
	password   string
	fullName   string
	level      int
	employeeID int64
}

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage portal logins",
}

var userAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a login",
	Long: `Create a login with a security level of 1 (admin), 2 (manager) or 3 (staff).
The password is prompted for without echo unless --password is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		password := userFlags.password
		if password == "" {
			var err error
			if password, err = readPassword(cmd.InOrStdin(), cmd.ErrOrStderr()); err != nil {
				return err
			}
		}

		cfg, err := loadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		app, err := newApplication(ctx, cfg)
		if err != nil {
			return err
		}
		defer app.Close()

		dto := auth.CreateUserDTO{
			Username: userFlags.username,
			Password: password,
			Level:    access.Level(userFlags.level),
			FullName: userFlags.fullName,
		}
		if userFlags.employeeID > 0 {
			id := userFlags.employeeID
			dto.EmployeeID = &id
		}

		u, err := app.Auth.CreateUser(ctx, dto)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created user %s (id %d, level %s)\n", u.Username, u.ID, u.Level)
		return nil
	},
}

// readPassword prompts twice without echo on a terminal and reads one line
// otherwise.
func readPassword(in io.Reader, prompt io.Writer) (string, error) {
	f, ok := in.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("read password: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	fmt.Fprint(prompt, "Password: ")
	first, err := term.ReadPassword(int(f.Fd()))
	fmt.Fprintln(prompt)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	fmt.Fprint(prompt, "Repeat password: ")
	second, err := term.ReadPassword(int(f.Fd()))
	fmt.Fprintln(prompt)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	if string(first) != string(second) {
		return "", errors.New("passwords do not match")
	}
	return string(first), nil
}

func init() {
	userAddCmd.Flags().StringVarP(&userFlags.username, "username", "u", "", "login name (case-sensitive)")
	userAddCmd.Flags().StringVarP(&userFlags.password, "password", "p", "", "password; prompted for when empty")
	userAddCmd.Flags().StringVar(&userFlags.fullName, "full-name", "", "display name")
	userAddCmd.Flags().IntVarP(&userFlags.level, "level", "l", int(access.LevelStaff), "security level 1-3")
	userAddCmd.Flags().Int64Var(&userFlags.employeeID, "employee-id", 0, "employee record this login belongs to")
	_ = userAddCmd.MarkFlagRequired("username")

	userCmd.AddCommand(userAddCmd)
}
