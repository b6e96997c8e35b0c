package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/frahmantamala/payraise-portal/internal/cipherbox"
	"github.com/spf13/cobra"
)

var (
	keygenPrint bool
	keygenForce bool
)

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Create the record encryption key file",
	Long: `Create security.key_file with a new random key. Replacing an existing key
makes every stored pay raise unreadable, so --force is required for that.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := cipherbox.GenerateKey()
		if err != nil {
			return err
		}

		if keygenPrint {
			fmt.Fprintln(cmd.OutOrStdout(), cipherbox.EncodeKey(key))
			return nil
		}

		cfg, err := loadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		path := cfg.Security.KeyFile
		if path == "" {
			return errors.New("security.key_file is not set")
		}

		if _, err := os.Stat(path); err == nil && !keygenForce {
			return fmt.Errorf("%s already exists; use --force to replace it", path)
		} else if err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}

		if err := cipherbox.WriteKeyFile(path, key); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote encryption key to %s\n", path)
		return nil
	},
}

func init() {
	keygenCmd.Flags().BoolVar(&keygenPrint, "print", false, "print a base64 key for security.encryption_key instead of writing the key file")
	keygenCmd.Flags().BoolVar(&keygenForce, "force", false, "replace an existing key file")
}
