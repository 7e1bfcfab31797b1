package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/nftlens/cli/internal/config"
	"github.com/nftlens/cli/internal/host"
	"github.com/pkg/browser"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

const apiKeyPortalURL = "https://unleashnfts.com/developer/api"

// APIKeyCmd manages the stored analytics API key.
type APIKeyCmd struct {
	store   host.KeyValueStore
	prompt  func() (string, error)
	openURL func(string) error
}

type APIKeySetInput struct {
	Key  string
	Open bool
}

// Set stores the key, prompting for it when none is given.
func (a APIKeyCmd) Set(ctx context.Context, in APIKeySetInput) error {
	if in.Open {
		if err := a.openURL(apiKeyPortalURL); err != nil {
			pterm.Warning.Printf("Could not open browser automatically: %v\n", err)
			pterm.Info.Printf("Get an API key at %s\n", apiKeyPortalURL)
		} else {
			pterm.Info.Println("(Opened API key page in browser)")
		}
	}

	key := strings.TrimSpace(in.Key)
	if key == "" && a.prompt != nil {
		entered, err := a.prompt()
		if err != nil {
			return fmt.Errorf("failed to read API key: %w", err)
		}
		key = strings.TrimSpace(entered)
	}
	if key == "" {
		return errors.New("API key cannot be empty")
	}

	if err := a.store.Set(config.APIKeyStorageKey, key); err != nil {
		return fmt.Errorf("failed to store API key: %w", err)
	}
	pterm.Success.Println("API key saved")
	return nil
}

// Get shows whether a key is configured and where it comes from, masked.
func (a APIKeyCmd) Get(ctx context.Context) error {
	if env := strings.TrimSpace(os.Getenv(config.EnvAPIKey)); env != "" {
		rows := [][]string{{"Property", "Value"}, {"Source", config.EnvAPIKey}, {"Key", maskKey(env)}}
		PrintTableNoPad(rows, true)
		return nil
	}
	key, err := a.store.Get(config.APIKeyStorageKey)
	if errors.Is(err, host.ErrNotFound) || (err == nil && strings.TrimSpace(key) == "") {
		pterm.Info.Println("No API key configured. Run 'nftlens apikey set' to add one.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read API key: %w", err)
	}
	rows := [][]string{{"Property", "Value"}, {"Source", "keyring"}, {"Key", maskKey(key)}}
	PrintTableNoPad(rows, true)
	return nil
}

// Clear removes the stored key. Clearing when nothing is stored is not an error.
func (a APIKeyCmd) Clear(ctx context.Context) error {
	err := a.store.Delete(config.APIKeyStorageKey)
	if err != nil && !errors.Is(err, host.ErrNotFound) {
		return fmt.Errorf("failed to clear API key: %w", err)
	}
	pterm.Success.Println("API key cleared")
	if os.Getenv(config.EnvAPIKey) != "" {
		pterm.Warning.Printf("%s is still set in the environment\n", config.EnvAPIKey)
	}
	return nil
}

func maskKey(k string) string {
	k = strings.TrimSpace(k)
	if len(k) <= 8 {
		return strings.Repeat("*", len(k))
	}
	return k[:4] + strings.Repeat("*", len(k)-8) + k[len(k)-4:]
}

// --- Cobra wiring ---

var apikeyCmd = &cobra.Command{
	Use:   "apikey",
	Short: "Manage the analytics API key",
	Long:  "Store, show or remove the UnleashNFTs API key used for all analytics requests",
}

var apikeySetCmd = &cobra.Command{
	Use:   "set [key]",
	Short: "Store the API key",
	Long:  "Store the API key in the OS keychain. Without an argument you are prompted for it.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAPIKeySet,
}

var apikeyGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show the configured API key (masked)",
	Args:  cobra.NoArgs,
	RunE:  runAPIKeyGet,
}

var apikeyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the stored API key",
	Args:  cobra.NoArgs,
	RunE:  runAPIKeyClear,
}

func init() {
	apikeyCmd.AddCommand(apikeySetCmd)
	apikeyCmd.AddCommand(apikeyGetCmd)
	apikeyCmd.AddCommand(apikeyClearCmd)

	apikeySetCmd.Flags().Bool("open", false, "Open the API key sign-up page in your browser")

	rootCmd.AddCommand(apikeyCmd)
}

func promptAPIKey() (string, error) {
	return pterm.DefaultInteractiveTextInput.WithMask("*").Show("Enter your API key")
}

func runAPIKeySet(cmd *cobra.Command, args []string) error {
	open, _ := cmd.Flags().GetBool("open")
	key := ""
	if len(args) > 0 {
		key = args[0]
	}
	a := APIKeyCmd{store: newKeyStore(), prompt: promptAPIKey, openURL: browser.OpenURL}
	return a.Set(cmd.Context(), APIKeySetInput{Key: key, Open: open})
}

func runAPIKeyGet(cmd *cobra.Command, args []string) error {
	a := APIKeyCmd{store: newKeyStore()}
	return a.Get(cmd.Context())
}

func runAPIKeyClear(cmd *cobra.Command, args []string) error {
	a := APIKeyCmd{store: newKeyStore()}
	return a.Clear(cmd.Context())
}
