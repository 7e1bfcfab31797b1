package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/nftlens/cli/pkg/update"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// UpgradeCmd replaces the running nftlens with the latest release using the
// package manager it was installed with.
type UpgradeCmd struct {
	meta   Metadata
	latest ReleaseChecker
	detect func() (update.InstallMethod, string)
	run    func(ctx context.Context, argv []string) error
}

type UpgradeInput struct {
	DryRun bool
}

func (u UpgradeCmd) Upgrade(ctx context.Context, in UpgradeInput) error {
	pterm.Info.Println("Checking for updates...")
	tag, releaseURL, err := u.latest(ctx)
	if err != nil {
		return fmt.Errorf("failed to check for updates: %w", err)
	}

	newer, err := update.IsNewerVersion(u.meta.Version, tag)
	switch {
	case err != nil:
		// dev builds have no comparable version
		pterm.Warning.Printf("Cannot compare %s with %s, upgrading anyway\n", u.meta.Version, tag)
	case !newer:
		pterm.Success.Printf("You are already on the latest version (%s)\n", strings.TrimPrefix(u.meta.Version, "v"))
		return nil
	default:
		printNewRelease(u.meta.Version, tag, releaseURL)
	}

	method, binaryPath := u.detect()
	if method == update.InstallMethodUnknown {
		printManualUpgradeInstructions(tag, binaryPath)
		return errors.New("could not detect installation method")
	}

	argv := upgradeCommand(method)
	if in.DryRun {
		pterm.Info.Printf("Would run: %s\n", strings.Join(argv, " "))
		return nil
	}
	pterm.Info.Printf("Upgrading via %s...\n", method)
	if err := u.run(ctx, argv); err != nil {
		return fmt.Errorf("%s failed: %w", argv[0], err)
	}
	pterm.Success.Printf("Upgraded to %s\n", strings.TrimPrefix(tag, "v"))
	return nil
}

// printNewRelease announces a release newer than current.
func printNewRelease(current, tag, releaseURL string) {
	pterm.Info.Printf("New version available: %s → %s\n", strings.TrimPrefix(current, "v"), strings.TrimPrefix(tag, "v"))
	if releaseURL != "" {
		pterm.Info.Printf("Release notes: %s\n", releaseURL)
	}
}

// upgradeCommand returns the argv that upgrades an installation made with method.
func upgradeCommand(method update.InstallMethod) []string {
	switch method {
	case update.InstallMethodGo:
		return []string{"go", "install", "github.com/nftlens/cli@latest"}
	default:
		return []string{"brew", "upgrade", "nftlens/tap/nftlens"}
	}
}

func printManualUpgradeInstructions(tag, binaryPath string) {
	version := strings.TrimPrefix(tag, "v")
	archive := fmt.Sprintf("https://github.com/nftlens/cli/releases/download/v%s/nftlens_%s_%s_%s.tar.gz",
		version, version, runtime.GOOS, runtime.GOARCH)
	if binaryPath == "" {
		binaryPath = "/usr/local/bin/nftlens"
	}

	pterm.Warning.Println("Could not detect installation method.")
	pterm.Info.Println("Install the release archive by hand:")
	pterm.Println()
	pterm.Printf("  curl -sSL %s | tar -xz -C /tmp nftlens\n", archive)
	pterm.Printf("  sudo install -m 0755 /tmp/nftlens %s\n", binaryPath)
	pterm.Println()
}

func runCommand(ctx context.Context, argv []string) error {
	c := exec.CommandContext(ctx, argv[0], argv[1:]...)
	c.Stdout, c.Stderr, c.Stdin = os.Stdout, os.Stderr, os.Stdin
	return c.Run()
}

// --- Cobra wiring ---

var upgradeCmd = &cobra.Command{
	Use:     "upgrade",
	Aliases: []string{"update"},
	Short:   "Upgrade nftlens to the latest version",
	Long: `Upgrade nftlens to the latest release.

Installations made with Homebrew or go install are upgraded in place. For
anything else the commands to install the release archive by hand are printed.`,
	Args: cobra.NoArgs,
	RunE: runUpgrade,
}

func init() {
	upgradeCmd.Flags().Bool("dry-run", false, "Show what would be executed without running")
	rootCmd.AddCommand(upgradeCmd)
}

func runUpgrade(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	lookupCtx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()
	latest := func(context.Context) (string, string, error) { return update.FetchLatest(lookupCtx) }

	u := UpgradeCmd{meta: metadata, latest: latest, detect: update.DetectInstallMethod, run: runCommand}
	return u.Upgrade(cmd.Context(), UpgradeInput{DryRun: dryRun})
}
