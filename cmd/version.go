package cmd

import (
	"context"
	"strings"
	"time"

	"github.com/nftlens/cli/pkg/update"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// ReleaseChecker looks up the latest published release.
type ReleaseChecker func(ctx context.Context) (tag string, url string, err error)

type VersionCmd struct {
	meta   Metadata
	latest ReleaseChecker
}

type VersionInput struct {
	Check bool
}

// Show prints build information and, when asked, whether a newer release exists.
func (v VersionCmd) Show(ctx context.Context, in VersionInput) error {
	rows := pterm.TableData{{"Property", "Value"}}
	rows = append(rows, []string{"Version", strings.TrimPrefix(v.meta.Version, "v")})
	rows = append(rows, []string{"Commit", v.meta.Commit})
	rows = append(rows, []string{"Built", v.meta.Date})
	PrintTableNoPad(rows, true)

	if !in.Check {
		return nil
	}

	tag, url, err := v.latest(ctx)
	if err != nil {
		pterm.Warning.Printf("Could not check for updates: %v\n", err)
		return nil
	}
	newer, err := update.IsNewerVersion(v.meta.Version, tag)
	if err != nil {
		pterm.Warning.Printf("Could not compare versions (%s vs %s): %v\n", v.meta.Version, tag, err)
		return nil
	}
	if !newer {
		pterm.Success.Println("You are on the latest version")
		return nil
	}
	printNewRelease(v.meta.Version, tag, url)
	pterm.Info.Printf("Run 'nftlens upgrade' or: %s\n", update.SuggestUpgradeCommand())
	return nil
}

// --- Cobra wiring ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Args:  cobra.NoArgs,
	RunE:  runVersion,
}

func init() {
	versionCmd.Flags().Bool("check", false, "Check GitHub for a newer release")
	rootCmd.AddCommand(versionCmd)
}

func runVersion(cmd *cobra.Command, args []string) error {
	check, _ := cmd.Flags().GetBool("check")
	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	v := VersionCmd{meta: metadata, latest: update.FetchLatest}
	return v.Show(ctx, VersionInput{Check: check})
}
