package cli

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ospdev/yumconf/internal/hashinfo"
)

// NewHashCmd creates the hash command
func NewHashCmd() *cobra.Command {
	var (
		dlrnURL   string
		osVersion string
		release   string
		component string
		tag       string
	)

	cmd := &cobra.Command{
		Use:   "hash",
		Short: "Resolve a DLRN named tag to build hashes",
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := hashinfo.Resolve(hashinfo.Options{
				DLRNURL:   dlrnURL,
				OSVersion: osVersion,
				Release:   release,
				Component: component,
				Tag:       tag,
				Logger:    logrus.StandardLogger(),
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "full_hash: %s\n", info.FullHash)
			if info.CommitHash != "" {
				fmt.Fprintf(out, "commit_hash: %s\n", info.CommitHash)
			}
			if info.DistroHash != "" {
				fmt.Fprintf(out, "distro_hash: %s\n", info.DistroHash)
			}
			if info.ExtendedHash != "" {
				fmt.Fprintf(out, "extended_hash: %s\n", info.ExtendedHash)
			}
			fmt.Fprintf(out, "dlrn_url: %s\n", info.SourceURL)
			return nil
		},
	}

	cmd.Flags().StringVar(&dlrnURL, "dlrn-url", hashinfo.DefaultDLRNURL,
		"Base URL of the DLRN server")
	cmd.Flags().StringVar(&osVersion, "os-version", "centos9",
		"OS and version to fetch hashes for, e.g. centos9")
	cmd.Flags().StringVar(&release, "release", "master",
		"OpenStack release to fetch hashes for")
	cmd.Flags().StringVar(&component, "component", "",
		"CI component to narrow the lookup to")
	cmd.Flags().StringVar(&tag, "tag", hashinfo.DefaultTag,
		"Named tag to resolve")

	return cmd
}
