package main

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/NovaVoxel/NovaLang/internal/nomc"
	"github.com/NovaVoxel/NovaLang/internal/version"
)

type versionPayload struct {
	Tool       string `json:"tool"`
	Version    string `json:"version"`
	GitCommit  string `json:"git_commit,omitempty"`
	BuildDate  string `json:"build_date,omitempty"`
	UnitFormat uint8  `json:"unit_format"`
	Target     string `json:"target"`
	Go         string `json:"go"`
}

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show toolchain version and build metadata",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, _ := cmd.Flags().GetString("format")
			out := cmd.OutOrStdout()
			switch format {
			case "pretty":
				fmt.Fprint(out, version.Banner())
				fmt.Fprintf(out, "unit:    nomc v%d (%s)\n", nomc.FormatVersion, nomc.HostTarget())
				return nil
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(versionPayload{
					Tool:       "nova",
					Version:    version.Version,
					GitCommit:  version.GitCommit,
					BuildDate:  version.BuildDate,
					UnitFormat: nomc.FormatVersion,
					Target:     nomc.HostTarget(),
					Go:         runtime.Version(),
				})
			}
			return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
		},
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}
