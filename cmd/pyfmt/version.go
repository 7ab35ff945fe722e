package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"pyfmt/internal/mode"
	"pyfmt/internal/version"
)

type versionPayload struct {
	Tool      string   `json:"tool"`
	Version   string   `json:"version"`
	GitCommit string   `json:"git_commit,omitempty"`
	BuildDate string   `json:"build_date,omitempty"`
	GoVersion string   `json:"go_version"`
	Platform  string   `json:"platform"`
	Targets   []string `json:"targets,omitempty"`
}

var (
	versionFormat  string
	versionTargets bool
)

func init() {
	versionCmd.Flags().StringVar(&versionFormat, "format", "pretty", "output format (pretty|json)")
	versionCmd.Flags().BoolVar(&versionTargets, "targets", false, "list the supported target versions")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show pyfmt build information",
	RunE: func(cmd *cobra.Command, args []string) error {
		switch strings.ToLower(versionFormat) {
		case "json":
			return renderVersionJSON(cmd.OutOrStdout(), versionTargets)
		case "pretty":
		default:
			return fmt.Errorf("unsupported format %q (must be pretty or json)", versionFormat)
		}
		colored, err := useColor(cmd, os.Stdout)
		if err != nil {
			return err
		}
		renderVersionPretty(cmd.OutOrStdout(), colored, versionTargets)
		return nil
	},
}

func renderVersionPretty(out io.Writer, colored, targets bool) {
	fmt.Fprintln(out, version.Banner(colored))
	if targets {
		fmt.Fprintf(out, "targets: %s\n", joinStrings(mode.AllVersions))
	}
}

func renderVersionJSON(out io.Writer, targets bool) error {
	payload := versionPayload{
		Tool:      "pyfmt",
		Version:   strings.TrimSpace(version.Version),
		GitCommit: strings.TrimSpace(version.GitCommit),
		BuildDate: strings.TrimSpace(version.BuildDate),
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if targets {
		for _, v := range mode.AllVersions {
			payload.Targets = append(payload.Targets, v.String())
		}
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}
