package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fcrepo4-labs/fcrepo-transform/internal/store"
)

// programInfo is the JSON shape for one stored program.
type programInfo struct {
	Name      string `json:"name"`
	Path      string `json:"path"`
	MediaType string `json:"media_type"`
}

// NewProgramsCommand creates the programs command group.
func NewProgramsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "programs",
		Short: "Manage the named-program store",
	}

	cmd.AddCommand(newProgramsListCommand(rootOpts))
	cmd.AddCommand(newProgramsShowCommand(rootOpts))
	cmd.AddCommand(newProgramsPutCommand(rootOpts))
	cmd.AddCommand(newProgramsDeleteCommand(rootOpts))

	return cmd
}

func newProgramsListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List stored programs",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)

			st, err := store.Open(rootOpts.DBPath)
			if err != nil {
				return failTransform(formatter, "", err)
			}
			defer st.Close()

			programs, err := st.List(cmd.Context())
			if err != nil {
				return failTransform(formatter, "", err)
			}

			if formatter.Format == "json" {
				infos := make([]programInfo, len(programs))
				for i, p := range programs {
					infos[i] = programInfo{Name: p.Name, Path: p.Path, MediaType: p.MediaType}
				}
				return formatter.Success("", infos)
			}

			w := tabwriter.NewWriter(formatter.Writer, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tMEDIA TYPE\tPATH")
			for _, p := range programs {
				fmt.Fprintf(w, "%s\t%s\t%s\n", p.Name, p.MediaType, p.Path)
			}
			return w.Flush()
		},
	}
}

func newProgramsShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show <name>",
		Short:         "Print a stored program's source",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)

			st, err := store.Open(rootOpts.DBPath)
			if err != nil {
				return failTransform(formatter, "", err)
			}
			defer st.Close()

			src, err := st.Resolve(cmd.Context(), args[0])
			if err != nil {
				return failTransform(formatter, "", err)
			}

			if formatter.Format == "json" {
				return formatter.Success("", map[string]string{
					"name":       src.Name,
					"path":       src.Path,
					"media_type": src.MediaType,
					"body":       src.Body,
				})
			}
			fmt.Fprint(formatter.Writer, src.Body)
			return nil
		},
	}
}

func newProgramsPutCommand(rootOpts *RootOptions) *cobra.Command {
	var mediaType string

	cmd := &cobra.Command{
		Use:           "put <name> <program-file>",
		Short:         "Store or replace a named program",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)
			name := args[0]

			source, err := os.ReadFile(args[1])
			if err != nil {
				return WrapExitError(ExitCommandError, "read program", err)
			}

			// Reject unparseable programs before they reach the store.
			if _, err := newRegistry().Select(mediaType, source); err != nil {
				return failTransform(formatter, "", err)
			}

			st, err := store.Open(rootOpts.DBPath)
			if err != nil {
				return failTransform(formatter, "", err)
			}
			defer st.Close()

			if err := st.Put(cmd.Context(), name, mediaType, string(source)); err != nil {
				return failTransform(formatter, "", err)
			}

			return formatter.Success("", fmt.Sprintf("stored program %q", name))
		},
	}

	cmd.Flags().StringVar(&mediaType, "type", "", "program media type (required)")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

func newProgramsDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "delete <name>",
		Short:         "Delete a stored program",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)

			st, err := store.Open(rootOpts.DBPath)
			if err != nil {
				return failTransform(formatter, "", err)
			}
			defer st.Close()

			if err := st.Delete(cmd.Context(), args[0]); err != nil {
				return failTransform(formatter, "", err)
			}

			return formatter.Success("", fmt.Sprintf("deleted program %q", args[0]))
		},
	}
}

// newFormatter builds the standard formatter for a command invocation.
func newFormatter(rootOpts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    rootOpts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   rootOpts.Verbose,
	}
}
