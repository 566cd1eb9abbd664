package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	bio "github.com/matzehuels/campaigncanvas/pkg/io"
)

// boardsCommand groups the store management subcommands.
func (c *CLI) boardsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "boards",
		Aliases: []string{"board"},
		Short:   "Manage boards in the configured store",
	}

	cmd.AddCommand(c.boardsListCommand())
	cmd.AddCommand(c.boardsShowCommand())
	cmd.AddCommand(c.boardsImportCommand())
	cmd.AddCommand(c.boardsExportCommand())
	cmd.AddCommand(c.boardsDeleteCommand())

	return cmd
}

func (c *CLI) boardsListCommand() *cobra.Command {
	var tenant string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a tenant's boards, most recently updated first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			list, err := st.List(cmd.Context(), tenant)
			if err != nil {
				return err
			}
			if len(list) == 0 {
				printInfo("No boards for tenant %s", StyleHighlight.Render(tenant))
				printNextStep("Import one with", "campaigncanvas boards import board.json")
				return nil
			}
			fmt.Println(boardTable(list))
			return nil
		},
	}
	tenantFlag(cmd, &tenant)
	return cmd
}

func (c *CLI) boardsShowCommand() *cobra.Command {
	var tenant string
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print a stored board as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			b, err := st.Get(cmd.Context(), tenant, args[0])
			if err != nil {
				return err
			}
			return bio.WriteJSON(b, cmd.OutOrStdout())
		},
	}
	tenantFlag(cmd, &tenant)
	return cmd
}

func (c *CLI) boardsImportCommand() *cobra.Command {
	var tenant, id string
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Store a board document, replacing any board with the same id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := bio.ImportJSON(args[0])
			if err != nil {
				return err
			}
			if id != "" {
				b.ID = id
			}
			if b.ID == "" {
				return fmt.Errorf("%s has no id; pass --id", args[0])
			}
			b.Tenant = tenant

			st, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.Put(cmd.Context(), b); err != nil {
				return err
			}
			printSuccess("Stored board %s", StyleHighlight.Render(b.ID))
			printStats(len(b.Blocks), len(b.Edges), len(b.Route(0)))
			return nil
		},
	}
	tenantFlag(cmd, &tenant)
	cmd.Flags().StringVar(&id, "id", "", "board id (defaults to the document's id)")
	return cmd
}

func (c *CLI) boardsExportCommand() *cobra.Command {
	var tenant, output string
	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Write a stored board to a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			b, err := st.Get(cmd.Context(), tenant, args[0])
			if err != nil {
				return err
			}
			if output == "" {
				output = b.ID + ".json"
			}
			if err := bio.ExportJSON(b, output); err != nil {
				return err
			}
			printSuccess("Exported %s", b.ID)
			printFile(output)
			return nil
		},
	}
	tenantFlag(cmd, &tenant)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <id>.json)")
	return cmd
}

func (c *CLI) boardsDeleteCommand() *cobra.Command {
	var tenant string
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a stored board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.Delete(cmd.Context(), tenant, args[0]); err != nil {
				return err
			}
			printSuccess("Deleted %s", args[0])
			return nil
		},
	}
	tenantFlag(cmd, &tenant)
	return cmd
}

// loadBoard reads a board from a file path, or from stdin for "-".
func loadBoard(path string) (*boardSource, error) {
	if path == "-" {
		b, err := bio.ReadJSON(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("stdin: %w", err)
		}
		return &boardSource{Board: b, name: "board"}, nil
	}
	b, err := bio.ImportJSON(path)
	if err != nil {
		return nil, err
	}
	return &boardSource{Board: b, name: trimExt(path)}, nil
}
