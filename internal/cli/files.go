package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"aisdk/internal/core"
)

func newFilesCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "files",
		Short: "Upload, list and download files",
	}
	cmd.AddCommand(
		newFilesUploadCmd(flags),
		newFilesListCmd(flags),
		newFilesGetCmd(flags),
		newFilesDeleteCmd(flags),
		newFilesDownloadCmd(flags),
	)
	return cmd
}

func newFilesUploadCmd(flags *rootFlags) *cobra.Command {
	var (
		purpose  string
		parallel int
	)
	cmd := &cobra.Command{
		Use:   "upload <path>...",
		Short: "Upload one or more files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := initClientContext(cmd, flags)
			if err != nil {
				return err
			}
			defer c.Close()

			infos, err := c.Client.Files.UploadFilePaths(commandContext(cmd), args, core.FileUploadPurpose(purpose), parallel)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, info := range infos {
				fmt.Fprintf(out, "%s\t%s\n", info.ID, info.Filename)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&purpose, "purpose", "p", string(core.FilePurposeAssistants), "Upload purpose (assistants, batch, fine-tune, vision, user_data)")
	cmd.Flags().IntVar(&parallel, "parallel", 4, "Maximum concurrent uploads")
	return cmd
}

func newFilesListCmd(flags *rootFlags) *cobra.Command {
	var (
		purpose string
		order   string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List uploaded files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := initClientContext(cmd, flags)
			if err != nil {
				return err
			}
			defer c.Close()

			pager, err := c.Client.Files.GetFiles(commandContext(cmd), core.FileUploadPurpose(purpose), core.ListOrder(order))
			if err != nil {
				return err
			}
			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintln(tw, "ID\tFILENAME\tBYTES\tPURPOSE\tCREATED")
			for f, err := range pager.All() {
				if err != nil {
					return err
				}
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", f.ID, f.Filename, f.Bytes, f.Purpose, formatTime(f.CreatedAt))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&purpose, "purpose", "p", "", "Only list files with this purpose")
	cmd.Flags().StringVar(&order, "order", "", "Sort order (asc, desc)")
	return cmd
}

func newFilesGetCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "get <file-id>",
		Short: "Show a file's metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := initClientContext(cmd, flags)
			if err != nil {
				return err
			}
			defer c.Close()

			info, err := c.Client.Files.GetFile(commandContext(cmd), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), info)
		},
	}
}

func newFilesDeleteCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <file-id>",
		Short: "Delete a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := initClientContext(cmd, flags)
			if err != nil {
				return err
			}
			defer c.Close()

			status, err := c.Client.Files.DeleteFile(commandContext(cmd), args[0])
			if err != nil {
				return err
			}
			if !status.Deleted {
				return fmt.Errorf("file %s was not deleted", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", status.ID)
			return nil
		},
	}
}

func newFilesDownloadCmd(flags *rootFlags) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "download <file-id>",
		Short: "Download a file's content",
		Long:  `Download a file's content to stdout, or to the path given with --output.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := initClientContext(cmd, flags)
			if err != nil {
				return err
			}
			defer c.Close()

			content, err := c.Client.Files.DownloadFile(commandContext(cmd), args[0])
			if err != nil {
				return err
			}
			if output == "" {
				_, err = cmd.OutOrStdout().Write(content.Data)
				return err
			}
			if err := os.WriteFile(output, content.Data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			c.Logger.Info("file downloaded", "file_id", content.ID, "path", output, "bytes", len(content.Data))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write content to this path")
	return cmd
}
