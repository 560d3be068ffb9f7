// Command ovba inspects Office documents and extracts their VBA projects.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/woozymasta/ovba"
	"github.com/woozymasta/ovba/logger"
	"github.com/woozymasta/ovba/ooxml"
)

var inputPath string

func main() {
	root := &cobra.Command{
		Use:           "ovba",
		Short:         "Inspect Office documents and extract VBA projects",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&inputPath, "input", "i", "", "input file (stdin when omitted)")
	root.AddCommand(dumpCmd(), listCmd(), infoCmd(), srcCmd())

	if err := root.Execute(); err != nil {
		log := logger.Logger()
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// readInput returns the whole input document.
func readInput() ([]byte, error) {
	if inputPath == "" {
		return io.ReadAll(os.Stdin)
	}

	return os.ReadFile(inputPath)
}

// vbaPart locates and extracts the raw vbaProject.bin part.
func vbaPart() ([]byte, error) {
	data, err := readInput()
	if err != nil {
		return nil, err
	}

	doc, err := ooxml.Open(data)
	if err != nil {
		return nil, err
	}
	name, ok, err := doc.VBAProjectName()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.New("document does not contain a VBA project")
	}

	return doc.Part(name)
}

// openProject extracts the project part and opens it.
func openProject() (*ovba.Project, error) {
	part, err := vbaPart()
	if err != nil {
		return nil, err
	}

	return ovba.OpenProject(part, nil)
}

func dumpCmd() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Dump the binary VBA project file",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			part, err := vbaPart()
			if err != nil {
				return err
			}
			if outputPath == "" {
				_, err = os.Stdout.Write(part)

				return err
			}

			return os.WriteFile(outputPath, part, 0o644)
		},
	}
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file (stdout when omitted)")

	return cmd
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List storages and streams of the VBA project",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			project, err := openProject()
			if err != nil {
				return err
			}
			for _, entry := range project.Streams() {
				fmt.Printf("Entry: %s (%s)\n", entry.Name, entry.Path)
			}

			return nil
		},
	}
}

func infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Display VBA project information",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			project, err := openProject()
			if err != nil {
				return err
			}
			info, err := project.Information()
			if err != nil {
				return err
			}
			printInformation(info)

			return nil
		},
	}
}

func srcCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "src [module]",
		Short: "Print decompressed module source (all modules when omitted)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			project, err := openProject()
			if err != nil {
				return err
			}
			info, err := project.Information()
			if err != nil {
				return err
			}

			for i := range info.Modules {
				module := &info.Modules[i]
				if len(args) == 1 && module.Name != args[0] {
					continue
				}

				source, err := project.ModuleSource(module)
				if err != nil {
					return err
				}
				fmt.Printf("' ==== %s ====\n%s\n", module.Name, source)

				if len(args) == 1 {
					return nil
				}
			}
			if len(args) == 1 {
				return fmt.Errorf("module not found: %s", args[0])
			}

			return nil
		},
	}
}

func printInformation(info *ovba.ProjectInformation) {
	i := info.Information
	fmt.Printf("Project:       %s\n", i.Name)
	fmt.Printf("SysKind:       %s\n", i.SysKind)
	if i.CompatVersion != 0 {
		fmt.Printf("CompatVersion: %d\n", i.CompatVersion)
	}
	fmt.Printf("LCID:          %d (invoke %d)\n", i.LCID, i.LCIDInvoke)
	fmt.Printf("CodePage:      %d\n", i.CodePage)
	fmt.Printf("Version:       %d.%d\n", i.VersionMajor, i.VersionMinor)
	if i.DocString != "" {
		fmt.Printf("DocString:     %s\n", i.DocString)
	}
	if i.HelpFile != "" {
		fmt.Printf("HelpFile:      %s (context %d)\n", i.HelpFile, i.HelpContext)
	}
	if i.Constants != "" {
		fmt.Printf("Constants:     %s\n", i.Constants)
	}

	fmt.Printf("References:    %d\n", len(info.References))
	for _, ref := range info.References {
		switch r := ref.(type) {
		case *ovba.ReferenceControl:
			fmt.Printf("  control    %s (%s)\n", r.Name, r.LibIDTwiddled)
		case *ovba.ReferenceOriginal:
			fmt.Printf("  original   %s (%s)\n", r.Name, r.LibIDOriginal)
		case *ovba.ReferenceRegistered:
			fmt.Printf("  registered %s (%s)\n", r.Name, r.LibID)
		case *ovba.ReferenceProject:
			fmt.Printf("  project    %s (%s)\n", r.Name, r.LibIDAbsolute)
		}
	}

	fmt.Printf("Modules:       %d\n", len(info.Modules))
	for _, module := range info.Modules {
		attrs := ""
		if module.ReadOnly {
			attrs += " read-only"
		}
		if module.Private {
			attrs += " private"
		}
		fmt.Printf("  %-24s %s stream=%s offset=%d%s\n",
			module.Name, module.Type, module.StreamName, module.TextOffset, attrs)
	}
}
