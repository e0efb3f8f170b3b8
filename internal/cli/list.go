package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mitchellh/go-wordwrap"
	"github.com/specialistvlad/nfcompose/internal/catalog"
	"github.com/spf13/cobra"
)

const descriptionWidth = 72

func (c *command) newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the processes in the catalog",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.appConfig()
			if err != nil {
				return err
			}
			a := c.newApp(cfg)
			cat, err := a.Catalog(a.Context(cmd.Context()))
			if err != nil {
				return err
			}
			printCatalog(c.outW, cat, c.v.GetBool("long"))
			return nil
		},
	}
	cmd.Flags().BoolP("long", "l", false, "Show types, dependencies and full descriptions.")
	return cmd
}

func printCatalog(w io.Writer, cat *catalog.Catalog, long bool) {
	nameColor := color.New(color.FgCyan, color.Bold)
	labelColor := color.New(color.Faint)

	for _, name := range cat.Names() {
		entry, _ := cat.Get(name)
		def := entry.Definition

		if !long {
			nameColor.Fprintf(w, "- %s", name)
			if def.Description != "" {
				fmt.Fprintf(w, ": %s", indent(wordwrap.WrapString(def.Description, descriptionWidth), "    "))
			}
			fmt.Fprintln(w)
			continue
		}

		nameColor.Fprint(w, name)
		if def.PType != "" {
			fmt.Fprintf(w, " (%s)", def.PType)
		}
		fmt.Fprintln(w)
		field := func(label, value string) {
			labelColor.Fprintf(w, "    %-13s", label+":")
			fmt.Fprintf(w, " %s\n", value)
		}
		field("input", typeOrNone(def.InputType))
		field("output", typeOrNone(def.OutputType))
		if len(def.Dependencies) > 0 {
			field("dependencies", strings.Join(def.Dependencies, ", "))
		}
		if def.Description != "" {
			fmt.Fprintf(w, "    %s\n", indent(wordwrap.WrapString(def.Description, descriptionWidth), "    "))
		}
		fmt.Fprintln(w)
	}

	labelColor.Fprint(w, "raw inputs: ")
	fmt.Fprintln(w, strings.Join(cat.RawInputTypes(), ", "))
}

// indent prefixes every line but the first.
func indent(s, prefix string) string {
	return strings.ReplaceAll(s, "\n", "\n"+prefix)
}

func typeOrNone(t string) string {
	if t == "" {
		return "none"
	}
	return t
}
