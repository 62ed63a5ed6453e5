package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/humblebanana/md2chat"
	"github.com/humblebanana/md2chat/layout"
	"github.com/humblebanana/md2chat/node"
)

const previewWidth = 40

func newInspectCmd(g *globals) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "List parsed elements with their regions and positions",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			text, err := readInput(inputArg(args), cmd.InOrStdin())
			if err != nil {
				return err
			}
			p := md2chat.Build(text, md2chat.BuildOptions{Catalog: cfg.Catalog()})
			if asJSON {
				return md2chat.EncodeJSON(cmd.OutOrStdout(), p)
			}
			printInspection(cmd.OutOrStdout(), p)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the layout snapshot as JSON")
	return cmd
}

func printInspection(w io.Writer, p *md2chat.Preview) {
	fmt.Fprintf(w, "%s %s words, %s min read\n\n",
		StyleTitle.Render("Document"),
		StyleNumber.Render(fmt.Sprint(p.Document.WordCount)),
		StyleNumber.Render(fmt.Sprint(p.Document.ReadingTimeMinutes)),
	)

	area := ""
	for _, el := range p.Elements {
		if el.TargetArea != area {
			area = el.TargetArea
			name := area
			if r, ok := layout.RegionByID(area); ok {
				name = r.Name
			}
			fmt.Fprintln(w, StyleHighlight.Render(name))
		}
		pos := el.Position
		line := styleColID.Render(el.ID) +
			styleColType.Render(string(el.Type)) +
			styleColPos.Render(fmt.Sprintf("(%d,%d) %dx%d", pos.X, pos.Y, pos.Width, pos.Height)) +
			StyleValue.Render(preview(p.Tokens.Plain(el.Content), el))
		fmt.Fprintln(w, "  "+line)
		if el.Overflow {
			printWarning(w, "%s overflows %s", el.ID, el.TargetArea)
		}
	}

	if unmapped := p.Unmapped(); len(unmapped) > 0 {
		fmt.Fprintln(w)
		for _, el := range unmapped {
			printWarning(w, "%s (%s) has no region", el.Ident(), el.Type())
		}
	}

	if products := p.Products(); len(products) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, StyleTitle.Render("Products"))
		for _, prod := range products {
			printDetail(w, "%s  %s  %s", prod.SKU, prod.Title, prod.Price)
		}
	}
}

func preview(content string, el md2chat.Element) string {
	if t, ok := el.Node.(*node.Table); ok {
		return fmt.Sprintf("%d columns, %d rows", len(t.Header), len(t.Rows))
	}
	if content == "" && len(el.Children) > 0 {
		return fmt.Sprintf("%d items", len(el.Children))
	}
	content = strings.Join(strings.Fields(content), " ")
	if r := []rune(content); len(r) > previewWidth {
		content = string(r[:previewWidth-1]) + "…"
	}
	return content
}
