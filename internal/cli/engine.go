package cli

import (
	"tag-engine/internal/codec"
	"tag-engine/internal/signature"

	"github.com/spf13/cobra"
)

func parseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <text>",
		Short: "Split display-syntax text into tokens",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.codec()
			if err != nil {
				return err
			}
			return write(cmd.OutOrStdout(), a.output, viewOf(codec.Annotate(c.Parse(args[0]))))
		},
	}
}

type editorView struct {
	Editor  string   `json:"editor" yaml:"editor"`
	Markers []string `json:"markers" yaml:"markers"`
}

func toEditorCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "to-editor <source> <target>",
		Short: "Render a target in editor syntax numbered against its source",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.codec()
			if err != nil {
				return err
			}
			source := c.Parse(args[0])
			return write(cmd.OutOrStdout(), a.output, editorView{
				Editor:  c.SerializeToEditorSyntax(c.Parse(args[1]), source),
				Markers: source.MarkerContents(),
			})
		},
	}
}

type decodedView struct {
	Text   string      `json:"text" yaml:"text"`
	Tokens []tokenView `json:"tokens" yaml:"tokens"`
}

func fromEditorCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "from-editor <source> <editor-text>",
		Short: "Decode editor-syntax text back to the source's markers",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.codec()
			if err != nil {
				return err
			}
			seq := c.ParseEditorText(args[1], c.Parse(args[0]))
			return write(cmd.OutOrStdout(), a.output, decodedView{
				Text:   seq.Text(),
				Tokens: viewOf(codec.Annotate(seq)),
			})
		},
	}
}

type glyphView struct {
	Marker string `json:"marker" yaml:"marker"`
	Glyph  string `json:"glyph" yaml:"glyph"`
}

func glyphsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "glyphs <text>",
		Short: "Show the compact display glyph of every marker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.codec()
			if err != nil {
				return err
			}
			markers := c.Parse(args[0]).MarkerContents()
			views := make([]glyphView, len(markers))
			for i, m := range markers {
				views[i] = glyphView{Marker: m, Glyph: codec.DisplayGlyph(m, i)}
			}
			return write(cmd.OutOrStdout(), a.output, views)
		},
	}
}

func signatureCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "signature <text>",
		Short: "Print the marker signature, match key and source hash of a source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.codec()
			if err != nil {
				return err
			}
			return write(cmd.OutOrStdout(), a.output, signature.Of(c.Parse(args[0])))
		},
	}
}
