package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/inamate/paint/internal/auth"
	"github.com/inamate/paint/internal/document"
	"github.com/inamate/paint/internal/engine"
	"github.com/inamate/paint/internal/paintfile"
	"github.com/inamate/paint/internal/render"
	"github.com/inamate/paint/internal/shape"
)

func readTree(path string) (*paintfile.Tree, []*document.CanvasObject, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	tree, err := paintfile.ReadTree(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	objects, err := tree.CanvasObjects()
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return tree, objects, nil
}

// writeFile writes through fn to path, or to out when path is "-".
func writeFile(path string, out io.Writer, fn func(io.Writer) error) error {
	if path == "-" {
		return fn(out)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info FILE",
		Short: "List the objects in a drawing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, objects, err := readTree(args[0])
			if err != nil {
				return err
			}

			version := tree.Version
			if version == "" {
				version = "legacy"
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "version: %s\nobjects: %d\n", version, len(objects))
			if len(objects) == 0 {
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "#\tTYPE\tCOLOR\tBOUNDS\tTRANSFORM")
			for i, obj := range objects {
				bb := obj.BoundingBox()
				t := obj.Transform
				fmt.Fprintf(tw, "%d\t%s\t%s\t%g,%g %gx%g\tt=(%g,%g) r=%g s=(%g,%g)\n",
					i, obj.Kind(), obj.Shape().ShapeColor(),
					bb.X, bb.Y, bb.Width, bb.Height,
					t.TranslationX, t.TranslationY, t.Rotation, t.ScaleX, t.ScaleY)
			}
			return tw.Flush()
		},
	}
}

func newRenderCmd() *cobra.Command {
	var (
		output string
		format string
		size   render.Size
	)

	cmd := &cobra.Command{
		Use:   "render FILE",
		Short: "Render a drawing to SVG or PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, objects, err := readTree(args[0])
			if err != nil {
				return err
			}

			if format == "" {
				format = strings.TrimPrefix(filepath.Ext(output), ".")
			}
			var write func(io.Writer, render.Size, []engine.DrawCommand) error
			switch format {
			case "svg", "":
				write = render.WriteSVG
			case "pdf":
				write = render.WritePDF
			default:
				return fmt.Errorf("unknown format %q", format)
			}
			if size.Width <= 0 || size.Height <= 0 {
				return errors.New("width and height must be positive")
			}

			commands := engine.CompileDrawCommands(document.New(objects...))
			slog.Debug("render drawing", "objects", len(objects), "commands", len(commands), "format", format)
			return writeFile(output, cmd.OutOrStdout(), func(w io.Writer) error {
				return write(w, size, commands)
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "-", "output file, - for stdout")
	cmd.Flags().StringVarP(&format, "format", "f", "", "svg or pdf (default from the output extension, else svg)")
	cmd.Flags().Float64Var(&size.Width, "width", 1280, "canvas width in pixels")
	cmd.Flags().Float64Var(&size.Height, "height", 720, "canvas height in pixels")
	return cmd
}

func newUpgradeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upgrade FILE OUTPUT",
		Short: "Rewrite a drawing in the current file version",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, objects, err := readTree(args[0])
			if err != nil {
				return err
			}
			if tree.Version == paintfile.Version {
				slog.Info("drawing already current", "file", args[0])
			}
			return writeFile(args[1], cmd.OutOrStdout(), func(w io.Writer) error {
				return paintfile.Encode(w, objects)
			})
		},
	}
}

func newSampleCmd() *cobra.Command {
	var legacy bool

	cmd := &cobra.Command{
		Use:   "sample OUTPUT",
		Short: "Write a sample drawing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			objects := document.NewSampleDocument().Objects()
			return writeFile(args[0], cmd.OutOrStdout(), func(w io.Writer) error {
				if !legacy {
					return paintfile.Encode(w, objects)
				}
				shapes := make([]shape.Shape, len(objects))
				for i, obj := range objects {
					shapes[i] = obj.Shape()
				}
				return paintfile.EncodeLegacy(w, shapes)
			})
		},
	}
	cmd.Flags().BoolVar(&legacy, "legacy", false, "write the unversioned format without transformations")
	return cmd
}

func newTokenCmd() *cobra.Command {
	var (
		secret string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token USER",
		Short: "Issue an API token for USER",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				secret = os.Getenv("JWT_SECRET")
			}
			token, err := auth.NewService(secret).IssueToken(args[0], ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&secret, "secret", "", "signing secret (default $JWT_SECRET)")
	cmd.Flags().DurationVar(&ttl, "ttl", auth.DefaultTokenTTL, "token lifetime")
	return cmd
}
