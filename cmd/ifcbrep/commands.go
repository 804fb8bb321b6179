package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gogpu/brep"
	"github.com/gogpu/brep/export"
	"github.com/gogpu/brep/topo"
)

func newConvertCmd(opts *options) *cobra.Command {
	var (
		output string
		format string
	)
	cmd := &cobra.Command{
		Use:   "convert [file...]",
		Short: "Convert items and write them as OBJ or STL",
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := loadItems(cmd, args)
			if err != nil {
				return err
			}
			if format == "" {
				format = strings.TrimPrefix(filepath.Ext(output), ".")
			}
			if format == "" {
				format = "obj"
			}
			if format != "obj" && format != "stl" {
				return fmt.Errorf("unknown format %q, want obj or stl", format)
			}

			_, results, err := convert(cmd, opts, items)
			if err != nil {
				return err
			}
			if len(results) == 0 {
				return fmt.Errorf("none of %d items converted", len(items))
			}

			w, closeFn, err := create(cmd, output)
			if err != nil {
				return err
			}
			if format == "obj" {
				err = export.WriteOBJ(w, results)
			} else {
				name := ""
				if output != "-" {
					name = strings.TrimSuffix(filepath.Base(output), filepath.Ext(output))
				}
				err = export.WriteSTL(w, name, results)
			}
			if cerr := closeFn(); err == nil {
				err = cerr
			}
			return err
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "-", "output file, - for stdout")
	cmd.Flags().StringVarP(&format, "format", "f", "", "obj or stl (default from the output extension)")
	return cmd
}

func newPreviewCmd(opts *options) *cobra.Command {
	var (
		output        string
		width, height int
		labels        bool
	)
	cmd := &cobra.Command{
		Use:   "preview [file...]",
		Short: "Render a plan view PNG of the converted items",
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := loadItems(cmd, args)
			if err != nil {
				return err
			}
			_, results, err := convert(cmd, opts, items)
			if err != nil {
				return err
			}

			w, closeFn, err := create(cmd, output)
			if err != nil {
				return err
			}
			err = export.RenderPreview(w, results, export.WithSize(width, height), export.WithLabels(labels))
			if cerr := closeFn(); err == nil {
				err = cerr
			}
			return err
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "preview.png", "output PNG file, - for stdout")
	cmd.Flags().IntVar(&width, "width", 512, "image width in pixels")
	cmd.Flags().IntVar(&height, "height", 512, "image height in pixels")
	cmd.Flags().BoolVar(&labels, "labels", true, "draw instance identifiers")
	return cmd
}

func newInspectCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [file...]",
		Short: "Convert items and print their topology",
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := loadItems(cmd, args)
			if err != nil {
				return err
			}
			out, _, err := convert(cmd, opts, items)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ITEM\tSHAPE\tSOLIDS\tFACES\tEDGES\tVERTICES\tVOLUME")
			for _, res := range out {
				if res.Err != nil {
					fmt.Fprintf(tw, "%s\terror\t\t\t\t\t\n", label(res.Item))
					continue
				}
				s := res.Result.Shape
				c := topo.Count(s)
				vol := "-"
				if c.Solids > 0 {
					if v, err := topo.Volume(s, 0); err == nil {
						vol = fmt.Sprintf("%.6g", v)
					}
				}
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\t%s\n",
					label(res.Item), s.Kind(), c.Solids, c.Faces, c.Edges, c.Vertices, vol)
			}
			return tw.Flush()
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of ifcbrep",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "ifcbrep version %s\n", brep.Version)
		},
	}
}
