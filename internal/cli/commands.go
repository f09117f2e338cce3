package cli

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/vk/sectiongrid/internal/app"
	"github.com/vk/sectiongrid/internal/host"
	"github.com/vk/sectiongrid/internal/param"
	"github.com/vk/sectiongrid/internal/session"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

func newEvalCommand(o *options, logW io.Writer) *cobra.Command {
	var save string
	cmd := &cobra.Command{
		Use:   "eval [paths...]",
		Short: "Solve documents once and print every component's outputs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, o, logW, args)
			if err != nil {
				return err
			}
			sess, err := a.Eval(cmd.Context())
			if err != nil {
				return err
			}
			failed := printResults(cmd.OutOrStdout(), sess.Results())

			if save != "" {
				if err := sess.Snapshot().Save(save); err != nil {
					return err
				}
			}
			if failed > 0 {
				return errorf(1, "%d component(s) reported errors", failed)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&save, "save", "", "Write the solved document, with its current modes and options, to this path.")
	return cmd
}

func newFunctionsCommand(o *options, logW io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "functions",
		Short: "List the registered functions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, o, logW, nil)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "CATEGORY\tSUBCATEGORY\tNAME\tSHORT\tDESCRIPTION")
			for _, info := range a.Functions() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", info.Category, info.Subcategory, info.Name, info.ShortName, info.Description)
			}
			return w.Flush()
		},
	}
}

func newDescribeCommand(o *options, logW io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "describe NAME",
		Short: "Show the inputs, outputs and options of a function in every mode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, o, logW, nil)
			if err != nil {
				return err
			}
			d, err := a.Describe(args[0])
			if err != nil {
				return errorf(2, "%v", err)
			}
			printDescription(cmd.OutOrStdout(), d)
			return nil
		},
	}
}

func newBridgeCommand(o *options, logW io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bridge [paths...]",
		Short: "Serve documents to a remote node editor over socket.io",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, o, logW, args)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.Serve(ctx)
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.bridgeURL, "url", "", "Base URL of the editor's socket.io server.")
	f.StringVar(&o.namespace, "namespace", "", "socket.io namespace to join.")
	f.IntVar(&o.healthPort, "healthcheck-port", 0, "Port for the HTTP health check server. 0 disables it.")
	return cmd
}

// printResults writes one block per component and returns how many
// components carry errors.
func printResults(out io.Writer, results []session.Result) int {
	failed := 0
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for i, r := range results {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s (%s)\n", r.ID, r.Function)
		hasError := false
		for _, m := range r.Messages {
			fmt.Fprintf(w, "  %s:\t%s\n", m.Severity, m.Text)
			hasError = hasError || m.Severity == host.Error
		}
		if hasError {
			failed++
			continue
		}
		for _, o := range r.Outputs {
			fmt.Fprintf(w, "  %s\t%s\n", o.Label, formatValues(o.Values))
		}
	}
	w.Flush()
	return failed
}

func formatValues(vs []cty.Value) string {
	parts := make([]string, 0, len(vs))
	for _, v := range vs {
		parts = append(parts, formatValue(v))
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func formatValue(v cty.Value) string {
	if v.IsNull() {
		return "null"
	}
	if v.Type() == cty.Number {
		f, _ := v.AsBigFloat().Float64()
		return fmt.Sprintf("%.6g", f)
	}
	raw, err := ctyjson.Marshal(v, v.Type())
	if err != nil {
		return v.GoString()
	}
	return string(raw)
}

func printDescription(out io.Writer, d *app.Description) {
	fmt.Fprintf(out, "%s (%s)\n", d.Info.Name, d.Info.ShortName)
	if d.Info.Description != "" {
		fmt.Fprintf(out, "  %s\n", d.Info.Description)
	}
	fmt.Fprintf(out, "  Category: %s / %s\n", d.Info.Category, d.Info.Subcategory)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, m := range d.Modes {
		fmt.Fprintln(w)
		if m.Name != "" {
			fmt.Fprintf(w, "Mode %s\n", m.Name)
		}
		printAttributes(w, "Inputs", m.Inputs)
		printAttributes(w, "Outputs", m.Outputs)
		if len(m.Options) > 0 {
			fmt.Fprintln(w, "  Options:")
			for _, opt := range m.Options {
				fmt.Fprintf(w, "    %s\t%s\t(selected: %s)\n", opt.Label(), strings.Join(opt.Entries(), ", "), opt.Selected())
			}
		}
	}
	w.Flush()
}

func printAttributes(w io.Writer, title string, attrs []param.Attribute) {
	fmt.Fprintf(w, "  %s:\n", title)
	for _, a := range attrs {
		flag := ""
		if a.Optional {
			flag = "optional"
		}
		fmt.Fprintf(w, "    %s\t%s\t%s\t%s\n", a.Label(), a.Cardinality, flag, a.Description)
	}
}
