package document

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/sectiongrid/internal/ctxlog"
	"github.com/vk/sectiongrid/internal/fsutil"
	"github.com/zclconf/go-cty/cty"
)

type fileRoot struct {
	System     *string           `hcl:"system,optional"`
	Components []*componentBlock `hcl:"component,block"`
	Wires      []*wireBlock      `hcl:"wire,block"`
}

type componentBlock struct {
	ID       string            `hcl:"id,label"`
	Function string            `hcl:"function"`
	Mode     *string           `hcl:"mode,optional"`
	Units    map[string]string `hcl:"units,optional"`
	Options  map[string]string `hcl:"options,optional"`
	Values   cty.Value         `hcl:"values,optional"`
	DefRange hcl.Range         `hcl:",def_range"`
}

type wireBlock struct {
	From     string    `hcl:"from"`
	To       string    `hcl:"to"`
	DefRange hcl.Range `hcl:",def_range"`
}

// Load parses every .hcl file found under paths into one document.
func Load(ctx context.Context, paths ...string) (*Document, error) {
	logger := ctxlog.FromContext(ctx)

	files, err := fsutil.FindFilesByExtension(".hcl", paths...)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .hcl documents found in %v", paths)
	}
	logger.Debug("Discovered documents.", "files", files)

	parser := hclparse.NewParser()
	doc := &Document{}
	for _, path := range files {
		f, diags := parser.ParseHCLFile(path)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse document %s: %w", path, diags)
		}
		if diags := decode(f.Body, doc); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode document %s: %w", path, diags)
		}
	}

	logger.Debug("Document loaded.", "components", len(doc.Components), "wires", len(doc.Wires))
	return doc, nil
}

// Parse decodes a single document held in memory.
func Parse(src []byte, filename string) (*Document, error) {
	f, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, diags
	}
	doc := &Document{}
	if diags := decode(f.Body, doc); diags.HasErrors() {
		return nil, diags
	}
	return doc, nil
}

// decode merges body into doc.
func decode(body hcl.Body, doc *Document) hcl.Diagnostics {
	var root fileRoot
	diags := gohcl.DecodeBody(body, nil, &root)
	if diags.HasErrors() {
		return diags
	}

	if root.System != nil {
		if doc.System != "" && doc.System != *root.System {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Conflicting unit system",
				Detail:   fmt.Sprintf("The document already uses %q.", doc.System),
			})
		}
		doc.System = *root.System
	}

	for _, b := range root.Components {
		if _, dup := doc.Component(b.ID); dup {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate component",
				Detail:   fmt.Sprintf("A component with ID %q is already defined.", b.ID),
				Subject:  b.DefRange.Ptr(),
			})
			continue
		}
		c := Component{ID: b.ID, Function: b.Function, Units: b.Units, Options: b.Options}
		if b.Mode != nil {
			c.Mode = *b.Mode
		}
		values, vdiags := splitValues(b.Values, b.DefRange)
		diags = append(diags, vdiags...)
		c.Values = values
		doc.Components = append(doc.Components, c)
	}

	for _, b := range root.Wires {
		from, errFrom := ParseEndpoint(b.From)
		to, errTo := ParseEndpoint(b.To)
		for _, err := range []error{errFrom, errTo} {
			if err != nil {
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Invalid wire",
					Detail:   err.Error(),
					Subject:  b.DefRange.Ptr(),
				})
			}
		}
		if errFrom == nil && errTo == nil {
			doc.Wires = append(doc.Wires, Wire{From: from, To: to})
		}
	}
	return diags
}

// splitValues turns the values object into per-input value lists. A tuple
// or list supplies several values; anything else is one value.
func splitValues(v cty.Value, rng hcl.Range) (map[string][]cty.Value, hcl.Diagnostics) {
	if v.IsNull() {
		return nil, nil
	}
	if !v.Type().IsObjectType() && !v.Type().IsMapType() {
		return nil, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Invalid values",
			Detail:   fmt.Sprintf("values must be an object, got %s.", v.Type().FriendlyName()),
			Subject:  rng.Ptr(),
		}}
	}
	out := make(map[string][]cty.Value)
	for name, val := range v.AsValueMap() {
		if val.Type().IsTupleType() || val.Type().IsListType() {
			out[name] = val.AsValueSlice()
			continue
		}
		out[name] = []cty.Value{val}
	}
	return out, nil
}
