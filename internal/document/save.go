package document

import (
	"os"

	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
)

// Bytes renders doc as HCL. Components and wires keep their order.
func (d *Document) Bytes() []byte {
	f := hclwrite.NewEmptyFile()
	body := f.Body()

	if d.System != "" {
		body.SetAttributeValue("system", cty.StringVal(d.System))
	}

	for _, c := range d.Components {
		body.AppendNewline()
		b := body.AppendNewBlock("component", []string{c.ID}).Body()
		b.SetAttributeValue("function", cty.StringVal(c.Function))
		if c.Mode != "" {
			b.SetAttributeValue("mode", cty.StringVal(c.Mode))
		}
		if len(c.Units) > 0 {
			b.SetAttributeValue("units", stringMap(c.Units))
		}
		if len(c.Options) > 0 {
			b.SetAttributeValue("options", stringMap(c.Options))
		}
		if len(c.Values) > 0 {
			b.SetAttributeValue("values", valueObject(c.Values))
		}
	}

	for _, w := range d.Wires {
		body.AppendNewline()
		b := body.AppendNewBlock("wire", nil).Body()
		b.SetAttributeValue("from", cty.StringVal(w.From.String()))
		b.SetAttributeValue("to", cty.StringVal(w.To.String()))
	}

	return hclwrite.Format(f.Bytes())
}

// Save writes doc to path.
func (d *Document) Save(path string) error {
	return os.WriteFile(path, d.Bytes(), 0o644)
}

func stringMap(m map[string]string) cty.Value {
	attrs := make(map[string]cty.Value, len(m))
	for k, v := range m {
		attrs[k] = cty.StringVal(v)
	}
	return cty.ObjectVal(attrs)
}

func valueObject(values map[string][]cty.Value) cty.Value {
	attrs := make(map[string]cty.Value, len(values))
	for name, vs := range values {
		if len(vs) == 1 {
			attrs[name] = vs[0]
			continue
		}
		attrs[name] = cty.TupleVal(vs)
	}
	return cty.ObjectVal(attrs)
}
