package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/vk/sectiongrid/internal/ctxlog"
	"github.com/vk/sectiongrid/internal/document"
	"github.com/vk/sectiongrid/internal/session"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
	"github.com/zishang520/engine.io/v2/types"
)

const (
	EventSelectOption      = "select_option"
	EventSetValue          = "set_value"
	EventSolve             = "solve"
	EventParametersChanged = "parameters_changed"
	EventSolved            = "solved"
	EventError             = "bridge_error"
)

// Conn is the part of a socket.io client socket the bridge uses.
type Conn interface {
	On(ev types.EventName, listeners ...types.Listener) error
	Emit(ev string, args ...any) error
}

type SelectOption struct {
	Component string `json:"component"`
	Label     string `json:"label"`
	Entry     string `json:"entry"`
}

type SetValue struct {
	Component string                    `json:"component"`
	Param     string                    `json:"param"`
	Values    []ctyjson.SimpleJSONValue `json:"values"`
}

type ParamView struct {
	Key      string `json:"key"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Access   string `json:"access"`
	Optional bool   `json:"optional,omitempty"`
}

type OptionView struct {
	Label    string   `json:"label"`
	Entries  []string `json:"entries"`
	Selected string   `json:"selected"`
}

// ComponentView is the parameter layout of one component as the editor
// draws it.
type ComponentView struct {
	Component string       `json:"component"`
	Function  string       `json:"function"`
	Mode      string       `json:"mode,omitempty"`
	Inputs    []ParamView  `json:"inputs"`
	Outputs   []ParamView  `json:"outputs"`
	Options   []OptionView `json:"options,omitempty"`
}

type MessageView struct {
	Severity string `json:"severity"`
	Text     string `json:"text"`
}

type ResultView struct {
	Component string                               `json:"component"`
	Function  string                               `json:"function"`
	Messages  []MessageView                        `json:"messages,omitempty"`
	Outputs   map[string][]ctyjson.SimpleJSONValue `json:"outputs"`
}

type Solved struct {
	Results []ResultView `json:"results"`
}

type ErrorView struct {
	Event string `json:"event"`
	Error string `json:"error"`
}

// Bridge serves one session to one editor connection.
type Bridge struct {
	ctx    context.Context
	sess   *session.Session
	conn   Conn
	logger *slog.Logger

	mu sync.Mutex
}

// New creates a bridge. ctx bounds the solves the editor requests.
func New(ctx context.Context, sess *session.Session, conn Conn) *Bridge {
	return &Bridge{
		ctx:    ctx,
		sess:   sess,
		conn:   conn,
		logger: ctxlog.FromContext(ctx).With("component", "bridge"),
	}
}

// Listen subscribes to the editor's events.
func (b *Bridge) Listen() error {
	handlers := map[string]func([]byte) error{
		EventSelectOption: b.selectOption,
		EventSetValue:     b.setValue,
		EventSolve:        func([]byte) error { return b.solve() },
	}
	for ev, fn := range handlers {
		if err := b.conn.On(types.EventName(ev), b.dispatch(ev, fn)); err != nil {
			return fmt.Errorf("failed to subscribe to %s: %w", ev, err)
		}
	}
	return nil
}

func (b *Bridge) dispatch(event string, fn func([]byte) error) types.Listener {
	return func(args ...any) {
		b.mu.Lock()
		defer b.mu.Unlock()

		b.logger.Debug("Event received.", "event", event)
		raw := []byte("{}")
		if len(args) > 0 && args[0] != nil {
			var err error
			if raw, err = json.Marshal(args[0]); err != nil {
				b.fail(event, fmt.Errorf("invalid payload: %w", err))
				return
			}
		}
		if err := fn(raw); err != nil {
			b.fail(event, err)
		}
	}
}

func (b *Bridge) fail(event string, err error) {
	b.logger.Warn("Event failed.", "event", event, "error", err)
	b.emit(EventError, ErrorView{Event: event, Error: err.Error()})
}

// emit sends v as plain JSON data.
func (b *Bridge) emit(event string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		b.logger.Error("Failed to encode event.", "event", event, "error", err)
		return
	}
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		b.logger.Error("Failed to encode event.", "event", event, "error", err)
		return
	}
	if err := b.conn.Emit(event, data); err != nil {
		b.logger.Error("Failed to emit event.", "event", event, "error", err)
	}
}

// Announce sends the parameter layout of every component.
func (b *Bridge) Announce() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, n := range b.sess.Nodes() {
		b.emit(EventParametersChanged, View(n))
	}
}

func (b *Bridge) selectOption(raw []byte) error {
	var req SelectOption
	if err := json.Unmarshal(raw, &req); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	if err := b.sess.Select(req.Component, req.Label, req.Entry); err != nil {
		return err
	}
	n, _ := b.sess.Node(req.Component)
	b.emit(EventParametersChanged, View(n))
	return nil
}

func (b *Bridge) setValue(raw []byte) error {
	var req SetValue
	if err := json.Unmarshal(raw, &req); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	vs := make([]cty.Value, 0, len(req.Values))
	for _, v := range req.Values {
		vs = append(vs, v.Value)
	}
	return b.sess.SetValue(document.Endpoint{Component: req.Component, Param: req.Param}, vs...)
}

func (b *Bridge) solve() error {
	if err := b.sess.Solve(b.ctx); err != nil {
		return err
	}
	var out Solved
	for _, r := range b.sess.Results() {
		rv := ResultView{Component: r.ID, Function: r.Function, Outputs: make(map[string][]ctyjson.SimpleJSONValue)}
		for _, m := range r.Messages {
			rv.Messages = append(rv.Messages, MessageView{Severity: m.Severity.String(), Text: m.Text})
		}
		for _, o := range r.Outputs {
			vs := make([]ctyjson.SimpleJSONValue, 0, len(o.Values))
			for _, v := range o.Values {
				vs = append(vs, ctyjson.SimpleJSONValue{Value: v})
			}
			rv.Outputs[o.Name] = vs
		}
		out.Results = append(out.Results, rv)
	}
	b.emit(EventSolved, out)
	return nil
}

// View describes the current parameter layout of a node.
func View(n *session.Node) ComponentView {
	c := n.Component()
	v := ComponentView{Component: n.ID, Function: n.Function, Inputs: []ParamView{}, Outputs: []ParamView{}}
	for _, p := range c.Inputs() {
		v.Inputs = append(v.Inputs, ParamView{Key: p.Key, Name: p.Name, Type: p.TypeName, Access: p.Access.String(), Optional: p.Optional})
	}
	for _, p := range c.Outputs() {
		v.Outputs = append(v.Outputs, ParamView{Key: p.Key, Name: p.Name, Type: p.TypeName, Access: p.Access.String()})
	}
	if vf, ok := n.Variable(); ok {
		v.Mode = vf.Mode()
		for _, o := range vf.Options() {
			v.Options = append(v.Options, OptionView{Label: o.Label(), Entries: o.Entries(), Selected: o.Selected()})
		}
	}
	return v
}
