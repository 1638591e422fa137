package parser

import (
	"log/slog"

	"github.com/dgallion1/flagdoc/internal/doctree"
)

// builder applies classified lines to a tree. It owns the "current" entity
// that description and argument-info lines attach to.
type builder struct {
	tree    *doctree.DocTree
	current doctree.Entity
	log     *slog.Logger
}

func newBuilder(log *slog.Logger) *builder {
	return &builder{tree: doctree.New(), log: log}
}

// apply mutates the tree for one classified line.
func (b *builder) apply(c Classification, source string, line int) {
	base := doctree.Base{Key: keyOf(c), SourceName: source, SourceLine: line}

	switch c.Kind {
	case LineClass:
		cls := &doctree.Class{Base: base}
		b.attach(cls, nil)
		b.current = cls

	case LineConstructor:
		owner := b.resolveOwner(c.Decl, source, line)
		if owner != nil {
			if ctor := owner.Constructor(); ctor != nil {
				ctor.AddAlias(c.Decl.Key)
				b.current = ctor
				return
			}
		}
		ctor := &doctree.Constructor{
			Base:      base,
			Signature: b.signature(c.Decl, owner),
			Aliases:   []string{c.Decl.Key},
		}
		b.attach(ctor, owner)
		b.current = ctor

	case LineInstanceMethod, LineClassMethod:
		owner := b.resolveOwner(c.Decl, source, line)
		m := &doctree.Method{
			Base:      base,
			Signature: b.signature(c.Decl, owner),
			Static:    c.Kind == LineClassMethod,
		}
		b.attach(m, owner)
		b.current = m

	case LineArgumentInfo:
		if b.current == nil {
			return
		}
		sig, ok := doctree.SignatureOf(b.current)
		if !ok {
			return
		}
		arg, ok := sig.Argument(c.Info.Name)
		if !ok {
			b.log.Debug("argument info for unknown argument",
				"argument", c.Info.Name, "entity", b.current.Info().Key, "source", source, "line", line)
			return
		}
		arg.Types = c.Info.Types
		arg.Description = c.Info.Description

	default:
		if b.current != nil {
			b.current.Info().AppendLine(c.Text)
		}
	}
}

// close ends the current entity so later text is not attributed to it.
func (b *builder) close() {
	b.current = nil
}

func (b *builder) attach(e doctree.Entity, owner *doctree.Class) {
	if old := b.tree.Attach(e, owner); old != nil {
		info := e.Info()
		b.log.Warn("duplicate key replaces earlier declaration",
			"key", info.Key,
			"kind", e.Kind().String(),
			"previous_kind", old.Kind().String(),
			"previous_source", old.Info().SourceName,
			"previous_line", old.Info().SourceLine,
			"source", info.SourceName,
			"line", info.SourceLine,
		)
	}
}

// resolveOwner finds the class a constructor or method belongs to. A miss
// is not an error: the entity is attached to the root list instead.
func (b *builder) resolveOwner(d *Declaration, source string, line int) *doctree.Class {
	if cls, ok := b.tree.Class(d.ClassKey); ok {
		return cls
	}
	b.log.Warn("owning class not found, attaching at top level",
		"key", d.Key, "class", d.ClassKey, "source", source, "line", line)
	return nil
}

func (b *builder) signature(d *Declaration, owner *doctree.Class) doctree.Signature {
	sig := doctree.Signature{Returns: d.Returns}
	if owner != nil {
		sig.ClassKey = owner.Key
	}
	for i, a := range d.Arguments {
		sig.Arguments = append(sig.Arguments, &doctree.Argument{
			Name:         a.Name,
			IsRequired:   a.IsRequired,
			Number:       i,
			DefaultValue: a.DefaultValue,
		})
	}
	return sig
}

func keyOf(c Classification) string {
	if c.Decl == nil {
		return ""
	}
	return c.Decl.Key
}
