package doctree

// Kind identifies the variety of a documented entity.
type Kind int

const (
	KindClass Kind = iota
	KindConstructor
	KindInstanceMethod
	KindClassMethod
)

func (k Kind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindConstructor:
		return "constructor"
	case KindInstanceMethod:
		return "instance-method"
	case KindClassMethod:
		return "class-method"
	default:
		return "unknown"
	}
}

// Entity is a documented program element.
type Entity interface {
	Info() *Base
	Kind() Kind
}

// Base holds the fields shared by every entity.
type Base struct {
	Key        string // Fully-qualified key, e.g. "ns.Button#setText"
	Text       string // Accumulated description lines, newline-terminated
	SourceName string
	SourceLine int // 1-based
}

func (b *Base) Info() *Base { return b }

// AppendLine adds one description line.
func (b *Base) AppendLine(line string) {
	b.Text += line + "\n"
}

// Argument is one parameter of a constructor or method.
type Argument struct {
	Name         string
	IsRequired   bool
	Number       int      // Zero-based position, required arguments first
	DefaultValue string   // Empty when no default was declared
	Types        []string // Set by an argument-info line
	Description  string
}

// Signature is the callable part shared by constructors and methods.
type Signature struct {
	ClassKey  string // Owning class key; empty when the owner did not resolve
	Arguments []*Argument
	Returns   []string
}

// Argument returns the argument with the given name.
func (s *Signature) Argument(name string) (*Argument, bool) {
	for _, a := range s.Arguments {
		if a.Name == name {
			return a, true
		}
	}
	return nil, false
}

// Class is a documented class. Children keep declaration order.
type Class struct {
	Base
	Children []Entity
}

func (c *Class) Kind() Kind { return KindClass }

// Constructor returns the class's constructor child, if any.
func (c *Class) Constructor() *Constructor {
	for _, child := range c.Children {
		if ctor, ok := child.(*Constructor); ok {
			return ctor
		}
	}
	return nil
}

// ChildrenOf returns the children of the given kind in order.
func (c *Class) ChildrenOf(kind Kind) []Entity {
	var out []Entity
	for _, child := range c.Children {
		if child.Kind() == kind {
			out = append(out, child)
		}
	}
	return out
}

// Constructor collapses every calling form of a class's constructor.
// Aliases lists each declared form; Aliases[0] is Key.
type Constructor struct {
	Base
	Signature
	Aliases []string
}

func (c *Constructor) Kind() Kind { return KindConstructor }

// AddAlias records another calling form for the same constructor.
func (c *Constructor) AddAlias(key string) {
	c.Aliases = append(c.Aliases, key)
}

// Method is an instance method or, when Static is set, a class method.
type Method struct {
	Base
	Signature
	Static bool
}

func (m *Method) Kind() Kind {
	if m.Static {
		return KindClassMethod
	}
	return KindInstanceMethod
}

// SignatureOf returns the signature of a constructor or method.
func SignatureOf(e Entity) (*Signature, bool) {
	switch v := e.(type) {
	case *Constructor:
		return &v.Signature, true
	case *Method:
		return &v.Signature, true
	}
	return nil, false
}
