package doctree

import "slices"

// DocTree is the result of one parse session: a root list of top-level
// entities plus a flat key index over every entity in the tree.
type DocTree struct {
	Product string   // Display name from the product banner
	Root    []Entity // Top-level entities in declaration order

	index   map[string]Entity
	order   []string
	owners  map[string]*Class // nil owner means Root
	classes map[string]*Class
}

// New returns an empty tree.
func New() *DocTree {
	return &DocTree{
		index:   make(map[string]Entity),
		owners:  make(map[string]*Class),
		classes: make(map[string]*Class),
	}
}

// Len returns the number of indexed entities.
func (t *DocTree) Len() int { return len(t.index) }

// Lookup returns the entity registered under key.
func (t *DocTree) Lookup(key string) (Entity, bool) {
	e, ok := t.index[key]
	return e, ok
}

// Has reports whether key names a known entity.
func (t *DocTree) Has(key string) bool {
	_, ok := t.index[key]
	return ok
}

// Class resolves an owning class by key. Only class entities match.
func (t *DocTree) Class(key string) (*Class, bool) {
	c, ok := t.classes[key]
	return c, ok
}

// Owner returns the class that contains key, or nil for top-level entities.
func (t *DocTree) Owner(key string) *Class {
	return t.owners[key]
}

// Entities returns every indexed entity in first-declaration order.
func (t *DocTree) Entities() []Entity {
	out := make([]Entity, 0, len(t.order))
	for _, k := range t.order {
		out = append(out, t.index[k])
	}
	return out
}

// Attach registers e in the index and appends it to owner's children, or to
// Root when owner is nil. A key that is already registered is replaced in the
// index and in its container so both views stay identical; the replaced
// entity is returned. A class replacing a class inherits its children.
func (t *DocTree) Attach(e Entity, owner *Class) (replaced Entity) {
	key := e.Info().Key
	old, dup := t.index[key]
	if !dup {
		t.order = append(t.order, key)
		t.index[key] = e
		t.owners[key] = owner
		*t.container(owner) = append(*t.container(owner), e)
		t.registerClass(e)
		return nil
	}

	oldOwner := t.owners[key]
	if oldClass, ok := old.(*Class); ok {
		delete(t.classes, key)
		if newClass, ok := e.(*Class); ok {
			newClass.Children = oldClass.Children
			for _, child := range newClass.Children {
				t.owners[child.Info().Key] = newClass
			}
		} else {
			for _, child := range oldClass.Children {
				t.owners[child.Info().Key] = nil
				t.Root = append(t.Root, child)
			}
		}
	}

	t.index[key] = e
	t.owners[key] = owner
	t.registerClass(e)

	if oldOwner == owner {
		c := t.container(owner)
		if i := slices.Index(*c, old); i >= 0 {
			(*c)[i] = e
			return old
		}
	} else {
		c := t.container(oldOwner)
		if i := slices.Index(*c, old); i >= 0 {
			*c = slices.Delete(*c, i, i+1)
		}
	}
	*t.container(owner) = append(*t.container(owner), e)
	return old
}

func (t *DocTree) registerClass(e Entity) {
	if c, ok := e.(*Class); ok {
		t.classes[c.Key] = c
	}
}

func (t *DocTree) container(owner *Class) *[]Entity {
	if owner == nil {
		return &t.Root
	}
	return &owner.Children
}
