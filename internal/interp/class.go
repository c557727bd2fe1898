package interp

// Class is a runtime class: a method table plus an optional
// superclass link walked on lookup miss.
type Class struct {
	Name       string
	Superclass *Class
	Methods    map[string]*Function
}

func (*Class) Kind() Kind       { return KindClass }
func (c *Class) String() string { return c.Name }

// FindMethod looks up name on c, falling through to the superclass
// chain.
func (c *Class) FindMethod(name string) *Function {
	if m, ok := c.Methods[name]; ok {
		return m
	}
	if c.Superclass != nil {
		return c.Superclass.FindMethod(name)
	}
	return nil
}

// Arity is the initializer's arity, or 0 if the class has none.
func (c *Class) Arity() int {
	if init := c.FindMethod("init"); init != nil {
		return init.Arity()
	}
	return 0
}

// Call constructs a new Instance and, if the class (or an ancestor)
// defines `init`, runs it bound to the fresh instance before returning
// it.
func (c *Class) Call(i *Interpreter, args []Value) (Value, error) {
	instance := &Instance{Class: c, Fields: make(map[string]Value)}
	if init := c.FindMethod("init"); init != nil {
		if _, err := init.bind(instance).Call(i, args); err != nil {
			return nil, err
		}
	}
	return instance, nil
}

// Instance is a class instance: identity-equal, with its own field map
// consulted before falling through to the class's method table.
type Instance struct {
	Class  *Class
	Fields map[string]Value
}

func (*Instance) Kind() Kind       { return KindInstance }
func (i *Instance) String() string { return i.Class.Name + " instance" }
