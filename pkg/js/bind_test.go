package js_test

import (
	"errors"
	"reflect"
	"testing"
	"unsafe"

	"github.com/google/go-cmp/cmp"
	. "src.tomato.sh/pkg/js"
	. "src.tomato.sh/pkg/js/jstest"
)

type point struct {
	X     int    `json:"x"`
	Label string `json:"label,omitempty"`
	Note  string
	Skip  string `json:"-"`
	priv  int
}

func (p point) Norm1() int { return abs(p.X) }

func abs(i int) int {
	if i < 0 {
		return -i
	}
	return i
}

func bindObj(v any) func(*Context) {
	return func(c *Context) {
		if err := c.Bind("obj", v); err != nil {
			panic(err)
		}
	}
}

func TestBind_Values(t *testing.T) {
	Test(t,
		That("obj").WithSetup(bindObj(nil)).Returns(nil),
		That("obj === null").WithSetup(bindObj(nil)).Returns(true),
		That("obj + 1").WithSetup(bindObj(41)).Returns(42),
		That("obj").WithSetup(bindObj(uint8(7))).Equals("7"),
		That("obj * 2").WithSetup(bindObj(1.25)).Returns(2.5),
		That("obj.toUpperCase()").WithSetup(bindObj("abc")).Returns("ABC"),
		That("!obj").WithSetup(bindObj(false)).Returns(true),
		That("obj.length").WithSetup(bindObj([]int{1, 2, 3})).Returns(3),
		That("obj[1]").WithSetup(bindObj([]string{"a", "b"})).Returns("b"),
		That("obj.key").WithSetup(bindObj(map[string]any{"key": "value"})).Returns("value"),
	)
}

func TestBind_Structs(t *testing.T) {
	p := point{X: -3, Label: "p", Note: "n", Skip: "s", priv: 1}
	Test(t,
		That("obj.x").WithSetup(bindObj(p)).Returns(-3),
		That("obj.label").WithSetup(bindObj(p)).Returns("p"),
		That("obj.note").WithSetup(bindObj(p)).Returns("n"),
		That("obj.Skip").WithSetup(bindObj(p)).Returns(nil),
		That("obj.priv").WithSetup(bindObj(p)).Returns(nil),
		That("obj.norm1()").WithSetup(bindObj(p)).Returns(3),
		That("obj.x").WithSetup(bindObj(&p)).Returns(-3),
	)
}

func TestBind_Functions(t *testing.T) {
	Test(t,
		That("double(21)").
			WithSetup(func(c *Context) { c.Bind("double", func(i int) int { return i * 2 }) }).
			Returns(42),
	)
}

func TestBind_GoValuesComeBackUnchanged(t *testing.T) {
	c := NewContext()
	p := point{X: 1}
	if err := c.Bind("p", p); err != nil {
		t.Fatal(err)
	}
	v, err := c.Run("p")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(p, v, cmp.AllowUnexported(point{})); diff != "" {
		t.Errorf("got (-want +got):\n%s", diff)
	}
}

func TestBind_Overwrites(t *testing.T) {
	Test(t,
		That("obj").WithSetup(func(c *Context) {
			c.Bind("obj", 1)
			c.Bind("obj", 2)
		}).Returns(2),
	)
}

func TestBind_UnsupportedValues(t *testing.T) {
	type withChan struct{ C chan int }
	type withHiddenChan struct{ c chan int }
	tests := []struct {
		name     string
		value    any
		wantType reflect.Type
	}{
		{"chan", make(chan int), reflect.TypeOf(make(chan int))},
		{"complex", 1i, reflect.TypeOf(1i)},
		{"uintptr", uintptr(1), reflect.TypeOf(uintptr(1))},
		{"unsafe.Pointer", unsafe.Pointer(nil), reflect.TypeOf(unsafe.Pointer(nil))},
		{"chan in slice", []any{1, make(chan int)}, reflect.TypeOf(make(chan int))},
		{"chan in map", map[string]any{"c": make(chan int)}, reflect.TypeOf(make(chan int))},
		{"chan in struct", withChan{make(chan int)}, reflect.TypeOf(make(chan int))},
		{"float map key", map[float64]int{}, reflect.TypeOf(map[float64]int{})},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			err := NewContext().Bind("obj", test.value)
			var bindingErr *BindingError
			if !errors.As(err, &bindingErr) {
				t.Fatalf("Bind -> %v, want *BindingError", err)
			}
			if bindingErr.Name != "obj" || bindingErr.Type != test.wantType {
				t.Errorf("got error for %s of type %v, want obj of type %v",
					bindingErr.Name, bindingErr.Type, test.wantType)
			}
		})
	}

	// Unexported fields are not visible in JavaScript, so they don't matter.
	if err := NewContext().Bind("obj", withHiddenChan{make(chan int)}); err != nil {
		t.Errorf("Bind of struct with unexported chan field -> %v", err)
	}
}

func TestBind_CyclicValues(t *testing.T) {
	type node struct{ Next *node }
	n := &node{}
	n.Next = n
	if err := NewContext().Bind("obj", n); err != nil {
		t.Errorf("Bind of cyclic value -> %v", err)
	}

	m := map[string]any{"k": 1}
	m["self"] = m
	TestWithSetup(t, func(c *Context) { c.Bind("m", m) },
		That("m").Returns(map[string]any{"k": 1, "self": Circular}),
	)
}

func TestUnbind(t *testing.T) {
	c := NewContext()
	c.Bind("obj", 1)
	c.Unbind("obj")
	if _, ok := c.Get("obj"); ok {
		t.Errorf("obj still exists after Unbind")
	}
	// Unbinding a non-existent variable is a no-op.
	c.Unbind("obj")
}

func TestGet(t *testing.T) {
	c := NewContext()
	c.Run("var answer = 42")
	if v, ok := c.Get("answer"); !ok || v != int64(42) {
		t.Errorf("Get(answer) -> (%v, %v), want (42, true)", v, ok)
	}
	if _, ok := c.Get("nothing"); ok {
		t.Errorf("Get(nothing) -> ok")
	}
}
