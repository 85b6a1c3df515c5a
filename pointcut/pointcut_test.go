package pointcut

import (
	"reflect"
	"testing"
)

type greeter interface {
	Hello(name string) string
	SetName(name string)
	GetName() string
}

var greeterType = reflect.TypeOf((*greeter)(nil)).Elem()

func methodByName(t *testing.T, typ reflect.Type, name string) reflect.Method {
	t.Helper()
	m, ok := typ.MethodByName(name)
	if !ok {
		t.Fatalf("method %s not found on %s", name, typ)
	}
	return m
}

func TestTrue_MatchesEverything(t *testing.T) {
	if !True.TypeFilter().Matches(greeterType) {
		t.Error("True type filter should match any type")
	}
	m := methodByName(t, greeterType, "Hello")
	if !True.MethodMatcher().Matches(m, greeterType) {
		t.Error("True method matcher should match any method")
	}
	if True.MethodMatcher().IsRuntime() {
		t.Error("True matcher must be static")
	}
}

func TestStaticMatcher_MatchesArgsPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic from MatchesArgs on a static matcher")
		}
	}()
	m := methodByName(t, greeterType, "Hello")
	True.MethodMatcher().MatchesArgs(m, greeterType, nil)
}

func TestNameMatch_Exact(t *testing.T) {
	pc := NewNameMatch("Hello")
	hello := methodByName(t, greeterType, "Hello")
	setName := methodByName(t, greeterType, "SetName")

	if !pc.Matches(hello, greeterType) {
		t.Error("expected Hello to match")
	}
	if pc.Matches(setName, greeterType) {
		t.Error("expected SetName not to match")
	}
}

func TestNameMatch_Wildcards(t *testing.T) {
	cases := []struct {
		pattern string
		method  string
		want    bool
	}{
		{"Get*", "GetName", true},
		{"Get*", "SetName", false},
		{"*Name", "SetName", true},
		{"*Name", "Hello", false},
		{"*", "Hello", true},
		{"*et*", "GetName", true},
		{"*et*", "Hello", false},
	}
	for _, tc := range cases {
		pc := NewNameMatch(tc.pattern)
		m := methodByName(t, greeterType, tc.method)
		if got := pc.Matches(m, greeterType); got != tc.want {
			t.Errorf("pattern %q vs %s: got %v, want %v", tc.pattern, tc.method, got, tc.want)
		}
	}
}

func TestNameMatch_Equals(t *testing.T) {
	a := NewNameMatch("Hello", "GetName")
	b := NewNameMatch("GetName", "Hello")
	c := NewNameMatch("Hello")

	if !a.Equals(b) {
		t.Error("expected order-insensitive equality")
	}
	if a.Equals(c) {
		t.Error("expected different name sets to differ")
	}
	if a.Equals(True) {
		t.Error("expected different pointcut kinds to differ")
	}
}

func TestRegexp_Matches(t *testing.T) {
	pc, err := NewRegexp(`\.Get\w+$`)
	if err != nil {
		t.Fatalf("NewRegexp failed: %v", err)
	}
	getName := methodByName(t, greeterType, "GetName")
	hello := methodByName(t, greeterType, "Hello")

	if !pc.Matches(getName, greeterType) {
		t.Error("expected GetName to match")
	}
	if pc.Matches(hello, greeterType) {
		t.Error("expected Hello not to match")
	}
}

func TestRegexp_InvalidPattern(t *testing.T) {
	if _, err := NewRegexp(`([`); err == nil {
		t.Error("expected compile error for invalid pattern")
	}
}

func TestRegexp_Equals(t *testing.T) {
	a, _ := NewRegexp(`^Get`, `^Set`)
	b, _ := NewRegexp(`^Get`, `^Set`)
	c, _ := NewRegexp(`^Get`)

	if !a.Equals(b) {
		t.Error("expected equal pattern lists to be equal")
	}
	if a.Equals(c) {
		t.Error("expected different pattern lists to differ")
	}
}

func TestExpression_Matches(t *testing.T) {
	pc, err := NewExpression(`Method startsWith "Get" && NumOut == 1`)
	if err != nil {
		t.Fatalf("NewExpression failed: %v", err)
	}
	getName := methodByName(t, greeterType, "GetName")
	setName := methodByName(t, greeterType, "SetName")

	if !pc.Matches(getName, greeterType) {
		t.Error("expected GetName to match")
	}
	if pc.Matches(setName, greeterType) {
		t.Error("expected SetName not to match")
	}
}

func TestExpression_NumIn(t *testing.T) {
	pc, err := NewExpression(`NumIn == 1`)
	if err != nil {
		t.Fatalf("NewExpression failed: %v", err)
	}
	hello := methodByName(t, greeterType, "Hello")
	getName := methodByName(t, greeterType, "GetName")

	if !pc.Matches(hello, greeterType) {
		t.Error("expected Hello (one parameter) to match")
	}
	if pc.Matches(getName, greeterType) {
		t.Error("expected GetName (no parameters) not to match")
	}
}

type greeterImpl struct{}

func (greeterImpl) Hello(name string) string { return name }
func (greeterImpl) SetName(name string)      {}
func (greeterImpl) GetName() string          { return "" }

func TestExpression_NumInAcrossMethodSources(t *testing.T) {
	pc, err := NewExpression(`NumIn == 1`)
	if err != nil {
		t.Fatalf("NewExpression failed: %v", err)
	}
	concreteType := reflect.TypeOf(greeterImpl{})
	ifaceHello := methodByName(t, greeterType, "Hello")
	concreteHello := methodByName(t, concreteType, "Hello")

	// Interface-sourced methods carry no receiver in their signature,
	// concrete-type methods do. Both views of the same method must
	// report the same parameter count, whatever type they are matched
	// against.
	if !pc.Matches(concreteHello, concreteType) {
		t.Error("expected concrete Hello to count one parameter")
	}
	if !pc.Matches(ifaceHello, concreteType) {
		t.Error("expected interface-declared Hello matched against the concrete type to count one parameter")
	}
	if !pc.Matches(ifaceHello, greeterType) {
		t.Error("expected interface-declared Hello matched against the interface to count one parameter")
	}
}

func TestExpression_CompileError(t *testing.T) {
	if _, err := NewExpression(`Method startswith`); err == nil {
		t.Error("expected compile error to surface at construction")
	}
}

func TestExpression_Equals(t *testing.T) {
	a, _ := NewExpression(`Method == "Hello"`)
	b, _ := NewExpression(`Method == "Hello"`)
	c, _ := NewExpression(`Method == "GetName"`)

	if !a.Equals(b) {
		t.Error("expected same source to be equal")
	}
	if a.Equals(c) {
		t.Error("expected different sources to differ")
	}
}

func TestEqual_Fallback(t *testing.T) {
	a := New(TrueTypeFilter, TrueMethodMatcher)
	b := New(TrueTypeFilter, TrueMethodMatcher)
	if !Equal(a, b) {
		t.Error("expected deep-equal fallback to hold")
	}
	if !Equal(True, True) {
		t.Error("expected True to equal itself")
	}
	if Equal(True, NewNameMatch("X")) {
		t.Error("expected distinct pointcuts to differ")
	}
	if !Equal(nil, nil) {
		t.Error("expected nil pointcuts to be equal")
	}
}

type runtimeMatcher struct {
	argValue any
}

func (r runtimeMatcher) Matches(reflect.Method, reflect.Type) bool { return true }
func (r runtimeMatcher) IsRuntime() bool                           { return true }
func (r runtimeMatcher) MatchesArgs(m reflect.Method, t reflect.Type, args []any) bool {
	return len(args) > 0 && args[0] == r.argValue
}

func TestUnionMethodMatcher_Runtime(t *testing.T) {
	union := UnionMethodMatcher(runtimeMatcher{argValue: "yes"}, NewNameMatch("Never"))
	if !union.IsRuntime() {
		t.Fatal("union with a runtime member must be runtime")
	}
	m := methodByName(t, greeterType, "Hello")
	if !union.MatchesArgs(m, greeterType, []any{"yes"}) {
		t.Error("expected runtime member to match args")
	}
	if union.MatchesArgs(m, greeterType, []any{"no"}) {
		t.Error("expected no member to match")
	}
}

func TestIntersectionMethodMatcher(t *testing.T) {
	inter := IntersectionMethodMatcher(NewNameMatch("Get*"), NewNameMatch("*Name"))
	getName := methodByName(t, greeterType, "GetName")
	setName := methodByName(t, greeterType, "SetName")

	if !inter.Matches(getName, greeterType) {
		t.Error("expected GetName to satisfy both members")
	}
	if inter.Matches(setName, greeterType) {
		t.Error("expected SetName to fail the Get* member")
	}
	if inter.IsRuntime() {
		t.Error("intersection of static members must be static")
	}
}

func TestUnionAndIntersectionPointcuts(t *testing.T) {
	hello := methodByName(t, greeterType, "Hello")
	getName := methodByName(t, greeterType, "GetName")

	u := Union(NewNameMatch("Hello"), NewNameMatch("GetName"))
	if !u.MethodMatcher().Matches(hello, greeterType) || !u.MethodMatcher().Matches(getName, greeterType) {
		t.Error("expected union to match both methods")
	}

	i := Intersection(NewNameMatch("Hello"), NewNameMatch("GetName"))
	if i.MethodMatcher().Matches(hello, greeterType) {
		t.Error("expected intersection to match neither method")
	}
}
