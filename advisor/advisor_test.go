package advisor

import (
	"reflect"
	"testing"

	"github.com/kbukum/aopkit/advice"
	"github.com/kbukum/aopkit/pointcut"
)

type greeter interface {
	Hello(name string) string
	GetName() string
}

var greeterType = reflect.TypeOf((*greeter)(nil)).Elem()

type noopInterceptor struct{ order int }

func (n *noopInterceptor) Invoke(inv advice.Invocation) ([]any, error) { return inv.Proceed() }
func (n *noopInterceptor) Order() int                                  { return n.order }

type plainInterceptor struct{}

func (plainInterceptor) Invoke(inv advice.Invocation) ([]any, error) { return inv.Proceed() }

func TestNew_Defaults(t *testing.T) {
	a := New(nil, plainInterceptor{})
	if a.Pointcut() != pointcut.True {
		t.Error("expected nil pointcut to default to True")
	}
	if _, ok := a.Order(); ok {
		t.Error("expected no declared order")
	}
	if a.IsIntroduction() {
		t.Error("expected no introduction")
	}
}

func TestAdvisor_OrderFromAdvice(t *testing.T) {
	a := New(nil, &noopInterceptor{order: 7})
	order, ok := a.Order()
	if !ok || order != 7 {
		t.Errorf("expected order 7 from advice, got %d (ok=%v)", order, ok)
	}
}

func TestAdvisor_ExplicitOrderWins(t *testing.T) {
	a := New(nil, &noopInterceptor{order: 7}, WithOrder(2))
	order, ok := a.Order()
	if !ok || order != 2 {
		t.Errorf("expected explicit order 2, got %d (ok=%v)", order, ok)
	}
}

func TestWithIntroducedInterfaces_RejectsNonInterface(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for non-interface introduction")
		}
	}()
	New(nil, plainInterceptor{}, WithIntroducedInterfaces(reflect.TypeOf(0)))
}

func TestSort_OrderedBeforeUnordered(t *testing.T) {
	u1 := New(nil, plainInterceptor{}, WithName("u1"))
	u2 := New(nil, plainInterceptor{}, WithName("u2"))
	o5 := New(nil, plainInterceptor{}, WithName("o5"), WithOrder(5))
	o1 := New(nil, plainInterceptor{}, WithName("o1"), WithOrder(1))

	sorted := Sort([]*Advisor{u1, o5, u2, o1})

	names := make([]string, len(sorted))
	for i, a := range sorted {
		names[i] = a.Name()
	}
	want := []string{"o1", "o5", "u1", "u2"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, names)
		}
	}
}

func TestSort_StableForEqualOrders(t *testing.T) {
	a := New(nil, plainInterceptor{}, WithName("a"), WithOrder(3))
	b := New(nil, plainInterceptor{}, WithName("b"), WithOrder(3))
	sorted := Sort([]*Advisor{a, b})
	if sorted[0].Name() != "a" || sorted[1].Name() != "b" {
		t.Error("expected equal orders to keep discovery order")
	}
}

func TestSort_DoesNotModifyInput(t *testing.T) {
	o2 := New(nil, plainInterceptor{}, WithOrder(2))
	o1 := New(nil, plainInterceptor{}, WithOrder(1))
	in := []*Advisor{o2, o1}
	Sort(in)
	if in[0] != o2 {
		t.Error("expected input slice untouched")
	}
}

func TestFindApplicable_TypeFilterRejects(t *testing.T) {
	never := pointcut.New(pointcut.TypeFilterFunc(func(reflect.Type) bool { return false }), nil)
	a := New(never, plainInterceptor{})

	got := FindApplicable([]*Advisor{a}, greeterType, "greeter")
	if len(got) != 0 {
		t.Errorf("expected type-filter rejection, got %d advisors", len(got))
	}
}

func TestFindApplicable_MethodMatch(t *testing.T) {
	hello := New(pointcut.NewNameMatch("Hello"), plainInterceptor{})
	nothing := New(pointcut.NewNameMatch("Missing"), plainInterceptor{})

	got := FindApplicable([]*Advisor{hello, nothing}, greeterType, "greeter")
	if len(got) != 1 || got[0] != hello {
		t.Errorf("expected only the Hello advisor, got %d", len(got))
	}
}

type runtimeMatcher struct{}

func (runtimeMatcher) Matches(reflect.Method, reflect.Type) bool { return false }
func (runtimeMatcher) IsRuntime() bool                           { return true }
func (runtimeMatcher) MatchesArgs(m reflect.Method, t reflect.Type, args []any) bool {
	return false
}

func TestFindApplicable_RuntimeMatcherKept(t *testing.T) {
	rt := New(pointcut.New(nil, runtimeMatcher{}), plainInterceptor{})
	got := FindApplicable([]*Advisor{rt}, greeterType, "greeter")
	if len(got) != 1 {
		t.Error("expected runtime-matcher advisor to be kept unconditionally")
	}
}

func TestFindApplicable_IntroductionKeptOnTypeMatch(t *testing.T) {
	extra := reflect.TypeOf((*interface{ Extra() })(nil)).Elem()
	intro := New(pointcut.NewNameMatch("Missing"), plainInterceptor{}, WithIntroducedInterfaces(extra))

	got := FindApplicable([]*Advisor{intro}, greeterType, "greeter")
	if len(got) != 1 {
		t.Error("expected introduction advisor kept on type-filter match alone")
	}
}

func TestFindApplicable_Idempotent(t *testing.T) {
	candidates := []*Advisor{
		New(pointcut.NewNameMatch("Hello"), plainInterceptor{}, WithName("h")),
		New(pointcut.NewNameMatch("Get*"), plainInterceptor{}, WithName("g")),
		New(pointcut.NewNameMatch("Missing"), plainInterceptor{}, WithName("m")),
	}

	first := FindApplicable(candidates, greeterType, "greeter")
	second := FindApplicable(candidates, greeterType, "greeter")

	if len(first) != len(second) {
		t.Fatalf("expected identical membership, got %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("expected identical order at %d", i)
		}
	}
}

func TestFindApplicable_PublishesTargetName(t *testing.T) {
	var seen string
	spy := pointcut.New(pointcut.TypeFilterFunc(func(reflect.Type) bool {
		seen, _ = CurrentTargetName()
		return true
	}), nil)

	FindApplicable([]*Advisor{New(spy, plainInterceptor{})}, greeterType, "greeterService")
	if seen != "greeterService" {
		t.Errorf("expected filter to see target name, got %q", seen)
	}
	if _, ok := CurrentTargetName(); ok {
		t.Error("expected target name cleared after matching")
	}
}

func TestFindApplicable_NestedMatchingRestoresName(t *testing.T) {
	inner := pointcut.New(pointcut.TypeFilterFunc(func(reflect.Type) bool {
		name, _ := CurrentTargetName()
		if name != "inner" {
			t.Errorf("expected inner, got %q", name)
		}
		return true
	}), nil)

	outer := pointcut.New(pointcut.TypeFilterFunc(func(reflect.Type) bool {
		FindApplicable([]*Advisor{New(inner, plainInterceptor{})}, greeterType, "inner")
		name, _ := CurrentTargetName()
		if name != "outer" {
			t.Errorf("expected outer restored after nested matching, got %q", name)
		}
		return true
	}), nil)

	FindApplicable([]*Advisor{New(outer, plainInterceptor{})}, greeterType, "outer")
}

func TestFindApplicable_RestoresNameOnPanic(t *testing.T) {
	panicky := pointcut.New(pointcut.TypeFilterFunc(func(reflect.Type) bool {
		panic("filter exploded")
	}), nil)

	func() {
		defer func() { recover() }()
		FindApplicable([]*Advisor{New(panicky, plainInterceptor{})}, greeterType, "doomed")
	}()

	if _, ok := CurrentTargetName(); ok {
		t.Error("expected target name cleared after panic")
	}
}
