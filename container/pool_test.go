package container

import (
	stderrors "errors"
	"reflect"
	"sync"
	"testing"

	"github.com/kbukum/aopkit/advice"
	"github.com/kbukum/aopkit/advisor"
	"github.com/kbukum/aopkit/errors"
	"github.com/kbukum/aopkit/pointcut"
)

type greeter interface {
	Hello(name string) string
}

var greeterType = reflect.TypeOf((*greeter)(nil)).Elem()

type countingInterceptor struct{ calls int }

func (c *countingInterceptor) Invoke(inv advice.Invocation) ([]any, error) {
	c.calls++
	return inv.Proceed()
}

func newTestAdvisor(name string, opts ...advisor.Option) *advisor.Advisor {
	opts = append(opts, advisor.WithName(name))
	return advisor.New(pointcut.True, &countingInterceptor{}, opts...)
}

func TestPool_RegisterAndResolve(t *testing.T) {
	p := NewPool()
	want := newTestAdvisor("audit")
	if err := p.RegisterInstance("audit", want); err != nil {
		t.Fatalf("RegisterInstance failed: %v", err)
	}

	got, err := p.Resolve("audit")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got != want {
		t.Error("expected the registered advisor instance")
	}
}

func TestPool_DuplicateName(t *testing.T) {
	p := NewPool()
	if err := p.RegisterInstance("a", newTestAdvisor("a")); err != nil {
		t.Fatal(err)
	}
	err := p.RegisterInstance("a", newTestAdvisor("a"))
	if !errors.IsCode(err, errors.ErrCodeConfig) {
		t.Errorf("expected CONFIG_INVALID, got %v", err)
	}
}

func TestPool_ResolveUnknown(t *testing.T) {
	p := NewPool()
	_, err := p.Resolve("missing")
	if !errors.IsCode(err, errors.ErrCodeNotRegistered) {
		t.Errorf("expected ADVISOR_NOT_REGISTERED, got %v", err)
	}
}

func TestPool_ConstructorRunsOnce(t *testing.T) {
	p := NewPool()
	built := 0
	p.Register("lazy", func() (*advisor.Advisor, error) {
		built++
		return newTestAdvisor("lazy"), nil
	})

	first, err := p.Resolve("lazy")
	if err != nil {
		t.Fatal(err)
	}
	second, err := p.Resolve("lazy")
	if err != nil {
		t.Fatal(err)
	}
	if built != 1 {
		t.Errorf("expected one construction, got %d", built)
	}
	if first != second {
		t.Error("expected cached instance")
	}
}

func TestPool_SelfReferentialConstructor(t *testing.T) {
	p := NewPool()
	var depErr error
	p.Register("selfish", func() (*advisor.Advisor, error) {
		_, depErr = p.Resolve("selfish")
		if depErr != nil {
			return nil, depErr
		}
		return newTestAdvisor("selfish"), nil
	})

	_, err := p.Resolve("selfish")
	if !errors.IsCode(err, errors.ErrCodeInCreation) {
		t.Errorf("expected ADVISOR_IN_CREATION, got %v", err)
	}
	if !errors.IsCode(depErr, errors.ErrCodeInCreation) {
		t.Errorf("expected inner resolve to see the cycle, got %v", depErr)
	}
}

func TestPool_MutualCycleReportsInCreation(t *testing.T) {
	p := NewPool()
	p.Register("a", func() (*advisor.Advisor, error) {
		if _, err := p.Resolve("b"); err != nil {
			return nil, err
		}
		return newTestAdvisor("a"), nil
	})
	p.Register("b", func() (*advisor.Advisor, error) {
		if _, err := p.Resolve("a"); err != nil {
			return nil, err
		}
		return newTestAdvisor("b"), nil
	})

	_, err := p.Resolve("a")
	if !errors.IsCode(err, errors.ErrCodeInCreation) {
		t.Errorf("expected ADVISOR_IN_CREATION, got %v", err)
	}
}

func TestPool_AdvisorNames_ComputedOnce(t *testing.T) {
	p := NewPool()
	p.RegisterInstance("first", newTestAdvisor("first"))

	names := p.AdvisorNames()
	if len(names) != 1 || names[0] != "first" {
		t.Fatalf("expected [first], got %v", names)
	}

	// Discovery is compute-once: later registrations are not picked up.
	p.RegisterInstance("second", newTestAdvisor("second"))
	names = p.AdvisorNames()
	if len(names) != 1 {
		t.Errorf("expected cached name list, got %v", names)
	}
}

func TestPool_FindEligibleAdvisors_SortsAndFilters(t *testing.T) {
	p := NewPool()
	p.RegisterInstance("late", advisor.New(pointcut.True, &countingInterceptor{},
		advisor.WithName("late"), advisor.WithOrder(10)))
	p.RegisterInstance("early", advisor.New(pointcut.True, &countingInterceptor{},
		advisor.WithName("early"), advisor.WithOrder(1)))
	p.RegisterInstance("nomatch", advisor.New(pointcut.NewNameMatch("Missing"), &countingInterceptor{},
		advisor.WithName("nomatch")))

	got, err := p.FindEligibleAdvisors(greeterType, "greeter")
	if err != nil {
		t.Fatalf("FindEligibleAdvisors failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 advisors, got %d", len(got))
	}
	if got[0].Name() != "early" || got[1].Name() != "late" {
		t.Errorf("expected priority order [early late], got [%s %s]", got[0].Name(), got[1].Name())
	}
}

func TestPool_FindEligibleAdvisors_EligibleHook(t *testing.T) {
	p := NewPool()
	p.RegisterInstance("allowed", newTestAdvisor("allowed"))
	p.RegisterInstance("denied", newTestAdvisor("denied"))
	p.Eligible = func(name string) bool { return name != "denied" }

	got, err := p.FindEligibleAdvisors(greeterType, "greeter")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Name() != "allowed" {
		t.Errorf("expected only the allowed advisor, got %d", len(got))
	}
}

func TestPool_FindEligibleAdvisors_ExtendHook(t *testing.T) {
	p := NewPool()
	p.RegisterInstance("base", newTestAdvisor("base"))
	injected := newTestAdvisor("injected")
	p.ExtendAdvisors = func(applicable []*advisor.Advisor) []*advisor.Advisor {
		return append(applicable, injected)
	}

	got, err := p.FindEligibleAdvisors(greeterType, "greeter")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("expected injected advisor included, got %d", len(got))
	}
}

func TestPool_FindEligibleAdvisors_CycleSkippedSilently(t *testing.T) {
	p := NewPool()
	p.RegisterInstance("fine", newTestAdvisor("fine"))
	p.Register("cyclic", func() (*advisor.Advisor, error) {
		return nil, errors.InCreation("greeterService")
	})

	got, err := p.FindEligibleAdvisors(greeterType, "greeterService")
	if err != nil {
		t.Fatalf("expected cycle to be skipped, got %v", err)
	}
	if len(got) != 1 || got[0].Name() != "fine" {
		t.Errorf("expected only the fine advisor, got %d", len(got))
	}
}

func TestPool_FindEligibleAdvisors_OtherFailuresPropagate(t *testing.T) {
	p := NewPool()
	boom := stderrors.New("constructor exploded")
	p.Register("broken", func() (*advisor.Advisor, error) { return nil, boom })

	_, err := p.FindEligibleAdvisors(greeterType, "greeter")
	if !stderrors.Is(err, boom) {
		t.Errorf("expected constructor failure to propagate, got %v", err)
	}
}

func TestPool_ConcurrentResolve(t *testing.T) {
	p := NewPool()
	built := 0
	var buildMu sync.Mutex
	p.Register("shared", func() (*advisor.Advisor, error) {
		buildMu.Lock()
		built++
		buildMu.Unlock()
		return newTestAdvisor("shared"), nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a, err := p.Resolve("shared")
			if err != nil && !errors.IsCode(err, errors.ErrCodeInCreation) {
				t.Errorf("unexpected error: %v", err)
			}
			_ = a
		}()
	}
	wg.Wait()

	// After the dust settles every resolve must return the cached advisor.
	a, err := p.Resolve("shared")
	if err != nil || a == nil {
		t.Fatalf("expected cached advisor, got %v", err)
	}
	if built == 0 || built > 1 {
		t.Errorf("expected exactly one construction, got %d", built)
	}
}
