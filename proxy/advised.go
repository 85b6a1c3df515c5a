package proxy

import (
	"reflect"
	"sync"

	"github.com/kbukum/aopkit/advice"
	"github.com/kbukum/aopkit/advisor"
	"github.com/kbukum/aopkit/config"
	"github.com/kbukum/aopkit/errors"
	"github.com/kbukum/aopkit/pointcut"
)

// Advised is the control surface every non-opaque proxy exposes. It lets
// callers inspect and, while the configuration is not frozen, mutate the
// advice applied to the proxy they hold.
type Advised interface {
	Advisors() []*advisor.Advisor
	AddAdvisor(a *advisor.Advisor) error
	AddAdvisorAt(index int, a *advisor.Advisor) error
	AddAdvice(adv advice.Advice) error
	RemoveAdvisorAt(index int) error
	ReplaceAdvisor(old, replacement *advisor.Advisor) (bool, error)
	TargetSource() TargetSource
	Interfaces() []reflect.Type
	IsFrozen() bool
	IsExposeProxy() bool
	IsOptimize() bool
	IsOpaque() bool
	IsProxyTargetType() bool
	IsPreFiltered() bool
}

// RawTargetAccess marks interfaces whose methods deliberately hand out
// the raw target. Results of such methods are exempt from self-return
// substitution.
type RawTargetAccess interface {
	RawTargetAccess()
}

// AdvisedSupport is the mutable proxy configuration: flags, target
// source, declared interfaces and the ordered advisor list. It is safe
// for concurrent use. Once frozen, all mutating operations fail with a
// frozen-configuration error.
type AdvisedSupport struct {
	mu sync.RWMutex

	targetSource    TargetSource
	interfaces      []reflect.Type
	advisors        []*advisor.Advisor
	adapters        *advice.AdapterRegistry
	frozen          bool
	exposeProxy     bool
	optimize        bool
	opaque          bool
	proxyTargetType bool
	preFiltered     bool

	chainCache map[string][]advice.Interceptor
}

// NewAdvisedSupport returns an empty configuration with the default
// advice adapter registry and no target.
func NewAdvisedSupport() *AdvisedSupport {
	return &AdvisedSupport{
		targetSource: EmptyTargetSource,
		adapters:     advice.DefaultAdapterRegistry,
		chainCache:   make(map[string][]advice.Interceptor),
	}
}

// ApplyDefaults copies the proxying flags from loaded settings.
func (a *AdvisedSupport) ApplyDefaults(defaults config.ProxyDefaults) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.frozen = defaults.Frozen
	a.exposeProxy = defaults.ExposeProxy
	a.optimize = defaults.Optimize
	a.opaque = defaults.Opaque
	a.proxyTargetType = defaults.ProxyTargetType
}

// SetTarget wraps the given instance in a static target source.
func (a *AdvisedSupport) SetTarget(target any) error {
	return a.SetTargetSource(NewStaticTargetSource(target))
}

// SetTargetSource replaces the target source.
func (a *AdvisedSupport) SetTargetSource(ts TargetSource) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.frozen {
		return errors.Frozen("cannot replace target source")
	}
	if ts == nil {
		ts = EmptyTargetSource
	}
	a.targetSource = ts
	a.invalidateLocked()
	return nil
}

func (a *AdvisedSupport) TargetSource() TargetSource {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.targetSource
}

// AddInterface declares an interface the proxy must expose. The target
// is checked against it at build time.
func (a *AdvisedSupport) AddInterface(t reflect.Type) error {
	if t == nil || t.Kind() != reflect.Interface {
		return errors.Config("declared proxy type must be an interface")
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.frozen {
		return errors.Frozen("cannot declare interfaces")
	}
	for _, existing := range a.interfaces {
		if existing == t {
			return nil
		}
	}
	a.interfaces = append(a.interfaces, t)
	a.invalidateLocked()
	return nil
}

func (a *AdvisedSupport) Interfaces() []reflect.Type {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]reflect.Type, len(a.interfaces))
	copy(out, a.interfaces)
	return out
}

func (a *AdvisedSupport) Advisors() []*advisor.Advisor {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]*advisor.Advisor, len(a.advisors))
	copy(out, a.advisors)
	return out
}

// AddAdvisor appends an advisor to the chain.
func (a *AdvisedSupport) AddAdvisor(adv *advisor.Advisor) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.addAdvisorLocked(len(a.advisors), adv)
}

// AddAdvisorAt inserts an advisor at the given position.
func (a *AdvisedSupport) AddAdvisorAt(index int, adv *advisor.Advisor) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.addAdvisorLocked(index, adv)
}

func (a *AdvisedSupport) addAdvisorLocked(index int, adv *advisor.Advisor) error {
	if a.frozen {
		return errors.Frozen("cannot add advisor")
	}
	if adv == nil {
		return errors.Config("advisor must not be nil")
	}
	if index < 0 || index > len(a.advisors) {
		return errors.Validation("advisor index out of range").
			WithDetail("index", index).
			WithDetail("size", len(a.advisors))
	}
	a.advisors = append(a.advisors, nil)
	copy(a.advisors[index+1:], a.advisors[index:])
	a.advisors[index] = adv
	a.invalidateLocked()
	return nil
}

// AddAdvice wraps bare advice in an always-matching advisor and appends
// it.
func (a *AdvisedSupport) AddAdvice(adv advice.Advice) error {
	if adv == nil {
		return errors.Config("advice must not be nil")
	}
	return a.AddAdvisor(advisor.New(pointcut.True, adv))
}

// RemoveAdvisorAt removes the advisor at the given position.
func (a *AdvisedSupport) RemoveAdvisorAt(index int) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.frozen {
		return errors.Frozen("cannot remove advisor")
	}
	if index < 0 || index >= len(a.advisors) {
		return errors.Validation("advisor index out of range").
			WithDetail("index", index).
			WithDetail("size", len(a.advisors))
	}
	a.advisors = append(a.advisors[:index], a.advisors[index+1:]...)
	a.invalidateLocked()
	return nil
}

// ReplaceAdvisor swaps old for replacement in place. It reports whether
// old was present.
func (a *AdvisedSupport) ReplaceAdvisor(old, replacement *advisor.Advisor) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.frozen {
		return false, errors.Frozen("cannot replace advisor")
	}
	if replacement == nil {
		return false, errors.Config("replacement advisor must not be nil")
	}
	for i, existing := range a.advisors {
		if existing == old {
			a.advisors[i] = replacement
			a.invalidateLocked()
			return true, nil
		}
	}
	return false, nil
}

// SetFrozen locks or unlocks the configuration. Freezing is normally a
// one-way door taken before building the proxy.
func (a *AdvisedSupport) SetFrozen(frozen bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.frozen = frozen
}

// SetExposeProxy controls whether calls publish the proxy reference for
// CurrentProxy.
func (a *AdvisedSupport) SetExposeProxy(expose bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.exposeProxy = expose
}

// SetOptimize marks the configuration as preferring aggressive dispatch
// strategies.
func (a *AdvisedSupport) SetOptimize(optimize bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.optimize = optimize
}

// SetOpaque hides the control surface from proxy method dispatch.
func (a *AdvisedSupport) SetOpaque(opaque bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.opaque = opaque
}

// SetProxyTargetType exposes the target's full exported method set
// rather than only the declared interfaces.
func (a *AdvisedSupport) SetProxyTargetType(proxyTargetType bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.proxyTargetType = proxyTargetType
}

// SetPreFiltered records that the advisor list was already narrowed to
// this target's type, so per-method matching may skip type filters.
func (a *AdvisedSupport) SetPreFiltered(preFiltered bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.preFiltered = preFiltered
}

func (a *AdvisedSupport) IsFrozen() bool { a.mu.RLock(); defer a.mu.RUnlock(); return a.frozen }
func (a *AdvisedSupport) IsExposeProxy() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.exposeProxy
}
func (a *AdvisedSupport) IsOptimize() bool { a.mu.RLock(); defer a.mu.RUnlock(); return a.optimize }
func (a *AdvisedSupport) IsOpaque() bool   { a.mu.RLock(); defer a.mu.RUnlock(); return a.opaque }
func (a *AdvisedSupport) IsProxyTargetType() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.proxyTargetType
}
func (a *AdvisedSupport) IsPreFiltered() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.preFiltered
}

// CopyFrom replaces this configuration with a snapshot of other: flags,
// target source, declared interfaces and advisors. Cached per-method
// chains are rebuilt on demand. Fails when the receiver is frozen.
func (a *AdvisedSupport) CopyFrom(other *AdvisedSupport) error {
	if other == nil {
		return errors.Config("source configuration must not be nil")
	}
	other.mu.RLock()
	targetSource := other.targetSource
	interfaces := make([]reflect.Type, len(other.interfaces))
	copy(interfaces, other.interfaces)
	advisors := make([]*advisor.Advisor, len(other.advisors))
	copy(advisors, other.advisors)
	frozen := other.frozen
	exposeProxy := other.exposeProxy
	optimize := other.optimize
	opaque := other.opaque
	proxyTargetType := other.proxyTargetType
	preFiltered := other.preFiltered
	other.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.frozen {
		return errors.Frozen("cannot copy into frozen configuration")
	}
	a.targetSource = targetSource
	a.interfaces = interfaces
	a.advisors = advisors
	a.frozen = frozen
	a.exposeProxy = exposeProxy
	a.optimize = optimize
	a.opaque = opaque
	a.proxyTargetType = proxyTargetType
	a.preFiltered = preFiltered
	a.invalidateLocked()
	return nil
}

// adoptTarget swaps in a new target source and folds in extra declared
// interfaces without consulting the frozen guard. Used by the factory
// when it unwraps a proxy handed back as the target.
func (a *AdvisedSupport) adoptTarget(ts TargetSource, extraInterfaces []reflect.Type) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if ts == nil {
		ts = EmptyTargetSource
	}
	a.targetSource = ts
	for _, iface := range extraInterfaces {
		present := false
		for _, existing := range a.interfaces {
			if existing == iface {
				present = true
				break
			}
		}
		if !present {
			a.interfaces = append(a.interfaces, iface)
		}
	}
	a.invalidateLocked()
}

// invalidateLocked drops cached per-method chains after any change that
// can affect matching. Callers hold a.mu.
func (a *AdvisedSupport) invalidateLocked() {
	a.chainCache = make(map[string][]advice.Interceptor)
}

// ChainFor resolves the interceptor chain for a method, caching the
// result until the configuration changes. Dynamic method matchers are
// wrapped so the argument check runs per call.
func (a *AdvisedSupport) ChainFor(method reflect.Method, targetType reflect.Type) ([]advice.Interceptor, error) {
	key := method.Name
	a.mu.RLock()
	chain, ok := a.chainCache[key]
	a.mu.RUnlock()
	if ok {
		return chain, nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if chain, ok := a.chainCache[key]; ok {
		return chain, nil
	}
	chain, err := a.buildChainLocked(method, targetType)
	if err != nil {
		return nil, err
	}
	a.chainCache[key] = chain
	return chain, nil
}

func (a *AdvisedSupport) buildChainLocked(method reflect.Method, targetType reflect.Type) ([]advice.Interceptor, error) {
	var chain []advice.Interceptor
	for _, adv := range a.advisors {
		if adv.IsIntroduction() {
			if !a.preFiltered && targetType != nil && !adv.Pointcut().TypeFilter().Matches(targetType) {
				continue
			}
			if !a.introductionCovers(adv, method) {
				continue
			}
			ics, err := a.adapters.Interceptors(adv.Advice())
			if err != nil {
				return nil, err
			}
			chain = append(chain, ics...)
			continue
		}
		pc := adv.Pointcut()
		if !a.preFiltered && targetType != nil && !pc.TypeFilter().Matches(targetType) {
			continue
		}
		mm := pc.MethodMatcher()
		if !mm.Matches(method, targetType) {
			continue
		}
		ics, err := a.adapters.Interceptors(adv.Advice())
		if err != nil {
			return nil, err
		}
		if mm.IsRuntime() {
			for _, ic := range ics {
				chain = append(chain, &dynamicInterceptor{interceptor: ic, matcher: mm})
			}
		} else {
			chain = append(chain, ics...)
		}
	}
	return chain, nil
}

// introductionCovers reports whether the method belongs to one of the
// advisor's introduced interfaces.
func (a *AdvisedSupport) introductionCovers(adv *advisor.Advisor, method reflect.Method) bool {
	for _, iface := range adv.IntroducedInterfaces() {
		if _, ok := iface.MethodByName(method.Name); ok {
			return true
		}
	}
	return false
}

// HasAdvice reports whether any advisor is registered.
func (a *AdvisedSupport) HasAdvice() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.advisors) > 0
}

// dynamicInterceptor defers a runtime method matcher's argument check to
// call time, skipping its interceptor when the arguments do not match.
type dynamicInterceptor struct {
	interceptor advice.Interceptor
	matcher     pointcut.MethodMatcher
}

func (d *dynamicInterceptor) Invoke(inv advice.Invocation) ([]any, error) {
	if d.matcher.MatchesArgs(inv.Method(), inv.TargetType(), inv.Args()) {
		return d.interceptor.Invoke(inv)
	}
	return inv.Proceed()
}
