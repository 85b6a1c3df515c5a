package container

import (
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/kbukum/aopkit/advisor"
	"github.com/kbukum/aopkit/errors"
	"github.com/kbukum/aopkit/logger"
)

// Constructor builds an advisor on first resolution.
type Constructor func() (*advisor.Advisor, error)

// registration holds one named advisor entry.
type registration struct {
	name        string
	constructor Constructor
	mu          sync.Mutex
	instance    *advisor.Advisor
	initialized bool
}

// Pool is a named advisor pool.
type Pool struct {
	mu            sync.RWMutex
	registrations map[string]*registration
	order         []string

	// cachedNames holds the discovered name list. It is computed at most
	// once; racing first computations write the same value.
	cachedNames atomic.Pointer[[]string]

	// inCreation tracks names whose constructors are currently running.
	creationMu sync.Mutex
	inCreation map[string]bool

	// Eligible decides per-name whether a candidate takes part in
	// retrieval. Nil means every name is eligible.
	Eligible func(name string) bool

	// ExtendAdvisors runs after matching and before sorting, letting
	// collaborators append advisors to the applicable list.
	ExtendAdvisors func(applicable []*advisor.Advisor) []*advisor.Advisor

	log *logger.Logger
}

// NewPool creates an empty advisor pool.
func NewPool() *Pool {
	return &Pool{
		registrations: make(map[string]*registration),
		inCreation:    make(map[string]bool),
		log:           logger.Get("container"),
	}
}

// Register adds a lazily-constructed advisor under the given name.
func (p *Pool) Register(name string, ctor Constructor) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, exists := p.registrations[name]; exists {
		return errors.Config("advisor name already registered").WithDetail("advisor", name)
	}
	p.registrations[name] = &registration{name: name, constructor: ctor}
	p.order = append(p.order, name)
	return nil
}

// RegisterInstance adds a prebuilt advisor under the given name.
func (p *Pool) RegisterInstance(name string, a *advisor.Advisor) error {
	return p.Register(name, func() (*advisor.Advisor, error) { return a, nil })
}

// AdvisorNames returns the discovered advisor names in registration
// order. The list is computed once and cached for the life of the pool;
// names registered afterwards are not discovered.
func (p *Pool) AdvisorNames() []string {
	if cached := p.cachedNames.Load(); cached != nil {
		return *cached
	}
	p.mu.RLock()
	names := make([]string, len(p.order))
	copy(names, p.order)
	p.mu.RUnlock()
	p.cachedNames.Store(&names)
	return names
}

// Resolve returns the named advisor, constructing it on first use.
// Resolving a name whose constructor is already running on any goroutine
// fails with an ADVISOR_IN_CREATION error, which retrieval treats as
// "temporarily not eligible" rather than a hard failure.
func (p *Pool) Resolve(name string) (*advisor.Advisor, error) {
	p.mu.RLock()
	reg, ok := p.registrations[name]
	p.mu.RUnlock()
	if !ok {
		return nil, errors.NotRegistered(name)
	}

	reg.mu.Lock()
	if reg.initialized {
		instance := reg.instance
		reg.mu.Unlock()
		return instance, nil
	}
	ctor := reg.constructor
	reg.mu.Unlock()

	// The in-creation mark, not the registration lock, guards
	// construction: the constructor must run with reg.mu released so a
	// constructor that re-enters Resolve for a name already being built
	// reaches this check and reports the cycle instead of deadlocking.
	if !p.markInCreation(name) {
		return nil, errors.InCreation(name)
	}
	defer p.unmarkInCreation(name)

	instance, err := ctor()
	if err != nil {
		return nil, err
	}
	if instance == nil {
		return nil, errors.Config("advisor constructor returned nil").WithDetail("advisor", name)
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()
	if !reg.initialized {
		reg.instance = instance
		reg.initialized = true
	}
	return reg.instance, nil
}

// IsInCreation reports whether the named advisor's constructor is
// currently running.
func (p *Pool) IsInCreation(name string) bool {
	p.creationMu.Lock()
	defer p.creationMu.Unlock()
	return p.inCreation[name]
}

func (p *Pool) markInCreation(name string) bool {
	p.creationMu.Lock()
	defer p.creationMu.Unlock()
	if p.inCreation[name] {
		return false
	}
	p.inCreation[name] = true
	return true
}

func (p *Pool) unmarkInCreation(name string) {
	p.creationMu.Lock()
	defer p.creationMu.Unlock()
	delete(p.inCreation, name)
}

// FindEligibleAdvisors returns the sorted, de-duplicated advisors that
// can apply to targetType. Candidates currently under construction are
// skipped; a candidate whose constructor fails because it depends on a
// name in creation is skipped silently; any other construction failure
// propagates.
func (p *Pool) FindEligibleAdvisors(targetType reflect.Type, targetName string) ([]*advisor.Advisor, error) {
	names := p.AdvisorNames()
	candidates := make([]*advisor.Advisor, 0, len(names))
	seen := make(map[*advisor.Advisor]bool, len(names))

	for _, name := range names {
		if p.IsInCreation(name) {
			p.log.Debug("skipping advisor currently in creation",
				logger.Fields(logger.FieldAdvisor, name))
			continue
		}
		if p.Eligible != nil && !p.Eligible(name) {
			continue
		}
		a, err := p.Resolve(name)
		if err != nil {
			if errors.IsCode(err, errors.ErrCodeInCreation) {
				p.log.Debug("skipping advisor with unresolvable creation cycle",
					logger.Fields(logger.FieldAdvisor, name, logger.FieldError, err.Error()))
				continue
			}
			return nil, err
		}
		if seen[a] {
			continue
		}
		seen[a] = true
		candidates = append(candidates, a)
	}

	applicable := advisor.FindApplicable(candidates, targetType, targetName)
	if p.ExtendAdvisors != nil {
		applicable = p.ExtendAdvisors(applicable)
	}
	return advisor.Sort(applicable), nil
}
