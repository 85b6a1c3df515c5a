package proxy

import (
	"reflect"

	"github.com/kbukum/aopkit/errors"
	"github.com/kbukum/aopkit/logger"
)

// identitySurface declares the identity methods every proxy answers
// from its own configuration.
type identitySurface interface {
	Equals(other any) bool
	HashCode() uint64
}

var identityType = reflect.TypeOf((*identitySurface)(nil)).Elem()

// Factory turns a finished AdvisedSupport into a Proxy handle. The
// configuration stays live: a non-frozen proxy sees advisor changes made
// after construction.
type Factory struct {
	cfg *AdvisedSupport
	log *logger.Logger
}

// NewFactory wraps a configuration for proxy creation.
func NewFactory(cfg *AdvisedSupport) *Factory {
	return &Factory{cfg: cfg, log: logger.NewDefault("proxy.factory")}
}

// GetProxy builds the proxy: it validates the configuration, unwraps a
// proxy handed back as the target, computes the exposed method surface
// and decides a dispatch strategy per method. Frozen configurations over
// a static target get their interceptor chains baked in here.
func (f *Factory) GetProxy() (*Proxy, error) {
	cfg := f.cfg
	if cfg == nil {
		return nil, errors.Config("proxy configuration must not be nil")
	}
	ts := cfg.TargetSource()
	if !cfg.HasAdvice() && ts.TargetType() == nil {
		return nil, errors.Config("configuration has no advisors and no target")
	}

	// A proxy given as the target is unwrapped one level so chains do
	// not stack accidentally.
	if ts.IsStatic() {
		if t, _ := ts.Acquire(); t != nil {
			if inner, ok := t.(*Proxy); ok {
				cfg.adoptTarget(inner.cfg.TargetSource(), inner.cfg.Interfaces())
				ts = cfg.TargetSource()
			}
		}
	}

	targetType := ts.TargetType()
	for _, iface := range cfg.Interfaces() {
		if targetType != nil && !targetType.Implements(iface) {
			return nil, errors.Config("target does not implement declared interface").
				WithDetail("target_type", targetType.String()).
				WithDetail("interface", iface.String())
		}
	}
	validateTargetType(targetType, cfg.Interfaces(), cfg.IsProxyTargetType(), f.log)

	surface, err := f.methodSurface(cfg, targetType)
	if err != nil {
		return nil, err
	}
	if len(surface) == 0 {
		name := "<no target>"
		if targetType != nil {
			name = targetType.String()
		}
		return nil, errors.ProxyGeneration(name, "no methods to expose: declare an interface, enable target-type proxying, or add an introduction")
	}

	p := &Proxy{
		cfg:       cfg,
		baseType:  targetType,
		callsites: make(map[string]*callsite, len(surface)+advisedType.NumMethod()+identityType.NumMethod()),
		log:       f.log.WithComponent("proxy"),
	}
	for name, entry := range surface {
		cs, err := decideCallsite(cfg, entry.method, entry.declaredOn, targetType)
		if err != nil {
			return nil, err
		}
		p.callsites[name] = cs
		f.log.Debug("callsite decided", logger.Fields(
			logger.FieldMethod, name,
			logger.FieldCallsite, cs.kind.String(),
		))
	}
	f.addControlSurface(p)
	return p, nil
}

type surfaceEntry struct {
	method     reflect.Method
	declaredOn reflect.Type
}

// methodSurface collects every method the proxy exposes: methods of the
// declared interfaces, methods introduced by introduction advisors, and
// the target's own exported methods when target-type proxying is on.
// The first declaration of a name wins.
func (f *Factory) methodSurface(cfg *AdvisedSupport, targetType reflect.Type) (map[string]surfaceEntry, error) {
	surface := make(map[string]surfaceEntry)
	add := func(m reflect.Method, declaredOn reflect.Type) {
		if _, ok := surface[m.Name]; !ok {
			surface[m.Name] = surfaceEntry{method: m, declaredOn: declaredOn}
		}
	}
	for _, iface := range cfg.Interfaces() {
		for i := 0; i < iface.NumMethod(); i++ {
			add(iface.Method(i), iface)
		}
	}
	for _, adv := range cfg.Advisors() {
		if !adv.IsIntroduction() {
			continue
		}
		for _, iface := range adv.IntroducedInterfaces() {
			for i := 0; i < iface.NumMethod(); i++ {
				add(iface.Method(i), iface)
			}
		}
	}
	if cfg.IsProxyTargetType() && targetType != nil {
		for i := 0; i < targetType.NumMethod(); i++ {
			m := targetType.Method(i)
			if m.PkgPath == "" {
				add(m, targetType)
			}
		}
	}
	return surface, nil
}

// addControlSurface registers the identity methods and, unless the
// configuration is opaque, the Advised control methods. Entries produced
// by the decision table for colliding names already chose these kinds,
// so only missing names are added.
func (f *Factory) addControlSurface(p *Proxy) {
	for i := 0; i < identityType.NumMethod(); i++ {
		m := identityType.Method(i)
		if _, ok := p.callsites[m.Name]; ok {
			continue
		}
		kind := csEquals
		if m.Name == "HashCode" {
			kind = csHashCode
		}
		p.callsites[m.Name] = &callsite{kind: kind, method: m, declaredOn: identityType}
	}
	if p.cfg.IsOpaque() {
		return
	}
	for i := 0; i < advisedType.NumMethod(); i++ {
		m := advisedType.Method(i)
		if _, ok := p.callsites[m.Name]; ok {
			continue
		}
		p.callsites[m.Name] = &callsite{kind: csAdvised, method: m, declaredOn: advisedType}
	}
}
