package proxy

import (
	"reflect"
	"sync"

	"github.com/kbukum/aopkit/logger"
)

// validatedTypes remembers target types already checked so the warnings
// fire once per type, not once per proxy.
var (
	validatedMu    sync.Mutex
	validatedTypes = make(map[reflect.Type]bool)
)

// validateTargetType logs advisability warnings for a target type the
// first time it is proxied: exported methods not reachable through any
// declared interface bypass advice entirely, and pointer-receiver
// methods vanish when the target is held by value.
func validateTargetType(targetType reflect.Type, interfaces []reflect.Type, proxyTargetType bool, log *logger.Logger) {
	if targetType == nil {
		return
	}
	validatedMu.Lock()
	seen := validatedTypes[targetType]
	if !seen {
		validatedTypes[targetType] = true
	}
	validatedMu.Unlock()
	if seen {
		return
	}

	if !proxyTargetType {
		for i := 0; i < targetType.NumMethod(); i++ {
			m := targetType.Method(i)
			if m.PkgPath != "" || declaredIn(interfaces, m.Name) {
				continue
			}
			log.Warn("target method not reachable through proxy; direct calls bypass advice", logger.Fields(
				logger.FieldTargetType, targetType.String(),
				logger.FieldMethod, m.Name,
			))
		}
	}

	if targetType.Kind() == reflect.Struct {
		ptr := reflect.PointerTo(targetType)
		for i := 0; i < ptr.NumMethod(); i++ {
			m := ptr.Method(i)
			if m.PkgPath != "" {
				continue
			}
			if _, ok := targetType.MethodByName(m.Name); !ok {
				log.Warn("pointer-receiver method invisible on by-value target", logger.Fields(
					logger.FieldTargetType, targetType.String(),
					logger.FieldMethod, m.Name,
				))
			}
		}
	}
}

func declaredIn(interfaces []reflect.Type, name string) bool {
	for _, iface := range interfaces {
		if _, ok := iface.MethodByName(name); ok {
			return true
		}
	}
	return false
}

// resetValidatedTypes clears the once-per-type warning memory. Test
// hook.
func resetValidatedTypes() {
	validatedMu.Lock()
	validatedTypes = make(map[reflect.Type]bool)
	validatedMu.Unlock()
}
