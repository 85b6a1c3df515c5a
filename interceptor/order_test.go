package interceptor

import (
	"testing"

	"github.com/kbukum/aopkit/advisor"
	"github.com/kbukum/aopkit/pointcut"
	"github.com/kbukum/aopkit/resilience"
)

func TestBuiltinsSortIntoDocumentedOrder(t *testing.T) {
	// Registered in reverse; the advisor sort restores the documented
	// chain: recovery outermost, validation innermost.
	advisors := []*advisor.Advisor{
		advisor.New(pointcut.True, NewValidateArgs()),
		advisor.New(pointcut.True, NewRetry(resilience.DefaultRetryPolicy())),
		advisor.New(pointcut.True, NewLogging(nil)),
		advisor.New(pointcut.True, NewRecover(nil)),
	}
	sorted := advisor.Sort(advisors)

	wantOrders := []int{OrderRecover, OrderLogging, OrderRetry, OrderValidateArgs}
	for i, adv := range sorted {
		order, ok := adv.Order()
		if !ok {
			t.Fatalf("advisor %d has no order", i)
		}
		if order != wantOrders[i] {
			t.Errorf("position %d has order %d, want %d", i, order, wantOrders[i])
		}
	}
}

func TestExplicitOrderBeatsBuiltin(t *testing.T) {
	adv := advisor.New(pointcut.True, NewLogging(nil), advisor.WithOrder(5))
	order, ok := adv.Order()
	if !ok || order != 5 {
		t.Errorf("Order = %d, %v; want explicit 5", order, ok)
	}
}
