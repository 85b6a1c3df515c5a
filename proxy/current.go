package proxy

import "github.com/kbukum/aopkit/gls"

// currentProxy holds the proxy reference for the innermost in-flight
// expose-proxy call on each goroutine.
var currentProxy = gls.NewSlot()

// CurrentProxy returns the proxy handling the innermost in-flight call on
// this goroutine, when that proxy was built with ExposeProxy. Target and
// advice code use it to reach their own proxy instead of the raw target.
func CurrentProxy() (*Proxy, bool) {
	v, ok := currentProxy.Get()
	if !ok {
		return nil, false
	}
	return v.(*Proxy), true
}
