// Package proxy builds interception proxies.
//
// An AdvisedSupport carries the target source, the declared interfaces,
// the ordered advisor list, and the proxying flags. A Factory consumes it
// and produces a Proxy handle whose method calls run the applicable
// interceptor chain before reaching the real target.
//
// Dispatch strategy is decided once per method at build time: methods
// with no advice on a frozen configuration dispatch straight to the
// target, frozen configurations over a static target get pre-baked
// per-method chains, and everything else resolves its chain per call.
// On every path a result that is the raw target is substituted with the
// proxy reference, so self-returning methods keep callers inside the
// proxy.
package proxy
