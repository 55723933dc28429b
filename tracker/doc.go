// Package tracker implements object lifetime validation for intercepted API
// calls.
//
// For every call the interception layer invokes, in order:
//
//	out := t.PreCallValidate(call)   // read lock
//	t.Teardown(call)                 // device/instance destruction only
//	t.PreCallRecord(call)            // removes destroyed handles
//	result := next()
//	t.PostCallRecord(call, result)   // inserts created handles
//
// Validation walks the command schema depth-first: every handle field is
// looked up by (value, type), checked against its nullability policy and,
// when a parent identifier is cataloged, against the instance or device
// implied by the first argument. Destroy calls additionally compare the
// allocation callbacks with those used at creation.
//
// Validation and recording are separate critical sections. A handle
// destroyed by another thread between the two is tolerated because removal
// of an absent record is a no-op.
package tracker
