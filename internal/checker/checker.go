// Package checker composes the password gates into one evaluation:
// palindrome detector, structural complexity analyzer, then the dictionary
// oracle. The first rejection wins and ends the evaluation.
package checker

import (
	"log"

	"github.com/vaultline/passguard/internal/directory"
	"github.com/vaultline/passguard/internal/policy"
)

// Oracle is the dictionary-based crackability check the evaluation chain
// ends with.
type Oracle interface {
	Check(password, login, display string) (reason string, found bool)
}

// Result is the outcome of one evaluation plus the login name extracted for
// audit purposes.
type Result struct {
	Verdict policy.Verdict
	Login   string
}

// Checker evaluates candidate passwords. It holds no per-call state, so one
// Checker serves concurrent evaluations.
type Checker struct {
	oracle Oracle
	logger *log.Logger
}

// New creates a Checker. oracle may be nil, in which case the dictionary
// stage is skipped. logger may be nil to use the process-wide default.
func New(oracle Oracle, logger *log.Logger) *Checker {
	return &Checker{oracle: oracle, logger: logger}
}

// Evaluate runs the full gate chain over password. entry may be nil when no
// directory record accompanies the change. A missing login-name attribute is
// logged as a warning but never fails the evaluation.
func (c *Checker) Evaluate(password string, entry *directory.Entry) Result {
	var login string
	if entry != nil {
		hints, found := directory.IdentityHints(entry)
		if !found {
			c.logf("password check: could not find login name in entry")
		}
		login = hints.Login
	}

	// The hints are deliberately not forwarded to the dictionary oracle;
	// only the audit trail sees the login name. See DESIGN.md.
	res := Result{Login: login}

	if policy.IsPalindrome(password) {
		res.Verdict = policy.Reject(policy.RejectPalindrome, policy.ReasonPalindrome)
		c.logReject(login, res.Verdict)
		return res
	}

	if v := policy.Classify(password); !v.OK {
		res.Verdict = v
		c.logReject(login, v)
		return res
	}

	if c.oracle != nil {
		if reason, found := c.oracle.Check(password, "", ""); found {
			res.Verdict = policy.Reject(policy.RejectDictionary, reason)
			c.logReject(login, res.Verdict)
			return res
		}
	}

	res.Verdict = policy.Accept
	return res
}

func (c *Checker) logReject(login string, v policy.Verdict) {
	if login == "" {
		login = "unknown"
	}
	c.logf("user %s attempted to change password to a bad password (%s: %s)", login, v.Kind, v.Reason)
}

func (c *Checker) logf(format string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Printf(format, args...)
		return
	}
	log.Printf(format, args...)
}
