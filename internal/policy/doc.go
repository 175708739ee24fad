// Package policy implements the structural password-strength classifier:
// a palindrome detector and a character-class complexity analyzer.
//
// Everything in this package is a pure function over the candidate password.
// No state survives a call, so evaluations may run concurrently without
// coordination. Classification is byte/ASCII based by design; bytes outside
// printable ASCII count toward the "other" class, which is treated as
// strengthening rather than penalized.
package policy
