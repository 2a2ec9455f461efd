// Package errors provides the structured error type reported by the SDK.
//
// Three kinds cover the whole taxonomy: generic host-call failures and
// protocol misuse, byte sequences that are not valid text, and text that
// does not encode an integer. All kinds share one message/cause contract
// so callers can treat them uniformly; origin detail lives in the message.
package errors
