// Package callout locates, invokes, and interprets operator-installed
// scripts that validate, react to, and annotate mediated device lifecycle
// actions.
//
// For each lifecycle action the engine runs a pre callout (validation), the
// action itself, a post callout (reaction), and finally a best-effort
// notification broadcast. Scripts are resolved by scanning ordered
// directories and invoking entries in sorted order until one claims the
// event via its exit code: 0 claims with success, 2 declines ("not my
// device type, try the next one"), any other code claims with failure, and
// a signal-terminated script is skipped. The script that claims the pre
// event is remembered for the session so post runs the exact same script
// without rescanning.
//
// Execution is fully synchronous: scripts run one at a time and there are
// no timeouts. A session is private to one Invoke or GetAttributes call.
package callout
