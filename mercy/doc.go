// Package mercy is the Mercy Machine: a per-agent warning
// state machine plus harm classification. Verdicts are side-effect-free:
// ClassifyHarm returns a HarmVerdict the caller feeds to
// IssueWarning or Dissolve.
//
// Warnings are owned by the Mercy Machine's single-threaded scheduler:
// Machine is not safe for concurrent per-agent mutation from
// multiple goroutines, matching that ownership rule — the Kiln processes
// mercy decisions sequentially within one generation.
package mercy
