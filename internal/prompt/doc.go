// Package prompt collects credentials from the user.
//
// A Spec lists the fields to ask for; a Prompter returns one answer per field
// or fails. Terminal is the interactive implementation built on readline,
// Scripted replays fixed answers, and Coalesce merges overlapping prompts.
package prompt
