// Package core holds small numeric helpers shared by the filter designers,
// the dynamic equalizer and the command-line tool.
package core
